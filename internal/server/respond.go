package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hnrobert/edupulse/internal/accounts"
	"github.com/hnrobert/edupulse/internal/logger"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// decodeJSON reads a JSON object body. An empty body decodes to the zero value
// so missing fields are reported by validation, not as a parse failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errBadBody
	}
	return nil
}

// errorText holds the user-facing wording of the domain errors for one endpoint.
type errorText struct {
	invalid   string
	duplicate string
}

// writeError maps domain errors to status codes. Anything unexpected is a 500
// and is logged with the request id; details never reach the client.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error, text errorText) {
	switch {
	case errors.Is(err, errBadBody):
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
	case errors.Is(err, accounts.ErrPasswordTooLong):
		writeMessage(w, http.StatusBadRequest, "Password must be at most 72 bytes")
	case errors.Is(err, accounts.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, orDefault(text.invalid, "Missing required fields"))
	case errors.Is(err, accounts.ErrDuplicateEmail):
		writeMessage(w, http.StatusBadRequest, orDefault(text.duplicate, "Email already registered"))
	case errors.Is(err, accounts.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, accounts.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Account not found")
	default:
		logger.Error("%s %s req=%s: %v", r.Method, r.URL.Path, requestIDFrom(r), err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
