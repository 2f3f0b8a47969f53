package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hnrobert/edupulse/internal/accounts"
	"github.com/hnrobert/edupulse/internal/auth"
	"github.com/hnrobert/edupulse/internal/stats"
	"github.com/hnrobert/edupulse/internal/store"
)

type App struct {
	accounts   *accounts.Service
	stats      *stats.Reporter
	store      store.Store
	cookieName string
	// statsAdminOnly puts GET /api/admin/stats behind an admin token.
	statsAdminOnly bool
}

type Options struct {
	Accounts       *accounts.Service
	Stats          *stats.Reporter
	Store          store.Store
	StatsAdminOnly bool
}

func NewApp(opts Options) *App {
	return &App{
		accounts:       opts.Accounts,
		stats:          opts.Stats,
		store:          opts.Store,
		cookieName:     auth.DefaultCookieName,
		statsAdminOnly: opts.StatsAdminOnly,
	}
}

func (a *App) Routes() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", a.handleHealthz).Methods(http.MethodGet, http.MethodHead)
	api.HandleFunc("/settings", a.handleSettings).Methods(http.MethodGet)
	api.HandleFunc("/me", a.requireAuth(a.handleMe)).Methods(http.MethodGet)

	api.HandleFunc("/admin/generate", a.handleAdminGenerate).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", a.handleAdminLogin).Methods(http.MethodPost)
	statsHandler := a.handleAdminStats
	if a.statsAdminOnly {
		statsHandler = a.requireAdmin(statsHandler)
	}
	api.HandleFunc("/admin/stats", statsHandler).Methods(http.MethodGet)

	api.HandleFunc("/student/register", a.handleStudentRegister).Methods(http.MethodPost)
	api.HandleFunc("/student/login", a.handleStudentLogin).Methods(http.MethodPost)
	api.HandleFunc("/student/google-login", a.handleStudentGoogleLogin).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return a.withRequestLog(a.withAuthContext(r))
}
