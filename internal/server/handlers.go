package server

import (
	"net/http"

	"github.com/hnrobert/edupulse/internal/accounts"
	"github.com/hnrobert/edupulse/internal/logger"
)

var (
	adminGenerateText = errorText{
		invalid:   "Email and password are required",
		duplicate: "Admin with this email already exists",
	}
	studentRegisterText = errorText{
		invalid:   "Name, email and password are required",
		duplicate: "Student with this email already exists",
	}
	googleLoginText = errorText{invalid: "Email is required"}
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminGenerateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type adminGenerateResponse struct {
	Message string                `json:"message"`
	Admin   accounts.AdminProfile `json:"admin"`
}

type adminLoginResponse struct {
	Message string                `json:"message"`
	Token   string                `json:"token"`
	Admin   accounts.AdminProfile `json:"admin"`
}

type studentRegisterRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	StudentID string `json:"studentId"`
}

type googleLoginRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	GoogleID string `json:"googleId"`
	Picture  string `json:"picture"`
}

type studentSessionResponse struct {
	Message string                  `json:"message"`
	Token   string                  `json:"token"`
	Student accounts.StudentProfile `json:"student"`
}

type meResponse struct {
	ID      int64  `json:"id"`
	Role    string `json:"role"`
	Profile any    `json:"profile"`
}

type settingsResponse struct {
	SchoolName string `json:"schoolName"`
	Notice     string `json:"notice,omitempty"`
	NoticeHTML string `json:"noticeHtml,omitempty"`
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) handleSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := a.store.Load(r.Context())
	if err != nil {
		a.writeError(w, r, err, errorText{})
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{
		SchoolName: doc.Settings.SchoolName,
		Notice:     doc.Settings.Notice,
		NoticeHTML: RenderMarkdown(doc.Settings.Notice),
	})
}

func (a *App) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	profile, err := a.accounts.Profile(r.Context(), claims)
	if err != nil {
		a.writeError(w, r, err, errorText{})
		return
	}
	writeJSON(w, http.StatusOK, meResponse{ID: claims.UserID, Role: claims.Role, Profile: profile})
}

func (a *App) handleAdminGenerate(w http.ResponseWriter, r *http.Request) {
	var req adminGenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err, adminGenerateText)
		return
	}
	profile, err := a.accounts.RegisterAdmin(r.Context(), accounts.AdminRegistration{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		a.writeError(w, r, err, adminGenerateText)
		return
	}
	logger.Info("Admin %s created from %s", profile.Email, remoteIP(r))
	writeJSON(w, http.StatusCreated, adminGenerateResponse{
		Message: "Admin credentials generated successfully",
		Admin:   profile,
	})
}

func (a *App) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err, errorText{})
		return
	}
	sess, err := a.accounts.LoginAdmin(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Info("Failed admin login for %s from %s", req.Email, remoteIP(r))
		a.writeError(w, r, err, errorText{})
		return
	}
	logger.Info("Admin %s logged in from %s", sess.Admin.Email, remoteIP(r))
	writeJSON(w, http.StatusOK, adminLoginResponse{
		Message: "Login successful",
		Token:   sess.Token,
		Admin:   sess.Admin,
	})
}

func (a *App) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	st, err := a.stats.AdminStats(r.Context())
	if err != nil {
		a.writeError(w, r, err, errorText{})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *App) handleStudentRegister(w http.ResponseWriter, r *http.Request) {
	var req studentRegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err, studentRegisterText)
		return
	}
	sess, err := a.accounts.RegisterStudent(r.Context(), accounts.StudentRegistration{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		StudentID: req.StudentID,
	})
	if err != nil {
		a.writeError(w, r, err, studentRegisterText)
		return
	}
	logger.Info("Student %s registered from %s", sess.Student.Email, remoteIP(r))
	writeJSON(w, http.StatusCreated, studentSessionResponse{
		Message: "Registration successful",
		Token:   sess.Token,
		Student: sess.Student,
	})
}

func (a *App) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err, errorText{})
		return
	}
	sess, err := a.accounts.LoginStudent(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Info("Failed student login for %s from %s", req.Email, remoteIP(r))
		a.writeError(w, r, err, errorText{})
		return
	}
	logger.Info("Student %s logged in from %s", sess.Student.Email, remoteIP(r))
	writeJSON(w, http.StatusOK, studentSessionResponse{
		Message: "Login successful",
		Token:   sess.Token,
		Student: sess.Student,
	})
}

func (a *App) handleStudentGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, err, googleLoginText)
		return
	}
	sess, err := a.accounts.FederatedLogin(r.Context(), accounts.FederatedIdentity{
		Email:    req.Email,
		Name:     req.Name,
		GoogleID: req.GoogleID,
		Picture:  req.Picture,
	})
	if err != nil {
		a.writeError(w, r, err, googleLoginText)
		return
	}
	if sess.Created {
		logger.Info("Student %s created via Google login from %s", sess.Student.Email, remoteIP(r))
	}
	writeJSON(w, http.StatusOK, studentSessionResponse{
		Message: "Google login successful",
		Token:   sess.Token,
		Student: sess.Student,
	})
}
