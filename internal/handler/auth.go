package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nayeem/foodjudge/internal/service"
)

// AuthHandler serves the credential endpoints: sign-up and login.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userBody struct {
	Email   string `json:"email"`
	Persona string `json:"persona"`
}

type authResponse struct {
	Msg   string   `json:"msg"`
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /auth/signup  {email, password}
// 201 {msg, token, user:{email, persona}} on success;
// 400 on missing fields or an already-taken email.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid signup body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	result, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Msg:   "Signup success",
		Token: result.Token,
		User:  userBody{Email: result.User.Email, Persona: result.User.Persona},
	})
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /auth/login  {email, password}
// 200 {msg, token, user:{email, persona}} on success;
// 400 on missing fields, unknown email, or wrong password.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Msg:   "Login success",
		Token: result.Token,
		User:  userBody{Email: result.User.Email, Persona: result.User.Persona},
	})
}
