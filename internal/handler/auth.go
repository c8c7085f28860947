package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/auth"
	"github.com/sakif/message-board/internal/service"
)

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	MaxAge time.Duration
	// Secure should be true whenever the service sits behind HTTPS.
	Secure bool
}

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	auth   *service.AuthService
	cookie CookieOptions
	logger *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = auth.DefaultTokenTTL
	}
	return &AuthHandler{
		auth:   svc,
		cookie: cookie,
		logger: logger,
	}
}

// HandleRegister creates an account.
//
// HTTP: POST /register
// BODY: {"username": "alice", "password": "secret1"}
// 200:  {"messages": "Registered as alice"}
// 400:  {"error": "Empty JSON fields"} | {"error": "User already Exists"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, RegisterResponse{
		Messages: fmt.Sprintf("Registered as %s", user.Username),
	})
}

// HandleLogin verifies credentials and starts a session.
//
// HTTP: POST /login
// BODY: {"username": "alice", "password": "secret1"}
// 200:  {"message": "Logged in as alice", "cookie": "<jwt>"} + Set-Cookie: auth=<jwt>
// 400:  {"error": "Wrong username"} | {"error": "Wrong password"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	// HttpOnly keeps the token away from page JavaScript; SameSite=Lax stops
	// it riding along on cross-site POSTs.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, LoginResponse{
		Message: fmt.Sprintf("Logged in as %s", result.User.Username),
		Cookie:  result.Token,
	})
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /logout
//
// Tokens are stateless, so the token itself stays valid until it expires;
// this only removes it from the browser.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out!"})
}

// HandleMe returns the logged-in user's profile.
//
// HTTP: GET /me
// Auth: Required
// 200:  {"userId": 1, "username": "alice", "createdAt": "..."}
// 404:  {"message": "user not found with id 1"} when the token outlived its account
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthenticated())
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}
