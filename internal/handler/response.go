package handler

// RESPONSE HELPERS:
// Every handler writes through writeJSON and writeError so status codes and
// body shapes live in one place. Services return apperror values; this file is
// the only place they are turned into HTTP.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/model"
)

const msgDatabaseEmpty = "Database is Empty! Nothing to delete"

// ErrorResponse is the body for validation, credential and internal failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries either a status text or a single row under "message".
type MessageResponse struct {
	Message any `json:"message"`
}

// ListResponse is the body of GET /messages.
type ListResponse struct {
	Messages []model.Message `json:"messages"`
}

// RegisterResponse is the body of a successful POST /register.
type RegisterResponse struct {
	Messages string `json:"messages"`
}

// LoginResponse is the body of a successful POST /login. The token is also
// set as the auth cookie; returning it lets non-browser clients use the
// Authorization header instead.
type LoginResponse struct {
	Message string `json:"message"`
	Cookie  string `json:"cookie"`
}

// MeResponse is the body of GET /me.
type MeResponse struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// writeJSON sends data as JSON with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and body.
//
// errors.Is walks the wrap chain, so a service error like
// fmt.Errorf("updating message: %w", apperror.NotFound(...)) still matches.
//
//	ErrValidation, ErrConflict, ErrAuth → 400 {"error": msg}
//	ErrUnauthenticated                  → 401 {"error": "Please login!"}
//	ErrEmpty                            → 404 {"message": "Database is Empty! ..."}
//	ErrNotFound                         → 404 {"message": msg} (GET /me)
//	anything else                       → 500 {"error": err.Error()}
//
// Message routes handle ErrNotFound themselves (see MessageHandler.fail) since
// each route has its own wording. The ErrNotFound branch here serves GET /me,
// whose account may be gone while its token is still valid.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrConflict),
			errors.Is(err, apperror.ErrAuth):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrUnauthenticated):
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: appErr.Message})
			return
		case errors.Is(err, apperror.ErrEmpty):
			writeJSON(w, http.StatusNotFound, MessageResponse{Message: msgDatabaseEmpty})
			return
		case errors.Is(err, apperror.ErrNotFound):
			writeJSON(w, http.StatusNotFound, MessageResponse{Message: appErr.Message})
			return
		}
	}

	logger.Error("internal error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
