package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/message-board/internal/repository"
)

// HandleHello answers GET /hello/{name} with plain text "Hello <name>!".
func HandleHello(w http.ResponseWriter, r *http.Request) {
	writeText(w, fmt.Sprintf("Hello %s!", chi.URLParam(r, "name")))
}

// HandleBye answers GET /bye/{name} with plain text "Bye <name>!".
func HandleBye(w http.ResponseWriter, r *http.Request) {
	writeText(w, fmt.Sprintf("Bye %s!", chi.URLParam(r, "name")))
}

func writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, s)
}

// HandleHealth returns a handler for GET /healthz that pings storage.
func HandleHealth(db repository.Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Error("health check failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
