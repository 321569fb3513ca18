package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger — всё, что нужно проверке живости от пула соединений.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler обрабатывает запрос GET /health
func HealthHandler(log *slog.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.HealthHandler"
		logger := log.With(slog.String("op", op))

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Error("database ping failed", slog.Any("error", err))
			writeJSON(w, logger, http.StatusServiceUnavailable, HealthResponse{Status: "DOWN", Timestamp: time.Now().UTC()})
			return
		}
		writeJSON(w, logger, http.StatusOK, HealthResponse{Status: "OK", Timestamp: time.Now().UTC()})
	}
}
