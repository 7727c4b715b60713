package handlers

import (
	"context"
	"net/http"
	"time"

	"food-reels-server/middleware"
	"food-reels-server/utils/errors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		middleware.WriteError(w, errors.NewAPIError("UNAVAILABLE", "Database unreachable", http.StatusServiceUnavailable))
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
