package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
