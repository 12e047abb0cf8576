package http

import (
	"net/http"
	"strconv"

	"github.com/srihealth/srihealth/internal/api/service"
	"github.com/srihealth/srihealth/pkg/httpx"
	"github.com/srihealth/srihealth/pkg/slogx"
)

type PredictionsHandler struct {
	PredictionService *service.PredictionService
}

// ServeHTTP lists the authenticated user's recent predictions, newest first.
// An optional ?limit= query parameter caps the page size.
func (h *PredictionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := httpx.UserEmailFromContext(ctx)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = n
	}

	predictions, err := h.PredictionService.ListPredictions(ctx, email, limit)
	if err != nil {
		log.Error("failed to list predictions", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to list predictions")
		return
	}

	out := make([]PredictionRecord, 0, len(predictions))
	for _, p := range predictions {
		out = append(out, newPredictionRecord(p))
	}

	httpx.WriteJSON(w, http.StatusOK, PredictionListResponse{Predictions: out})
}
