package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/srihealth/srihealth/internal/api/mri"
	"github.com/srihealth/srihealth/internal/api/service"
	"github.com/srihealth/srihealth/pkg/httpx"
	"github.com/srihealth/srihealth/pkg/slogx"
)

// maxUploadBytes caps scan uploads. MRI slices are small; anything bigger is
// not a scan.
const maxUploadBytes = 10 << 20

type PredictHandler struct {
	PredictionService *service.PredictionService
}

// ServeHTTP classifies an uploaded MRI scan for the authenticated user. The
// scan arrives as the multipart form field "file".
func (h *PredictHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := httpx.UserEmailFromContext(ctx)
	if email == "" {
		writeError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	p, err := h.PredictionService.Predict(ctx, email, header.Filename, data)
	if err != nil {
		if errors.Is(err, mri.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, "Invalid image file")
			return
		}
		log.Error("prediction failed", "err", err)
		writeError(w, http.StatusInternalServerError, "Prediction failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, PredictResponse{
		Class:      p.Class,
		Confidence: p.Confidence,
	})
}
