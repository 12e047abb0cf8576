package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/srihealth/srihealth/internal/api/domain"
	"github.com/srihealth/srihealth/internal/api/mri"
	"github.com/srihealth/srihealth/internal/api/store"
	"github.com/srihealth/srihealth/pkg/idx"
	"github.com/srihealth/srihealth/pkg/slogx"
)

// DefaultPredictionLimit caps history listings when the caller does not ask
// for a specific page size.
const DefaultPredictionLimit = 50

// PredictionService runs uploaded MRI scans through the classifier and keeps
// an append-only history of the results per account.
type PredictionService struct {
	Store      store.Store
	Classifier mri.Classifier
}

// Predict preprocesses the uploaded image, classifies it, and records the
// result against the user. Undecodable uploads surface mri.ErrInvalidImage.
func (s *PredictionService) Predict(ctx context.Context, userEmail, filename string, imageData []byte) (domain.Prediction, error) {
	l := slogx.FromContext(ctx)

	input, err := mri.Preprocess(imageData)
	if err != nil {
		return domain.Prediction{}, err
	}

	res, err := s.Classifier.Classify(ctx, input)
	if err != nil {
		l.Error("classification failed", slog.Any("error", err))
		return domain.Prediction{}, err
	}

	p := domain.Prediction{
		ID:         idx.New().String(),
		UserEmail:  userEmail,
		Class:      res.Class,
		Confidence: res.Confidence,
		Filename:   filename,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Store.Predictions().CreatePrediction(ctx, p); err != nil {
		return domain.Prediction{}, err
	}

	l.Info("prediction recorded",
		slog.String("email", userEmail),
		slog.String("class", p.Class),
	)
	return p, nil
}

// ListPredictions returns the user's most recent predictions, newest first.
// A non-positive limit falls back to DefaultPredictionLimit.
func (s *PredictionService) ListPredictions(ctx context.Context, userEmail string, limit int) ([]domain.Prediction, error) {
	if limit <= 0 {
		limit = DefaultPredictionLimit
	}
	return s.Store.Predictions().ListPredictionsByUser(ctx, userEmail, limit)
}
