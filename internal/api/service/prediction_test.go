package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/srihealth/srihealth/internal/api/domain"
	"github.com/srihealth/srihealth/internal/api/mri"
	"github.com/srihealth/srihealth/internal/api/store"
	"github.com/srihealth/srihealth/pkg/idx"
	"github.com/stretchr/testify/require"
)

// seedUser inserts an account directly so predictions have a valid owner.
func seedUser(t *testing.T, st store.Store, email string) {
	t.Helper()

	require.NoError(t, st.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: "unused",
		CreatedAt:    time.Now().UTC(),
	}))
}

// stubClassifier returns a fixed result without touching any weights.
type stubClassifier struct {
	result mri.Result
	err    error
	inputs int
}

func (c *stubClassifier) Classify(_ context.Context, input []float32) (mri.Result, error) {
	c.inputs = len(input)
	if c.err != nil {
		return mri.Result{}, c.err
	}
	return c.result, nil
}

func testScanBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 64))))
	return buf.Bytes()
}

func TestPredictRecordsResult(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedUser(t, st, "ana@example.com")

	clf := &stubClassifier{result: mri.Result{Class: "Non Demented", Confidence: 93.17}}
	svc := &PredictionService{Store: st, Classifier: clf}

	p, err := svc.Predict(ctx, "ana@example.com", "scan.png", testScanBytes(t))
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "Non Demented", p.Class)
	require.InDelta(t, 93.17, p.Confidence, 0.001)
	require.Equal(t, "scan.png", p.Filename)
	require.Equal(t, mri.InputSize*mri.InputSize, clf.inputs)

	history, err := svc.ListPredictions(ctx, "ana@example.com", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, p.ID, history[0].ID)
}

func TestPredictRejectsInvalidImage(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedUser(t, st, "ana@example.com")
	svc := &PredictionService{Store: st, Classifier: &stubClassifier{}}

	_, err := svc.Predict(ctx, "ana@example.com", "notes.txt", []byte("plain text"))
	require.ErrorIs(t, err, mri.ErrInvalidImage)

	history, err := svc.ListPredictions(ctx, "ana@example.com", 0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestPredictClassifierErrorNotRecorded(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedUser(t, st, "ana@example.com")

	boom := errors.New("model exploded")
	svc := &PredictionService{
		Store:      st,
		Classifier: &stubClassifier{err: boom},
	}

	_, err := svc.Predict(ctx, "ana@example.com", "scan.png", testScanBytes(t))
	require.ErrorIs(t, err, boom)

	history, err := svc.ListPredictions(ctx, "ana@example.com", 0)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestListPredictionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	seedUser(t, st, "ana@example.com")
	clf := &stubClassifier{result: mri.Result{Class: "Mild Dementia", Confidence: 50}}
	svc := &PredictionService{Store: st, Classifier: clf}

	scan := testScanBytes(t)
	var ids []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		p, err := svc.Predict(ctx, "ana@example.com", name, scan)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	history, err := svc.ListPredictions(ctx, "ana@example.com", 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, ids[2], history[0].ID)
	require.Equal(t, ids[1], history[1].ID)
}
