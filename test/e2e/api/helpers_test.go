package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	httpapi "github.com/srihealth/srihealth/internal/api/http"
	"github.com/srihealth/srihealth/internal/api/mri"
	"github.com/srihealth/srihealth/internal/api/service"
	"github.com/srihealth/srihealth/internal/api/store/drivers/sqlite"
	"github.com/srihealth/srihealth/pkg/httpx"
	"github.com/srihealth/srihealth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * Common helpers for end-to-end tests. The full router, services and sqlite
 * store run in-process behind an httptest server; only the classifier is
 * stubbed, its forward pass has its own unit tests.
 */

const (
	testSecret = "e2e-test-secret"
	testIssuer = "srihealth-e2e"
)

type fixedClassifier struct {
	class      string
	confidence float64
}

func (c *fixedClassifier) Classify(_ context.Context, _ []float32) (mri.Result, error) {
	return mri.Result{Class: c.class, Confidence: c.confidence}, nil
}

// startServer boots the whole API against a fresh database and returns its
// base URL plus the signer used to mint tokens out of band.
func startServer(t *testing.T) (string, jwtx.Signer) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "e2e.db") +
		"?_busy_timeout=5000&_journal_mode=WAL"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewSignerHMAC("HS256", []byte(testSecret))
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHMAC("HS256", []byte(testSecret), testIssuer)
	require.NoError(t, err)

	router := httpapi.NewRouter(
		verifier,
		"e2e",
		st,
		httpx.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	router.AuthService = &service.AuthService{
		Store:     st,
		Signer:    signer,
		Issuer:    testIssuer,
		AccessTTL: time.Minute,
	}
	router.PredictionService = &service.PredictionService{
		Store:      st,
		Classifier: &fixedClassifier{class: "Very mild Dementia", confidence: 76.54},
	}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL, signer
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func getWithToken(t *testing.T, url, token string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

// uploadScan posts a generated PNG as the multipart "file" field.
func uploadScan(t *testing.T, url, token string, content []byte) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "scan.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func scanPNG(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 96, 96))))
	return buf.Bytes()
}
