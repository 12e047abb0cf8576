package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/srihealth/srihealth/internal/api/domain"
	"github.com/srihealth/srihealth/pkg/httpx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse is the error body for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RegisterRequest is the account creation body.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse acknowledges a created account.
type RegisterResponse struct {
	Message string `json:"message"`
}

// LoginRequest is the credential login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the public projection of an account returned on login.
type UserSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserSummary `json:"user"`
}

// PredictResponse is the classification result for one uploaded scan.
type PredictResponse struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

// PredictionRecord is one entry in a user's prediction history.
type PredictionRecord struct {
	ID         string    `json:"id"`
	Class      string    `json:"class"`
	Confidence float64   `json:"confidence"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
}

// PredictionListResponse wraps the history listing.
type PredictionListResponse struct {
	Predictions []PredictionRecord `json:"predictions"`
}

// HealthResponse is the body for the health probe endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
}

func newPredictionRecord(p domain.Prediction) PredictionRecord {
	return PredictionRecord{
		ID:         p.ID,
		Class:      p.Class,
		Confidence: p.Confidence,
		Filename:   p.Filename,
		CreatedAt:  p.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, code int, detail string) {
	httpx.WriteJSON(w, code, ErrorResponse{Detail: detail})
}

// decodeJSON parses and validates a JSON request body into dst. The bool
// result reports whether the caller should continue; on false a 400 has
// already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
