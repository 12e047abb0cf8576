package store

import (
	"context"
	"errors"

	"github.com/srihealth/srihealth/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, ...)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Predictions() Predictions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByEmail returns a user by email, ErrNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// The users table carries a UNIQUE constraint on email; a violation is
	// reported as ErrAlreadyExists, which is what resolves two concurrent
	// registrations racing past the lookup.
	CreateUser(ctx context.Context, u domain.User) error
}

type Predictions interface {
	// CreatePrediction appends a prediction record.
	CreatePrediction(ctx context.Context, p domain.Prediction) error

	// ListPredictionsByUser returns the user's most recent predictions,
	// newest first, capped at limit.
	ListPredictionsByUser(ctx context.Context, userEmail string, limit int) ([]domain.Prediction, error)
}
