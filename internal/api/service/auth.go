package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/srihealth/srihealth/internal/api/domain"
	"github.com/srihealth/srihealth/internal/api/store"
	"github.com/srihealth/srihealth/pkg/cryptox"
	"github.com/srihealth/srihealth/pkg/idx"
	"github.com/srihealth/srihealth/pkg/jwtx"
	"github.com/srihealth/srihealth/pkg/slogx"
)

var (
	ErrUserExists         = errors.New("user_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// AuthService handles account registration and credential login. All of its
// dependencies are injected; it carries no mutable state of its own.
type AuthService struct {
	Store     store.Store
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Register creates a new account with an argon2-hashed password. The email is
// the account identifier; a second registration for the same email returns
// ErrUserExists, whether it lost to an earlier request or a concurrent one.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, ErrUserExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		// The lookup and the insert are not atomic; the UNIQUE index on
		// email settles the race and the loser gets the same answer as a
		// plain duplicate.
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUserExists
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("email", u.Email))
	return u, nil
}

// Login verifies the credentials and issues a signed access token. An unknown
// email and a wrong password both return ErrInvalidCredentials; callers must
// not be able to tell which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.AccessToken, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed, unknown email", slog.String("email", email))
			return domain.AccessToken{}, ErrInvalidCredentials
		}
		return domain.AccessToken{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login failed, password mismatch", slog.String("email", email))
		return domain.AccessToken{}, ErrInvalidCredentials
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(u.Email, u.Name, ttl, s.Issuer, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign access token", slog.Any("error", err))
		return domain.AccessToken{}, err
	}

	return domain.AccessToken{
		Token:     token,
		ExpiresIn: ttl,
		User:      u,
	}, nil
}
