package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/srihealth/srihealth/internal/api/domain"
)

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at
		FROM users
		WHERE email = ?`, email)

	var u domain.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &createdAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.User{}, err
	}
	u.CreatedAt = ts

	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.Name,
		u.PasswordHash,
		u.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}
