package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/srihealth/srihealth/internal/api/domain"
)

type predictionsRepo struct {
	db *sql.DB
}

func (r *predictionsRepo) CreatePrediction(ctx context.Context, p domain.Prediction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO predictions (id, user_email, class, confidence, filename, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserEmail,
		p.Class,
		p.Confidence,
		p.Filename,
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *predictionsRepo) ListPredictionsByUser(
	ctx context.Context,
	userEmail string,
	limit int,
) ([]domain.Prediction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_email, class, confidence, filename, created_at
		FROM predictions
		WHERE user_email = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userEmail, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Prediction
	for rows.Next() {
		var p domain.Prediction
		var createdAt string
		if err := rows.Scan(&p.ID, &p.UserEmail, &p.Class, &p.Confidence, &p.Filename, &createdAt); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = ts
		out = append(out, p)
	}
	return out, rows.Err()
}
