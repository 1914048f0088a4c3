package session

import (
	"context"
	"errors"

	"freshprep/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetUserID(ctx context.Context, token string) (string, error) {
	const q = `
SELECT user_id::text
FROM sessions
WHERE session_token = $1 AND expires_at > now()
`
	var userID string
	if err := r.pool.QueryRow(ctx, q, token).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return userID, nil
}
