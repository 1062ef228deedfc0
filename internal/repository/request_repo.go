package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hourbank/backend/internal/exchange"
	"github.com/hourbank/backend/internal/models"
)

type RequestRepo struct {
	pool *pgxpool.Pool
}

func NewRequestRepo(pool *pgxpool.Pool) *RequestRepo {
	return &RequestRepo{pool: pool}
}

var _ exchange.RequestStore = (*RequestRepo)(nil)

const requestColumns = `id, requester_id, provider_id, offer_id, status, created_at, completed_at`

func (r *RequestRepo) Create(ctx context.Context, tx pgx.Tx, req *models.Request) error {
	return tx.QueryRow(ctx, `
		INSERT INTO requests (requester_id, provider_id, offer_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, req.RequesterID, req.ProviderID, req.OfferID, req.Status).Scan(&req.ID, &req.CreatedAt)
}

func (r *RequestRepo) Get(ctx context.Context, id int64) (*models.Request, error) {
	return scanRequest(r.pool.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM requests WHERE id = $1
	`, id))
}

// GetForUpdate locks the request row; this is what serializes concurrent
// completion attempts on the same request.
func (r *RequestRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Request, error) {
	return scanRequest(tx.QueryRow(ctx, `
		SELECT `+requestColumns+` FROM requests WHERE id = $1 FOR UPDATE
	`, id))
}

func (r *RequestRepo) MarkCompleted(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE requests SET status = $1, completed_at = $2 WHERE id = $3
	`, models.RequestStatusCompleted, at, id)
	return err
}

func scanRequest(row pgx.Row) (*models.Request, error) {
	var req models.Request
	err := row.Scan(&req.ID, &req.RequesterID, &req.ProviderID, &req.OfferID, &req.Status, &req.CreatedAt, &req.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exchange.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}
