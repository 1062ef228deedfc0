package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hourbank/backend/internal/models"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

func (r *EventRepo) Create(ctx context.Context, e *models.Event) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exchange_events (id, kind, account_id, provider_id, requester_id, offer_id, request_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.Kind, e.AccountID, e.ProviderID, e.RequesterID, e.OfferID, e.RequestID, e.Amount, e.CreatedAt)
	return err
}

func (r *EventRepo) ListRecent(ctx context.Context, limit int) ([]*models.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, kind, account_id, provider_id, requester_id, offer_id, request_id, amount, created_at
		FROM exchange_events ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Kind, &e.AccountID, &e.ProviderID, &e.RequesterID, &e.OfferID, &e.RequestID, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
