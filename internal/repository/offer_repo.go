package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hourbank/backend/internal/exchange"
	"github.com/hourbank/backend/internal/models"
)

type OfferRepo struct {
	pool *pgxpool.Pool
}

func NewOfferRepo(pool *pgxpool.Pool) *OfferRepo {
	return &OfferRepo{pool: pool}
}

var _ exchange.OfferStore = (*OfferRepo)(nil)

const offerColumns = `id, provider_id, category, description, time_required, time_cost, active, created_at`

// Create inserts the offer and fills its BIGSERIAL id (monotonic from 1,
// never reused, even after deactivation).
func (r *OfferRepo) Create(ctx context.Context, o *models.Offer) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO offers (provider_id, category, description, time_required, time_cost, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, o.ProviderID, o.Category, o.Description, o.TimeRequired, o.TimeCost, o.Active).Scan(&o.ID, &o.CreatedAt)
}

func (r *OfferRepo) Get(ctx context.Context, id int64) (*models.Offer, error) {
	return scanOffer(r.pool.QueryRow(ctx, `
		SELECT `+offerColumns+` FROM offers WHERE id = $1
	`, id))
}

// GetForUpdate locks the offer row. Call within a transaction.
func (r *OfferRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Offer, error) {
	return scanOffer(tx.QueryRow(ctx, `
		SELECT `+offerColumns+` FROM offers WHERE id = $1 FOR UPDATE
	`, id))
}

func (r *OfferRepo) SetInactive(ctx context.Context, tx pgx.Tx, id int64) error {
	_, err := tx.Exec(ctx, `UPDATE offers SET active = false WHERE id = $1`, id)
	return err
}

func (r *OfferRepo) ListActive(ctx context.Context) ([]*models.Offer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+offerColumns+` FROM offers WHERE active ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOffer(row pgx.Row) (*models.Offer, error) {
	var o models.Offer
	err := row.Scan(&o.ID, &o.ProviderID, &o.Category, &o.Description, &o.TimeRequired, &o.TimeCost, &o.Active, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exchange.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
