package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hourbank/backend/internal/exchange"
	"github.com/hourbank/backend/internal/models"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

var _ exchange.AccountStore = (*AccountRepo)(nil)

// Create inserts the account row. The primary key makes registration
// atomic: a duplicate identity surfaces as ErrAlreadyRegistered.
func (r *AccountRepo) Create(ctx context.Context, a *models.Account) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, name, skills, balance, reputation)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, a.ID, a.Name, a.Skills, a.Balance, a.Reputation).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return exchange.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *AccountRepo) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, skills, balance, reputation, created_at, updated_at
		FROM accounts WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Skills, &a.Balance, &a.Reputation, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, exchange.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Debit atomically deducts amount if the balance covers it. The WHERE guard
// is what keeps balances non-negative under concurrency.
func (r *AccountRepo) Debit(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (int64, error) {
	var newBalance int64
	err := tx.QueryRow(ctx, `
		UPDATE accounts SET balance = balance - $1, updated_at = now()
		WHERE id = $2 AND balance >= $1
		RETURNING balance
	`, amount, id).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, exchange.ErrInsufficientBalance
		}
		return 0, err
	}
	return newBalance, nil
}

func (r *AccountRepo) Credit(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (int64, error) {
	var newBalance int64
	err := tx.QueryRow(ctx, `
		UPDATE accounts SET balance = balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING balance
	`, amount, id).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, exchange.ErrNotFound
		}
		return 0, err
	}
	return newBalance, nil
}

// BumpReputation increments by one, capped at MaxReputation. A no-op at the cap.
func (r *AccountRepo) BumpReputation(ctx context.Context, tx pgx.Tx, id uuid.UUID) (int, error) {
	var newReputation int
	err := tx.QueryRow(ctx, `
		UPDATE accounts SET reputation = LEAST(reputation + 1, $1), updated_at = now()
		WHERE id = $2
		RETURNING reputation
	`, models.MaxReputation, id).Scan(&newReputation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, exchange.ErrNotFound
		}
		return 0, err
	}
	return newReputation, nil
}
