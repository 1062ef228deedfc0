package exchange

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hourbank/backend/internal/models"
)

// TxBeginner abstracts transaction creation so tests don't need a pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AccountStore is the minimal account persistence interface for the engine.
// Create returns ErrAlreadyRegistered on a duplicate identity; Get returns
// ErrNotFound for an unknown one. Debit is conditional: it must leave the
// balance untouched and return ErrInsufficientBalance when it would go
// negative.
type AccountStore interface {
	Create(ctx context.Context, a *models.Account) error
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
	Debit(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (newBalance int64, err error)
	Credit(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int64) (newBalance int64, err error)
	BumpReputation(ctx context.Context, tx pgx.Tx, id uuid.UUID) (newReputation int, err error)
}

// OfferStore persists offers. Create assigns the monotonic id.
type OfferStore interface {
	Create(ctx context.Context, o *models.Offer) error
	Get(ctx context.Context, id int64) (*models.Offer, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Offer, error)
	SetInactive(ctx context.Context, tx pgx.Tx, id int64) error
	ListActive(ctx context.Context) ([]*models.Offer, error)
}

// RequestStore persists requests. Create assigns the monotonic id.
type RequestStore interface {
	Create(ctx context.Context, tx pgx.Tx, r *models.Request) error
	Get(ctx context.Context, id int64) (*models.Request, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Request, error)
	MarkCompleted(ctx context.Context, tx pgx.Tx, id int64, at time.Time) error
}

// EventStore reads back the audit feed.
type EventStore interface {
	ListRecent(ctx context.Context, limit int) ([]*models.Event, error)
}

// EmitFunc delivers an audit event to an external consumer. Emission is
// fire-and-forget: the engine logs a failed emit and moves on, it never rolls
// back the mutation that produced the event.
type EmitFunc func(ctx context.Context, evt models.Event) error

// Service is the ledger's full operation surface, transport-agnostic.
type Service interface {
	Register(ctx context.Context, identity uuid.UUID, name string, skills []string) error
	CreateOffer(ctx context.Context, provider uuid.UUID, category, description string, timeRequired, timeCost int64) (int64, error)
	DeactivateOffer(ctx context.Context, caller uuid.UUID, offerID int64) error
	CreateRequest(ctx context.Context, requester uuid.UUID, offerID int64) (int64, error)
	CompleteRequest(ctx context.Context, caller uuid.UUID, requestID int64) error

	GetAccount(ctx context.Context, identity uuid.UUID) (*models.Account, error)
	GetBalance(ctx context.Context, identity uuid.UUID) (int64, error)
	GetReputation(ctx context.Context, identity uuid.UUID) (int, error)
	GetOffer(ctx context.Context, offerID int64) (*models.Offer, error)
	GetRequest(ctx context.Context, requestID int64) (*models.Request, error)
	ListOffers(ctx context.Context) ([]*models.Offer, error)
	ListEvents(ctx context.Context, limit int) ([]*models.Event, error)
}

// Engine enforces the ledger invariants: accounts never go negative, requests
// transition pending -> completed exactly once, and credits move only by
// settlement transfer. All multi-row mutations run inside a single pg
// transaction; row locks (FOR UPDATE) serialize writers per entity.
type Engine struct {
	pool     TxBeginner
	accounts AccountStore
	offers   OfferStore
	requests RequestStore
	events   EventStore
	emit     EmitFunc
	log      *slog.Logger
}

func NewEngine(pool TxBeginner, accounts AccountStore, offers OfferStore, requests RequestStore, events EventStore, emit EmitFunc, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		pool:     pool,
		accounts: accounts,
		offers:   offers,
		requests: requests,
		events:   events,
		emit:     emit,
		log:      log,
	}
}

var _ Service = (*Engine)(nil)

// normalizeSkills lowercases and trims each skill tag, dropping empties.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Register creates the ledger account for an already-verified identity with
// the initial credit grant and neutral reputation.
func (e *Engine) Register(ctx context.Context, identity uuid.UUID, name string, skills []string) error {
	if identity == uuid.Nil || strings.TrimSpace(name) == "" {
		return ErrInvalidInput
	}
	acc := &models.Account{
		ID:         identity,
		Name:       strings.TrimSpace(name),
		Skills:     normalizeSkills(skills),
		Balance:    models.InitialBalance,
		Reputation: models.InitialReputation,
	}
	if err := e.accounts.Create(ctx, acc); err != nil {
		return err
	}
	e.publish(ctx, models.Event{Kind: models.EventAccountRegistered, AccountID: &acc.ID})
	return nil
}

func (e *Engine) CreateOffer(ctx context.Context, provider uuid.UUID, category, description string, timeRequired, timeCost int64) (int64, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	description = strings.TrimSpace(description)
	if category == "" || description == "" || timeRequired <= 0 || timeCost <= 0 {
		return 0, ErrInvalidInput
	}
	if _, err := e.accounts.Get(ctx, provider); err != nil {
		return 0, err
	}
	o := &models.Offer{
		ProviderID:   provider,
		Category:     category,
		Description:  description,
		TimeRequired: timeRequired,
		TimeCost:     timeCost,
		Active:       true,
	}
	if err := e.offers.Create(ctx, o); err != nil {
		return 0, err
	}
	e.publish(ctx, models.Event{Kind: models.EventOfferCreated, AccountID: &provider, OfferID: &o.ID})
	return o.ID, nil
}

// DeactivateOffer flips active off. Deactivating an already-inactive offer is
// a silent no-op; it emits no event. Deactivation never blocks completion of
// requests already created against the offer.
func (e *Engine) DeactivateOffer(ctx context.Context, caller uuid.UUID, offerID int64) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	o, err := e.offers.GetForUpdate(ctx, tx, offerID)
	if err != nil {
		return err
	}
	if o.ProviderID != caller {
		return ErrUnauthorized
	}
	if !o.Active {
		return nil
	}
	if err := e.offers.SetInactive(ctx, tx, offerID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	e.publish(ctx, models.Event{Kind: models.EventOfferDeactivated, AccountID: &caller, OfferID: &offerID})
	return nil
}

// CreateRequest records a pending request against an active offer. The
// balance check here is advisory: the binding check is the conditional debit
// at completion, so two concurrent requests may both be created even if the
// requester can only afford one.
func (e *Engine) CreateRequest(ctx context.Context, requester uuid.UUID, offerID int64) (int64, error) {
	acc, err := e.accounts.Get(ctx, requester)
	if err != nil {
		return 0, err
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	// Lock the offer row so deactivation serializes against request creation.
	o, err := e.offers.GetForUpdate(ctx, tx, offerID)
	if err != nil {
		return 0, err
	}
	if !o.Active {
		return 0, ErrOfferInactive
	}
	if o.ProviderID == requester {
		return 0, ErrSelfRequest
	}
	if acc.Balance < o.TimeCost {
		return 0, ErrInsufficientBalance
	}

	req := &models.Request{
		RequesterID: requester,
		ProviderID:  o.ProviderID,
		OfferID:     o.ID,
		Status:      models.RequestStatusPending,
	}
	if err := e.requests.Create(ctx, tx, req); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	e.publish(ctx, models.Event{
		Kind:        models.EventRequestCreated,
		RequesterID: &requester,
		ProviderID:  &req.ProviderID,
		OfferID:     &o.ID,
		RequestID:   &req.ID,
	})
	return req.ID, nil
}

// CompleteRequest settles a pending request: debit requester, credit provider,
// mark completed, bump provider reputation — all in one transaction. The
// request row lock guarantees that of two concurrent completions exactly one
// succeeds and the other sees ErrInvalidState.
func (e *Engine) CompleteRequest(ctx context.Context, caller uuid.UUID, requestID int64) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	req, err := e.requests.GetForUpdate(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if req.ProviderID != caller {
		return ErrUnauthorized
	}
	if req.Status != models.RequestStatusPending {
		return ErrInvalidState
	}

	// Offers are never deleted, only deactivated, so this resolves unless the
	// store is corrupt.
	o, err := e.offers.Get(ctx, req.OfferID)
	if err != nil {
		return err
	}

	// Balance may have been consumed by unrelated settlements since the
	// request was created; failing here is a legitimate runtime outcome.
	if _, err := e.accounts.Debit(ctx, tx, req.RequesterID, o.TimeCost); err != nil {
		return err
	}
	if _, err := e.accounts.Credit(ctx, tx, req.ProviderID, o.TimeCost); err != nil {
		return err
	}
	now := time.Now().UTC()
	if err := e.requests.MarkCompleted(ctx, tx, req.ID, now); err != nil {
		return err
	}
	if _, err := e.accounts.BumpReputation(ctx, tx, req.ProviderID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	e.publish(ctx, models.Event{
		Kind:        models.EventRequestSettled,
		RequesterID: &req.RequesterID,
		ProviderID:  &req.ProviderID,
		OfferID:     &req.OfferID,
		RequestID:   &req.ID,
		Amount:      &o.TimeCost,
	})
	return nil
}

func (e *Engine) GetAccount(ctx context.Context, identity uuid.UUID) (*models.Account, error) {
	return e.accounts.Get(ctx, identity)
}

func (e *Engine) GetBalance(ctx context.Context, identity uuid.UUID) (int64, error) {
	acc, err := e.accounts.Get(ctx, identity)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (e *Engine) GetReputation(ctx context.Context, identity uuid.UUID) (int, error) {
	acc, err := e.accounts.Get(ctx, identity)
	if err != nil {
		return 0, err
	}
	return acc.Reputation, nil
}

func (e *Engine) GetOffer(ctx context.Context, offerID int64) (*models.Offer, error) {
	return e.offers.Get(ctx, offerID)
}

func (e *Engine) GetRequest(ctx context.Context, requestID int64) (*models.Request, error) {
	return e.requests.Get(ctx, requestID)
}

func (e *Engine) ListOffers(ctx context.Context) ([]*models.Offer, error) {
	return e.offers.ListActive(ctx)
}

func (e *Engine) ListEvents(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return e.events.ListRecent(ctx, limit)
}

// publish stamps and emits an audit event, logging (not returning) failures.
func (e *Engine) publish(ctx context.Context, evt models.Event) {
	if e.emit == nil {
		return
	}
	evt.ID = uuid.New()
	evt.CreatedAt = time.Now().UTC()
	if err := e.emit(ctx, evt); err != nil {
		e.log.Error("event emit failed", "kind", evt.Kind, "error", err)
	}
}
