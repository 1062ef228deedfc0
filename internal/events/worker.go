package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/hourbank/backend/internal/models"
)

// RecordEventArgs carries one audit event through the job queue. Recording is
// decoupled from the mutation that produced the event: a queue hiccup delays
// the audit row, it never fails the ledger operation.
type RecordEventArgs struct {
	Event models.Event `json:"event"`
}

func (RecordEventArgs) Kind() string { return "record_event" }

// EventWriter is the persistence contract the worker needs.
type EventWriter interface {
	Create(ctx context.Context, e *models.Event) error
}

type RecordWorker struct {
	river.WorkerDefaults[RecordEventArgs]
	writer EventWriter
	log    *slog.Logger
}

func NewRecordWorker(writer EventWriter, log *slog.Logger) *RecordWorker {
	if log == nil {
		log = slog.Default()
	}
	return &RecordWorker{writer: writer, log: log}
}

// Work persists the event. Inserts are idempotent on event id, so River
// retries after a partial failure are safe.
func (w *RecordWorker) Work(ctx context.Context, job *river.Job[RecordEventArgs]) error {
	evt := job.Args.Event
	if err := w.writer.Create(ctx, &evt); err != nil {
		return fmt.Errorf("record event %s: %w", evt.Kind, err)
	}
	w.log.Info("exchange event recorded",
		"kind", evt.Kind,
		"event_id", evt.ID,
		"request_id", evt.RequestID,
		"offer_id", evt.OfferID,
	)
	return nil
}
