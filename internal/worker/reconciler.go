// Package worker runs the background reconciler that retries payment record
// writes for captured orders whose bookkeeping did not complete.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/domain"
)

type Reconciler struct {
	ledger    application.OrderLedger
	records   application.RecordStore
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewReconciler(
	ledger application.OrderLedger,
	records application.RecordStore,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		ledger:    ledger,
		records:   records,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("starting background reconciler", "interval", r.interval, "batch_size", r.batchSize)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping background reconciler")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

// RunOnce executes a single reconciliation cycle.
func (r *Reconciler) RunOnce(ctx context.Context) {
	r.run(ctx)
}

func (r *Reconciler) run(ctx context.Context) {
	unrecorded, err := r.ledger.FindUnrecorded(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("failed to fetch unrecorded orders", "error", err)
		return
	}

	if len(unrecorded) == 0 {
		return
	}

	r.logger.Info("reconciling unrecorded captures", "count", len(unrecorded))

	for _, entry := range unrecorded {
		r.reconcile(ctx, entry)
	}
}

// reconcile retries the record write for one captured order. Entries without a
// decoded user and tier cannot be rebuilt into a record; they stay in the
// ledger for manual review and are only logged here.
func (r *Reconciler) reconcile(ctx context.Context, entry *application.LedgerEntry) {
	if entry.UserID == nil || entry.Tier == nil {
		r.logger.Warn("unrecorded capture has no decodable correlation token, needs manual review",
			"order_id", entry.OrderID,
		)
		return
	}

	// The promotion has to be a legal transition before anything is written.
	order := &domain.Order{OrderID: entry.OrderID, State: entry.State}
	if err := order.Capture(time.Now()); err != nil {
		r.logger.Error("ledger row is not promotable", "order_id", entry.OrderID, "state", entry.State, "error", err)
		return
	}

	record := &domain.PaymentRecord{
		UserID:      *entry.UserID,
		Tier:        domain.TierTag(*entry.Tier),
		OrderID:     entry.OrderID,
		CompletedAt: entry.UpdatedAt,
	}

	if err := r.records.WriteRecord(ctx, record); err != nil {
		r.logger.Error("record write retry failed",
			"order_id", entry.OrderID,
			"category", application.CategorizeError(err),
			"error", err,
		)
		return
	}

	if err := r.ledger.MarkRecorded(ctx, entry.OrderID, *order.CapturedAt); err != nil {
		// The record landed; the next cycle retries the overwrite-safe write
		// and marks the row then.
		r.logger.Error("failed to mark order recorded", "order_id", entry.OrderID, "error", err)
		return
	}

	r.logger.Info("successfully reconciled capture", "order_id", entry.OrderID, "user_id", *entry.UserID)
}
