// Package postgres holds the ledger repository backing idempotent capture
// replay and reconciliation of captured-but-unrecorded payments.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/domain"
	"github.com/davidakinola/tierpay/internal/infrastructure/persistence"
)

const ledgerColumns = `order_id, user_id, tier, state, provider_payload, created_at, updated_at, recorded_at`

type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreatePending inserts the freshly created order. A duplicate order id is
// left untouched: the provider assigned it, and later outcomes own the row.
func (r *LedgerRepository) CreatePending(ctx context.Context, entry *application.LedgerEntry) error {
	query := `
		INSERT INTO orders (order_id, user_id, tier, state, provider_payload)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		entry.OrderID,
		entry.UserID,
		entry.Tier,
		string(entry.State),
		entry.ProviderPayload,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// RecordOutcome upserts the terminal outcome of an order. User id and tier are
// only overwritten when the caller supplies them, so a later outcome without a
// decoded token never erases what an earlier step learned.
func (r *LedgerRepository) RecordOutcome(ctx context.Context, entry *application.LedgerEntry) error {
	query := `
		INSERT INTO orders (order_id, user_id, tier, state, provider_payload, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO UPDATE
		SET user_id          = COALESCE(EXCLUDED.user_id, orders.user_id),
		    tier             = COALESCE(EXCLUDED.tier, orders.tier),
		    state            = EXCLUDED.state,
		    provider_payload = COALESCE(EXCLUDED.provider_payload, orders.provider_payload),
		    recorded_at      = COALESCE(EXCLUDED.recorded_at, orders.recorded_at),
		    updated_at       = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		entry.OrderID,
		entry.UserID,
		entry.Tier,
		string(entry.State),
		entry.ProviderPayload,
		entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record ledger outcome: %w", err)
	}

	return nil
}

func (r *LedgerRepository) FindByOrderID(ctx context.Context, orderID string) (*application.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = $1`, ledgerColumns)

	row := r.db.QueryRow(ctx, query, orderID)
	return scanLedgerEntry(row, orderID)
}

// FindUnrecorded returns captured orders whose record write has not landed,
// oldest first so the reconciler drains the backlog in arrival order.
func (r *LedgerRepository) FindUnrecorded(ctx context.Context, limit int) ([]*application.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE state = $1
		ORDER BY updated_at ASC
		LIMIT $2
	`, ledgerColumns)

	rows, err := r.db.Query(ctx, query, string(domain.StateCapturedUnrecorded), limit)
	if err != nil {
		return nil, fmt.Errorf("query unrecorded orders: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*application.LedgerEntry, error) {
		var m OrderModel
		err := row.Scan(
			&m.OrderID, &m.UserID, &m.Tier, &m.State,
			&m.ProviderPayload, &m.CreatedAt, &m.UpdatedAt, &m.RecordedAt,
		)
		return toLedgerEntry(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("scan unrecorded orders: %w", err)
	}

	return results, nil
}

func (r *LedgerRepository) MarkRecorded(ctx context.Context, orderID string, recordedAt time.Time) error {
	query := `
		UPDATE orders
		SET state = $1, recorded_at = $2, updated_at = NOW()
		WHERE order_id = $3
	`

	result, err := r.db.Exec(ctx, query, string(domain.StateCaptured), recordedAt, orderID)
	if err != nil {
		return fmt.Errorf("failed to mark order recorded: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewOrderNotFoundError(orderID)
	}

	return nil
}

func scanLedgerEntry(row pgx.Row, orderID string) (*application.LedgerEntry, error) {
	var m OrderModel
	err := row.Scan(
		&m.OrderID, &m.UserID, &m.Tier, &m.State,
		&m.ProviderPayload, &m.CreatedAt, &m.UpdatedAt, &m.RecordedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewOrderNotFoundError(orderID)
		}
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}
	return toLedgerEntry(m), nil
}
