package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/domain"
)

type CaptureService struct {
	tokens   application.TokenSource
	provider application.PaymentProvider
	records  application.RecordStore
	ledger   application.OrderLedger
	logger   *slog.Logger
}

func NewCaptureService(
	tokens application.TokenSource,
	provider application.PaymentProvider,
	records application.RecordStore,
	ledger application.OrderLedger,
	logger *slog.Logger,
) *CaptureService {
	return &CaptureService{
		tokens:   tokens,
		provider: provider,
		records:  records,
		ledger:   ledger,
		logger:   logger,
	}
}

// Capture finalizes an approved order: provider capture, correlation-token
// decode, record-store write. A capture notification replayed for an order the
// ledger already shows captured returns the stored result without another
// provider call or record write.
func (s *CaptureService) Capture(ctx context.Context, orderID string) (*CaptureResult, error) {
	if replay := s.replayFromLedger(ctx, orderID); replay != nil {
		return replay, nil
	}

	cred, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.CaptureOrder(ctx, cred, orderID)
	if err != nil {
		// No local state was touched; the caller may retry.
		return nil, application.NewUpstreamCaptureError(err)
	}

	observedAt := time.Now().UTC()

	// The outcome flows through the order state machine; the ledger and the
	// result only ever see states the machine allowed.
	order := &domain.Order{OrderID: orderID, State: domain.StateCreated}

	if resp.Status != application.StatusCompleted {
		if terr := order.Fail(); terr != nil {
			return nil, application.NewInternalError(terr)
		}
		s.recordOutcome(ctx, &application.LedgerEntry{
			OrderID:         orderID,
			State:           order.State,
			ProviderPayload: resp.RawPayload,
		})
		return &CaptureResult{State: order.State},
			application.NewCaptureNotCompletedError(orderID, resp.Status)
	}

	// The funds have moved. Everything from here on that goes wrong is a
	// reconciliation obligation, not a retryable failure.
	if resp.CorrelationToken == "" {
		err := domain.NewMissingTokenError(orderID)
		if terr := order.MarkCapturedUnrecorded(observedAt); terr != nil {
			return nil, application.NewInternalError(terr)
		}
		s.reportUnrecorded(ctx, orderID, nil, nil, resp.RawPayload, err)
		return &CaptureResult{State: order.State},
			application.NewTokenMissingError(orderID, err)
	}

	userID, tier, err := domain.DecodeCorrelationToken(resp.CorrelationToken)
	if err != nil {
		if terr := order.MarkCapturedUnrecorded(observedAt); terr != nil {
			return nil, application.NewInternalError(terr)
		}
		s.reportUnrecorded(ctx, orderID, nil, nil, resp.RawPayload, err)
		return &CaptureResult{State: order.State},
			application.NewTokenInvalidError(orderID, err)
	}

	order.UserID = userID
	order.Tier = tier

	record := &domain.PaymentRecord{
		UserID:      userID,
		Tier:        tier.Tag,
		OrderID:     orderID,
		CompletedAt: observedAt,
	}

	if err := s.records.WriteRecord(ctx, record); err != nil {
		if terr := order.MarkCapturedUnrecorded(observedAt); terr != nil {
			return nil, application.NewInternalError(terr)
		}
		tierTag := string(tier.Tag)
		s.reportUnrecorded(ctx, orderID, &userID, &tierTag, resp.RawPayload, err)
		return &CaptureResult{State: order.State},
			application.NewRecordWriteError(orderID, err)
	}

	if terr := order.Capture(observedAt); terr != nil {
		return nil, application.NewInternalError(terr)
	}

	tierTag := string(tier.Tag)
	s.recordOutcome(ctx, &application.LedgerEntry{
		OrderID:         orderID,
		UserID:          &userID,
		Tier:            &tierTag,
		State:           order.State,
		ProviderPayload: resp.RawPayload,
		RecordedAt:      order.CapturedAt,
	})

	s.logger.Info("order captured and recorded",
		"order_id", orderID,
		"user_id", userID,
		"tier", tier.Tag,
	)

	return &CaptureResult{State: order.State, Record: record}, nil
}

// replayFromLedger returns the stored result for an already-captured order,
// or nil when the capture has to go to the provider.
func (s *CaptureService) replayFromLedger(ctx context.Context, orderID string) *CaptureResult {
	entry, err := s.ledger.FindByOrderID(ctx, orderID)
	if err != nil {
		if !domain.IsErrorCode(err, domain.ErrCodeOrderNotFound) {
			s.logger.Error("ledger lookup failed, capturing without replay guard",
				"order_id", orderID,
				"error", err,
			)
		}
		return nil
	}

	if entry.State != domain.StateCaptured || entry.UserID == nil || entry.Tier == nil {
		return nil
	}

	completedAt := entry.UpdatedAt
	if entry.RecordedAt != nil {
		completedAt = *entry.RecordedAt
	}

	return &CaptureResult{
		State: domain.StateCaptured,
		Record: &domain.PaymentRecord{
			UserID:      *entry.UserID,
			Tier:        domain.TierTag(*entry.Tier),
			OrderID:     orderID,
			CompletedAt: completedAt,
		},
		Replayed: true,
	}
}

// reportUnrecorded files a captured-unrecorded outcome in the ledger and logs
// it with the raw provider payload so the order can be reconciled by hand or
// by the background worker.
func (s *CaptureService) reportUnrecorded(ctx context.Context, orderID string, userID, tier *string, payload []byte, cause error) {
	s.logger.Error("order captured upstream but not recorded",
		"order_id", orderID,
		"provider_payload", string(payload),
		"error", cause,
	)

	s.recordOutcome(ctx, &application.LedgerEntry{
		OrderID:         orderID,
		UserID:          userID,
		Tier:            tier,
		State:           domain.StateCapturedUnrecorded,
		ProviderPayload: payload,
	})
}

func (s *CaptureService) recordOutcome(ctx context.Context, entry *application.LedgerEntry) {
	if err := s.ledger.RecordOutcome(ctx, entry); err != nil {
		s.logger.Error("failed to record capture outcome in ledger",
			"order_id", entry.OrderID,
			"state", entry.State,
			"error", err,
		)
	}
}
