package services

import (
	"context"
	"sync"
	"time"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/domain"
)

// MockTokenSource
type MockTokenSource struct {
	mu      sync.Mutex
	calls   int
	TokenFn func(ctx context.Context) (*application.AccessCredential, error)
}

func (m *MockTokenSource) Token(ctx context.Context) (*application.AccessCredential, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.TokenFn != nil {
		return m.TokenFn(ctx)
	}
	return &application.AccessCredential{
		Value:     "access-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *MockTokenSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockProvider
type MockProvider struct {
	mu    sync.Mutex
	calls map[string]int

	ExchangeCredentialsFn func(ctx context.Context) (*application.AccessCredential, error)
	CreateOrderFn         func(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error)
	CaptureOrderFn        func(ctx context.Context, cred *application.AccessCredential, orderID string) (*application.CaptureOrderResponse, error)
}

func (m *MockProvider) inc(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *MockProvider) GetCalls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *MockProvider) ExchangeCredentials(ctx context.Context) (*application.AccessCredential, error) {
	m.inc("ExchangeCredentials")
	if m.ExchangeCredentialsFn != nil {
		return m.ExchangeCredentialsFn(ctx)
	}
	return &application.AccessCredential{
		Value:     "access-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *MockProvider) CreateOrder(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
	m.inc("CreateOrder")
	if m.CreateOrderFn != nil {
		return m.CreateOrderFn(ctx, cred, req)
	}
	return &application.CreateOrderResponse{
		OrderID:     "O-1",
		ApprovalURL: "https://provider.example/approve/O-1",
	}, nil
}

func (m *MockProvider) CaptureOrder(ctx context.Context, cred *application.AccessCredential, orderID string) (*application.CaptureOrderResponse, error) {
	m.inc("CaptureOrder")
	if m.CaptureOrderFn != nil {
		return m.CaptureOrderFn(ctx, cred, orderID)
	}
	return &application.CaptureOrderResponse{
		OrderID:          orderID,
		Status:           application.StatusCompleted,
		CorrelationToken: "user-42:Tier1",
	}, nil
}

// MockRecordStore
type MockRecordStore struct {
	mu      sync.Mutex
	records map[string]*domain.PaymentRecord
	writes  int

	WriteRecordFn func(ctx context.Context, record *domain.PaymentRecord) error
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{records: make(map[string]*domain.PaymentRecord)}
}

func (m *MockRecordStore) WriteRecord(ctx context.Context, record *domain.PaymentRecord) error {
	m.mu.Lock()
	m.writes++
	m.mu.Unlock()
	if m.WriteRecordFn != nil {
		return m.WriteRecordFn(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.UserID] = record
	return nil
}

func (m *MockRecordStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MockRecordStore) Get(userID string) *domain.PaymentRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[userID]
}

// MockLedger keeps entries in memory with last-write-wins upsert semantics,
// matching the postgres implementation.
type MockLedger struct {
	mu      sync.Mutex
	entries map[string]*application.LedgerEntry

	CreatePendingFn  func(ctx context.Context, entry *application.LedgerEntry) error
	RecordOutcomeFn  func(ctx context.Context, entry *application.LedgerEntry) error
	FindByOrderIDFn  func(ctx context.Context, orderID string) (*application.LedgerEntry, error)
	FindUnrecordedFn func(ctx context.Context, limit int) ([]*application.LedgerEntry, error)
	MarkRecordedFn   func(ctx context.Context, orderID string, recordedAt time.Time) error
}

func NewMockLedger() *MockLedger {
	return &MockLedger{entries: make(map[string]*application.LedgerEntry)}
}

func (m *MockLedger) CreatePending(ctx context.Context, entry *application.LedgerEntry) error {
	if m.CreatePendingFn != nil {
		return m.CreatePendingFn(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[entry.OrderID]; !ok {
		e := *entry
		e.CreatedAt = time.Now()
		e.UpdatedAt = e.CreatedAt
		m.entries[entry.OrderID] = &e
	}
	return nil
}

func (m *MockLedger) RecordOutcome(ctx context.Context, entry *application.LedgerEntry) error {
	if m.RecordOutcomeFn != nil {
		return m.RecordOutcomeFn(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e := *entry
	e.UpdatedAt = time.Now()
	if existing, ok := m.entries[entry.OrderID]; ok {
		e.CreatedAt = existing.CreatedAt
		if e.UserID == nil {
			e.UserID = existing.UserID
		}
		if e.Tier == nil {
			e.Tier = existing.Tier
		}
	} else {
		e.CreatedAt = e.UpdatedAt
	}
	m.entries[entry.OrderID] = &e
	return nil
}

func (m *MockLedger) FindByOrderID(ctx context.Context, orderID string) (*application.LedgerEntry, error) {
	if m.FindByOrderIDFn != nil {
		return m.FindByOrderIDFn(ctx, orderID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[orderID]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.NewOrderNotFoundError(orderID)
}

func (m *MockLedger) FindUnrecorded(ctx context.Context, limit int) ([]*application.LedgerEntry, error) {
	if m.FindUnrecordedFn != nil {
		return m.FindUnrecordedFn(ctx, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*application.LedgerEntry
	for _, e := range m.entries {
		if e.State == domain.StateCapturedUnrecorded {
			copied := *e
			res = append(res, &copied)
			if len(res) == limit {
				break
			}
		}
	}
	return res, nil
}

func (m *MockLedger) MarkRecorded(ctx context.Context, orderID string, recordedAt time.Time) error {
	if m.MarkRecordedFn != nil {
		return m.MarkRecordedFn(ctx, orderID, recordedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[orderID]; ok {
		e.State = domain.StateCaptured
		e.RecordedAt = &recordedAt
		e.UpdatedAt = time.Now()
	}
	return nil
}
