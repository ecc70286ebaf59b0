package provider

import (
	"context"
	"sync"
	"time"

	"github.com/davidakinola/tierpay/internal/application"
)

// expirySkew keeps a credential from being handed out moments before it
// lapses mid-flight.
const expirySkew = 30 * time.Second

// CachedTokenSource holds at most one live provider credential, shared by all
// concurrent callers. A miss triggers a synchronous exchange bounded by
// authTimeout; concurrent misses may each exchange (redundant but harmless),
// and no caller ever receives a credential whose TTL has already elapsed.
type CachedTokenSource struct {
	exchanger   application.PaymentProvider
	authTimeout time.Duration

	mu   sync.RWMutex
	cred *application.AccessCredential
}

func NewCachedTokenSource(exchanger application.PaymentProvider, authTimeout time.Duration) *CachedTokenSource {
	return &CachedTokenSource{
		exchanger:   exchanger,
		authTimeout: authTimeout,
	}
}

func (s *CachedTokenSource) Token(ctx context.Context) (*application.AccessCredential, error) {
	now := time.Now()

	s.mu.RLock()
	cred := s.cred
	s.mu.RUnlock()

	if cred.Valid(now.Add(expirySkew)) {
		return cred, nil
	}

	// The exchange runs outside the lock so a slow provider never blocks
	// callers holding fresh work of their own.
	exchangeCtx, cancel := context.WithTimeout(ctx, s.authTimeout)
	defer cancel()

	fresh, err := s.exchanger.ExchangeCredentials(exchangeCtx)
	if err != nil {
		return nil, application.NewUpstreamAuthError(err)
	}

	s.mu.Lock()
	s.cred = fresh
	s.mu.Unlock()

	return fresh, nil
}
