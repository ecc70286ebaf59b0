// Package recordstore implements the remote keyed datastore client that owns
// payment records after capture. Writes are keyed by user id and overwrite
// whatever is there; the payload is deterministic per order, so a replayed
// write is a no-op in effect.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/config"
	"github.com/davidakinola/tierpay/internal/domain"
)

type HTTPClient struct {
	baseURL    string
	authSecret string
	httpClient *http.Client
}

func NewClient(cfg config.RecordStoreConfig) application.RecordStore {
	return &HTTPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authSecret: cfg.AuthSecret,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

// WriteRecord puts the record at payments/<userID>. The store treats PUT as a
// full replace, which is exactly the overwrite semantics captures rely on.
func (c *HTTPClient) WriteRecord(ctx context.Context, record *domain.PaymentRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshalling record: %w", err)
	}

	endpoint := fmt.Sprintf("%s/payments/%s.json", c.baseURL, url.PathEscape(record.UserID))
	if c.authSecret != "" {
		endpoint += "?auth=" + url.QueryEscape(c.authSecret)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &application.RecordStoreError{Key: record.UserID, Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &application.RecordStoreError{Key: record.UserID, StatusCode: resp.StatusCode}
	}

	return nil
}
