// Package provider implements the hosted-checkout API client: credential
// exchange, order creation and order capture.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/config"
)

const intentCapture = "CAPTURE"

type HTTPClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

func NewClient(cfg config.ProviderConfig) application.PaymentProvider {
	return &HTTPClient{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

// ExchangeCredentials performs the client-credentials grant. The credential is
// returned with an absolute expiry; caching is the token source's business.
func (c *HTTPClient) ExchangeCredentials(ctx context.Context) (*application.AccessCredential, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	endpoint := fmt.Sprintf("%s/v1/oauth2/token", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.SetBasicAuth(c.clientID, c.clientSecret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newProviderError("exchange_credentials", resp.StatusCode, body)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("provider returned an empty access token")
	}

	return &application.AccessCredential{
		Value:     tokenResp.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}

func (c *HTTPClient) CreateOrder(ctx context.Context, cred *application.AccessCredential, req application.CreateOrderRequest) (*application.CreateOrderResponse, error) {
	payload := createOrderPayload{
		Intent: intentCapture,
		PurchaseUnits: []purchaseUnitPayload{{
			Amount: amountPayload{
				CurrencyCode: req.Currency,
				Value:        req.Amount,
			},
			CustomID: req.CorrelationToken,
		}},
		ApplicationContext: &applicationContextPayload{
			ReturnURL: req.ReturnURL,
			CancelURL: req.CancelURL,
		},
	}

	endpoint := fmt.Sprintf("%s/v2/checkout/orders", c.baseURL)
	body, err := c.sendJSON(ctx, "create_order", endpoint, cred, payload)
	if err != nil {
		return nil, err
	}

	var orderResp createOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}
	if orderResp.ID == "" {
		return nil, fmt.Errorf("provider returned no order id")
	}

	return &application.CreateOrderResponse{
		OrderID:     orderResp.ID,
		ApprovalURL: approvalLink(orderResp.Links),
	}, nil
}

func (c *HTTPClient) CaptureOrder(ctx context.Context, cred *application.AccessCredential, orderID string) (*application.CaptureOrderResponse, error) {
	endpoint := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", c.baseURL, url.PathEscape(orderID))
	body, err := c.sendJSON(ctx, "capture_order", endpoint, cred, nil)
	if err != nil {
		return nil, err
	}

	var captureResp captureOrderResponse
	if err := json.Unmarshal(body, &captureResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &application.CaptureOrderResponse{
		OrderID:          captureResp.ID,
		Status:           captureResp.Status,
		CorrelationToken: captureResp.correlationToken(),
		RawPayload:       body,
	}, nil
}

func (c *HTTPClient) sendJSON(ctx context.Context, op, endpoint string, cred *application.AccessCredential, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cred.Value)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newProviderError(op, resp.StatusCode, body)
	}

	return body, nil
}

func newProviderError(op string, statusCode int, body []byte) *application.ProviderError {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Name == "" {
		return &application.ProviderError{
			Op:         op,
			Message:    string(body),
			StatusCode: statusCode,
			Raw:        body,
		}
	}
	return &application.ProviderError{
		Op:         op,
		Code:       errResp.Name,
		Message:    errResp.Message,
		StatusCode: statusCode,
		Raw:        body,
	}
}

// approvalLink picks the redirect target the payer has to visit. Providers
// label it "approve" on v2 orders and "payer-action" on some flows.
func approvalLink(links []linkObject) string {
	for _, l := range links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	for _, l := range links {
		if l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}
