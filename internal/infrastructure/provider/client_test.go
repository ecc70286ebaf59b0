package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidakinola/tierpay/internal/application"
	"github.com/davidakinola/tierpay/internal/config"
	"github.com/davidakinola/tierpay/internal/infrastructure/provider"
)

func newTestClient(baseURL string) application.PaymentProvider {
	return provider.NewClient(config.ProviderConfig{
		BaseURL:      baseURL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		ConnTimeout:  5 * time.Second,
	})
}

func TestExchangeCredentials_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/oauth2/token", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "A21AAJ",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	cred, err := client.ExchangeCredentials(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "A21AAJ", cred.Value)
	assert.True(t, cred.Valid(time.Now()))
	assert.WithinDuration(t, time.Now().Add(time.Hour), cred.ExpiresAt, 5*time.Second)
}

func TestExchangeCredentials_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"name":"AUTHENTICATION_FAILURE","message":"Authentication failed"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	cred, err := client.ExchangeCredentials(context.Background())
	require.Error(t, err)
	assert.Nil(t, cred)

	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "AUTHENTICATION_FAILURE", provErr.Code)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.False(t, provErr.IsRetryable())
}

func TestCreateOrder_Success(t *testing.T) {
	var sentPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/checkout/orders", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&sentPayload))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "O-1",
			"status": "CREATED",
			"links": [
				{"href": "https://provider.example/orders/O-1", "rel": "self", "method": "GET"},
				{"href": "https://provider.example/approve/O-1", "rel": "approve", "method": "GET"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cred := &application.AccessCredential{Value: "access-token", ExpiresAt: time.Now().Add(time.Hour)}

	resp, err := client.CreateOrder(context.Background(), cred, application.CreateOrderRequest{
		Amount:           "10.00",
		Currency:         "USD",
		CorrelationToken: "user-42:Tier1",
	})
	require.NoError(t, err)

	assert.Equal(t, "O-1", resp.OrderID)
	assert.Equal(t, "https://provider.example/approve/O-1", resp.ApprovalURL)

	assert.Equal(t, "CAPTURE", sentPayload["intent"])
	units := sentPayload["purchase_units"].([]any)
	require.Len(t, units, 1)
	unit := units[0].(map[string]any)
	assert.Equal(t, "user-42:Tier1", unit["custom_id"])
	amount := unit["amount"].(map[string]any)
	assert.Equal(t, "USD", amount["currency_code"])
	assert.Equal(t, "10.00", amount["value"])
}

func TestCreateOrder_ProviderRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY","message":"The requested action could not be performed"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cred := &application.AccessCredential{Value: "access-token", ExpiresAt: time.Now().Add(time.Hour)}

	resp, err := client.CreateOrder(context.Background(), cred, application.CreateOrderRequest{
		Amount: "10.00", Currency: "USD", CorrelationToken: "user-42:Tier1",
	})
	require.Error(t, err)
	assert.Nil(t, resp)

	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "UNPROCESSABLE_ENTITY", provErr.Code)
}

func TestCaptureOrder_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/checkout/orders/O-1/capture", r.URL.Path)

		w.Write([]byte(`{
			"id": "O-1",
			"status": "COMPLETED",
			"purchase_units": [{
				"payments": {"captures": [{"id": "C-9", "status": "COMPLETED", "custom_id": "user-42:Tier1"}]}
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cred := &application.AccessCredential{Value: "access-token", ExpiresAt: time.Now().Add(time.Hour)}

	resp, err := client.CaptureOrder(context.Background(), cred, "O-1")
	require.NoError(t, err)

	assert.Equal(t, "O-1", resp.OrderID)
	assert.Equal(t, application.StatusCompleted, resp.Status)
	assert.Equal(t, "user-42:Tier1", resp.CorrelationToken)
	assert.NotEmpty(t, resp.RawPayload)
}

func TestCaptureOrder_TokenFallsBackToPurchaseUnit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "O-1",
			"status": "COMPLETED",
			"purchase_units": [{"custom_id": "user-42:Tier2", "payments": {"captures": [{"id": "C-9", "status": "COMPLETED"}]}}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cred := &application.AccessCredential{Value: "access-token", ExpiresAt: time.Now().Add(time.Hour)}

	resp, err := client.CaptureOrder(context.Background(), cred, "O-1")
	require.NoError(t, err)
	assert.Equal(t, "user-42:Tier2", resp.CorrelationToken)
}

func TestCaptureOrder_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"name":"INTERNAL_SERVER_ERROR","message":"An internal server error occurred"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	cred := &application.AccessCredential{Value: "access-token", ExpiresAt: time.Now().Add(time.Hour)}

	resp, err := client.CaptureOrder(context.Background(), cred, "O-1")
	require.Error(t, err)
	assert.Nil(t, resp)

	provErr, ok := application.IsProviderError(err)
	require.True(t, ok)
	assert.True(t, provErr.IsRetryable())
}
