package provider

// Wire types for the hosted-checkout REST API.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type amountPayload struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnitPayload struct {
	Amount   amountPayload `json:"amount"`
	CustomID string        `json:"custom_id,omitempty"`
}

type applicationContextPayload struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type createOrderPayload struct {
	Intent             string                     `json:"intent"`
	PurchaseUnits      []purchaseUnitPayload      `json:"purchase_units"`
	ApplicationContext *applicationContextPayload `json:"application_context,omitempty"`
}

type linkObject struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

type createOrderResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Links  []linkObject `json:"links"`
}

type captureObject struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	CustomID string `json:"custom_id"`
}

type capturePayments struct {
	Captures []captureObject `json:"captures"`
}

type capturePurchaseUnit struct {
	CustomID string          `json:"custom_id"`
	Payments capturePayments `json:"payments"`
}

type captureOrderResponse struct {
	ID            string                `json:"id"`
	Status        string                `json:"status"`
	PurchaseUnits []capturePurchaseUnit `json:"purchase_units"`
}

// correlationToken returns the echoed free-form field, preferring the capture
// object over the purchase unit. Empty when the provider dropped it.
func (r *captureOrderResponse) correlationToken() string {
	for _, pu := range r.PurchaseUnits {
		for _, c := range pu.Payments.Captures {
			if c.CustomID != "" {
				return c.CustomID
			}
		}
		if pu.CustomID != "" {
			return pu.CustomID
		}
	}
	return ""
}

type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
}
