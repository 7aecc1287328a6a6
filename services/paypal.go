package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"rentsplit-backend/config"
)

// PaymentProcessor is the contract the settlement reconciler consumes.
// The production implementation talks to PayPal's v2 orders API; tests
// substitute a stub.
type PaymentProcessor interface {
	CreateOrder(ctx context.Context, amount float64, description, sku string) (*ProcessorOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*ProcessorCapture, error)
}

// ProcessorOrder is the create-order result returned unmodified to callers,
// including the approval link the client redirects to.
type ProcessorOrder struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	ApprovalLink string          `json:"approval_link,omitempty"`
	Links        []ProcessorLink `json:"links,omitempty"`
}

type ProcessorLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type ProcessorCapture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type PayPalClient struct {
	baseURL   string
	clientID  string
	secret    string
	returnURL string
	http      *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalClient(cfg *config.Config) *PayPalClient {
	return &PayPalClient{
		baseURL:   cfg.PayPalBaseURL,
		clientID:  cfg.PayPalClientID,
		secret:    cfg.PayPalSecret,
		returnURL: cfg.PayPalReturnURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// token returns a cached OAuth access token, refreshing it shortly before
// expiry.
func (p *PayPalClient) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry.Add(-time.Minute)) {
		return p.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("paypal token request returned %d: %s", resp.StatusCode, body)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	p.accessToken = out.AccessToken
	p.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn) * time.Second)
	return p.accessToken, nil
}

// CreateOrder opens a single-line-item CAPTURE order for a 2-decimal USD
// amount.
func (p *PayPalClient) CreateOrder(ctx context.Context, amount float64, description, sku string) (*ProcessorOrder, error) {
	value := fmt.Sprintf("%.2f", amount)
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"application_context": map[string]string{
			"return_url": p.returnURL,
		},
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]interface{}{
					"currency_code": "USD",
					"value":         value,
					"breakdown": map[string]interface{}{
						"item_total": map[string]string{
							"currency_code": "USD",
							"value":         value,
						},
					},
				},
				"items": []map[string]interface{}{
					{
						"name":        "Expense Reimbursement",
						"description": description,
						"sku":         sku,
						"quantity":    "1",
						"unit_amount": map[string]string{
							"currency_code": "USD",
							"value":         value,
						},
					},
				},
			},
		},
	}

	var order ProcessorOrder
	if err := p.post(ctx, "/v2/checkout/orders", body, &order); err != nil {
		return nil, err
	}
	for _, l := range order.Links {
		if l.Rel == "approve" {
			order.ApprovalLink = l.Href
		}
	}
	return &order, nil
}

// CaptureOrder captures a previously approved order and returns the
// processor's authoritative status.
func (p *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*ProcessorCapture, error) {
	var capture ProcessorCapture
	if err := p.post(ctx, "/v2/checkout/orders/"+orderID+"/capture", struct{}{}, &capture); err != nil {
		return nil, err
	}
	return &capture, nil
}

func (p *PayPalClient) post(ctx context.Context, path string, body, out interface{}) error {
	tok, err := p.token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("paypal %s returned %d: %s", path, resp.StatusCode, raw)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
