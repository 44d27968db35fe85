package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"property-marketplace/internal/domain"
	"property-marketplace/internal/domain/ports/adapter"
)

// Ensure compile-time conformance
var _ adapter.PaymentGateway = (*XenditGateway)(nil)

// XenditGateway implements adapter.PaymentGateway against the Xendit
// invoice API using direct HTTP calls.
type XenditGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewXenditGateway(secretKey, baseURL string) *XenditGateway {
	if baseURL == "" {
		baseURL = "https://api.xendit.co"
	}
	return &XenditGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *XenditGateway) Name() string { return "xendit" }

// xenditInvoice mirrors the fields of the invoice API response we consume.
type xenditInvoice struct {
	ID            string     `json:"id"`
	ExternalID    string     `json:"external_id"`
	Status        string     `json:"status"`
	InvoiceURL    string     `json:"invoice_url"`
	PaymentMethod string     `json:"payment_method"`
	PaidAt        *time.Time `json:"paid_at"`
}

func (inv *xenditInvoice) toAdapter() *adapter.Invoice {
	return &adapter.Invoice{
		ID:            inv.ID,
		Status:        inv.Status,
		PayURL:        inv.InvoiceURL,
		PaymentMethod: inv.PaymentMethod,
		PaidAt:        inv.PaidAt,
	}
}

func (g *XenditGateway) CreateInvoice(ctx context.Context, req adapter.InvoiceRequest) (*adapter.Invoice, error) {
	requestData := map[string]interface{}{
		"external_id": req.ExternalOrderID,
		"amount":      req.Amount,
		"currency":    req.Currency,
		"description": req.Description,
	}
	if req.PayerEmail != "" {
		requestData["payer_email"] = req.PayerEmail
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/v2/invoices", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(g.secretKey, "")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send invoice request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrGatewayRejected, resp.StatusCode, string(body))
	}

	var inv xenditInvoice
	if err := json.Unmarshal(body, &inv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice response: %w, body: %s", err, string(body))
	}
	return inv.toAdapter(), nil
}

// FindInvoice queries by our order reference. The API returns an array;
// external ids are unique per account so the first entry wins.
func (g *XenditGateway) FindInvoice(ctx context.Context, externalOrderID string) (*adapter.Invoice, error) {
	url := g.baseURL + "/v2/invoices?external_id=" + externalOrderID
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.SetBasicAuth(g.secretKey, "")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrGatewayRejected, resp.StatusCode, string(body))
	}

	var invoices []xenditInvoice
	if err := json.Unmarshal(body, &invoices); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice list: %w, body: %s", err, string(body))
	}
	if len(invoices) == 0 {
		return nil, domain.ErrNotFound
	}
	return invoices[0].toAdapter(), nil
}
