package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
)

// HTTPGatewayClient talks to the payment provider's REST API. Idempotency
// keys travel in the Idempotency-Key header so a retried request resolves to
// the original operation on the provider side.
type HTTPGatewayClient struct {
	Address string
	APIKey  string
	client  *http.Client
}

func NewHTTPGatewayClient(address, apiKey string) *HTTPGatewayClient {
	return &HTTPGatewayClient{
		Address: address,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type authorizeBody struct {
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	Method        string            `json:"method"`
	MethodPayload map[string]string `json:"method_payload,omitempty"`
}

type captureBody struct {
	AuthID string `json:"auth_id"`
}

type transferBody struct {
	PaymentID   string          `json:"payment_id"`
	RecipientID string          `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type refundBody struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
}

type gatewayResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func (c *HTTPGatewayClient) Authorize(ctx context.Context, req domain.AuthorizeRequest) (string, error) {
	resp, _, err := c.post(ctx, "/v1/authorizations", req.IdempotencyKey, authorizeBody{
		Amount:        req.Amount,
		Currency:      req.Currency,
		Method:        req.Method,
		MethodPayload: req.MethodPayload,
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *HTTPGatewayClient) Capture(ctx context.Context, req domain.CaptureRequest) (string, string, error) {
	resp, raw, err := c.post(ctx, "/v1/captures", req.IdempotencyKey, captureBody{AuthID: req.AuthID})
	if err != nil {
		return "", "", err
	}
	return resp.ID, raw, nil
}

func (c *HTTPGatewayClient) Transfer(ctx context.Context, req domain.TransferRequest) (string, string, error) {
	resp, raw, err := c.post(ctx, "/v1/transfers", req.IdempotencyKey, transferBody{
		PaymentID:   req.PaymentID,
		RecipientID: req.RecipientID,
		Amount:      req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		return "", "", err
	}
	return resp.ID, raw, nil
}

func (c *HTTPGatewayClient) Refund(ctx context.Context, req domain.RefundRequest) (string, error) {
	resp, _, err := c.post(ctx, "/v1/refunds", req.IdempotencyKey, refundBody{
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *HTTPGatewayClient) post(ctx context.Context, path, idempotencyKey string, body interface{}) (*gatewayResponse, string, error) {
	requestBodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s%s", c.Address, path), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	response, err := c.client.Do(httpReq)
	if err != nil {
		return nil, "", err
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, "", err
	}

	var parsed gatewayResponse
	if err := json.Unmarshal(responseBodyBytes, &parsed); err != nil {
		return nil, "", fmt.Errorf("malformed gateway response: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return &parsed, string(responseBodyBytes), nil
	}
	if parsed.Error != "" {
		return nil, "", errors.New(parsed.Error)
	}
	return nil, "", fmt.Errorf("gateway returned status %d", response.StatusCode)
}
