package webhookdto

import "time"

// ChargebackPayload is the gateway-agnostic shape the reconciler consumes
// after delivery-specific parsing.
type ChargebackPayload struct {
	ChargebackID  string     `json:"chargeback_id"`
	PaymentID     string     `json:"payment_id"`
	DisputeID     string     `json:"dispute_id,omitempty"`
	Status        string     `json:"status"`
	ReasonCode    string     `json:"reason_code,omitempty"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	EvidenceDueAt *time.Time `json:"evidence_due_at,omitempty"`
}

type ProcessWebhookInput struct {
	Gateway   string
	Signature string
	Body      []byte
}

type ProcessWebhookOutput struct {
	ChargebackID string `json:"chargeback_id"`
	Status       string `json:"status"`
	Created      bool   `json:"created"`
	Reversed     bool   `json:"reversed"`
}
