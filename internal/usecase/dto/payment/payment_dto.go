package paymentdto

import (
	"time"

	"github.com/staynest/auction-service/internal/domain"
)

type ConfirmPaymentInput struct {
	AuctionID     string
	PayerID       string
	Method        string
	MethodPayload map[string]string
}

type PaymentOutput struct {
	ID         string     `json:"id"`
	AuctionID  string     `json:"auction_id"`
	PayerID    string     `json:"payer_id"`
	Amount     string     `json:"amount"`
	Currency   string     `json:"currency"`
	Method     string     `json:"method"`
	Status     string     `json:"status"`
	CapturedAt *time.Time `json:"captured_at,omitempty"`
	RefundedAt *time.Time `json:"refunded_at,omitempty"`
}

func NewPaymentOutput(p *domain.Payment) *PaymentOutput {
	return &PaymentOutput{
		ID:         p.ID,
		AuctionID:  p.AuctionID,
		PayerID:    p.PayerID,
		Amount:     p.Amount.StringFixed(2),
		Currency:   p.Currency,
		Method:     p.Method,
		Status:     string(p.Status),
		CapturedAt: p.CapturedAt,
		RefundedAt: p.RefundedAt,
	}
}

type SplitOutput struct {
	ID            string     `json:"id"`
	PaymentID     string     `json:"payment_id"`
	RecipientID   string     `json:"recipient_id"`
	RecipientType string     `json:"recipient_type"`
	Amount        string     `json:"amount"`
	Status        string     `json:"status"`
	FailureReason string     `json:"failure_reason,omitempty"`
	RetryCount    int        `json:"retry_count,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	LedgerNote    string     `json:"ledger_note,omitempty"`
}

func NewSplitOutput(s *domain.PaymentSplit) *SplitOutput {
	return &SplitOutput{
		ID:            s.ID,
		PaymentID:     s.PaymentID,
		RecipientID:   s.RecipientID,
		RecipientType: string(s.RecipientType),
		Amount:        s.Amount.StringFixed(2),
		Status:        string(s.Status),
		FailureReason: s.FailureReason,
		RetryCount:    s.RetryCount,
		NextRetryAt:   s.NextRetryAt,
		LedgerNote:    s.LedgerNote,
	}
}

type PaymentStatusOutput struct {
	RequiresPayment  bool           `json:"requires_payment"`
	RemainingSeconds int64          `json:"remaining_seconds"`
	PaymentDeadline  *time.Time     `json:"payment_deadline,omitempty"`
	AmountDue        string         `json:"amount_due,omitempty"`
	Payment          *PaymentOutput `json:"payment,omitempty"`
	Splits           []*SplitOutput `json:"splits,omitempty"`
}
