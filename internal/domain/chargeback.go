package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type ChargebackStatus string

const (
	ChargebackNeedsResponse        ChargebackStatus = "needs_response"
	ChargebackWarningNeedsResponse ChargebackStatus = "warning_needs_response"
	ChargebackUnderReview          ChargebackStatus = "under_review"
	ChargebackWarningUnderReview   ChargebackStatus = "warning_under_review"
	ChargebackWithdrawn            ChargebackStatus = "withdrawn"
	ChargebackWon                  ChargebackStatus = "won"
	ChargebackLost                 ChargebackStatus = "lost"
	ChargebackChargeRefunded       ChargebackStatus = "charge_refunded"
)

// chargebackRank orders the dispute lifecycle; transitions never move to a
// lower rank, and within a rank the stored value wins (duplicate delivery
// is a no-op).
var chargebackRank = map[ChargebackStatus]int{
	ChargebackNeedsResponse:        1,
	ChargebackWarningNeedsResponse: 1,
	ChargebackUnderReview:          2,
	ChargebackWarningUnderReview:   2,
	ChargebackWithdrawn:            3,
	ChargebackWon:                  3,
	ChargebackLost:                 3,
	ChargebackChargeRefunded:       3,
}

// Rank returns the forward-only ordering position of s; unknown statuses
// rank lowest so they can never overwrite stored state.
func (s ChargebackStatus) Rank() int { return chargebackRank[s] }

// RequiresReversal reports whether entering s obliges the engine to reverse
// the disbursed splits of the referenced payment.
func (s ChargebackStatus) RequiresReversal() bool {
	return s == ChargebackLost || s == ChargebackChargeRefunded
}

func (s ChargebackStatus) Terminal() bool { return s.Rank() >= 3 }

// ChargebackEvent is keyed by (Gateway, ChargebackID) — the idempotency
// anchor. A duplicate webhook delivery for the same pair updates status
// fields only and never inserts a second row.
type ChargebackEvent struct {
	ID            string
	Gateway       string
	ChargebackID  string
	PaymentID     string
	DisputeID     string
	Status        ChargebackStatus
	ReasonCode    string
	Amount        decimal.Decimal
	Currency      string
	EvidenceDueAt *time.Time
	ReceivedAt    time.Time
	ResolvedAt    *time.Time
	RawPayload    []byte
}

type ChargebackRepository interface {
	// Upsert inserts the event or, when the (gateway, chargeback_id) pair
	// already exists, advances its status forward-only. It reports whether
	// the row was newly created and the status stored before the call, so
	// callers can gate side effects on the actual state change rather than
	// on delivery count.
	Upsert(ctx context.Context, event *ChargebackEvent) (created bool, previous ChargebackStatus, err error)
	GetByKey(ctx context.Context, gateway, chargebackID string) (*ChargebackEvent, error)
}
