package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChargebackEventModel carries the unique (gateway, chargeback_id) pair —
// the idempotency anchor the upsert conflicts on.
type ChargebackEventModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	Gateway       string `gorm:"uniqueIndex:ux_chargebacks_gateway_id,priority:1"`
	ChargebackID  string `gorm:"uniqueIndex:ux_chargebacks_gateway_id,priority:2"`
	PaymentID     string `gorm:"type:uuid;index"`
	DisputeID     string
	Status        string `gorm:"index"`
	ReasonCode    string
	Amount        decimal.Decimal `gorm:"type:numeric(12,2)"`
	Currency      string          `gorm:"size:3"`
	EvidenceDueAt *time.Time
	ReceivedAt    time.Time
	ResolvedAt    *time.Time
	RawPayload    []byte `gorm:"type:jsonb"`
}

func (ChargebackEventModel) TableName() string { return "chargeback_events" }
