package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
)

type AuctionModel struct {
	ID               string               `gorm:"primaryKey;type:uuid"`
	ListingID        string               `gorm:"type:uuid;index"`
	HostID           string               `gorm:"type:uuid;index"`
	Description      string
	Currency         string               `gorm:"size:3"`
	StartPrice       decimal.Decimal      `gorm:"type:numeric(12,2)"`
	CurrentBid       decimal.Decimal      `gorm:"type:numeric(12,2);index:idx_auctions_current_bid"`
	MinIncrement     decimal.Decimal      `gorm:"type:numeric(12,2)"`
	StartTime        time.Time            `gorm:"index:idx_auctions_status_start,priority:2"`
	EndTime          time.Time            `gorm:"index:idx_auctions_status_end,priority:2"`
	ExtendedEnd      *time.Time           `gorm:"index:idx_auctions_status_extended,priority:2"`
	ExtensionCount   int
	Status           domain.AuctionStatus `gorm:"index:idx_auctions_status_start,priority:1;index:idx_auctions_status_end,priority:1;index:idx_auctions_status_extended,priority:1;index:idx_auctions_status_deadline,priority:1"`
	WinnerID         *string              `gorm:"type:uuid"`
	BidCount         int
	ParticipantCount int
	CheckIn          time.Time
	CheckOut         time.Time
	MaxGuests        int
	PaymentCompleted bool
	PaymentDeadline  *time.Time `gorm:"index:idx_auctions_status_deadline,priority:2"`
	CreatedAt        time.Time  `gorm:"index:idx_auctions_created_at"`
	UpdatedAt        time.Time
}

func (AuctionModel) TableName() string { return "auctions" }

type AuctionTransitionModel struct {
	ID         string `gorm:"primaryKey;type:uuid"`
	AuctionID  string `gorm:"type:uuid;index"`
	Kind       string
	FromStatus string
	ToStatus   string
	WinnerID   *string `gorm:"type:uuid"`
	Detail     string
	OccurredAt time.Time
}

func (AuctionTransitionModel) TableName() string { return "auction_transitions" }
