package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BidModel struct {
	ID        string           `gorm:"primaryKey;type:uuid"`
	Reference string           `gorm:"size:24;uniqueIndex"`
	AuctionID string           `gorm:"type:uuid;index:idx_bids_auction_amount,priority:1;index:idx_bids_auction_winning,priority:1"`
	BidderID  string           `gorm:"type:uuid;index"`
	Amount    decimal.Decimal  `gorm:"type:numeric(12,2);index:idx_bids_auction_amount,priority:2,sort:desc"`
	AutoBid   bool
	MaxAmount *decimal.Decimal `gorm:"type:numeric(12,2)"`
	IsWinning bool             `gorm:"index:idx_bids_auction_winning,priority:2"`
	Forfeited bool
	CreatedAt time.Time
}

func (BidModel) TableName() string { return "auction_bids" }

type AutoBidModel struct {
	ID        string          `gorm:"primaryKey;type:uuid"`
	AuctionID string          `gorm:"type:uuid;uniqueIndex:ux_auto_bids_auction_bidder,priority:1"`
	BidderID  string          `gorm:"type:uuid;uniqueIndex:ux_auto_bids_auction_bidder,priority:2"`
	Ceiling   decimal.Decimal `gorm:"type:numeric(12,2)"`
	Active    bool            `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AutoBidModel) TableName() string { return "auction_auto_bids" }

type ParticipantModel struct {
	ID             string          `gorm:"primaryKey;type:uuid"`
	AuctionID      string          `gorm:"type:uuid;uniqueIndex:ux_participants_auction_bidder,priority:1"`
	BidderID       string          `gorm:"type:uuid;uniqueIndex:ux_participants_auction_bidder,priority:2"`
	BidCount       int
	TotalBidAmount decimal.Decimal `gorm:"type:numeric(14,2)"`
	FirstBidAt     time.Time
	LastBidAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ParticipantModel) TableName() string { return "auction_participants" }
