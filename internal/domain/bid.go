package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Bid rows are append-only: a later bid never alters an earlier bid's
// amount, only its winning/forfeited flags.
type Bid struct {
	ID        string
	Reference string // short shareable code
	AuctionID string
	BidderID  string
	Amount    decimal.Decimal
	AutoBid   bool
	MaxAmount *decimal.Decimal // proxy ceiling, set iff AutoBid
	IsWinning bool
	Forfeited bool
	CreatedAt time.Time
}

// AutoBid is a standing proxy: the system defends the bidder's lead in
// minimum increments up to Ceiling. One active proxy per (auction, bidder).
type AutoBid struct {
	ID        string
	AuctionID string
	BidderID  string
	Ceiling   decimal.Decimal
	Active    bool
	CreatedAt time.Time
}

// Participant is a denormalized per-(auction, bidder) aggregate used for
// display; never authoritative for ordering.
type Participant struct {
	ID             string
	AuctionID      string
	BidderID       string
	BidCount       int
	TotalBidAmount decimal.Decimal
	FirstBidAt     time.Time
	LastBidAt      time.Time
}

type BidRepository interface {
	History(ctx context.Context, auctionID string) ([]*Bid, error)
	GetWinning(ctx context.Context, auctionID string) (*Bid, error)
	// RankedRemaining returns non-forfeited bids ordered highest amount
	// first, earliest acceptance first on equal amounts.
	RankedRemaining(ctx context.Context, auctionID string) ([]*Bid, error)
}

type AutoBidRepository interface {
	Upsert(ctx context.Context, proxy *AutoBid) error
	// ActiveForAuction returns active proxies in registration order.
	ActiveForAuction(ctx context.Context, auctionID string) ([]*AutoBid, error)
	Deactivate(ctx context.Context, proxyID string) error
}

type ParticipantRepository interface {
	ForAuction(ctx context.Context, auctionID string) ([]*Participant, error)
}
