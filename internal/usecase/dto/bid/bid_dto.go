package biddto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
)

type PlaceBidInput struct {
	AuctionID string
	BidderID  string
	Amount    decimal.Decimal
}

type RegisterAutoBidInput struct {
	AuctionID string
	BidderID  string
	Ceiling   decimal.Decimal
}

type BidOutput struct {
	ID        string  `json:"id"`
	Reference string  `json:"reference"`
	AuctionID string  `json:"auction_id"`
	BidderID  string  `json:"bidder_id"`
	Amount    string  `json:"amount"`
	AutoBid   bool    `json:"auto_bid"`
	MaxAmount *string `json:"max_amount,omitempty"`
	IsWinning bool    `json:"is_winning"`
	Forfeited bool    `json:"forfeited,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBidOutput(b *domain.Bid) *BidOutput {
	out := &BidOutput{
		ID:        b.ID,
		Reference: b.Reference,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount.StringFixed(2),
		AutoBid:   b.AutoBid,
		IsWinning: b.IsWinning,
		Forfeited: b.Forfeited,
		CreatedAt: b.CreatedAt,
	}
	if b.MaxAmount != nil {
		s := b.MaxAmount.StringFixed(2)
		out.MaxAmount = &s
	}
	return out
}

// PlaceBidOutput reports the accepted bid plus any proxy counter-bids that
// fired in response, in the order they were accepted.
type PlaceBidOutput struct {
	Bid         *BidOutput   `json:"bid"`
	CounterBids []*BidOutput `json:"counter_bids,omitempty"`
	CurrentBid  string       `json:"current_bid"`
	Extended    bool         `json:"extended"`
	EffectiveEnd time.Time   `json:"effective_end"`
}

type AutoBidOutput struct {
	ID        string `json:"id"`
	AuctionID string `json:"auction_id"`
	BidderID  string `json:"bidder_id"`
	Ceiling   string `json:"ceiling"`
	Active    bool   `json:"active"`
	// CounterBids fired immediately on registration, when the proxy could
	// already outbid the standing price.
	CounterBids []*BidOutput `json:"counter_bids,omitempty"`
}
