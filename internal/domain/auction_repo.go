package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BidAcceptance carries everything the store needs to commit one accepted
// bid as a single transaction: the new bid row, the expected current bid the
// acceptance was validated against, and any anti-sniping extension computed
// alongside it. The store must reject the whole unit with ErrBidConflict
// when the auction's current bid no longer equals ExpectedBid.
type BidAcceptance struct {
	AuctionID         string
	ExpectedBid       decimal.Decimal
	Bid               *Bid
	NewExtendedEnd    *time.Time
	NewExtensionCount int
}

type AuctionRepository interface {
	Create(ctx context.Context, auction *Auction, splits []*SplitConfig) error
	GetByID(ctx context.Context, auctionID string) (*Auction, error)
	List(ctx context.Context, filter AuctionFilter) ([]*Auction, int64, error)

	// AcceptBid atomically inserts the bid, moves the winning flag, bumps
	// current_bid/bid_count, upserts the participant row and applies any
	// extension — conditioned on current_bid still equalling ExpectedBid.
	AcceptBid(ctx context.Context, acc *BidAcceptance) error

	FindDueScheduled(ctx context.Context, now time.Time) ([]*Auction, error)
	FindDueActive(ctx context.Context, now time.Time) ([]*Auction, error)
	FindOverduePayments(ctx context.Context, now time.Time) ([]*Auction, error)

	MarkActive(ctx context.Context, auctionID string, at time.Time) error
	CloseWithWinner(ctx context.Context, auctionID string, winnerID *string, deadline *time.Time, at time.Time) error
	// ReassignWinner forfeits every bid of forfeitBidderID, promotes
	// newWinningBidID (nil when no bidders remain, which clears the winner
	// and the deadline) and re-arms the payment deadline. It is a no-op
	// unless forfeitBidderID is still the unpaid winner.
	ReassignWinner(ctx context.Context, auctionID, forfeitBidderID string, winnerID *string, newWinningBidID *string, deadline *time.Time, at time.Time) error
	// MarkPaymentCompleted closes the payment window, but only while
	// winnerID still holds the win; otherwise it returns ErrWinnerChanged.
	MarkPaymentCompleted(ctx context.Context, auctionID, winnerID string, at time.Time) error
	Cancel(ctx context.Context, auctionID string, at time.Time) error

	SplitConfigs(ctx context.Context, auctionID string) ([]*SplitConfig, error)
	Transitions(ctx context.Context, auctionID string) ([]*AuctionTransition, error)
}
