package domain

import (
	"context"
	"time"
)

const (
	EventBidAccepted       = "bid.accepted"
	EventAuctionActivated  = "auction.activated"
	EventAuctionExtended   = "auction.extended"
	EventAuctionEnded      = "auction.ended"
	EventAuctionCancelled  = "auction.cancelled"
	EventWinnerAssigned    = "winner.assigned"
	EventWinnerReassigned  = "winner.reassigned"
	EventPaymentCaptured   = "payment.captured"
	EventSplitCompleted    = "split.completed"
	EventSplitFailed       = "split.failed"
	EventChargebackOpened  = "chargeback.opened"
	EventChargebackClosed  = "chargeback.closed"
	EventSplitsReversed    = "chargeback.splits_reversed"
)

// AuctionEvent is the outbound notification payload. Client delivery
// (push, mail, in-app) is an external collaborator consuming these.
type AuctionEvent struct {
	Type       string    `json:"type"`
	AuctionID  string    `json:"auction_id,omitempty"`
	BidID      string    `json:"bid_id,omitempty"`
	BidderID   string    `json:"bidder_id,omitempty"`
	WinnerID   string    `json:"winner_id,omitempty"`
	PaymentID  string    `json:"payment_id,omitempty"`
	SplitID    string    `json:"split_id,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Currency   string    `json:"currency,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EventPublisher interface {
	PublishAuctionEvent(ctx context.Context, event AuctionEvent) error
}
