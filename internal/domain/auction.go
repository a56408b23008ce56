package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuctionStatus string

const (
	AuctionScheduled AuctionStatus = "scheduled"
	AuctionActive    AuctionStatus = "active"
	AuctionEnded     AuctionStatus = "ended"
	AuctionCancelled AuctionStatus = "cancelled"
)

// Auction is the authoritative record of one lodging auction. CurrentBid is
// monotonically non-decreasing and is mutated only through the conditional
// bid-acceptance path; status, winner and extension fields are mutated only
// by the lifecycle manager.
type Auction struct {
	ID               string
	ListingID        string
	HostID           string
	Description      string
	Currency         string
	StartPrice       decimal.Decimal
	CurrentBid       decimal.Decimal
	MinIncrement     decimal.Decimal
	StartTime        time.Time
	EndTime          time.Time
	ExtendedEnd      *time.Time
	ExtensionCount   int
	Status           AuctionStatus
	WinnerID         *string
	BidCount         int
	ParticipantCount int
	CheckIn          time.Time
	CheckOut         time.Time
	MaxGuests        int
	PaymentCompleted bool
	PaymentDeadline  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EffectiveEnd is the close time after any anti-sniping extensions.
func (a *Auction) EffectiveEnd() time.Time {
	if a.ExtendedEnd != nil && a.ExtendedEnd.After(a.EndTime) {
		return *a.ExtendedEnd
	}
	return a.EndTime
}

// MinNextBid is the lowest amount the next bid must reach.
func (a *Auction) MinNextBid() decimal.Decimal {
	return a.CurrentBid.Add(a.MinIncrement)
}

// PaymentInFlight reports whether a payment window is currently open, i.e.
// the auction has a winner on the hook and the deadline has not yet passed.
func (a *Auction) PaymentInFlight(now time.Time) bool {
	return a.Status == AuctionEnded &&
		a.WinnerID != nil &&
		!a.PaymentCompleted &&
		a.PaymentDeadline != nil &&
		now.Before(*a.PaymentDeadline)
}

type TransitionKind string

const (
	TransitionActivated        TransitionKind = "activated"
	TransitionExtended         TransitionKind = "extended"
	TransitionEnded            TransitionKind = "ended"
	TransitionCancelled        TransitionKind = "cancelled"
	TransitionWinnerAssigned   TransitionKind = "winner_assigned"
	TransitionWinnerReassigned TransitionKind = "winner_reassigned"
	TransitionPaymentCompleted TransitionKind = "payment_completed"
)

// AuctionTransition is an append-only audit record of a lifecycle change.
type AuctionTransition struct {
	ID         string
	AuctionID  string
	Kind       TransitionKind
	FromStatus AuctionStatus
	ToStatus   AuctionStatus
	WinnerID   *string
	Detail     string
	OccurredAt time.Time
}

type AuctionFilter struct {
	Statuses      []AuctionStatus
	HostID        string
	ListingIDs    []string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	CheckInFrom   *time.Time
	CheckOutTo    *time.Time
	Page          int64
	Limit         int64
	SortBy        string // price | time | popularity | created
	SortOrder     string // asc | desc
}
