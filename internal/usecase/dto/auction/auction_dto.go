package auctiondto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
)

type CreateAuctionInput struct {
	ListingID    string
	HostID       string
	Description  string
	Currency     string
	StartPrice   decimal.Decimal
	MinIncrement decimal.Decimal
	StartTime    time.Time
	EndTime      time.Time
	CheckIn      time.Time
	CheckOut     time.Time
	MaxGuests    int
	Splits       []SplitConfigInput
}

type SplitConfigInput struct {
	RecipientID   string
	RecipientType string
	SplitType     string
	Value         decimal.Decimal
}

type AuctionOutput struct {
	ID               string     `json:"id"`
	ListingID        string     `json:"listing_id"`
	HostID           string     `json:"host_id"`
	Description      string     `json:"description,omitempty"`
	Currency         string     `json:"currency"`
	StartPrice       string     `json:"start_price"`
	CurrentBid       string     `json:"current_bid"`
	MinIncrement     string     `json:"min_increment"`
	MinNextBid       string     `json:"min_next_bid"`
	StartTime        time.Time  `json:"start_time"`
	EndTime          time.Time  `json:"end_time"`
	EffectiveEnd     time.Time  `json:"effective_end"`
	ExtensionCount   int        `json:"extension_count"`
	Status           string     `json:"status"`
	WinnerID         *string    `json:"winner_id,omitempty"`
	BidCount         int        `json:"bid_count"`
	ParticipantCount int        `json:"participant_count"`
	CheckIn          time.Time  `json:"check_in"`
	CheckOut         time.Time  `json:"check_out"`
	MaxGuests        int        `json:"max_guests"`
	PaymentCompleted bool       `json:"payment_completed"`
	PaymentDeadline  *time.Time `json:"payment_deadline,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewAuctionOutput(a *domain.Auction) *AuctionOutput {
	return &AuctionOutput{
		ID:               a.ID,
		ListingID:        a.ListingID,
		HostID:           a.HostID,
		Description:      a.Description,
		Currency:         a.Currency,
		StartPrice:       a.StartPrice.StringFixed(2),
		CurrentBid:       a.CurrentBid.StringFixed(2),
		MinIncrement:     a.MinIncrement.StringFixed(2),
		MinNextBid:       a.MinNextBid().StringFixed(2),
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		EffectiveEnd:     a.EffectiveEnd(),
		ExtensionCount:   a.ExtensionCount,
		Status:           string(a.Status),
		WinnerID:         a.WinnerID,
		BidCount:         a.BidCount,
		ParticipantCount: a.ParticipantCount,
		CheckIn:          a.CheckIn,
		CheckOut:         a.CheckOut,
		MaxGuests:        a.MaxGuests,
		PaymentCompleted: a.PaymentCompleted,
		PaymentDeadline:  a.PaymentDeadline,
		CreatedAt:        a.CreatedAt,
	}
}

type ListAuctionsInput struct {
	Statuses    []string
	HostID      string
	ListingIDs  []string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	CheckInFrom *time.Time
	CheckOutTo  *time.Time
	Page        int64
	Limit       int64
	SortBy      string
	SortOrder   string
}

type ListAuctionsOutput struct {
	Auctions []*AuctionOutput `json:"auctions"`
	Total    int64            `json:"total"`
	Page     int64            `json:"page"`
	Limit    int64            `json:"limit"`
}

type TransitionOutput struct {
	Kind       string    `json:"kind"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	WinnerID   *string   `json:"winner_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
