package domain

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func TestAuction_EffectiveEnd(t *testing.T) {
	end := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	a := &Auction{EndTime: end}
	check.Equal(t, end, a.EffectiveEnd())

	extended := end.Add(4 * time.Minute)
	a.ExtendedEnd = &extended
	check.Equal(t, extended, a.EffectiveEnd())

	// A stale extension behind the scheduled end never shortens the close.
	behind := end.Add(-time.Minute)
	a.ExtendedEnd = &behind
	check.Equal(t, end, a.EffectiveEnd())
}

func TestAuction_MinNextBid(t *testing.T) {
	a := &Auction{
		CurrentBid:   decimal.NewFromInt(140),
		MinIncrement: decimal.NewFromInt(10),
	}
	check.Equal(t, "150.00", a.MinNextBid().StringFixed(2))
}

func TestAuction_PaymentInFlight(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	winner := "bidder-a"
	deadline := now.Add(5 * time.Minute)

	a := &Auction{
		Status:          AuctionEnded,
		WinnerID:        &winner,
		PaymentDeadline: &deadline,
	}
	check.True(t, a.PaymentInFlight(now))
	check.False(t, a.PaymentInFlight(deadline))

	a.PaymentCompleted = true
	check.False(t, a.PaymentInFlight(now))
}
