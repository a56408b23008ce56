package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
)

func TestCancelPayment_ForfeitsImmediately(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t) // bidder-a won, window open until baseTime+5m
	f.store.AddBid(&domain.Bid{
		ID: "bid-2", AuctionID: "auction-1", BidderID: "bidder-b",
		Amount:    decimal.NewFromInt(130),
		CreatedAt: baseTime.Add(-12 * time.Minute),
	})

	err := f.uc.CancelPayment(context.Background(), "auction-1", "bidder-a")
	check.Nil(t, err)

	auction, gerr := f.store.GetByID(context.Background(), "auction-1")
	check.Nil(t, gerr)
	check.NotNil(t, auction.WinnerID)
	check.Equal(t, "bidder-b", *auction.WinnerID)
	check.NotNil(t, auction.PaymentDeadline)
	check.Equal(t, baseTime.Add(5*time.Minute), *auction.PaymentDeadline)
	check.Equal(t, 1, f.pub.CountOf(domain.EventWinnerReassigned))
}

func TestCancelPayment_OnlyTheWinnerMayForfeit(t *testing.T) {
	f := newPaymentFixture(t)
	f.seedWonAuction(t)

	err := f.uc.CancelPayment(context.Background(), "auction-1", "bidder-z")
	check.True(t, errors.Is(err, domain.ErrNotAuctionWinner))

	auction, gerr := f.store.GetByID(context.Background(), "auction-1")
	check.Nil(t, gerr)
	check.Equal(t, "bidder-a", *auction.WinnerID)
}

func TestCancelPayment_RejectedOnceCaptured(t *testing.T) {
	f := newPaymentFixture(t)
	auction := f.seedWonAuction(t)
	auction.PaymentCompleted = true
	f.store.AddAuction(auction)

	err := f.uc.CancelPayment(context.Background(), "auction-1", "bidder-a")
	check.True(t, errors.Is(err, domain.ErrNoPaymentDue))
}

func TestCancelPayment_NothingToForfeitOnActiveAuction(t *testing.T) {
	f := newPaymentFixture(t)
	auction := f.seedWonAuction(t)
	auction.Status = domain.AuctionActive
	auction.WinnerID = nil
	f.store.AddAuction(auction)

	err := f.uc.CancelPayment(context.Background(), "auction-1", "bidder-a")
	check.True(t, errors.Is(err, domain.ErrNoPaymentDue))
}
