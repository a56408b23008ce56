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

func (f *auctionFixture) seedAuction(t *testing.T, id string, status domain.AuctionStatus) *domain.Auction {
	t.Helper()
	auction := &domain.Auction{
		ID:           id,
		ListingID:    "listing-1",
		HostID:       "host-1",
		Currency:     "BRL",
		StartPrice:   decimal.NewFromInt(100),
		CurrentBid:   decimal.NewFromInt(100),
		MinIncrement: decimal.NewFromInt(10),
		StartTime:    baseTime.Add(-1 * time.Hour),
		EndTime:      baseTime.Add(10 * time.Minute),
		Status:       status,
		CheckIn:      baseTime.Add(30 * 24 * time.Hour),
		CheckOut:     baseTime.Add(33 * 24 * time.Hour),
	}
	f.store.AddAuction(auction)
	return auction
}

func TestActivateDueAuctions_PromotesElapsedStarts(t *testing.T) {
	f := newAuctionFixture(t)
	f.seedAuction(t, "due", domain.AuctionScheduled)

	notDue := f.seedAuction(t, "not-due", domain.AuctionScheduled)
	notDue.StartTime = baseTime.Add(1 * time.Hour)
	f.store.AddAuction(notDue)

	err := f.uc.ActivateDueAuctions(context.Background())
	check.Nil(t, err)

	due, gerr := f.store.GetByID(context.Background(), "due")
	check.Nil(t, gerr)
	check.Equal(t, domain.AuctionActive, due.Status)

	later, gerr := f.store.GetByID(context.Background(), "not-due")
	check.Nil(t, gerr)
	check.Equal(t, domain.AuctionScheduled, later.Status)
	check.Equal(t, 1, f.pub.CountOf(domain.EventAuctionActivated))
}

func TestCloseDueAuctions_AssignsWinnerAndPaymentWindow(t *testing.T) {
	f := newAuctionFixture(t)
	auction := f.seedAuction(t, "a1", domain.AuctionActive)
	f.store.AddBid(&domain.Bid{
		ID: "bid-1", AuctionID: "a1", BidderID: "bidder-a",
		Amount: decimal.NewFromInt(140), IsWinning: true,
		CreatedAt: baseTime.Add(-time.Minute),
	})

	f.clock.Set(auction.EndTime.Add(time.Second))
	err := f.uc.CloseDueAuctions(context.Background())
	check.Nil(t, err)

	closed, gerr := f.store.GetByID(context.Background(), "a1")
	check.Nil(t, gerr)
	check.Equal(t, domain.AuctionEnded, closed.Status)
	check.NotNil(t, closed.WinnerID)
	check.Equal(t, "bidder-a", *closed.WinnerID)
	check.NotNil(t, closed.PaymentDeadline)
	check.Equal(t, f.clock.Now().Add(5*time.Minute), *closed.PaymentDeadline)

	check.Equal(t, 1, f.pub.CountOf(domain.EventAuctionEnded))
	check.Equal(t, 1, f.pub.CountOf(domain.EventWinnerAssigned))
}

func TestCloseDueAuctions_NoBidsEndsWithoutWinner(t *testing.T) {
	f := newAuctionFixture(t)
	auction := f.seedAuction(t, "a1", domain.AuctionActive)

	f.clock.Set(auction.EndTime.Add(time.Second))
	err := f.uc.CloseDueAuctions(context.Background())
	check.Nil(t, err)

	closed, gerr := f.store.GetByID(context.Background(), "a1")
	check.Nil(t, gerr)
	check.Equal(t, domain.AuctionEnded, closed.Status)
	check.Nil(t, closed.WinnerID)
	check.Nil(t, closed.PaymentDeadline)
	check.Equal(t, 0, f.pub.CountOf(domain.EventWinnerAssigned))
}

func TestCloseDueAuctions_HonorsExtendedEnd(t *testing.T) {
	f := newAuctionFixture(t)
	auction := f.seedAuction(t, "a1", domain.AuctionActive)
	extended := auction.EndTime.Add(4 * time.Minute)
	auction.ExtendedEnd = &extended
	auction.ExtensionCount = 2
	f.store.AddAuction(auction)

	// Past the original end but inside the extension.
	f.clock.Set(auction.EndTime.Add(time.Minute))
	err := f.uc.CloseDueAuctions(context.Background())
	check.Nil(t, err)

	still, gerr := f.store.GetByID(context.Background(), "a1")
	check.Nil(t, gerr)
	check.Equal(t, domain.AuctionActive, still.Status)

	f.clock.Set(extended.Add(time.Second))
	err = f.uc.CloseDueAuctions(context.Background())
	check.Nil(t, err)

	closed, gerr := f.store.GetByID(context.Background(), "a1")
	check.Nil(t, gerr)
	check.Equal(t, domain.AuctionEnded, closed.Status)
}

func TestCancelAuction_HostOnly(t *testing.T) {
	f := newAuctionFixture(t)
	f.seedAuction(t, "a1", domain.AuctionActive)

	err := f.uc.CancelAuction(context.Background(), "a1", "someone-else")
	check.True(t, errors.Is(err, domain.ErrNotAuctionHost))

	err = f.uc.CancelAuction(context.Background(), "a1", "host-1")
	check.Nil(t, err)

	cancelled, gerr := f.store.GetByID(context.Background(), "a1")
	check.Nil(t, gerr)
	check.Equal(t, domain.AuctionCancelled, cancelled.Status)
	check.Equal(t, 1, f.pub.CountOf(domain.EventAuctionCancelled))
}

func TestCancelAuction_RejectedWhilePaymentWindowOpen(t *testing.T) {
	f := newAuctionFixture(t)
	auction := f.seedAuction(t, "a1", domain.AuctionEnded)
	winner := "bidder-a"
	deadline := baseTime.Add(5 * time.Minute)
	auction.WinnerID = &winner
	auction.PaymentDeadline = &deadline
	f.store.AddAuction(auction)

	err := f.uc.CancelAuction(context.Background(), "a1", "host-1")
	check.True(t, errors.Is(err, domain.ErrAuctionPaymentInFlight))
}

func TestCancelAuction_AlreadyClosed(t *testing.T) {
	f := newAuctionFixture(t)
	f.seedAuction(t, "a1", domain.AuctionEnded)

	err := f.uc.CancelAuction(context.Background(), "a1", "host-1")
	check.True(t, errors.Is(err, domain.ErrAuctionAlreadyClosed))
}

func TestGetTransitions_RecordsLifecycle(t *testing.T) {
	f := newAuctionFixture(t)
	auction := f.seedAuction(t, "a1", domain.AuctionScheduled)

	err := f.uc.ActivateDueAuctions(context.Background())
	check.Nil(t, err)
	f.clock.Set(auction.EndTime.Add(time.Second))
	err = f.uc.CloseDueAuctions(context.Background())
	check.Nil(t, err)

	transitions, err := f.uc.GetTransitions(context.Background(), "a1")
	check.Nil(t, err)
	check.Equal(t, 2, len(transitions))
	check.Equal(t, string(domain.TransitionActivated), transitions[0].Kind)
	check.Equal(t, string(domain.TransitionEnded), transitions[1].Kind)
}
