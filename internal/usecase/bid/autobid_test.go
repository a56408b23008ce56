package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
	biddto "github.com/staynest/auction-service/internal/usecase/dto/bid"
)

func (f *bidFixture) registerProxy(t *testing.T, bidderID string, ceiling int64) (*biddto.AutoBidOutput, error) {
	t.Helper()
	return f.uc.RegisterAutoBid(context.Background(), &biddto.RegisterAutoBidInput{
		AuctionID: "auction-1",
		BidderID:  bidderID,
		Ceiling:   decimal.NewFromInt(ceiling),
	})
}

func TestRegisterAutoBid_TakesTheLeadImmediately(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	out, err := f.registerProxy(t, "proxy-a", 200)
	check.Nil(t, err)
	check.True(t, out.Active)
	check.Equal(t, "200.00", out.Ceiling)

	// The proxy bids the minimum needed to lead, not its ceiling.
	check.Equal(t, 1, len(out.CounterBids))
	check.Equal(t, "110.00", out.CounterBids[0].Amount)
	check.True(t, out.CounterBids[0].AutoBid)

	auction, gerr := f.store.GetByID(context.Background(), "auction-1")
	check.Nil(t, gerr)
	check.Equal(t, "110.00", auction.CurrentBid.StringFixed(2))
}

func TestRegisterAutoBid_RejectsCeilingBelowFloor(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 105)
	check.True(t, errors.Is(err, domain.ErrCeilingTooLow))
}

func TestRegisterAutoBid_RejectsClosedAuction(t *testing.T) {
	f := newBidFixture(t)
	auction := f.seedAuction(t)
	auction.Status = domain.AuctionEnded
	f.store.AddAuction(auction)

	_, err := f.registerProxy(t, "proxy-a", 200)
	check.True(t, errors.Is(err, domain.ErrAuctionNotActive))
}

func TestAutoBid_DefendsLeadAgainstManualBid(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 200)
	check.Nil(t, err) // proxy leads at 110

	out, err := f.uc.PlaceBid(context.Background(), &biddto.PlaceBidInput{
		AuctionID: "auction-1",
		BidderID:  "human-b",
		Amount:    decimal.NewFromInt(160),
	})
	check.Nil(t, err)

	// The proxy answers 160 with exactly one increment on top.
	check.Equal(t, 1, len(out.CounterBids))
	check.Equal(t, "170.00", out.CounterBids[0].Amount)
	check.Equal(t, "proxy-a", out.CounterBids[0].BidderID)
	check.Equal(t, "170.00", out.CurrentBid)

	winning, werr := f.store.GetWinning(context.Background(), "auction-1")
	check.Nil(t, werr)
	check.Equal(t, "proxy-a", winning.BidderID)
}

func TestAutoBid_StopsAtCeiling(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 150)
	check.Nil(t, err) // proxy leads at 110

	// 150 is within the ceiling but the answering 160 is not.
	out, err := f.uc.PlaceBid(context.Background(), &biddto.PlaceBidInput{
		AuctionID: "auction-1",
		BidderID:  "human-b",
		Amount:    decimal.NewFromInt(150),
	})
	check.Nil(t, err)
	check.Equal(t, 0, len(out.CounterBids))

	winning, werr := f.store.GetWinning(context.Background(), "auction-1")
	check.Nil(t, werr)
	check.Equal(t, "human-b", winning.BidderID)
	check.Equal(t, "150.00", winning.Amount.StringFixed(2))
}

func TestAutoBid_TwoProxiesConverge(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 200)
	check.Nil(t, err) // a leads at 110
	out, err := f.registerProxy(t, "proxy-b", 180)
	check.Nil(t, err)

	// b cannot beat a's higher ceiling, so it jumps straight to its own
	// limit and a answers once on top of it.
	check.Equal(t, 2, len(out.CounterBids))
	check.Equal(t, "proxy-b", out.CounterBids[0].BidderID)
	check.Equal(t, "180.00", out.CounterBids[0].Amount)
	check.Equal(t, "proxy-a", out.CounterBids[1].BidderID)
	check.Equal(t, "190.00", out.CounterBids[1].Amount)

	winning, werr := f.store.GetWinning(context.Background(), "auction-1")
	check.Nil(t, werr)
	check.Equal(t, "proxy-a", winning.BidderID)
	check.Equal(t, "190.00", winning.Amount.StringFixed(2))
}

func TestAutoBid_EqualCeilingsFavorEarlierRegistration(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 150)
	check.Nil(t, err) // a leads at 110
	_, err = f.registerProxy(t, "proxy-b", 150)
	check.Nil(t, err)

	// On a tie b pushes to one increment below the shared ceiling and a
	// answers at the ceiling itself, keeping the earlier registration in
	// front.
	winning, werr := f.store.GetWinning(context.Background(), "auction-1")
	check.Nil(t, werr)
	check.Equal(t, "proxy-a", winning.BidderID)
	check.Equal(t, "150.00", winning.Amount.StringFixed(2))
}

func TestAutoBid_EqualCeilingsTieAtEveryPriceLevel(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 200)
	check.Nil(t, err) // a leads at 110
	out, err := f.registerProxy(t, "proxy-b", 200)
	check.Nil(t, err)

	check.Equal(t, 2, len(out.CounterBids))
	check.Equal(t, "proxy-b", out.CounterBids[0].BidderID)
	check.Equal(t, "190.00", out.CounterBids[0].Amount)
	check.Equal(t, "proxy-a", out.CounterBids[1].BidderID)
	check.Equal(t, "200.00", out.CounterBids[1].Amount)

	winning, werr := f.store.GetWinning(context.Background(), "auction-1")
	check.Nil(t, werr)
	check.Equal(t, "proxy-a", winning.BidderID)
	check.Equal(t, "200.00", winning.Amount.StringFixed(2))
}

func TestCancelAutoBid_StopsCountering(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 200)
	check.Nil(t, err)

	err = f.uc.CancelAutoBid(context.Background(), "auction-1", "proxy-a")
	check.Nil(t, err)

	out, err := f.uc.PlaceBid(context.Background(), &biddto.PlaceBidInput{
		AuctionID: "auction-1",
		BidderID:  "human-b",
		Amount:    decimal.NewFromInt(120),
	})
	check.Nil(t, err)
	check.Equal(t, 0, len(out.CounterBids))

	winning, werr := f.store.GetWinning(context.Background(), "auction-1")
	check.Nil(t, werr)
	check.Equal(t, "human-b", winning.BidderID)
}

func TestRegisterAutoBid_RaisingOwnCeilingDoesNotSelfBid(t *testing.T) {
	f := newBidFixture(t)
	f.seedAuction(t)

	_, err := f.registerProxy(t, "proxy-a", 150)
	check.Nil(t, err) // a leads at 110

	out, err := f.registerProxy(t, "proxy-a", 300)
	check.Nil(t, err)
	check.Equal(t, 0, len(out.CounterBids))

	auction, gerr := f.store.GetByID(context.Background(), "auction-1")
	check.Nil(t, gerr)
	check.Equal(t, "110.00", auction.CurrentBid.StringFixed(2))
}
