package usecase

import (
	"context"
	"log/slog"

	"github.com/staynest/auction-service/internal/domain"
)

// EnforcePaymentDeadlines forfeits every winner whose payment window has
// lapsed and promotes the next bidder in line. It runs on a ticker and once
// at startup so windows that expired during downtime are enforced
// immediately.
func (uc *DefaultPaymentUsecase) EnforcePaymentDeadlines(ctx context.Context) error {
	now := uc.Clock.Now()
	overdue, err := uc.AuctionRepo.FindOverduePayments(ctx, now)
	if err != nil {
		return err
	}

	for _, auction := range overdue {
		if err := uc.forfeitWinner(ctx, auction); err != nil {
			slog.Error("failed to enforce payment deadline", "auction_id", auction.ID, "error", err.Error())
		}
	}
	return nil
}

// forfeitWinner marks every bid of the defaulting winner forfeited and
// hands the win to the highest remaining bid with a fresh payment window.
// The auction's standing price never moves: the promoted bidder owes their
// own bid amount, not the forfeited one.
func (uc *DefaultPaymentUsecase) forfeitWinner(ctx context.Context, auction *domain.Auction) error {
	if auction.WinnerID == nil {
		return nil
	}
	forfeitBidderID := *auction.WinnerID
	now := uc.Clock.Now()

	ranked, err := uc.BidRepo.RankedRemaining(ctx, auction.ID)
	if err != nil {
		return err
	}

	var next *domain.Bid
	for _, bid := range ranked {
		if bid.BidderID != forfeitBidderID {
			next = bid
			break
		}
	}

	if next == nil {
		if err := uc.AuctionRepo.ReassignWinner(ctx, auction.ID, forfeitBidderID, nil, nil, nil, now); err != nil {
			return err
		}
		uc.Metrics.RecordForfeiture("no_winner")
		uc.Cache.InvalidateAuction(ctx, auction.ID)
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventWinnerReassigned,
			AuctionID:  auction.ID,
			Detail:     "forfeited with no eligible bidders remaining",
			OccurredAt: now,
		})
		return nil
	}

	deadline := now.Add(uc.Payments.Window)
	if err := uc.AuctionRepo.ReassignWinner(ctx, auction.ID, forfeitBidderID, &next.BidderID, &next.ID, &deadline, now); err != nil {
		return err
	}
	uc.Metrics.RecordForfeiture("promoted")
	uc.Cache.InvalidateAuction(ctx, auction.ID)
	uc.publishEvent(ctx, domain.AuctionEvent{
		Type:       domain.EventWinnerReassigned,
		AuctionID:  auction.ID,
		WinnerID:   next.BidderID,
		BidID:      next.ID,
		Amount:     next.Amount.StringFixed(2),
		Currency:   auction.Currency,
		OccurredAt: now,
	})
	return nil
}
