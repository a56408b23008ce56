package usecase

import (
	"context"
	"log/slog"

	"github.com/staynest/auction-service/internal/domain"
)

// ActivateDueAuctions moves every scheduled auction whose start time has
// passed into the active state. It runs on a ticker and once at startup, so
// a restart never leaves an auction stuck in scheduled.
func (uc *DefaultAuctionUsecase) ActivateDueAuctions(ctx context.Context) error {
	now := uc.Clock.Now()
	due, err := uc.AuctionRepo.FindDueScheduled(ctx, now)
	if err != nil {
		return err
	}

	for _, auction := range due {
		if err := uc.AuctionRepo.MarkActive(ctx, auction.ID, now); err != nil {
			slog.Error("failed to activate auction", "auction_id", auction.ID, "error", err.Error())
			continue
		}
		uc.Metrics.RecordAuctionActivated()
		uc.Cache.InvalidateAuction(ctx, auction.ID)
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventAuctionActivated,
			AuctionID:  auction.ID,
			Currency:   auction.Currency,
			Amount:     auction.CurrentBid.StringFixed(2),
			OccurredAt: now,
		})
	}
	return nil
}

// CloseDueAuctions ends every active auction whose effective end, including
// anti-sniping extensions, has passed. The winner is whoever holds the
// winning bid at close; a bidless auction ends with no winner and no
// payment window.
func (uc *DefaultAuctionUsecase) CloseDueAuctions(ctx context.Context) error {
	now := uc.Clock.Now()
	due, err := uc.AuctionRepo.FindDueActive(ctx, now)
	if err != nil {
		return err
	}

	for _, auction := range due {
		if err := uc.closeAuction(ctx, auction); err != nil {
			slog.Error("failed to close auction", "auction_id", auction.ID, "error", err.Error())
		}
	}
	return nil
}

func (uc *DefaultAuctionUsecase) closeAuction(ctx context.Context, auction *domain.Auction) error {
	now := uc.Clock.Now()

	winning, err := uc.BidRepo.GetWinning(ctx, auction.ID)
	if err != nil {
		return err
	}

	if winning != nil {
		winnerID := &winning.BidderID
		paymentDeadline := now.Add(uc.Payments.Window)
		if err := uc.AuctionRepo.CloseWithWinner(ctx, auction.ID, winnerID, &paymentDeadline, now); err != nil {
			return err
		}
		uc.Metrics.RecordAuctionEnded(true)
		uc.Cache.InvalidateAuction(ctx, auction.ID)
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventAuctionEnded,
			AuctionID:  auction.ID,
			WinnerID:   winning.BidderID,
			BidID:      winning.ID,
			Amount:     winning.Amount.StringFixed(2),
			Currency:   auction.Currency,
			OccurredAt: now,
		})
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventWinnerAssigned,
			AuctionID:  auction.ID,
			WinnerID:   winning.BidderID,
			BidID:      winning.ID,
			Amount:     winning.Amount.StringFixed(2),
			Currency:   auction.Currency,
			OccurredAt: now,
		})
		return nil
	}

	if err := uc.AuctionRepo.CloseWithWinner(ctx, auction.ID, nil, nil, now); err != nil {
		return err
	}
	uc.Metrics.RecordAuctionEnded(false)
	uc.Cache.InvalidateAuction(ctx, auction.ID)
	uc.publishEvent(ctx, domain.AuctionEvent{
		Type:       domain.EventAuctionEnded,
		AuctionID:  auction.ID,
		Currency:   auction.Currency,
		OccurredAt: now,
	})
	return nil
}
