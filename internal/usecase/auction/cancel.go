package usecase

import (
	"context"

	"github.com/staynest/auction-service/internal/domain"
)

// CancelAuction withdraws a scheduled or active auction. Only the host may
// cancel, and never while a winner's payment window is open.
func (uc *DefaultAuctionUsecase) CancelAuction(ctx context.Context, auctionID, hostID string) error {
	auction, err := uc.AuctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}
	if auction.HostID != hostID {
		return domain.ErrNotAuctionHost
	}

	now := uc.Clock.Now()
	if auction.PaymentInFlight(now) {
		return domain.ErrAuctionPaymentInFlight
	}
	if auction.Status != domain.AuctionScheduled && auction.Status != domain.AuctionActive {
		return domain.ErrAuctionAlreadyClosed
	}

	if err := uc.AuctionRepo.Cancel(ctx, auctionID, now); err != nil {
		return err
	}

	uc.Metrics.RecordAuctionCancelled(auction.Status == domain.AuctionActive)
	uc.Cache.InvalidateAuction(ctx, auctionID)
	uc.publishEvent(ctx, domain.AuctionEvent{
		Type:       domain.EventAuctionCancelled,
		AuctionID:  auctionID,
		OccurredAt: now,
	})
	return nil
}
