package usecase

import (
	"context"

	"github.com/staynest/auction-service/internal/domain"
)

// CancelPayment lets the current winner walk away before paying. The
// forfeit runs immediately instead of waiting for the deadline sweep, so
// the next bidder's window opens as early as possible.
func (uc *DefaultPaymentUsecase) CancelPayment(ctx context.Context, auctionID, payerID string) error {
	auction, err := uc.AuctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return err
	}

	if auction.Status != domain.AuctionEnded || auction.WinnerID == nil {
		return domain.ErrNoPaymentDue
	}
	if *auction.WinnerID != payerID {
		return domain.ErrNotAuctionWinner
	}
	if auction.PaymentCompleted {
		return domain.ErrNoPaymentDue
	}

	return uc.forfeitWinner(ctx, auction)
}
