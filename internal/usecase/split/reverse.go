package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/staynest/auction-service/internal/domain"
)

// ReverseForPayment claws back every completed disbursement of a payment
// after a lost chargeback. Each refund carries an idempotency key bound to
// the split, and reversed rows are annotated so a second reversal attempt
// finds nothing left in the completed state.
func (uc *DefaultSplitUsecase) ReverseForPayment(ctx context.Context, paymentID, note string) error {
	payment, err := uc.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	splits, err := uc.SplitRepo.ForPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	for _, split := range splits {
		switch split.Status {
		case domain.SplitCompleted:
			if _, err := uc.Gateway.Refund(ctx, domain.RefundRequest{
				PaymentID:      payment.GatewayPaymentID,
				Amount:         split.Amount,
				Currency:       payment.Currency,
				IdempotencyKey: fmt.Sprintf("rev:%s", split.ID),
			}); err != nil {
				return fmt.Errorf("reversing split %s: %w", split.ID, err)
			}
			if err := uc.SplitRepo.CancelWithNote(ctx, split.ID, note); err != nil {
				return err
			}
			uc.Metrics.RecordSplitReversal(string(split.RecipientType))
		case domain.SplitPending, domain.SplitFailed:
			// Never disbursed; just take it out of the retry pipeline.
			if err := uc.SplitRepo.CancelWithNote(ctx, split.ID, note); err != nil {
				return err
			}
		case domain.SplitProcessing:
			slog.Warn("split mid-transfer during reversal, deferred to a later pass", "split_id", split.ID, "payment_id", paymentID)
		}
	}

	now := uc.Clock.Now()
	if err := uc.PaymentRepo.MarkRefunded(ctx, paymentID, now); err != nil {
		return err
	}

	uc.publishEvent(ctx, domain.AuctionEvent{
		Type:       domain.EventSplitsReversed,
		PaymentID:  paymentID,
		AuctionID:  payment.AuctionID,
		Detail:     note,
		OccurredAt: now,
	})
	return nil
}
