package usecase

import (
	"context"
	"log/slog"

	"github.com/staynest/auction-service/internal/domain"
)

// RetryDueSplits re-queues failed transfers whose backoff has elapsed and
// dispatches them again. Splits that have burned through their retry budget
// are never selected and stay failed for manual review.
func (uc *DefaultSplitUsecase) RetryDueSplits(ctx context.Context) error {
	now := uc.Clock.Now()
	due, err := uc.SplitRepo.DueForRetry(ctx, now, uc.Payments.SplitMaxRetries)
	if err != nil {
		return err
	}

	for _, split := range due {
		reset, err := uc.SplitRepo.ResetForRetry(ctx, split.ID)
		if err != nil {
			slog.Error("failed to reset split for retry", "split_id", split.ID, "error", err.Error())
			continue
		}
		if !reset {
			continue
		}
		uc.Metrics.RecordSplitRetry()

		payment, err := uc.PaymentRepo.GetByID(ctx, split.PaymentID)
		if err != nil {
			slog.Error("failed to load payment for split retry", "payment_id", split.PaymentID, "error", err.Error())
			continue
		}

		split.Status = domain.SplitPending
		uc.transferSplit(ctx, payment, split)
	}
	return nil
}
