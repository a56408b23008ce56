package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
)

// DisburseForPayment resolves the auction's split plan against the captured
// amount and pushes one transfer per recipient. Rerunning it for the same
// payment creates nothing new: the ledger rows already exist and only
// still-pending rows are dispatched.
func (uc *DefaultSplitUsecase) DisburseForPayment(ctx context.Context, paymentID string) error {
	payment, err := uc.PaymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status != domain.PaymentCaptured {
		return fmt.Errorf("payment %s is not captured", paymentID)
	}

	existing, err := uc.SplitRepo.ForPayment(ctx, paymentID)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		auction, err := uc.AuctionRepo.GetByID(ctx, payment.AuctionID)
		if err != nil {
			return err
		}
		configs, err := uc.AuctionRepo.SplitConfigs(ctx, payment.AuctionID)
		if err != nil {
			return err
		}

		splits := uc.computeSplits(payment, auction, configs)
		if err := uc.SplitRepo.CreateBatch(ctx, splits); err != nil {
			return err
		}
		existing = splits
	}

	return uc.processSplits(ctx, payment, existing)
}

// computeSplits turns the static plan into concrete amounts. The platform
// fee comes off the top; fixed carve-outs are honored next in plan order;
// percentage rows are resolved against what remains after the carve-outs.
// Whatever rounding or configuration leaves unassigned lands on the
// platform, or on the host when the plan has no platform recipient, so the
// sum of all rows always equals the captured amount.
func (uc *DefaultSplitUsecase) computeSplits(payment *domain.Payment, auction *domain.Auction, configs []*domain.SplitConfig) []*domain.PaymentSplit {
	now := uc.Clock.Now()
	total := payment.Amount
	fee := total.Mul(decimal.NewFromFloat(uc.Payments.PlatformFeePercent)).Div(decimal.NewFromInt(100)).Round(2)
	distributable := total.Sub(fee)

	type resolved struct {
		cfg    *domain.SplitConfig
		amount decimal.Decimal
	}
	var rows []resolved

	// Fixed carve-outs first, capped so they can never overdraw.
	remaining := distributable
	for _, cfg := range configs {
		if cfg.SplitType != domain.SplitFixedAmount {
			continue
		}
		amount := cfg.Value
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		remaining = remaining.Sub(amount)
		rows = append(rows, resolved{cfg: cfg, amount: amount})
	}

	percentBase := remaining
	for _, cfg := range configs {
		if cfg.SplitType != domain.SplitPercentage {
			continue
		}
		amount := percentBase.Mul(cfg.Value).Div(decimal.NewFromInt(100)).Round(2)
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		remaining = remaining.Sub(amount)
		rows = append(rows, resolved{cfg: cfg, amount: amount})
	}

	// Fee plus any residue goes to the platform row, or to the host when
	// the plan names no platform recipient.
	residue := fee.Add(remaining)
	var sinkIdx = -1
	for i, row := range rows {
		if row.cfg.RecipientType == domain.RecipientPlatform {
			sinkIdx = i
			break
		}
	}
	if sinkIdx == -1 {
		for i, row := range rows {
			if row.cfg.RecipientType == domain.RecipientHost {
				sinkIdx = i
				break
			}
		}
	}

	splits := make([]*domain.PaymentSplit, 0, len(rows)+1)
	for i, row := range rows {
		amount := row.amount
		feeShare := decimal.Zero
		if i == sinkIdx {
			amount = amount.Add(residue)
			feeShare = fee
		}
		splits = append(splits, &domain.PaymentSplit{
			ID:             uuid.New().String(),
			PaymentID:      payment.ID,
			RecipientID:    row.cfg.RecipientID,
			RecipientType:  row.cfg.RecipientType,
			SplitType:      row.cfg.SplitType,
			Amount:         amount,
			FeeAmount:      feeShare,
			Status:         domain.SplitPending,
			IdempotencyKey: fmt.Sprintf("split:%s:%s", payment.ID, row.cfg.RecipientID),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if sinkIdx == -1 && residue.IsPositive() {
		// Plan had neither platform nor host rows; route everything left
		// to the host directly.
		splits = append(splits, &domain.PaymentSplit{
			ID:             uuid.New().String(),
			PaymentID:      payment.ID,
			RecipientID:    auction.HostID,
			RecipientType:  domain.RecipientHost,
			SplitType:      domain.SplitFixedAmount,
			Amount:         residue,
			FeeAmount:      fee,
			Status:         domain.SplitPending,
			IdempotencyKey: fmt.Sprintf("split:%s:%s", payment.ID, auction.HostID),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	return splits
}

// processSplits dispatches every pending split concurrently. Each transfer
// is guarded by the pending -> processing claim and by its idempotency key,
// so concurrent sweeps cannot double-pay a recipient.
func (uc *DefaultSplitUsecase) processSplits(ctx context.Context, payment *domain.Payment, splits []*domain.PaymentSplit) error {
	var wg sync.WaitGroup
	for _, split := range splits {
		if split.Status != domain.SplitPending {
			continue
		}
		wg.Add(1)
		go func(split *domain.PaymentSplit) {
			defer wg.Done()
			uc.transferSplit(ctx, payment, split)
		}(split)
	}
	wg.Wait()
	return nil
}

func (uc *DefaultSplitUsecase) transferSplit(ctx context.Context, payment *domain.Payment, split *domain.PaymentSplit) {
	claimed, err := uc.SplitRepo.ClaimProcessing(ctx, split.ID)
	if err != nil {
		slog.Error("failed to claim split", "split_id", split.ID, "error", err.Error())
		return
	}
	if !claimed {
		return
	}

	if split.Amount.IsZero() {
		// Nothing to move; complete without a gateway round trip.
		if err := uc.SplitRepo.MarkCompleted(ctx, split.ID, "", ""); err != nil {
			slog.Error("failed to complete zero-amount split", "split_id", split.ID, "error", err.Error())
		}
		return
	}

	transferID, rawResponse, err := uc.Gateway.Transfer(ctx, domain.TransferRequest{
		PaymentID:      payment.ID,
		RecipientID:    split.RecipientID,
		Amount:         split.Amount,
		Currency:       payment.Currency,
		IdempotencyKey: split.IdempotencyKey,
	})
	if err != nil {
		retryCount := split.RetryCount + 1
		nextRetry := uc.Clock.Now().Add(uc.backoff(retryCount))
		var nextRetryAt *time.Time
		if retryCount < uc.Payments.SplitMaxRetries {
			nextRetryAt = &nextRetry
		}
		if markErr := uc.SplitRepo.MarkFailed(ctx, split.ID, err.Error(), retryCount, nextRetryAt); markErr != nil {
			slog.Error("failed to mark split failed", "split_id", split.ID, "error", markErr.Error())
		}
		uc.Metrics.RecordSplitTransfer(string(split.RecipientType), "failed")
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventSplitFailed,
			PaymentID:  payment.ID,
			SplitID:    split.ID,
			Amount:     split.Amount.StringFixed(2),
			Currency:   payment.Currency,
			Detail:     err.Error(),
			OccurredAt: uc.Clock.Now(),
		})
		return
	}

	if err := uc.SplitRepo.MarkCompleted(ctx, split.ID, transferID, rawResponse); err != nil {
		slog.Error("failed to mark split completed", "split_id", split.ID, "error", err.Error())
		return
	}
	amountFloat, _ := split.Amount.Float64()
	uc.Metrics.RecordSplitTransfer(string(split.RecipientType), "completed")
	uc.Metrics.RecordSplitAmount(string(split.RecipientType), payment.Currency, amountFloat)
	uc.publishEvent(ctx, domain.AuctionEvent{
		Type:       domain.EventSplitCompleted,
		PaymentID:  payment.ID,
		SplitID:    split.ID,
		Amount:     split.Amount.StringFixed(2),
		Currency:   payment.Currency,
		OccurredAt: uc.Clock.Now(),
	})
}

// backoff doubles with each failed attempt, anchored at the configured
// base.
func (uc *DefaultSplitUsecase) backoff(retryCount int) time.Duration {
	d := uc.Payments.SplitBackoffBase
	for i := 1; i < retryCount; i++ {
		d *= 2
	}
	return d
}

func (uc *DefaultSplitUsecase) publishEvent(ctx context.Context, event domain.AuctionEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishAuctionEvent(ctx, event); err != nil {
		slog.Error("failed to publish kafka auction event", "type", event.Type, "error", err.Error())
	}
}
