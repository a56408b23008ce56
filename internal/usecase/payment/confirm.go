package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/staynest/auction-service/internal/domain"
	paymentdto "github.com/staynest/auction-service/internal/usecase/dto/payment"
)

// ConfirmPayment authorizes and captures the winner's payment inside the
// open payment window. Gateway calls carry deterministic idempotency keys
// derived from (auction, winner), so a client retry after a network failure
// resolves to the same authorization and capture.
func (uc *DefaultPaymentUsecase) ConfirmPayment(ctx context.Context, input *paymentdto.ConfirmPaymentInput) (*paymentdto.PaymentOutput, error) {
	auction, err := uc.AuctionRepo.GetByID(ctx, input.AuctionID)
	if err != nil {
		return nil, err
	}

	now := uc.Clock.Now()
	if auction.Status != domain.AuctionEnded || auction.WinnerID == nil {
		return nil, domain.ErrNoPaymentDue
	}
	if *auction.WinnerID != input.PayerID {
		return nil, domain.ErrNotAuctionWinner
	}
	if auction.PaymentCompleted {
		return nil, domain.ErrNoPaymentDue
	}
	if auction.PaymentDeadline == nil || !now.Before(*auction.PaymentDeadline) {
		return nil, domain.ErrPaymentDeadlinePassed
	}

	winning, err := uc.BidRepo.GetWinning(ctx, input.AuctionID)
	if err != nil {
		return nil, err
	}
	if winning == nil {
		return nil, domain.ErrNoPaymentDue
	}

	authID, err := uc.Gateway.Authorize(ctx, domain.AuthorizeRequest{
		Amount:         winning.Amount,
		Currency:       auction.Currency,
		Method:         input.Method,
		MethodPayload:  input.MethodPayload,
		IdempotencyKey: fmt.Sprintf("auth:%s:%s", auction.ID, input.PayerID),
	})
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}

	gatewayPaymentID, rawResponse, err := uc.Gateway.Capture(ctx, domain.CaptureRequest{
		AuthID:         authID,
		IdempotencyKey: fmt.Sprintf("cap:%s:%s", auction.ID, input.PayerID),
	})
	if err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}

	capturedAt := uc.Clock.Now()
	payment := &domain.Payment{
		ID:               uuid.New().String(),
		AuctionID:        auction.ID,
		PayerID:          input.PayerID,
		Amount:           winning.Amount,
		Currency:         auction.Currency,
		Method:           input.Method,
		AuthID:           authID,
		GatewayPaymentID: gatewayPaymentID,
		Status:           domain.PaymentCaptured,
		GatewayResponse:  rawResponse,
		CreatedAt:        now,
		CapturedAt:       &capturedAt,
	}
	if err := uc.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := uc.AuctionRepo.MarkPaymentCompleted(ctx, auction.ID, input.PayerID, capturedAt); err != nil {
		if errors.Is(err, domain.ErrWinnerChanged) {
			// The deadline sweep reassigned the win between the capture and
			// the completion write; the funds go straight back.
			uc.refundOrphanedCapture(ctx, payment)
		}
		return nil, err
	}

	amountFloat, _ := winning.Amount.Float64()
	uc.Metrics.RecordPaymentCaptured(auction.Currency, amountFloat)
	uc.Cache.InvalidateAuction(ctx, auction.ID)
	uc.publishEvent(ctx, domain.AuctionEvent{
		Type:       domain.EventPaymentCaptured,
		AuctionID:  auction.ID,
		PaymentID:  payment.ID,
		WinnerID:   input.PayerID,
		Amount:     winning.Amount.StringFixed(2),
		Currency:   auction.Currency,
		OccurredAt: capturedAt,
	})

	if err := uc.Disburser.DisburseForPayment(ctx, payment.ID); err != nil {
		// The capture stands; failed transfers are retried by the split
		// retry sweep.
		slog.Error("disbursement incomplete", "payment_id", payment.ID, "error", err.Error())
	}

	return paymentdto.NewPaymentOutput(payment), nil
}

// refundOrphanedCapture undoes a capture that lost the race with the
// deadline sweep.
func (uc *DefaultPaymentUsecase) refundOrphanedCapture(ctx context.Context, payment *domain.Payment) {
	if _, err := uc.Gateway.Refund(ctx, domain.RefundRequest{
		PaymentID:      payment.GatewayPaymentID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		IdempotencyKey: fmt.Sprintf("rev:%s", payment.ID),
	}); err != nil {
		slog.Error("failed to refund orphaned capture", "payment_id", payment.ID, "error", err.Error())
		return
	}
	if err := uc.PaymentRepo.MarkRefunded(ctx, payment.ID, uc.Clock.Now()); err != nil {
		slog.Error("failed to mark orphaned capture refunded", "payment_id", payment.ID, "error", err.Error())
	}
}

// GetPaymentStatus reports whether the caller still owes payment for the
// auction and how much of the window remains, alongside the captured
// payment and its splits once they exist.
func (uc *DefaultPaymentUsecase) GetPaymentStatus(ctx context.Context, auctionID, userID string) (*paymentdto.PaymentStatusOutput, error) {
	auction, err := uc.AuctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	output := &paymentdto.PaymentStatusOutput{}

	payment, err := uc.PaymentRepo.GetByAuctionID(ctx, auctionID)
	switch {
	case err == nil:
		output.Payment = paymentdto.NewPaymentOutput(payment)
		splits, serr := uc.SplitRepo.ForPayment(ctx, payment.ID)
		if serr != nil {
			return nil, serr
		}
		for _, split := range splits {
			output.Splits = append(output.Splits, paymentdto.NewSplitOutput(split))
		}
	case errors.Is(err, domain.ErrNoPaymentDue):
		// nothing captured yet
	default:
		return nil, err
	}

	now := uc.Clock.Now()
	if auction.PaymentInFlight(now) && *auction.WinnerID == userID {
		winning, werr := uc.BidRepo.GetWinning(ctx, auctionID)
		if werr != nil {
			return nil, werr
		}
		output.RequiresPayment = true
		output.PaymentDeadline = auction.PaymentDeadline
		if remaining := auction.PaymentDeadline.Sub(now); remaining > 0 {
			output.RemainingSeconds = int64(remaining / time.Second)
		}
		if winning != nil {
			output.AmountDue = winning.Amount.StringFixed(2)
		}
	}
	return output, nil
}

// GetPaymentSplits lists the disbursement ledger rows for one payment.
func (uc *DefaultPaymentUsecase) GetPaymentSplits(ctx context.Context, paymentID string) ([]*paymentdto.SplitOutput, error) {
	if _, err := uc.PaymentRepo.GetByID(ctx, paymentID); err != nil {
		return nil, err
	}
	splits, err := uc.SplitRepo.ForPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	outputs := make([]*paymentdto.SplitOutput, len(splits))
	for i, split := range splits {
		outputs[i] = paymentdto.NewSplitOutput(split)
	}
	return outputs, nil
}

func (uc *DefaultPaymentUsecase) publishEvent(ctx context.Context, event domain.AuctionEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishAuctionEvent(ctx, event); err != nil {
		slog.Error("failed to publish kafka auction event", "type", event.Type, "error", err.Error())
	}
}
