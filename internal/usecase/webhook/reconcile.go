package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/staynest/auction-service/internal/domain"
	webhookdto "github.com/staynest/auction-service/internal/usecase/dto/webhook"
)

// ProcessChargebackWebhook validates, records and reconciles one gateway
// delivery. Deliveries are idempotent on (gateway, chargeback_id): a
// duplicate can only move the stored status forward, and the split
// reversal fires exactly once, on the delivery that first lands the
// chargeback in a lost state.
func (uc *DefaultWebhookUsecase) ProcessChargebackWebhook(ctx context.Context, input *webhookdto.ProcessWebhookInput) (*webhookdto.ProcessWebhookOutput, error) {
	gatewayCfg, ok := uc.Webhooks.Gateways[input.Gateway]
	if !ok {
		uc.Metrics.RecordWebhookRejected(input.Gateway, "unknown_gateway")
		return nil, domain.ErrUnknownGateway
	}

	now := uc.Clock.Now()
	if err := uc.verifySignature(gatewayCfg, input.Signature, input.Body, now); err != nil {
		uc.Metrics.RecordWebhookRejected(input.Gateway, rejectionReason(err))
		return nil, err
	}

	var payload webhookdto.ChargebackPayload
	if err := json.Unmarshal(input.Body, &payload); err != nil {
		uc.Metrics.RecordWebhookRejected(input.Gateway, "malformed")
		return nil, domain.ErrPayloadMalformed
	}
	if payload.ChargebackID == "" || payload.PaymentID == "" || payload.Status == "" {
		uc.Metrics.RecordWebhookRejected(input.Gateway, "malformed")
		return nil, domain.ErrPayloadMalformed
	}

	status := domain.ChargebackStatus(payload.Status)
	if status.Rank() == 0 {
		uc.Metrics.RecordWebhookRejected(input.Gateway, "unknown_status")
		return nil, domain.ErrPayloadMalformed
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		uc.Metrics.RecordWebhookRejected(input.Gateway, "malformed")
		return nil, domain.ErrPayloadMalformed
	}

	uc.Metrics.RecordWebhookReceived(input.Gateway)

	event := &domain.ChargebackEvent{
		ID:            uuid.New().String(),
		Gateway:       input.Gateway,
		ChargebackID:  payload.ChargebackID,
		PaymentID:     payload.PaymentID,
		DisputeID:     payload.DisputeID,
		Status:        status,
		ReasonCode:    payload.ReasonCode,
		Amount:        amount,
		Currency:      payload.Currency,
		EvidenceDueAt: payload.EvidenceDueAt,
		ReceivedAt:    now,
		RawPayload:    input.Body,
	}

	created, previous, err := uc.ChargebackRepo.Upsert(ctx, event)
	if err != nil {
		return nil, err
	}

	if created {
		uc.Metrics.RecordChargebackOpened(input.Gateway)
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventChargebackOpened,
			PaymentID:  payload.PaymentID,
			Amount:     payload.Amount,
			Currency:   payload.Currency,
			Detail:     string(status),
			OccurredAt: now,
		})
	}

	advanced := created || status.Rank() > previous.Rank()
	if advanced && status.Terminal() {
		uc.publishEvent(ctx, domain.AuctionEvent{
			Type:       domain.EventChargebackClosed,
			PaymentID:  payload.PaymentID,
			Detail:     string(status),
			OccurredAt: now,
		})
	}

	reversed := false
	if advanced && status.RequiresReversal() && !previous.RequiresReversal() {
		if err := uc.Reverser.ReverseForPayment(ctx, payload.PaymentID, "chargeback "+payload.ChargebackID+" "+string(status)); err != nil {
			// The chargeback record stands at its advanced status; a
			// same-status redelivery will not advance it again, so
			// re-running the reversal is an operator action.
			slog.Error("failed to reverse splits for chargeback", "payment_id", payload.PaymentID, "error", err.Error())
		} else {
			reversed = true
		}
	}

	return &webhookdto.ProcessWebhookOutput{
		ChargebackID: payload.ChargebackID,
		Status:       string(status),
		Created:      created,
		Reversed:     reversed,
	}, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSignatureMissing):
		return "signature_missing"
	case errors.Is(err, domain.ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, domain.ErrTimestampExpired):
		return "timestamp_expired"
	default:
		return "invalid"
	}
}

func (uc *DefaultWebhookUsecase) publishEvent(ctx context.Context, event domain.AuctionEvent) {
	if uc.Publisher == nil {
		return
	}
	if err := uc.Publisher.PublishAuctionEvent(ctx, event); err != nil {
		slog.Error("failed to publish kafka auction event", "type", event.Type, "error", err.Error())
	}
}
