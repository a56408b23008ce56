package mappers

import (
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
)

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:               payment.ID,
		AuctionID:        payment.AuctionID,
		PayerID:          payment.PayerID,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
		Method:           payment.Method,
		AuthID:           payment.AuthID,
		GatewayPaymentID: payment.GatewayPaymentID,
		Status:           string(payment.Status),
		GatewayResponse:  payment.GatewayResponse,
		CreatedAt:        payment.CreatedAt,
		CapturedAt:       payment.CapturedAt,
		RefundedAt:       payment.RefundedAt,
	}
}

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:               model.ID,
		AuctionID:        model.AuctionID,
		PayerID:          model.PayerID,
		Amount:           model.Amount,
		Currency:         model.Currency,
		Method:           model.Method,
		AuthID:           model.AuthID,
		GatewayPaymentID: model.GatewayPaymentID,
		Status:           domain.PaymentStatus(model.Status),
		GatewayResponse:  model.GatewayResponse,
		CreatedAt:        model.CreatedAt,
		CapturedAt:       model.CapturedAt,
		RefundedAt:       model.RefundedAt,
	}
}

func ToGORMSplit(split *domain.PaymentSplit) *models.PaymentSplitModel {
	return &models.PaymentSplitModel{
		ID:                split.ID,
		PaymentID:         split.PaymentID,
		RecipientID:       split.RecipientID,
		RecipientType:     string(split.RecipientType),
		SplitType:         string(split.SplitType),
		Amount:            split.Amount,
		FeeAmount:         split.FeeAmount,
		Status:            string(split.Status),
		GatewayTransferID: split.GatewayTransferID,
		GatewayResponse:   split.GatewayResponse,
		FailureReason:     split.FailureReason,
		RetryCount:        split.RetryCount,
		NextRetryAt:       split.NextRetryAt,
		IdempotencyKey:    split.IdempotencyKey,
		LedgerNote:        split.LedgerNote,
		CreatedAt:         split.CreatedAt,
		UpdatedAt:         split.UpdatedAt,
	}
}

func ToDomainSplit(model *models.PaymentSplitModel) *domain.PaymentSplit {
	return &domain.PaymentSplit{
		ID:                model.ID,
		PaymentID:         model.PaymentID,
		RecipientID:       model.RecipientID,
		RecipientType:     domain.RecipientType(model.RecipientType),
		SplitType:         domain.SplitType(model.SplitType),
		Amount:            model.Amount,
		FeeAmount:         model.FeeAmount,
		Status:            domain.SplitStatus(model.Status),
		GatewayTransferID: model.GatewayTransferID,
		GatewayResponse:   model.GatewayResponse,
		FailureReason:     model.FailureReason,
		RetryCount:        model.RetryCount,
		NextRetryAt:       model.NextRetryAt,
		IdempotencyKey:    model.IdempotencyKey,
		LedgerNote:        model.LedgerNote,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

func ToGORMSplitConfig(cfg *domain.SplitConfig) *models.SplitConfigModel {
	return &models.SplitConfigModel{
		ID:            cfg.ID,
		AuctionID:     cfg.AuctionID,
		RecipientID:   cfg.RecipientID,
		RecipientType: string(cfg.RecipientType),
		SplitType:     string(cfg.SplitType),
		Value:         cfg.Value,
		Position:      cfg.Position,
	}
}

func ToDomainSplitConfig(model *models.SplitConfigModel) *domain.SplitConfig {
	return &domain.SplitConfig{
		ID:            model.ID,
		AuctionID:     model.AuctionID,
		RecipientID:   model.RecipientID,
		RecipientType: domain.RecipientType(model.RecipientType),
		SplitType:     domain.SplitType(model.SplitType),
		Value:         model.Value,
		Position:      model.Position,
	}
}

func ToGORMChargeback(event *domain.ChargebackEvent) *models.ChargebackEventModel {
	return &models.ChargebackEventModel{
		ID:            event.ID,
		Gateway:       event.Gateway,
		ChargebackID:  event.ChargebackID,
		PaymentID:     event.PaymentID,
		DisputeID:     event.DisputeID,
		Status:        string(event.Status),
		ReasonCode:    event.ReasonCode,
		Amount:        event.Amount,
		Currency:      event.Currency,
		EvidenceDueAt: event.EvidenceDueAt,
		ReceivedAt:    event.ReceivedAt,
		ResolvedAt:    event.ResolvedAt,
		RawPayload:    event.RawPayload,
	}
}

func ToDomainChargeback(model *models.ChargebackEventModel) *domain.ChargebackEvent {
	return &domain.ChargebackEvent{
		ID:            model.ID,
		Gateway:       model.Gateway,
		ChargebackID:  model.ChargebackID,
		PaymentID:     model.PaymentID,
		DisputeID:     model.DisputeID,
		Status:        domain.ChargebackStatus(model.Status),
		ReasonCode:    model.ReasonCode,
		Amount:        model.Amount,
		Currency:      model.Currency,
		EvidenceDueAt: model.EvidenceDueAt,
		ReceivedAt:    model.ReceivedAt,
		ResolvedAt:    model.ResolvedAt,
		RawPayload:    model.RawPayload,
	}
}
