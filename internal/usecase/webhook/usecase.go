package usecase

import (
	"context"

	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/metrics"
	webhookdto "github.com/staynest/auction-service/internal/usecase/dto/webhook"
)

type WebhookUsecase interface {
	ProcessChargebackWebhook(ctx context.Context, input *webhookdto.ProcessWebhookInput) (*webhookdto.ProcessWebhookOutput, error)
}

// Reverser claws back the disbursements of a payment that lost its
// chargeback.
type Reverser interface {
	ReverseForPayment(ctx context.Context, paymentID, note string) error
}

type DefaultWebhookUsecase struct {
	ChargebackRepo domain.ChargebackRepository
	PaymentRepo    domain.PaymentRepository
	Reverser       Reverser
	Publisher      domain.EventPublisher
	Metrics        *metrics.AuctionMetrics
	Clock          domain.Clock
	Webhooks       config.Webhooks
}

func NewDefaultWebhookUsecase(
	chargebackRepo domain.ChargebackRepository,
	paymentRepo domain.PaymentRepository,
	reverser Reverser,
	publisher domain.EventPublisher,
	auctionMetrics *metrics.AuctionMetrics,
	clock domain.Clock,
	webhooks config.Webhooks) *DefaultWebhookUsecase {

	return &DefaultWebhookUsecase{
		ChargebackRepo: chargebackRepo,
		PaymentRepo:    paymentRepo,
		Reverser:       reverser,
		Publisher:      publisher,
		Metrics:        auctionMetrics,
		Clock:          clock,
		Webhooks:       webhooks,
	}
}
