package usecase

import (
	"context"

	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/metrics"
	"github.com/staynest/auction-service/internal/infrastructure/rediscache"
	paymentdto "github.com/staynest/auction-service/internal/usecase/dto/payment"
)

type PaymentUsecase interface {
	ConfirmPayment(ctx context.Context, input *paymentdto.ConfirmPaymentInput) (*paymentdto.PaymentOutput, error)
	GetPaymentStatus(ctx context.Context, auctionID, userID string) (*paymentdto.PaymentStatusOutput, error)
	GetPaymentSplits(ctx context.Context, paymentID string) ([]*paymentdto.SplitOutput, error)
	CancelPayment(ctx context.Context, auctionID, payerID string) error

	EnforcePaymentDeadlines(ctx context.Context) error
}

// Disburser is the downstream that fans a captured payment out to its
// recipients.
type Disburser interface {
	DisburseForPayment(ctx context.Context, paymentID string) error
}

type DefaultPaymentUsecase struct {
	AuctionRepo domain.AuctionRepository
	BidRepo     domain.BidRepository
	PaymentRepo domain.PaymentRepository
	SplitRepo   domain.SplitRepository
	Gateway     domain.PaymentGateway
	Disburser   Disburser
	Publisher   domain.EventPublisher
	Metrics     *metrics.AuctionMetrics
	Cache       *rediscache.AuctionCache
	Clock       domain.Clock
	Payments    config.Payments
}

func NewDefaultPaymentUsecase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	paymentRepo domain.PaymentRepository,
	splitRepo domain.SplitRepository,
	gateway domain.PaymentGateway,
	disburser Disburser,
	publisher domain.EventPublisher,
	auctionMetrics *metrics.AuctionMetrics,
	cache *rediscache.AuctionCache,
	clock domain.Clock,
	payments config.Payments) *DefaultPaymentUsecase {

	return &DefaultPaymentUsecase{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		PaymentRepo: paymentRepo,
		SplitRepo:   splitRepo,
		Gateway:     gateway,
		Disburser:   disburser,
		Publisher:   publisher,
		Metrics:     auctionMetrics,
		Cache:       cache,
		Clock:       clock,
		Payments:    payments,
	}
}
