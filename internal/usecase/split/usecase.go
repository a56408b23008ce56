package usecase

import (
	"context"

	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/metrics"
)

type SplitUsecase interface {
	DisburseForPayment(ctx context.Context, paymentID string) error
	RetryDueSplits(ctx context.Context) error
	ReverseForPayment(ctx context.Context, paymentID, note string) error
}

type DefaultSplitUsecase struct {
	AuctionRepo domain.AuctionRepository
	PaymentRepo domain.PaymentRepository
	SplitRepo   domain.SplitRepository
	Gateway     domain.PaymentGateway
	Publisher   domain.EventPublisher
	Metrics     *metrics.AuctionMetrics
	Clock       domain.Clock
	Payments    config.Payments
}

func NewDefaultSplitUsecase(
	auctionRepo domain.AuctionRepository,
	paymentRepo domain.PaymentRepository,
	splitRepo domain.SplitRepository,
	gateway domain.PaymentGateway,
	publisher domain.EventPublisher,
	auctionMetrics *metrics.AuctionMetrics,
	clock domain.Clock,
	payments config.Payments) *DefaultSplitUsecase {

	return &DefaultSplitUsecase{
		AuctionRepo: auctionRepo,
		PaymentRepo: paymentRepo,
		SplitRepo:   splitRepo,
		Gateway:     gateway,
		Publisher:   publisher,
		Metrics:     auctionMetrics,
		Clock:       clock,
		Payments:    payments,
	}
}
