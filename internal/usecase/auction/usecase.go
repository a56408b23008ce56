package usecase

import (
	"context"

	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/metrics"
	"github.com/staynest/auction-service/internal/infrastructure/rediscache"
	auctiondto "github.com/staynest/auction-service/internal/usecase/dto/auction"
)

type AuctionUsecase interface {
	CreateAuction(ctx context.Context, input *auctiondto.CreateAuctionInput) (*auctiondto.AuctionOutput, error)
	GetAuction(ctx context.Context, auctionID string) (*auctiondto.AuctionOutput, error)
	ListAuctions(ctx context.Context, input *auctiondto.ListAuctionsInput) (*auctiondto.ListAuctionsOutput, error)
	GetTransitions(ctx context.Context, auctionID string) ([]*auctiondto.TransitionOutput, error)

	CancelAuction(ctx context.Context, auctionID, hostID string) error

	ActivateDueAuctions(ctx context.Context) error
	CloseDueAuctions(ctx context.Context) error
}

type DefaultAuctionUsecase struct {
	AuctionRepo domain.AuctionRepository
	BidRepo     domain.BidRepository
	Publisher   domain.EventPublisher
	Metrics     *metrics.AuctionMetrics
	Cache       *rediscache.AuctionCache
	Clock       domain.Clock
	Payments    config.Payments
}

func NewDefaultAuctionUsecase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	publisher domain.EventPublisher,
	auctionMetrics *metrics.AuctionMetrics,
	cache *rediscache.AuctionCache,
	clock domain.Clock,
	payments config.Payments) *DefaultAuctionUsecase {

	return &DefaultAuctionUsecase{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		Publisher:   publisher,
		Metrics:     auctionMetrics,
		Cache:       cache,
		Clock:       clock,
		Payments:    payments,
	}
}
