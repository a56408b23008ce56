package usecase

import (
	"context"

	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/metrics"
	"github.com/staynest/auction-service/internal/infrastructure/rediscache"
	biddto "github.com/staynest/auction-service/internal/usecase/dto/bid"
)

type BidUsecase interface {
	PlaceBid(ctx context.Context, input *biddto.PlaceBidInput) (*biddto.PlaceBidOutput, error)
	RegisterAutoBid(ctx context.Context, input *biddto.RegisterAutoBidInput) (*biddto.AutoBidOutput, error)
	CancelAutoBid(ctx context.Context, auctionID, bidderID string) error

	GetBidHistory(ctx context.Context, auctionID string) ([]*biddto.BidOutput, error)
	GetWinningBid(ctx context.Context, auctionID string) (*biddto.BidOutput, error)
}

type DefaultBidUsecase struct {
	AuctionRepo domain.AuctionRepository
	BidRepo     domain.BidRepository
	AutoBidRepo domain.AutoBidRepository
	Publisher   domain.EventPublisher
	Metrics     *metrics.AuctionMetrics
	Cache       *rediscache.AuctionCache
	Clock       domain.Clock
	Bidding     config.Bidding
}

func NewDefaultBidUsecase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	autoBidRepo domain.AutoBidRepository,
	publisher domain.EventPublisher,
	auctionMetrics *metrics.AuctionMetrics,
	cache *rediscache.AuctionCache,
	clock domain.Clock,
	bidding config.Bidding) *DefaultBidUsecase {

	return &DefaultBidUsecase{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		AutoBidRepo: autoBidRepo,
		Publisher:   publisher,
		Metrics:     auctionMetrics,
		Cache:       cache,
		Clock:       clock,
		Bidding:     bidding,
	}
}
