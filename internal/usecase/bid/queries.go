package usecase

import (
	"context"

	biddto "github.com/staynest/auction-service/internal/usecase/dto/bid"
)

func (uc *DefaultBidUsecase) GetBidHistory(ctx context.Context, auctionID string) ([]*biddto.BidOutput, error) {
	if _, err := uc.AuctionRepo.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}

	bids, err := uc.BidRepo.History(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	outputs := make([]*biddto.BidOutput, len(bids))
	for i, bid := range bids {
		outputs[i] = biddto.NewBidOutput(bid)
	}
	return outputs, nil
}

func (uc *DefaultBidUsecase) GetWinningBid(ctx context.Context, auctionID string) (*biddto.BidOutput, error) {
	if _, err := uc.AuctionRepo.GetByID(ctx, auctionID); err != nil {
		return nil, err
	}

	winning, err := uc.BidRepo.GetWinning(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if winning == nil {
		return nil, nil
	}
	return biddto.NewBidOutput(winning), nil
}
