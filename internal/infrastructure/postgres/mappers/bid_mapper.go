package mappers

import (
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
)

func ToGORMBid(bid *domain.Bid) *models.BidModel {
	return &models.BidModel{
		ID:        bid.ID,
		Reference: bid.Reference,
		AuctionID: bid.AuctionID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		AutoBid:   bid.AutoBid,
		MaxAmount: bid.MaxAmount,
		IsWinning: bid.IsWinning,
		Forfeited: bid.Forfeited,
		CreatedAt: bid.CreatedAt,
	}
}

func ToDomainBid(model *models.BidModel) *domain.Bid {
	return &domain.Bid{
		ID:        model.ID,
		Reference: model.Reference,
		AuctionID: model.AuctionID,
		BidderID:  model.BidderID,
		Amount:    model.Amount,
		AutoBid:   model.AutoBid,
		MaxAmount: model.MaxAmount,
		IsWinning: model.IsWinning,
		Forfeited: model.Forfeited,
		CreatedAt: model.CreatedAt,
	}
}

func ToGORMAutoBid(proxy *domain.AutoBid) *models.AutoBidModel {
	return &models.AutoBidModel{
		ID:        proxy.ID,
		AuctionID: proxy.AuctionID,
		BidderID:  proxy.BidderID,
		Ceiling:   proxy.Ceiling,
		Active:    proxy.Active,
		CreatedAt: proxy.CreatedAt,
	}
}

func ToDomainAutoBid(model *models.AutoBidModel) *domain.AutoBid {
	return &domain.AutoBid{
		ID:        model.ID,
		AuctionID: model.AuctionID,
		BidderID:  model.BidderID,
		Ceiling:   model.Ceiling,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
	}
}

func ToDomainParticipant(model *models.ParticipantModel) *domain.Participant {
	return &domain.Participant{
		ID:             model.ID,
		AuctionID:      model.AuctionID,
		BidderID:       model.BidderID,
		BidCount:       model.BidCount,
		TotalBidAmount: model.TotalBidAmount,
		FirstBidAt:     model.FirstBidAt,
		LastBidAt:      model.LastBidAt,
	}
}
