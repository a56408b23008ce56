package mappers

import (
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
)

func ToGORMAuction(auction *domain.Auction) *models.AuctionModel {
	return &models.AuctionModel{
		ID:               auction.ID,
		ListingID:        auction.ListingID,
		HostID:           auction.HostID,
		Description:      auction.Description,
		Currency:         auction.Currency,
		StartPrice:       auction.StartPrice,
		CurrentBid:       auction.CurrentBid,
		MinIncrement:     auction.MinIncrement,
		StartTime:        auction.StartTime,
		EndTime:          auction.EndTime,
		ExtendedEnd:      auction.ExtendedEnd,
		ExtensionCount:   auction.ExtensionCount,
		Status:           auction.Status,
		WinnerID:         auction.WinnerID,
		BidCount:         auction.BidCount,
		ParticipantCount: auction.ParticipantCount,
		CheckIn:          auction.CheckIn,
		CheckOut:         auction.CheckOut,
		MaxGuests:        auction.MaxGuests,
		PaymentCompleted: auction.PaymentCompleted,
		PaymentDeadline:  auction.PaymentDeadline,
		CreatedAt:        auction.CreatedAt,
		UpdatedAt:        auction.UpdatedAt,
	}
}

func ToDomainAuction(model *models.AuctionModel) *domain.Auction {
	return &domain.Auction{
		ID:               model.ID,
		ListingID:        model.ListingID,
		HostID:           model.HostID,
		Description:      model.Description,
		Currency:         model.Currency,
		StartPrice:       model.StartPrice,
		CurrentBid:       model.CurrentBid,
		MinIncrement:     model.MinIncrement,
		StartTime:        model.StartTime,
		EndTime:          model.EndTime,
		ExtendedEnd:      model.ExtendedEnd,
		ExtensionCount:   model.ExtensionCount,
		Status:           model.Status,
		WinnerID:         model.WinnerID,
		BidCount:         model.BidCount,
		ParticipantCount: model.ParticipantCount,
		CheckIn:          model.CheckIn,
		CheckOut:         model.CheckOut,
		MaxGuests:        model.MaxGuests,
		PaymentCompleted: model.PaymentCompleted,
		PaymentDeadline:  model.PaymentDeadline,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToDomainTransition(model *models.AuctionTransitionModel) *domain.AuctionTransition {
	return &domain.AuctionTransition{
		ID:         model.ID,
		AuctionID:  model.AuctionID,
		Kind:       domain.TransitionKind(model.Kind),
		FromStatus: domain.AuctionStatus(model.FromStatus),
		ToStatus:   domain.AuctionStatus(model.ToStatus),
		WinnerID:   model.WinnerID,
		Detail:     model.Detail,
		OccurredAt: model.OccurredAt,
	}
}
