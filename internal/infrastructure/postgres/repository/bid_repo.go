package repository

import (
	"context"
	"errors"
	"time"

	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/mappers"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultBidRepository struct {
	DB *gorm.DB
}

func NewDefaultBidRepository(db *gorm.DB) *DefaultBidRepository {
	return &DefaultBidRepository{DB: db}
}

func (r *DefaultBidRepository) History(ctx context.Context, auctionID string) ([]*domain.Bid, error) {
	var bidModels []models.BidModel
	if err := r.DB.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at DESC").
		Find(&bidModels).Error; err != nil {
		return nil, err
	}
	return toDomainBids(bidModels), nil
}

func (r *DefaultBidRepository) GetWinning(ctx context.Context, auctionID string) (*domain.Bid, error) {
	var model models.BidModel
	err := r.DB.WithContext(ctx).
		Where("auction_id = ? AND is_winning = ?", auctionID, true).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainBid(&model), nil
}

func (r *DefaultBidRepository) RankedRemaining(ctx context.Context, auctionID string) ([]*domain.Bid, error) {
	var bidModels []models.BidModel
	if err := r.DB.WithContext(ctx).
		Where("auction_id = ? AND forfeited = ?", auctionID, false).
		Order("amount DESC, created_at ASC").
		Find(&bidModels).Error; err != nil {
		return nil, err
	}
	return toDomainBids(bidModels), nil
}

func toDomainBids(bidModels []models.BidModel) []*domain.Bid {
	bids := make([]*domain.Bid, len(bidModels))
	for i := range bidModels {
		bids[i] = mappers.ToDomainBid(&bidModels[i])
	}
	return bids
}

type DefaultAutoBidRepository struct {
	DB *gorm.DB
}

func NewDefaultAutoBidRepository(db *gorm.DB) *DefaultAutoBidRepository {
	return &DefaultAutoBidRepository{DB: db}
}

// Upsert keeps one proxy per (auction, bidder): re-registering replaces the
// ceiling and reactivates, preserving the original registration time so
// proxy ordering stays stable.
func (r *DefaultAutoBidRepository) Upsert(ctx context.Context, proxy *domain.AutoBid) error {
	model := mappers.ToGORMAutoBid(proxy)
	model.UpdatedAt = time.Now().UTC()
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "auction_id"}, {Name: "bidder_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"ceiling":    model.Ceiling,
			"active":     model.Active,
			"updated_at": model.UpdatedAt,
		}),
	}).Create(model).Error
}

func (r *DefaultAutoBidRepository) ActiveForAuction(ctx context.Context, auctionID string) ([]*domain.AutoBid, error) {
	var proxyModels []models.AutoBidModel
	if err := r.DB.WithContext(ctx).
		Where("auction_id = ? AND active = ?", auctionID, true).
		Order("created_at ASC").
		Find(&proxyModels).Error; err != nil {
		return nil, err
	}
	proxies := make([]*domain.AutoBid, len(proxyModels))
	for i := range proxyModels {
		proxies[i] = mappers.ToDomainAutoBid(&proxyModels[i])
	}
	return proxies, nil
}

func (r *DefaultAutoBidRepository) Deactivate(ctx context.Context, proxyID string) error {
	return r.DB.WithContext(ctx).Model(&models.AutoBidModel{}).
		Where("id = ?", proxyID).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now().UTC()}).Error
}

type DefaultParticipantRepository struct {
	DB *gorm.DB
}

func NewDefaultParticipantRepository(db *gorm.DB) *DefaultParticipantRepository {
	return &DefaultParticipantRepository{DB: db}
}

func (r *DefaultParticipantRepository) ForAuction(ctx context.Context, auctionID string) ([]*domain.Participant, error) {
	var participantModels []models.ParticipantModel
	if err := r.DB.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("first_bid_at ASC").
		Find(&participantModels).Error; err != nil {
		return nil, err
	}
	participants := make([]*domain.Participant, len(participantModels))
	for i := range participantModels {
		participants[i] = mappers.ToDomainParticipant(&participantModels[i])
	}
	return participants, nil
}
