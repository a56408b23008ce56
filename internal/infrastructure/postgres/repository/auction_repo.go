package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/mappers"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAuctionRepository struct {
	DB *gorm.DB
}

func NewDefaultAuctionRepository(db *gorm.DB) *DefaultAuctionRepository {
	return &DefaultAuctionRepository{DB: db}
}

func (r *DefaultAuctionRepository) Create(ctx context.Context, auction *domain.Auction, splits []*domain.SplitConfig) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMAuction(auction)).Error; err != nil {
			return err
		}
		for _, cfg := range splits {
			if err := tx.Create(mappers.ToGORMSplitConfig(cfg)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DefaultAuctionRepository) GetByID(ctx context.Context, auctionID string) (*domain.Auction, error) {
	var model models.AuctionModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", auctionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return mappers.ToDomainAuction(&model), nil
}

func (r *DefaultAuctionRepository) List(ctx context.Context, filter domain.AuctionFilter) ([]*domain.Auction, int64, error) {
	query := r.DB.WithContext(ctx).Model(&models.AuctionModel{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN (?)", filter.Statuses)
	}
	if filter.HostID != "" {
		query = query.Where("host_id = ?", filter.HostID)
	}
	if len(filter.ListingIDs) > 0 {
		query = query.Where("listing_id IN (?)", filter.ListingIDs)
	}
	if filter.MinPrice != nil {
		query = query.Where("current_bid >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("current_bid <= ?", *filter.MaxPrice)
	}
	if filter.CheckInFrom != nil {
		query = query.Where("check_in >= ?", *filter.CheckInFrom)
	}
	if filter.CheckOutTo != nil {
		query = query.Where("check_out <= ?", *filter.CheckOutTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count auctions: %w", err)
	}

	safeSortBy := "created_at"
	switch filter.SortBy {
	case "price":
		safeSortBy = "current_bid"
	case "time":
		safeSortBy = "end_time"
	case "popularity":
		safeSortBy = "bid_count"
	}
	safeSortOrder := "DESC"
	if strings.ToUpper(filter.SortOrder) == "ASC" {
		safeSortOrder = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var auctionModels []models.AuctionModel
	err := query.
		Order(fmt.Sprintf("%s %s", safeSortBy, safeSortOrder)).
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&auctionModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find auctions: %w", err)
	}

	auctions := make([]*domain.Auction, len(auctionModels))
	for i := range auctionModels {
		auctions[i] = mappers.ToDomainAuction(&auctionModels[i])
	}
	return auctions, total, nil
}

// AcceptBid commits one accepted bid as a single transaction. The first
// statement is the optimistic guard: it only matches while the auction is
// still active and current_bid equals the value the usecase validated
// against. Zero rows means a concurrent acceptance committed first.
func (r *DefaultAuctionRepository) AcceptBid(ctx context.Context, acc *domain.BidAcceptance) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"current_bid": acc.Bid.Amount,
			"bid_count":   gorm.Expr("bid_count + 1"),
			"updated_at":  acc.Bid.CreatedAt,
		}
		if acc.NewExtendedEnd != nil {
			updates["extended_end"] = *acc.NewExtendedEnd
			updates["extension_count"] = acc.NewExtensionCount
		}

		res := tx.Model(&models.AuctionModel{}).
			Where("id = ? AND status = ? AND current_bid = ?",
				acc.AuctionID, domain.AuctionActive, acc.ExpectedBid).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrBidConflict
		}

		if err := tx.Model(&models.BidModel{}).
			Where("auction_id = ? AND is_winning = ?", acc.AuctionID, true).
			Update("is_winning", false).Error; err != nil {
			return err
		}

		if err := tx.Create(mappers.ToGORMBid(acc.Bid)).Error; err != nil {
			return err
		}

		now := acc.Bid.CreatedAt
		participant := &models.ParticipantModel{
			ID:             uuid.New().String(),
			AuctionID:      acc.AuctionID,
			BidderID:       acc.Bid.BidderID,
			BidCount:       1,
			TotalBidAmount: acc.Bid.Amount,
			FirstBidAt:     now,
			LastBidAt:      now,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "auction_id"}, {Name: "bidder_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"bid_count":        gorm.Expr("auction_participants.bid_count + 1"),
				"total_bid_amount": gorm.Expr("auction_participants.total_bid_amount + ?", acc.Bid.Amount),
				"last_bid_at":      now,
				"updated_at":       now,
			}),
		}).Create(participant).Error; err != nil {
			return err
		}

		return tx.Model(&models.AuctionModel{}).
			Where("id = ?", acc.AuctionID).
			Update("participant_count",
				gorm.Expr("(SELECT count(*) FROM auction_participants WHERE auction_id = ?)", acc.AuctionID)).Error
	})
}

func (r *DefaultAuctionRepository) FindDueScheduled(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	return r.findByCondition(ctx, "status = ? AND start_time <= ?", domain.AuctionScheduled, now)
}

func (r *DefaultAuctionRepository) FindDueActive(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	return r.findByCondition(ctx,
		"status = ? AND (CASE WHEN extended_end IS NULL THEN end_time ELSE extended_end END) <= ?",
		domain.AuctionActive, now)
}

func (r *DefaultAuctionRepository) FindOverduePayments(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	return r.findByCondition(ctx,
		"status = ? AND winner_id IS NOT NULL AND payment_completed = ? AND payment_deadline < ?",
		domain.AuctionEnded, false, now)
}

func (r *DefaultAuctionRepository) findByCondition(ctx context.Context, cond string, args ...interface{}) ([]*domain.Auction, error) {
	var auctionModels []models.AuctionModel
	if err := r.DB.WithContext(ctx).Where(cond, args...).Find(&auctionModels).Error; err != nil {
		return nil, err
	}
	auctions := make([]*domain.Auction, len(auctionModels))
	for i := range auctionModels {
		auctions[i] = mappers.ToDomainAuction(&auctionModels[i])
	}
	return auctions, nil
}

func (r *DefaultAuctionRepository) MarkActive(ctx context.Context, auctionID string, at time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AuctionModel{}).
			Where("id = ? AND status = ?", auctionID, domain.AuctionScheduled).
			Updates(map[string]interface{}{"status": domain.AuctionActive, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil // already crossed by another instance
		}
		return recordTransition(tx, auctionID, domain.TransitionActivated,
			domain.AuctionScheduled, domain.AuctionActive, nil, "", at)
	})
}

func (r *DefaultAuctionRepository) CloseWithWinner(ctx context.Context, auctionID string, winnerID *string, deadline *time.Time, at time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AuctionModel{}).
			Where("id = ? AND status = ?", auctionID, domain.AuctionActive).
			Updates(map[string]interface{}{
				"status":           domain.AuctionEnded,
				"winner_id":        winnerID,
				"payment_deadline": deadline,
				"updated_at":       at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		kind := domain.TransitionEnded
		if winnerID != nil {
			kind = domain.TransitionWinnerAssigned
		}
		return recordTransition(tx, auctionID, kind, domain.AuctionActive, domain.AuctionEnded, winnerID, "", at)
	})
}

func (r *DefaultAuctionRepository) ReassignWinner(ctx context.Context, auctionID, forfeitBidderID string, winnerID *string, newWinningBidID *string, deadline *time.Time, at time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded write first: if the outgoing winner paid in the meantime,
		// or another sweep already replaced them, the forfeiture must not
		// touch the auction or the bids.
		res := tx.Model(&models.AuctionModel{}).
			Where("id = ? AND winner_id = ? AND payment_completed = ?", auctionID, forfeitBidderID, false).
			Updates(map[string]interface{}{
				"winner_id":        winnerID,
				"payment_deadline": deadline,
				"updated_at":       at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.BidModel{}).
			Where("auction_id = ? AND bidder_id = ?", auctionID, forfeitBidderID).
			Updates(map[string]interface{}{"forfeited": true, "is_winning": false}).Error; err != nil {
			return err
		}
		if newWinningBidID != nil {
			if err := tx.Model(&models.BidModel{}).
				Where("id = ?", *newWinningBidID).
				Update("is_winning", true).Error; err != nil {
				return err
			}
		}
		kind := domain.TransitionWinnerReassigned
		detail := fmt.Sprintf("forfeited by %s", forfeitBidderID)
		if winnerID == nil {
			kind = domain.TransitionEnded
			detail = "no bidders remaining after forfeiture"
		}
		return recordTransition(tx, auctionID, kind, domain.AuctionEnded, domain.AuctionEnded, winnerID, detail, at)
	})
}

func (r *DefaultAuctionRepository) MarkPaymentCompleted(ctx context.Context, auctionID, winnerID string, at time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.AuctionModel{}).
			Where("id = ? AND winner_id = ? AND payment_completed = ?", auctionID, winnerID, false).
			Updates(map[string]interface{}{"payment_completed": true, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrWinnerChanged
		}
		return recordTransition(tx, auctionID, domain.TransitionPaymentCompleted,
			domain.AuctionEnded, domain.AuctionEnded, nil, "", at)
	})
}

func (r *DefaultAuctionRepository) Cancel(ctx context.Context, auctionID string, at time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.AuctionModel
		if err := tx.First(&model, "id = ?", auctionID).Error; err != nil {
			return err
		}
		res := tx.Model(&models.AuctionModel{}).
			Where("id = ? AND status IN (?)", auctionID,
				[]domain.AuctionStatus{domain.AuctionScheduled, domain.AuctionActive}).
			Updates(map[string]interface{}{"status": domain.AuctionCancelled, "updated_at": at})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAuctionAlreadyClosed
		}
		return recordTransition(tx, auctionID, domain.TransitionCancelled,
			model.Status, domain.AuctionCancelled, nil, "", at)
	})
}

func (r *DefaultAuctionRepository) SplitConfigs(ctx context.Context, auctionID string) ([]*domain.SplitConfig, error) {
	var configModels []models.SplitConfigModel
	if err := r.DB.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("position ASC").
		Find(&configModels).Error; err != nil {
		return nil, err
	}
	configs := make([]*domain.SplitConfig, len(configModels))
	for i := range configModels {
		configs[i] = mappers.ToDomainSplitConfig(&configModels[i])
	}
	return configs, nil
}

func (r *DefaultAuctionRepository) Transitions(ctx context.Context, auctionID string) ([]*domain.AuctionTransition, error) {
	var transitionModels []models.AuctionTransitionModel
	if err := r.DB.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("occurred_at ASC").
		Find(&transitionModels).Error; err != nil {
		return nil, err
	}
	transitions := make([]*domain.AuctionTransition, len(transitionModels))
	for i := range transitionModels {
		transitions[i] = mappers.ToDomainTransition(&transitionModels[i])
	}
	return transitions, nil
}

func recordTransition(tx *gorm.DB, auctionID string, kind domain.TransitionKind, from, to domain.AuctionStatus, winnerID *string, detail string, at time.Time) error {
	return tx.Create(&models.AuctionTransitionModel{
		ID:         uuid.New().String(),
		AuctionID:  auctionID,
		Kind:       string(kind),
		FromStatus: string(from),
		ToStatus:   string(to),
		WinnerID:   winnerID,
		Detail:     detail,
		OccurredAt: at,
	}).Error
}
