package repository

import (
	"context"
	"errors"
	"time"

	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/mappers"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	return r.DB.WithContext(ctx).Create(mappers.ToGORMPayment(payment)).Error
}

func (r *DefaultPaymentRepository) GetByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	var model models.PaymentModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoPaymentDue
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) GetByAuctionID(ctx context.Context, auctionID string) (*domain.Payment, error) {
	var model models.PaymentModel
	err := r.DB.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoPaymentDue
		}
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) MarkRefunded(ctx context.Context, paymentID string, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":      domain.PaymentRefunded,
			"refunded_at": at,
		}).Error
}

type DefaultSplitRepository struct {
	DB *gorm.DB
}

func NewDefaultSplitRepository(db *gorm.DB) *DefaultSplitRepository {
	return &DefaultSplitRepository{DB: db}
}

func (r *DefaultSplitRepository) CreateBatch(ctx context.Context, splits []*domain.PaymentSplit) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, split := range splits {
			if err := tx.Create(mappers.ToGORMSplit(split)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *DefaultSplitRepository) ForPayment(ctx context.Context, paymentID string) ([]*domain.PaymentSplit, error) {
	var splitModels []models.PaymentSplitModel
	if err := r.DB.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&splitModels).Error; err != nil {
		return nil, err
	}
	return toDomainSplits(splitModels), nil
}

// ClaimProcessing is the dispatch guard: only the caller whose conditional
// update matches gets to call the gateway for this split.
func (r *DefaultSplitRepository) ClaimProcessing(ctx context.Context, splitID string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.PaymentSplitModel{}).
		Where("id = ? AND status = ?", splitID, domain.SplitPending).
		Updates(map[string]interface{}{
			"status":     domain.SplitProcessing,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultSplitRepository) MarkCompleted(ctx context.Context, splitID, transferID, rawResponse string) error {
	return r.DB.WithContext(ctx).Model(&models.PaymentSplitModel{}).
		Where("id = ?", splitID).
		Updates(map[string]interface{}{
			"status":              domain.SplitCompleted,
			"gateway_transfer_id": transferID,
			"gateway_response":    rawResponse,
			"failure_reason":      "",
			"next_retry_at":       nil,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *DefaultSplitRepository) MarkFailed(ctx context.Context, splitID, reason string, retryCount int, nextRetryAt *time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.PaymentSplitModel{}).
		Where("id = ?", splitID).
		Updates(map[string]interface{}{
			"status":         domain.SplitFailed,
			"failure_reason": reason,
			"retry_count":    retryCount,
			"next_retry_at":  nextRetryAt,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *DefaultSplitRepository) ResetForRetry(ctx context.Context, splitID string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.PaymentSplitModel{}).
		Where("id = ? AND status = ?", splitID, domain.SplitFailed).
		Updates(map[string]interface{}{
			"status":     domain.SplitPending,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *DefaultSplitRepository) DueForRetry(ctx context.Context, now time.Time, maxRetries int) ([]*domain.PaymentSplit, error) {
	var splitModels []models.PaymentSplitModel
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND retry_count < ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			domain.SplitFailed, maxRetries, now).
		Find(&splitModels).Error; err != nil {
		return nil, err
	}
	return toDomainSplits(splitModels), nil
}

func (r *DefaultSplitRepository) CancelWithNote(ctx context.Context, splitID, note string) error {
	return r.DB.WithContext(ctx).Model(&models.PaymentSplitModel{}).
		Where("id = ?", splitID).
		Updates(map[string]interface{}{
			"status":      domain.SplitCancelled,
			"ledger_note": note,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func toDomainSplits(splitModels []models.PaymentSplitModel) []*domain.PaymentSplit {
	splits := make([]*domain.PaymentSplit, len(splitModels))
	for i := range splitModels {
		splits[i] = mappers.ToDomainSplit(&splitModels[i])
	}
	return splits
}
