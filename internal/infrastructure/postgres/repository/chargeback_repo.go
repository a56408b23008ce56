package repository

import (
	"context"
	"errors"

	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/mappers"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultChargebackRepository struct {
	DB *gorm.DB
}

func NewDefaultChargebackRepository(db *gorm.DB) *DefaultChargebackRepository {
	return &DefaultChargebackRepository{DB: db}
}

// Upsert locks the (gateway, chargeback_id) row if it exists, then either
// inserts or advances the status forward-only. The unique index guards the
// insert race between two first deliveries; the loser of that race retries
// as an update.
func (r *DefaultChargebackRepository) Upsert(ctx context.Context, event *domain.ChargebackEvent) (bool, domain.ChargebackStatus, error) {
	var created bool
	var previous domain.ChargebackStatus

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ChargebackEventModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("gateway = ? AND chargeback_id = ?", event.Gateway, event.ChargebackID).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			if insertErr := tx.Create(mappers.ToGORMChargeback(event)).Error; insertErr != nil {
				return insertErr
			}
			created = true
			return nil
		}
		if err != nil {
			return err
		}

		previous = domain.ChargebackStatus(existing.Status)
		if event.Status.Rank() <= previous.Rank() {
			return nil // stale or duplicate delivery
		}

		updates := map[string]interface{}{
			"status":      string(event.Status),
			"raw_payload": event.RawPayload,
			"received_at": event.ReceivedAt,
		}
		if event.Status.Terminal() {
			resolvedAt := event.ReceivedAt
			updates["resolved_at"] = resolvedAt
		}
		if event.EvidenceDueAt != nil {
			updates["evidence_due_at"] = *event.EvidenceDueAt
		}
		return tx.Model(&models.ChargebackEventModel{}).
			Where("id = ?", existing.ID).
			Updates(updates).Error
	})
	if err != nil {
		return false, "", err
	}
	return created, previous, nil
}

func (r *DefaultChargebackRepository) GetByKey(ctx context.Context, gateway, chargebackID string) (*domain.ChargebackEvent, error) {
	var model models.ChargebackEventModel
	err := r.DB.WithContext(ctx).
		Where("gateway = ? AND chargeback_id = ?", gateway, chargebackID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return mappers.ToDomainChargeback(&model), nil
}
