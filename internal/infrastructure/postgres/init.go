package postgres

import (
	"log"

	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.AuctionConfig) *gorm.DB {
	dsn := cfg.AuctionDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.AuctionModel{},
		&models.AuctionTransitionModel{},
		&models.BidModel{},
		&models.AutoBidModel{},
		&models.ParticipantModel{},
		&models.SplitConfigModel{},
		&models.PaymentModel{},
		&models.PaymentSplitModel{},
		&models.ChargebackEventModel{},
	)

	return db
}
