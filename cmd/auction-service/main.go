package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/staynest/auction-service/internal/app/background"
	"github.com/staynest/auction-service/internal/config"
	"github.com/staynest/auction-service/internal/delivery/http/handlers"
	"github.com/staynest/auction-service/internal/delivery/http/router"
	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/gateway"
	"github.com/staynest/auction-service/internal/infrastructure/kafka"
	"github.com/staynest/auction-service/internal/infrastructure/metrics"
	"github.com/staynest/auction-service/internal/infrastructure/migrate"
	"github.com/staynest/auction-service/internal/infrastructure/postgres"
	"github.com/staynest/auction-service/internal/infrastructure/postgres/repository"
	"github.com/staynest/auction-service/internal/infrastructure/rediscache"
	auctionuc "github.com/staynest/auction-service/internal/usecase/auction"
	biduc "github.com/staynest/auction-service/internal/usecase/bid"
	paymentuc "github.com/staynest/auction-service/internal/usecase/payment"
	splituc "github.com/staynest/auction-service/internal/usecase/split"
	webhookuc "github.com/staynest/auction-service/internal/usecase/webhook"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	// Init database
	db := postgres.MustInitDB(cfg)

	if err := migrate.RunMigrations(db, cfg.AuctionDB.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Event publisher: kafka when configured, otherwise log-only.
	var publisher domain.EventPublisher
	if cfg.Kafka.Host != "" {
		brokers := []string{fmt.Sprintf("%s:%s", cfg.Kafka.Host, cfg.Kafka.Port)}
		publisher = kafka.NewDefaultKafkaPublisher(brokers, cfg.Kafka.Topic)
	} else {
		publisher = kafka.LogPublisher{}
		slog.Warn("kafka not configured, events go to the log")
	}

	// Redis read cache; nil client degrades to uncached reads.
	redisClient := rediscache.NewRedisClient(cfg.Redis)
	if redisClient == nil {
		slog.Warn("redis unavailable, serving reads without cache")
	}
	cache := rediscache.NewAuctionCache(redisClient, cfg.Redis.CacheTTL)

	gatewayClient := gateway.NewHTTPGatewayClient(cfg.Gateway.Address, cfg.Gateway.APIKey)

	auctionRepo := repository.NewDefaultAuctionRepository(db)
	bidRepo := repository.NewDefaultBidRepository(db)
	autoBidRepo := repository.NewDefaultAutoBidRepository(db)
	paymentRepo := repository.NewDefaultPaymentRepository(db)
	splitRepo := repository.NewDefaultSplitRepository(db)
	chargebackRepo := repository.NewDefaultChargebackRepository(db)

	auctionMetrics := metrics.NewAuctionMetrics()
	clock := domain.SystemClock{}

	auctionUsecase := auctionuc.NewDefaultAuctionUsecase(
		auctionRepo, bidRepo, publisher, auctionMetrics, cache, clock, cfg.Payments)
	bidUsecase := biduc.NewDefaultBidUsecase(
		auctionRepo, bidRepo, autoBidRepo, publisher, auctionMetrics, cache, clock, cfg.Bidding)
	splitUsecase := splituc.NewDefaultSplitUsecase(
		auctionRepo, paymentRepo, splitRepo, gatewayClient, publisher, auctionMetrics, clock, cfg.Payments)
	paymentUsecase := paymentuc.NewDefaultPaymentUsecase(
		auctionRepo, bidRepo, paymentRepo, splitRepo, gatewayClient, splitUsecase,
		publisher, auctionMetrics, cache, clock, cfg.Payments)
	webhookUsecase := webhookuc.NewDefaultWebhookUsecase(
		chargebackRepo, paymentRepo, splitUsecase, publisher, auctionMetrics, clock, cfg.Webhooks)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := background.NewBackgroundTasks(auctionUsecase, paymentUsecase, splitUsecase)
	tasks.RunStartupRecovery(ctx)
	tasks.StartAll(ctx)

	signatureHeaders := make(map[string]string, len(cfg.Webhooks.Gateways))
	for name, gw := range cfg.Webhooks.Gateways {
		signatureHeaders[name] = gw.SignatureHeader
	}

	e := router.New(
		handlers.NewAuctionHandler(auctionUsecase),
		handlers.NewBidHandler(bidUsecase),
		handlers.NewPaymentHandler(paymentUsecase),
		handlers.NewWebhookHandler(webhookUsecase, signatureHeaders),
	)

	addr := fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port)
	slog.Info("starting auction service", "addr", addr)
	if err := e.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
