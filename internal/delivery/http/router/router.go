package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/staynest/auction-service/internal/delivery/http/handlers"
)

// New wires every route of the service onto a fresh Echo instance.
func New(
	auctionHandler *handlers.AuctionHandler,
	bidHandler *handlers.BidHandler,
	paymentHandler *handlers.PaymentHandler,
	webhookHandler *handlers.WebhookHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	e.GET("/healthz", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1")

	v1.POST("/auctions", auctionHandler.CreateAuction)
	v1.GET("/auctions", auctionHandler.ListAuctions)
	v1.GET("/auctions/:id", auctionHandler.GetAuction)
	v1.GET("/auctions/:id/transitions", auctionHandler.GetTransitions)
	v1.POST("/auctions/:id/cancel", auctionHandler.CancelAuction)

	v1.POST("/auctions/:id/bids", bidHandler.PlaceBid)
	v1.GET("/auctions/:id/bids", bidHandler.GetBidHistory)
	v1.GET("/auctions/:id/bids/winning", bidHandler.GetWinningBid)
	v1.PUT("/auctions/:id/auto-bid", bidHandler.RegisterAutoBid)
	v1.DELETE("/auctions/:id/auto-bid", bidHandler.CancelAutoBid)

	v1.POST("/auctions/:id/payment", paymentHandler.ConfirmPayment)
	v1.GET("/auctions/:id/payment", paymentHandler.GetPaymentStatus)
	v1.DELETE("/auctions/:id/payment", paymentHandler.CancelPayment)
	v1.GET("/payments/:id/splits", paymentHandler.GetPaymentSplits)

	v1.POST("/webhooks/:gateway", webhookHandler.HandleChargeback)

	return e
}
