package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	biduc "github.com/staynest/auction-service/internal/usecase/bid"
	biddto "github.com/staynest/auction-service/internal/usecase/dto/bid"
)

type BidHandler struct {
	Bids biduc.BidUsecase
}

func NewBidHandler(bids biduc.BidUsecase) *BidHandler {
	return &BidHandler{Bids: bids}
}

type placeBidRequest struct {
	Amount string `json:"amount"`
}

// PlaceBid handles POST /v1/auctions/:id/bids.
func (h *BidHandler) PlaceBid(c echo.Context) error {
	bidderID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req placeBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}

	output, err := h.Bids.PlaceBid(c.Request().Context(), &biddto.PlaceBidInput{
		AuctionID: c.Param("id"),
		BidderID:  bidderID,
		Amount:    amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, output)
}

type registerAutoBidRequest struct {
	Ceiling string `json:"ceiling"`
}

// RegisterAutoBid handles PUT /v1/auctions/:id/auto-bid.
func (h *BidHandler) RegisterAutoBid(c echo.Context) error {
	bidderID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req registerAutoBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ceiling, err := decimal.NewFromString(req.Ceiling)
	if err != nil || !ceiling.IsPositive() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ceiling"})
	}

	output, err := h.Bids.RegisterAutoBid(c.Request().Context(), &biddto.RegisterAutoBidInput{
		AuctionID: c.Param("id"),
		BidderID:  bidderID,
		Ceiling:   ceiling,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}

// CancelAutoBid handles DELETE /v1/auctions/:id/auto-bid.
func (h *BidHandler) CancelAutoBid(c echo.Context) error {
	bidderID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Bids.CancelAutoBid(c.Request().Context(), c.Param("id"), bidderID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBidHistory handles GET /v1/auctions/:id/bids.
func (h *BidHandler) GetBidHistory(c echo.Context) error {
	output, err := h.Bids.GetBidHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bids": output})
}

// GetWinningBid handles GET /v1/auctions/:id/bids/winning.
func (h *BidHandler) GetWinningBid(c echo.Context) error {
	output, err := h.Bids.GetWinningBid(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	if output == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no winning bid"})
	}
	return c.JSON(http.StatusOK, output)
}
