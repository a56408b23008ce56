package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	auctionuc "github.com/staynest/auction-service/internal/usecase/auction"
	auctiondto "github.com/staynest/auction-service/internal/usecase/dto/auction"
)

type AuctionHandler struct {
	Auctions auctionuc.AuctionUsecase
}

func NewAuctionHandler(auctions auctionuc.AuctionUsecase) *AuctionHandler {
	return &AuctionHandler{Auctions: auctions}
}

type createAuctionRequest struct {
	ListingID    string    `json:"listing_id"`
	Description  string    `json:"description"`
	Currency     string    `json:"currency"`
	StartPrice   string    `json:"start_price"`
	MinIncrement string    `json:"min_increment"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	MaxGuests    int       `json:"max_guests"`
	Splits       []struct {
		RecipientID   string `json:"recipient_id"`
		RecipientType string `json:"recipient_type"`
		SplitType     string `json:"split_type"`
		Value         string `json:"value"`
	} `json:"splits"`
}

// CreateAuction handles POST /v1/auctions. The caller becomes the host.
func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	hostID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createAuctionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	startPrice, err := decimal.NewFromString(req.StartPrice)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_price"})
	}
	minIncrement, err := decimal.NewFromString(req.MinIncrement)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_increment"})
	}

	input := &auctiondto.CreateAuctionInput{
		ListingID:    req.ListingID,
		HostID:       hostID,
		Description:  req.Description,
		Currency:     req.Currency,
		StartPrice:   startPrice,
		MinIncrement: minIncrement,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		MaxGuests:    req.MaxGuests,
	}
	for _, s := range req.Splits {
		value, err := decimal.NewFromString(s.Value)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid split value"})
		}
		input.Splits = append(input.Splits, auctiondto.SplitConfigInput{
			RecipientID:   s.RecipientID,
			RecipientType: s.RecipientType,
			SplitType:     s.SplitType,
			Value:         value,
		})
	}

	output, err := h.Auctions.CreateAuction(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, output)
}

// GetAuction handles GET /v1/auctions/:id.
func (h *AuctionHandler) GetAuction(c echo.Context) error {
	output, err := h.Auctions.GetAuction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}

// ListAuctions handles GET /v1/auctions with filter, sort and pagination
// query parameters.
func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	input := &auctiondto.ListAuctionsInput{
		HostID:    c.QueryParam("host_id"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	}
	if statuses := c.QueryParam("status"); statuses != "" {
		input.Statuses = strings.Split(statuses, ",")
	}
	if listings := c.QueryParam("listing_id"); listings != "" {
		input.ListingIDs = strings.Split(listings, ",")
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
		}
		input.MinPrice = &v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		input.MaxPrice = &v
	}
	if raw := c.QueryParam("check_in_from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in_from"})
		}
		input.CheckInFrom = &t
	}
	if raw := c.QueryParam("check_out_to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out_to"})
		}
		input.CheckOutTo = &t
	}
	input.Page, _ = strconv.ParseInt(c.QueryParam("page"), 10, 64)
	input.Limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)

	output, err := h.Auctions.ListAuctions(c.Request().Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}

// GetTransitions handles GET /v1/auctions/:id/transitions.
func (h *AuctionHandler) GetTransitions(c echo.Context) error {
	output, err := h.Auctions.GetTransitions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"transitions": output})
}

// CancelAuction handles POST /v1/auctions/:id/cancel.
func (h *AuctionHandler) CancelAuction(c echo.Context) error {
	hostID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Auctions.CancelAuction(c.Request().Context(), c.Param("id"), hostID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "cancelled"})
}
