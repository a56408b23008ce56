package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	paymentdto "github.com/staynest/auction-service/internal/usecase/dto/payment"
	paymentuc "github.com/staynest/auction-service/internal/usecase/payment"
)

type PaymentHandler struct {
	Payments paymentuc.PaymentUsecase
}

func NewPaymentHandler(payments paymentuc.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

type confirmPaymentRequest struct {
	Method        string            `json:"method"`
	MethodPayload map[string]string `json:"method_payload"`
}

// ConfirmPayment handles POST /v1/auctions/:id/payment. Only the current
// winner inside the open payment window succeeds.
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	payerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req confirmPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Method == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method is required"})
	}

	output, err := h.Payments.ConfirmPayment(c.Request().Context(), &paymentdto.ConfirmPaymentInput{
		AuctionID:     c.Param("id"),
		PayerID:       payerID,
		Method:        req.Method,
		MethodPayload: req.MethodPayload,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, output)
}

// CancelPayment handles DELETE /v1/auctions/:id/payment. The winner
// forfeits the win and the next bidder in line is promoted immediately.
func (h *PaymentHandler) CancelPayment(c echo.Context) error {
	payerID, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.Payments.CancelPayment(c.Request().Context(), c.Param("id"), payerID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "forfeited"})
}

// GetPaymentStatus handles GET /v1/auctions/:id/payment. For the winner
// inside an open window the response says payment is still due and how many
// seconds remain; once captured it carries the payment and its splits.
func (h *PaymentHandler) GetPaymentStatus(c echo.Context) error {
	userID, _ := callerID(c)
	output, err := h.Payments.GetPaymentStatus(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}

// GetPaymentSplits handles GET /v1/payments/:id/splits.
func (h *PaymentHandler) GetPaymentSplits(c echo.Context) error {
	outputs, err := h.Payments.GetPaymentSplits(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"splits": outputs})
}
