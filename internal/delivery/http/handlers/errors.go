package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/staynest/auction-service/internal/domain"
)

// statusFor maps domain errors onto HTTP statuses. Anything unmapped is an
// internal error and must not leak its message to clients.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuctionNotFound),
		errors.Is(err, domain.ErrNoPaymentDue),
		errors.Is(err, domain.ErrUnknownGateway):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrBidTooLow),
		errors.Is(err, domain.ErrDuplicateHighBidder),
		errors.Is(err, domain.ErrCeilingTooLow),
		errors.Is(err, domain.ErrAuctionNotActive),
		errors.Is(err, domain.ErrPayloadMalformed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrBidConflictExhausted),
		errors.Is(err, domain.ErrAuctionAlreadyClosed),
		errors.Is(err, domain.ErrAuctionPaymentInFlight),
		errors.Is(err, domain.ErrWinnerChanged):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotAuctionWinner),
		errors.Is(err, domain.ErrNotAuctionHost):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrPaymentDeadlinePassed):
		return http.StatusGone
	case errors.Is(err, domain.ErrSignatureMissing),
		errors.Is(err, domain.ErrSignatureInvalid),
		errors.Is(err, domain.ErrTimestampExpired):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	return c.JSON(status, echo.Map{"error": message})
}

// callerID extracts the authenticated user forwarded by the API gateway.
func callerID(c echo.Context) (string, bool) {
	id := c.Request().Header.Get("X-User-ID")
	return id, id != ""
}
