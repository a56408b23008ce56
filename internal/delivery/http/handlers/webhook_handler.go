package handlers

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	webhookdto "github.com/staynest/auction-service/internal/usecase/dto/webhook"
	webhookuc "github.com/staynest/auction-service/internal/usecase/webhook"
)

type WebhookHandler struct {
	Webhooks         webhookuc.WebhookUsecase
	SignatureHeaders map[string]string // gateway -> header name
}

func NewWebhookHandler(webhooks webhookuc.WebhookUsecase, signatureHeaders map[string]string) *WebhookHandler {
	return &WebhookHandler{Webhooks: webhooks, SignatureHeaders: signatureHeaders}
}

// HandleChargeback handles POST /v1/webhooks/:gateway. The body is read
// raw and passed through untouched: signature verification depends on the
// exact bytes the gateway signed.
func (h *WebhookHandler) HandleChargeback(c echo.Context) error {
	gateway := c.Param("gateway")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read body"})
	}

	header := h.SignatureHeaders[gateway]
	if header == "" {
		header = "X-Webhook-Signature"
	}

	output, err := h.Webhooks.ProcessChargebackWebhook(c.Request().Context(), &webhookdto.ProcessWebhookInput{
		Gateway:   gateway,
		Signature: c.Request().Header.Get(header),
		Body:      body,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, output)
}
