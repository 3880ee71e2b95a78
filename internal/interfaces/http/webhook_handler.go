package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kryonshao/eshop-sub000/internal/application/dto"
	"github.com/kryonshao/eshop-sub000/internal/application/webhook"
	"github.com/kryonshao/eshop-sub000/internal/domain"
	"github.com/kryonshao/eshop-sub000/internal/metrics"
)

// Header con la firma HMAC-SHA512 de la pasarela.
const signatureHeader = "x-provider-signature"

// WebhookHandler recibe los webhooks de la pasarela de pagos (público, autenticado por firma).
type WebhookHandler struct {
	uc *webhook.UseCase
}

// NewWebhookHandler construye el handler.
func NewWebhookHandler(uc *webhook.UseCase) *WebhookHandler {
	return &WebhookHandler{uc: uc}
}

// Handle godoc
// @Summary      Webhook de la pasarela de pagos
// @Description  Verifica la firma HMAC-SHA512 sobre el cuerpo crudo, deduplica por hash
//
//	de contenido y aplica el cambio de estado de pago/orden. Las reentregas
//	responden éxito sin efectos.
//
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        x-provider-signature  header  string  true  "Firma hex HMAC-SHA512 del cuerpo"
// @Success      200  {object}  webhook.Result
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/payment/webhook [post]
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	metrics.WebhookEventsTotal.Inc()
	start := time.Now()
	defer func() { metrics.WebhookProcessingDuration.Observe(time.Since(start).Seconds()) }()

	// c.Body() devuelve el cuerpo crudo: la firma se calcula sobre estos bytes exactos,
	// nunca sobre una re-serialización.
	rawBody := c.Body()
	signature := c.Get(signatureHeader)

	result, err := h.uc.Handle(c.Context(), rawBody, signature)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			metrics.WebhookEventsRejectedTotal.Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SIGNATURE", Message: "firma inválida"})
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.WebhookEventsRejectedTotal.Inc()
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	if result.Duplicate {
		metrics.WebhookEventsDuplicateTotal.Inc()
	}
	return c.JSON(result)
}
