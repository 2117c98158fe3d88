package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Adnan4141/digital-product-store-server/payment"
	"github.com/Adnan4141/digital-product-store-server/services"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// SignatureHeader is the processor's webhook signature header.
const SignatureHeader = "Stripe-Signature"

// WebhookController receives processor callbacks, verifies them and hands
// the verified event to settlement.
type WebhookController struct {
	provider   payment.Provider
	settlement *services.SettlementService
	logger     *zap.Logger
}

func NewWebhookController(provider payment.Provider, settlement *services.SettlementService, logger *zap.Logger) *WebhookController {
	return &WebhookController{provider: provider, settlement: settlement, logger: logger}
}

// HandleStripeWebhook needs the raw body for signature verification, so it
// never goes through the JSON binder.
func (wc *WebhookController) HandleStripeWebhook(c *gin.Context) {
	signature := c.GetHeader(SignatureHeader)
	if signature == "" {
		respondError(c, wc.logger, utils.NewSignature("missing webhook signature", nil))
		return
	}

	payloadBody, err := c.GetRawData()
	if err != nil {
		respondError(c, wc.logger, utils.NewValidation("could not read webhook payload"))
		return
	}

	event, err := wc.provider.VerifyWebhook(payloadBody, signature)
	if err != nil {
		respondError(c, wc.logger, utils.NewSignature("webhook signature verification failed", err))
		return
	}

	if err := wc.settlement.HandleEvent(c.Request.Context(), event); err != nil {
		respondError(c, wc.logger, utils.NewInternal("webhook processing failed", err))
		return
	}

	c.JSON(http.StatusOK, utils.OK("webhook processed", nil))
}
