package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Adnan4141/digital-product-store-server/services"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// PaymentController exposes payment-intent creation for pending orders.
type PaymentController struct {
	payments *services.PaymentService
	logger   *zap.Logger
}

func NewPaymentController(payments *services.PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{payments: payments, logger: logger}
}

func (pc *PaymentController) CreatePaymentIntent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid order id"))
		return
	}

	intent, err := pc.payments.CreateIntent(c.Request.Context(), id)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK("payment intent created", gin.H{
		"payment_intent_id": intent.ID,
		"client_secret":     intent.ClientSecret,
	}))
}
