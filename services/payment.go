package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adnan4141/digital-product-store-server/metrics"
	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/payment"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// PaymentService bridges pending orders to the external payment processor.
type PaymentService struct {
	db       *gorm.DB
	provider payment.Provider
	currency string
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

func NewPaymentService(db *gorm.DB, provider payment.Provider, currency string, logger *zap.Logger, mts *metrics.Metrics) *PaymentService {
	return &PaymentService{db: db, provider: provider, currency: currency, logger: logger, metrics: mts}
}

var oneHundred = decimal.NewFromInt(100)

// minorUnits converts a decimal amount to the currency's minor unit,
// rounding to the nearest integer cent.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(oneHundred).Round(0).IntPart()
}

// CreateIntent requests a payment intent for a pending order, records the
// intent id against the order and returns the processor handle. The payment
// itself is confirmed out-of-band between the buyer's client and the
// processor; settlement arrives later over the webhook.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID uuid.UUID) (*payment.Intent, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFound("order %s not found", orderID)
	}
	if err != nil {
		return nil, utils.NewInternal("could not load order", err)
	}
	if order.Status != models.OrderStatusPending {
		return nil, utils.NewConflict("order %s is %s, only pending orders can be paid", orderID, order.Status)
	}

	amount := minorUnits(order.TotalAmount)
	intent, err := s.provider.CreateIntent(ctx, payment.IntentRequest{
		Amount:   amount,
		Currency: s.currency,
		Metadata: map[string]string{
			payment.MetadataOrderID:       order.ID.String(),
			payment.MetadataCustomerEmail: order.CustomerEmail,
		},
	})
	if err != nil {
		s.metrics.PaymentIntents.WithLabelValues("error").Inc()
		return nil, utils.NewUpstream("payment provider rejected the request", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Update("payment_intent_id", intent.ID).Error; err != nil {
		s.metrics.PaymentIntents.WithLabelValues("error").Inc()
		return nil, utils.NewInternal("could not record payment intent", err)
	}

	s.metrics.PaymentIntents.WithLabelValues("created").Inc()
	s.logger.Info("payment intent created",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_intent_id", intent.ID),
		zap.Int64("amount_minor", amount),
		zap.String("currency", s.currency),
	)
	return intent, nil
}
