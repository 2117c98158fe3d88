package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adnan4141/digital-product-store-server/mailer"
	"github.com/Adnan4141/digital-product-store-server/metrics"
	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/payment"
)

// SettlementService consumes verified processor webhook events and applies
// the corresponding order transition. The redis client is only used to
// invalidate catalog cache entries after stock decrements; nil disables that.
type SettlementService struct {
	db      *gorm.DB
	cache   *redis.Client
	mailer  mailer.Mailer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewSettlementService(db *gorm.DB, cache *redis.Client, m mailer.Mailer, logger *zap.Logger, mts *metrics.Metrics) *SettlementService {
	return &SettlementService{db: db, cache: cache, mailer: m, logger: logger, metrics: mts}
}

// HandleEvent applies one verified webhook event. Unknown event types and
// events that do not resolve to an actionable order are acknowledged without
// any mutation. A non-nil return means processing failed unexpectedly and
// the processor should redeliver.
func (s *SettlementService) HandleEvent(ctx context.Context, event payment.Event) error {
	switch event.Type {
	case payment.EventPaymentSucceeded:
		return s.settleSuccess(ctx, event)
	case payment.EventPaymentFailed:
		return s.settleFailure(ctx, event)
	default:
		s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		s.logger.Info("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *SettlementService) settleSuccess(ctx context.Context, event payment.Event) error {
	orderID, ok := s.resolveOrderID(event)
	if !ok {
		return nil
	}

	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		s.logger.Warn("payment succeeded for unknown order",
			zap.String("order_id", event.OrderID),
			zap.String("payment_intent_id", event.IntentID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order %s: %w", orderID, err)
	}

	// Idempotency guard: only a pending order settles. A redelivered event
	// or an already-overridden order is acknowledged without touching stock
	// or sending another email.
	if order.Status != models.OrderStatusPending {
		s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "duplicate").Inc()
		s.logger.Info("order not pending, ignoring settlement event",
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(order.Status)),
		)
		return nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusPaid).Error; err != nil {
		return fmt.Errorf("mark order %s paid: %w", order.ID, err)
	}
	order.Status = models.OrderStatusPaid

	decrementStock(ctx, s.db, s.cache, s.logger, s.metrics, order.Items)

	if err := s.mailer.SendOrderConfirmation(ctx, &order); err != nil {
		s.logger.Error("confirmation email failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}

	s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "settled").Inc()
	s.logger.Info("order settled",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_intent_id", event.IntentID),
	)
	return nil
}

// settleFailure marks the order FAILED without inspecting its current
// status; repeated failure events land on FAILED again and are harmless.
func (s *SettlementService) settleFailure(ctx context.Context, event payment.Event) error {
	orderID, ok := s.resolveOrderID(event)
	if !ok {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", models.OrderStatusFailed)
	if res.Error != nil {
		return fmt.Errorf("mark order %s failed: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		s.logger.Warn("payment failed for unknown order",
			zap.String("order_id", event.OrderID),
			zap.String("payment_intent_id", event.IntentID),
		)
		return nil
	}

	s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "marked_failed").Inc()
	s.logger.Info("order marked failed",
		zap.String("order_id", orderID.String()),
		zap.String("payment_intent_id", event.IntentID),
	)
	return nil
}

// resolveOrderID extracts the order correlation from the event metadata.
// Events without a usable order id are logged and acknowledged.
func (s *SettlementService) resolveOrderID(event payment.Event) (uuid.UUID, bool) {
	if event.OrderID == "" {
		s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		s.logger.Warn("webhook event without order metadata",
			zap.String("type", string(event.Type)),
			zap.String("payment_intent_id", event.IntentID),
		)
		return uuid.Nil, false
	}
	orderID, err := uuid.Parse(event.OrderID)
	if err != nil {
		s.metrics.WebhookEvents.WithLabelValues(string(event.Type), "ignored").Inc()
		s.logger.Warn("webhook event with malformed order id",
			zap.String("type", string(event.Type)),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return uuid.Nil, false
	}
	return orderID, true
}
