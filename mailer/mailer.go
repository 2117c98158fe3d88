package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/Adnan4141/digital-product-store-server/models"
)

// Mailer delivers the order-confirmation email sent when an order settles.
// Delivery failures are never fatal to the caller; they are logged and the
// settlement proceeds.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

// LogMailer simulates delivery by writing the confirmation to the log.
// Used when SMTP is not configured.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendOrderConfirmation(_ context.Context, order *models.Order) error {
	m.logger.Info("simulating order confirmation email",
		zap.String("to", order.CustomerEmail),
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	return nil
}
