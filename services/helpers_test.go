package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Adnan4141/digital-product-store-server/metrics"
	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/payment"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

// mailerSpy records confirmation attempts and optionally fails them.
type mailerSpy struct {
	sent []uuid.UUID
	fail bool
}

func (m *mailerSpy) SendOrderConfirmation(_ context.Context, order *models.Order) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, order.ID)
	return nil
}

// providerStub fakes the payment processor and records intent requests.
type providerStub struct {
	intent    *payment.Intent
	createErr error
	requests  []payment.IntentRequest
}

func (p *providerStub) CreateIntent(_ context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	p.requests = append(p.requests, req)
	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.intent, nil
}

func (p *providerStub) VerifyWebhook([]byte, string) (payment.Event, error) {
	return payment.Event{}, errors.New("not implemented")
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:          name,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus, total string, items ...models.OrderItem) models.Order {
	t.Helper()
	order := models.Order{
		CustomerEmail: "buyer@example.com",
		TotalAmount:   decimal.RequireFromString(total),
		Status:        status,
		Items:         items,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func productStock(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.StockQuantity
}

func orderStatus(t *testing.T, db *gorm.DB, id uuid.UUID) models.OrderStatus {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", id).Error)
	return order.Status
}
