package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Adnan4141/digital-product-store-server/controller"
	"github.com/Adnan4141/digital-product-store-server/metrics"
	"github.com/Adnan4141/digital-product-store-server/middleware"
	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/payment"
	"github.com/Adnan4141/digital-product-store-server/routes"
	"github.com/Adnan4141/digital-product-store-server/services"
)

const testAdminSecret = "test-admin-secret"

func init() { gin.SetMode(gin.TestMode) }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
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

// providerStub fakes the payment processor behind the HTTP surface.
type providerStub struct {
	intent    *payment.Intent
	createErr error
	event     payment.Event
	verifyErr error
}

func (p *providerStub) CreateIntent(context.Context, payment.IntentRequest) (*payment.Intent, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	return p.intent, nil
}

func (p *providerStub) VerifyWebhook([]byte, string) (payment.Event, error) {
	if p.verifyErr != nil {
		return payment.Event{}, p.verifyErr
	}
	return p.event, nil
}

type mailerStub struct{ sent int }

func (m *mailerStub) SendOrderConfirmation(context.Context, *models.Order) error {
	m.sent++
	return nil
}

func newTestRouter(t *testing.T, db *gorm.DB, provider payment.Provider) *gin.Engine {
	t.Helper()
	logger := zap.NewNop()
	mts := metrics.New(prometheus.NewRegistry())
	mail := &mailerStub{}

	orderService := services.NewOrderService(db, nil, mail, logger, mts)
	paymentService := services.NewPaymentService(db, provider, "usd", logger, mts)
	settlementService := services.NewSettlementService(db, nil, mail, logger, mts)

	router := gin.New()
	routes.Register(router, routes.Controllers{
		Products:   controller.NewProductController(db, nil, logger),
		Categories: controller.NewCategoryController(db, logger),
		Orders:     controller.NewOrderController(orderService, logger),
		Payments:   controller.NewPaymentController(paymentService, logger),
		Webhooks:   controller.NewWebhookController(provider, settlementService, logger),
	}, testAdminSecret, nil)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doRaw(t *testing.T, router *gin.Engine, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func adminHeaders() map[string]string {
	return map[string]string{middleware.AdminSecretHeader: testAdminSecret}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Data, "expected data in envelope, body %s", w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
	return env
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

var errStub = errors.New("stubbed failure")
