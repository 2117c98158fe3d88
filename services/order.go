package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adnan4141/digital-product-store-server/mailer"
	"github.com/Adnan4141/digital-product-store-server/metrics"
	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// OrderService owns the order lifecycle: creation, reads and the manual
// status override. The redis client is only used to invalidate catalog cache
// entries after stock decrements; nil disables that.
type OrderService struct {
	db      *gorm.DB
	cache   *redis.Client
	mailer  mailer.Mailer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewOrderService(db *gorm.DB, cache *redis.Client, m mailer.Mailer, logger *zap.Logger, mts *metrics.Metrics) *OrderService {
	return &OrderService{db: db, cache: cache, mailer: m, logger: logger, metrics: mts}
}

// CreateOrderItemInput is one requested order line.
type CreateOrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput carries everything order creation needs.
type CreateOrderInput struct {
	CustomerEmail string
	Items         []CreateOrderItemInput
}

// Create validates the requested items against the catalog, captures unit
// prices, computes the total and persists the order with its items in one
// transaction, in PENDING status. Stock is checked against current levels
// but not reserved or decremented; that happens at settlement.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, utils.NewValidation("order must contain at least one item")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, utils.NewValidation("quantity for product %s must be greater than zero", item.ProductID)
		}
		ids = append(ids, item.ProductID)
	}

	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, utils.NewInternal("could not load products", err)
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	var missing []string
	for _, item := range input.Items {
		if _, ok := byID[item.ProductID]; !ok {
			missing = append(missing, item.ProductID.String())
		}
	}
	if len(missing) > 0 {
		return nil, utils.NewNotFound("products not found: %s", strings.Join(missing, ", "))
	}

	// Duplicate product ids stay separate lines; each is checked against the
	// full current stock independently.
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product := byID[item.ProductID]
		if item.Quantity > product.StockQuantity {
			return nil, utils.NewConflict("insufficient stock for %q: %d available, %d requested",
				product.Name, product.StockQuantity, item.Quantity)
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	order := &models.Order{
		CustomerEmail: input.CustomerEmail,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		Items:         items,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, utils.NewInternal("could not create order", err)
	}

	s.metrics.OrdersCreated.Inc()
	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("customer_email", order.CustomerEmail),
		zap.String("total", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

// Get loads an order with its items.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFound("order %s not found", id)
	}
	if err != nil {
		return nil, utils.NewInternal("could not load order", err)
	}
	return &order, nil
}

// List returns one page of orders, newest first, with the total count.
func (s *OrderService) List(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, utils.NewInternal("could not count orders", err)
	}

	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Scopes(utils.Paging(page, limit)).
		Find(&orders).Error
	if err != nil {
		return nil, 0, utils.NewInternal("could not fetch orders", err)
	}
	return orders, total, nil
}

// UpdateStatus is the manual admin override: it sets any member of the
// status enumeration regardless of the order's current status, including
// transitions out of terminal states. When the transition newly lands on
// PAID it runs the same stock-decrement loop as webhook settlement and
// attempts the confirmation email; neither side effect can fail the
// override. The per-item decrement outcomes are returned for inspection.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, []StockAdjustment, error) {
	if !status.Valid() {
		return nil, nil, utils.NewValidation("invalid order status %q", status)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, utils.NewNotFound("order %s not found", id)
	}
	if err != nil {
		return nil, nil, utils.NewInternal("could not load order", err)
	}

	previous := order.Status
	if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", status).Error; err != nil {
		return nil, nil, utils.NewInternal("could not update order status", err)
	}
	order.Status = status

	var adjustments []StockAdjustment
	if status == models.OrderStatusPaid && previous != models.OrderStatusPaid {
		adjustments = decrementStock(ctx, s.db, s.cache, s.logger, s.metrics, order.Items)
		if err := s.mailer.SendOrderConfirmation(ctx, &order); err != nil {
			s.logger.Error("confirmation email failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	return &order, adjustments, nil
}
