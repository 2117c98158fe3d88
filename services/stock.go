package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adnan4141/digital-product-store-server/metrics"
	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// StockAdjustment records the outcome of one settlement stock decrement.
// Err is nil when the decrement was applied.
type StockAdjustment struct {
	ProductID uuid.UUID
	Quantity  int
	Err       error
}

// decrementStock applies one unconditional stock decrement per order item,
// each as an independent statement. Quantities are subtracted without
// re-checking availability, so concurrent settlements of the same product
// can drive stock negative. Failures are logged and recorded but never stop
// the loop; the caller decides what to do with the aggregate.
func decrementStock(ctx context.Context, db *gorm.DB, cache *redis.Client, logger *zap.Logger, mts *metrics.Metrics, items []models.OrderItem) []StockAdjustment {
	adjustments := make([]StockAdjustment, 0, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
		res := db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))

		adj := StockAdjustment{ProductID: item.ProductID, Quantity: item.Quantity}
		switch {
		case res.Error != nil:
			adj.Err = res.Error
		case res.RowsAffected == 0:
			adj.Err = fmt.Errorf("product %s not found", item.ProductID)
		}

		if adj.Err != nil {
			mts.StockDecrements.WithLabelValues("failed").Inc()
			logger.Error("stock decrement failed",
				zap.String("product_id", item.ProductID.String()),
				zap.Int("quantity", item.Quantity),
				zap.Error(adj.Err),
			)
		} else {
			mts.StockDecrements.WithLabelValues("ok").Inc()
		}
		adjustments = append(adjustments, adj)
	}

	// Stock changed under the catalog cache; drop the stale entries.
	utils.InvalidateProductCache(cache, ids...)
	return adjustments
}
