package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// ProductController serves the catalog product endpoints straight off the
// database, with a redis cache in front of the read paths. A nil cache
// disables caching.
type ProductController struct {
	db     *gorm.DB
	cache  *redis.Client
	logger *zap.Logger
}

func NewProductController(db *gorm.DB, cache *redis.Client, logger *zap.Logger) *ProductController {
	return &ProductController{db: db, cache: cache, logger: logger}
}

type productRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" binding:"gte=0"`
	CategoryID    string          `json:"category_id" binding:"omitempty,uuid"`
	ImageURL      string          `json:"image_url"`
}

// resolveCategory parses and verifies the optional category reference.
func (pc *ProductController) resolveCategory(ctx context.Context, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	categoryID, err := uuid.Parse(raw)
	if err != nil {
		return nil, utils.NewValidation("invalid category id %q", raw)
	}
	var category models.Category
	err = pc.db.WithContext(ctx).First(&category, "id = ?", categoryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewNotFound("category %s not found", categoryID)
	}
	if err != nil {
		return nil, utils.NewInternal("could not load category", err)
	}
	return &categoryID, nil
}

// GetProducts godoc
// @Summary Get all products
// @Description Get a list of all products, with caching.
// @Tags products
// @Produce json
// @Success 200 {object} utils.Response
// @Router /products [get]
func (pc *ProductController) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. Try to get from cache first
	if pc.cache != nil {
		cacheData, err := pc.cache.Get(ctx, utils.AllProductsCacheKey).Result()
		if err == nil {
			var products []models.Product
			if json.Unmarshal([]byte(cacheData), &products) == nil {
				c.JSON(http.StatusOK, utils.OK("products fetched from cache", products))
				return
			}
		}
	}

	// 2. If cache miss, get from DB
	var products []models.Product
	if err := pc.db.WithContext(ctx).Find(&products).Error; err != nil {
		respondError(c, pc.logger, utils.NewInternal("could not fetch products", err))
		return
	}

	// 3. Set to cache for next time (in background)
	if pc.cache != nil {
		if productsJSON, err := json.Marshal(products); err == nil {
			go pc.cache.Set(context.Background(), utils.AllProductsCacheKey, productsJSON, utils.ProductCacheTTL)
		}
	}

	c.JSON(http.StatusOK, utils.OK("products fetched", products))
}

// GetProductByID godoc
// @Summary Get a single product by its ID
// @Description Get detailed information for a specific product.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.Response
// @Router /products/{id} [get]
func (pc *ProductController) GetProductByID(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid product id"))
		return
	}
	productCacheKey := utils.ProductCacheKey(id)

	// 1. Try to get from cache
	if pc.cache != nil {
		cachedProduct, err := pc.cache.Get(ctx, productCacheKey).Result()
		if err == nil {
			var product models.Product
			if json.Unmarshal([]byte(cachedProduct), &product) == nil {
				c.JSON(http.StatusOK, utils.OK("product fetched from cache", product))
				return
			}
		}
	}

	// 2. If cache miss, get from DB
	var product models.Product
	dbErr := pc.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		respondError(c, pc.logger, utils.NewNotFound("product %s not found", id))
		return
	}
	if dbErr != nil {
		respondError(c, pc.logger, utils.NewInternal("could not fetch product", dbErr))
		return
	}

	// 3. Set to cache
	if pc.cache != nil {
		if productJSON, err := json.Marshal(product); err == nil {
			go pc.cache.Set(context.Background(), productCacheKey, productJSON, utils.ProductCacheTTL)
		}
	}

	c.JSON(http.StatusOK, utils.OK("product fetched", product))
}

// CreateProduct godoc
// @Summary Create a new product
// @Description Adds a new product to the catalog.
// @Tags products
// @Accept json
// @Produce json
// @Param product body productRequest true "Product object"
// @Success 201 {object} utils.Response
// @Router /products [post]
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail(err.Error()))
		return
	}
	if req.Price.IsNegative() {
		respondError(c, pc.logger, utils.NewValidation("price must not be negative"))
		return
	}

	categoryID, err := pc.resolveCategory(c.Request.Context(), req.CategoryID)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    categoryID,
		ImageURL:      req.ImageURL,
	}
	if err := pc.db.WithContext(c.Request.Context()).Create(&product).Error; err != nil {
		respondError(c, pc.logger, utils.NewInternal("could not create product", err))
		return
	}

	// Invalidate cache for all products list
	utils.InvalidateProductCache(pc.cache)

	c.JSON(http.StatusCreated, utils.OK("product created", product))
}

// UpdateProduct godoc
// @Summary Update an existing product
// @Description Updates a product's details by its ID.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body productRequest true "Product object"
// @Success 200 {object} utils.Response
// @Router /products/{id} [put]
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid product id"))
		return
	}

	var product models.Product
	dbErr := pc.db.WithContext(c.Request.Context()).First(&product, "id = ?", id).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		respondError(c, pc.logger, utils.NewNotFound("product %s not found", id))
		return
	}
	if dbErr != nil {
		respondError(c, pc.logger, utils.NewInternal("could not fetch product", dbErr))
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail(err.Error()))
		return
	}
	if req.Price.IsNegative() {
		respondError(c, pc.logger, utils.NewValidation("price must not be negative"))
		return
	}

	categoryID, resolveErr := pc.resolveCategory(c.Request.Context(), req.CategoryID)
	if resolveErr != nil {
		respondError(c, pc.logger, resolveErr)
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.StockQuantity = req.StockQuantity
	product.CategoryID = categoryID
	product.ImageURL = req.ImageURL
	if err := pc.db.WithContext(c.Request.Context()).Save(&product).Error; err != nil {
		respondError(c, pc.logger, utils.NewInternal("could not update product", err))
		return
	}

	// Invalidate caches
	utils.InvalidateProductCache(pc.cache, id)

	c.JSON(http.StatusOK, utils.OK("product updated", product))
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Deletes a product by its ID.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.Response
// @Router /products/{id} [delete]
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid product id"))
		return
	}

	result := pc.db.WithContext(c.Request.Context()).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		respondError(c, pc.logger, utils.NewInternal("could not delete product", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, pc.logger, utils.NewNotFound("product %s not found", id))
		return
	}

	// Invalidate caches
	utils.InvalidateProductCache(pc.cache, id)

	c.JSON(http.StatusOK, utils.OK("product deleted", nil))
}
