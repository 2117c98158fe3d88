package controller

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Adnan4141/digital-product-store-server/models"
	"github.com/Adnan4141/digital-product-store-server/services"
	"github.com/Adnan4141/digital-product-store-server/utils"
)

// OrderController serves the customer and admin order endpoints.
type OrderController struct {
	orders *services.OrderService
	logger *zap.Logger
}

func NewOrderController(orders *services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

type createOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type createOrderRequest struct {
	CustomerEmail string                   `json:"customer_email" binding:"required,email"`
	Items         []createOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type updateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail(err.Error()))
		return
	}

	input := services.CreateOrderInput{CustomerEmail: req.CustomerEmail}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, utils.Fail("invalid product id "+item.ProductID))
			return
		}
		input.Items = append(input.Items, services.CreateOrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := oc.orders.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusCreated, utils.OK("order created", order))
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid order id"))
		return
	}

	order, err := oc.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, utils.OK("order fetched", order))
}

func (oc *OrderController) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	} else if limit > 100 {
		limit = 100
	}

	orders, total, err := oc.orders.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}

	c.JSON(http.StatusOK, utils.OK("orders fetched", gin.H{
		"orders": orders,
		"meta": gin.H{
			"total":     total,
			"page":      page,
			"limit":     limit,
			"last_page": int(math.Ceil(float64(total) / float64(limit))),
		},
	}))
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail("invalid order id"))
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.Fail(err.Error()))
		return
	}

	// Decrement failures on a PAID transition are logged per item by the
	// service; the override itself still succeeds.
	order, _, err := oc.orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, oc.logger, err)
		return
	}
	c.JSON(http.StatusOK, utils.OK("order status updated", order))
}
