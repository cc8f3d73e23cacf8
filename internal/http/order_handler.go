package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/service"
)

// OrderHandler mantiene dependencias para endpoints de órdenes.
type OrderHandler struct {
	logger    *zap.Logger
	orderServ *service.OrderService
}

// NewOrderHandler crea una instancia de OrderHandler.
func NewOrderHandler(logger *zap.Logger, orderServ *service.OrderService) *OrderHandler {
	return &OrderHandler{
		logger:    logger,
		orderServ: orderServ,
	}
}

// PlaceOrder maneja POST /orders.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	requester, _ := CurrentUser(c)

	var req struct {
		Items []struct {
			ProductID string `json:"product_id" binding:"required"`
			Quantity  int    `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid order request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.orderServ.PlaceOrder(c.Request.Context(), requester.ID, items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyOrder), errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock"})
		default:
			h.logger.Error("place order failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not place order"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders maneja GET /orders.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	requester, _ := CurrentUser(c)

	orders, err := h.orderServ.List(c.Request.Context(), requester)
	if err != nil {
		h.logger.Error("list orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder maneja GET /orders/:id.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	requester, _ := CurrentUser(c)

	order, err := h.orderServ.Get(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		default:
			h.logger.Error("get order failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not get order"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus maneja PATCH /orders/:id/status (admin).
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	order, err := h.orderServ.UpdateStatus(c.Request.Context(), c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			h.logger.Error("update order status failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update order"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
