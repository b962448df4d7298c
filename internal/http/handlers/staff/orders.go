package staff

import (
	"errors"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/washpoint-next/internal/http/handlers/shared"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/repository"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 柜台开单请求
type CreateOrderRequest struct {
	CustomerID      uint     `json:"customer_id" binding:"required"`
	Baskets         [][]uint `json:"baskets" binding:"required"`
	PickupAddress   string   `json:"pickup_address"`
	DeliveryAddress string   `json:"delivery_address"`
	Notes           string   `json:"notes"`
}

// CreateOrder 柜台开单
func (h *Handler) CreateOrder(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "customer_id and baskets are required", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		CustomerID:      req.CustomerID,
		CreatedByID:     staffID,
		Baskets:         req.Baskets,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		respondCreateOrderError(c, err)
		return
	}

	requestLog(c).Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"customer_id", order.CustomerID,
		"staff_id", staffID,
		"total_amount", order.TotalAmount.String(),
	)
	response.Success(c, order)
}

func respondCreateOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		respondError(c, response.CodeNotFound, "customer not found", nil)
	case errors.Is(err, service.ErrEmptyBasket):
		respondError(c, response.CodeBadRequest, "order requires at least one basket with one service", nil)
	case errors.Is(err, service.ErrInvalidOrderItem):
		respondError(c, response.CodeBadRequest, "invalid order item", nil)
	case errors.Is(err, service.ErrOfferingNotFound):
		respondError(c, response.CodeNotFound, "offering not found", nil)
	case errors.Is(err, service.ErrOfferingInactive):
		respondError(c, response.CodeBadRequest, "offering is not available", nil)
	case errors.Is(err, service.ErrStockInsufficient):
		respondError(c, response.CodeConflict, "insufficient supplies for order", nil)
	default:
		respondError(c, response.CodeInternal, "failed to create order", err)
	}
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var customerID uint
	if raw := strings.TrimSpace(c.Query("customer_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			customerID = uint(parsed)
		}
	}
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_from", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid created_to", err)
		return
	}

	orders, total, err := h.OrderService.ListOrders(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		CustomerID:  customerID,
		Status:      strings.TrimSpace(c.Query("status")),
		Channel:     strings.TrimSpace(c.Query("channel")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}
	order, err := h.OrderService.GetOrder(uint(orderID))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch order", err)
		return
	}
	response.Success(c, order)
}

// CancelOrderRequest 取消订单请求
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}
	var req CancelOrderRequest
	_ = c.ShouldBindJSON(&req)

	order, err := h.OrderService.CancelOrder(uint(orderID), staffID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		case errors.Is(err, service.ErrOrderNotActive):
			respondError(c, response.CodeConflict, "order is completed or cancelled", nil)
		default:
			respondError(c, response.CodeInternal, "failed to cancel order", err)
		}
		return
	}

	requestLog(c).Infow("order_cancelled",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"staff_id", staffID,
	)
	response.Success(c, order)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return &parsed, nil
		}
	}
	return nil, errors.New("unsupported time format")
}
