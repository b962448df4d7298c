package portal

import (
	"errors"

	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest 门户下单请求
type PlaceOrderRequest struct {
	CustomerName    string   `json:"customer_name" binding:"required"`
	Phone           string   `json:"phone" binding:"required"`
	Email           string   `json:"email"`
	Baskets         [][]uint `json:"baskets" binding:"required"`
	PickupAddress   string   `json:"pickup_address"`
	DeliveryAddress string   `json:"delivery_address"`
	Notes           string   `json:"notes"`
	CaptchaID       string   `json:"captcha_id"`
	CaptchaCode     string   `json:"captcha_code"`
}

// PlaceOrder 门户下单。
// 按手机号匹配或建立顾客档案，订单渠道标记为 portal。
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "customer_name, phone and baskets are required", err)
		return
	}

	if err := h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode); err != nil {
		respondError(c, response.CodeBadRequest, "captcha verification failed", nil)
		return
	}

	customer, err := h.CustomerService.FindOrCreateByPhone(service.CustomerInput{
		Name:            req.CustomerName,
		Phone:           req.Phone,
		Email:           req.Email,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to resolve customer", err)
		return
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		CustomerID:      customer.ID,
		Channel:         constants.OrderChannelPortal,
		Baskets:         req.Baskets,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	})
	if err != nil {
		respondPlaceOrderError(c, err)
		return
	}

	requestLog(c).Infow("portal_order_placed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"customer_id", customer.ID,
	)
	response.Success(c, gin.H{
		"order_no":   order.OrderNo,
		"status":     order.Status,
		"total":      order.TotalAmount,
		"created_at": order.CreatedAt,
	})
}

func respondPlaceOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyBasket):
		respondError(c, response.CodeBadRequest, "each basket needs at least one offering", nil)
	case errors.Is(err, service.ErrInvalidOrderItem):
		respondError(c, response.CodeBadRequest, "invalid order item", nil)
	case errors.Is(err, service.ErrOfferingNotFound):
		respondError(c, response.CodeNotFound, "offering not found", nil)
	case errors.Is(err, service.ErrOfferingInactive):
		respondError(c, response.CodeBadRequest, "offering is not available", nil)
	case errors.Is(err, service.ErrStockInsufficient):
		respondError(c, response.CodeConflict, "supplies are out of stock", nil)
	default:
		respondError(c, response.CodeInternal, "failed to place order", err)
	}
}
