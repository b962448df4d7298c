package staff

import (
	"errors"
	"strconv"

	"github.com/washpoint-next/internal/fulfillment"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgressRequest 流转指令请求。
// basket_number 与 handling 互斥，必须恰好给出一个。
type ProgressRequest struct {
	BasketNumber *int   `json:"basket_number"`
	Handling     string `json:"handling"`
	Action       string `json:"action" binding:"required"`
}

// ProgressOrder 对订单执行一次流转指令
func (h *Handler) ProgressOrder(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "invalid order id", err)
		return
	}

	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "action is required", err)
		return
	}

	order, err := h.FulfillmentService.Progress(service.ProgressInput{
		OrderID:      uint(orderID),
		BasketNumber: req.BasketNumber,
		Handling:     req.Handling,
		Action:       req.Action,
		ActorID:      staffID,
	})
	if err != nil {
		respondProgressError(c, err)
		return
	}

	requestLog(c).Infow("order_progressed",
		"order_id", orderID,
		"order_no", order.OrderNo,
		"staff_id", staffID,
		"action", req.Action,
		"status", order.Status,
	)
	response.Success(c, order)
}

// respondProgressError 把流转错误映射为统一响应。
// 指令格式错误是 400，目标不存在是 404，工序前置条件不满足是 409。
func respondProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fulfillment.ErrMissingActor):
		respondError(c, response.CodeUnauthorized, "acting staff is required", nil)
	case errors.Is(err, service.ErrProgressTargetRequired),
		errors.Is(err, service.ErrProgressTargetAmbiguous),
		errors.Is(err, fulfillment.ErrAmbiguousTarget):
		respondError(c, response.CodeBadRequest, "exactly one of basket_number or handling is required", nil)
	case errors.Is(err, fulfillment.ErrInvalidAction):
		respondError(c, response.CodeBadRequest, "action must be start, complete or skip", nil)
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "order not found", nil)
	case errors.Is(err, fulfillment.ErrBasketNotFound):
		respondError(c, response.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrOrderNotActive):
		respondError(c, response.CodeConflict, "order is completed or cancelled", nil)
	case errors.Is(err, fulfillment.ErrDeliveryRequiresAddress),
		errors.Is(err, fulfillment.ErrPickupAfterServicesStarted),
		errors.Is(err, fulfillment.ErrBasketsIncomplete),
		errors.Is(err, fulfillment.ErrPickupNotDone),
		errors.Is(err, fulfillment.ErrUnknownServiceType),
		errors.Is(err, fulfillment.ErrNoPendingServices),
		errors.Is(err, fulfillment.ErrNoInProgressService):
		respondError(c, response.CodeConflict, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "failed to progress order", err)
	}
}
