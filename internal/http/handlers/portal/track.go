package portal

import (
	"errors"
	"strings"
	"time"

	"github.com/washpoint-next/internal/cache"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
)

// trackBasketView 门户侧篮筐视图，不暴露操作人。
type trackBasketView struct {
	BasketNumber int                `json:"basket_number"`
	Status       string             `json:"status"`
	Services     []trackServiceView `json:"services"`
}

type trackServiceView struct {
	ServiceName string `json:"service_name"`
	ServiceType string `json:"service_type"`
	Status      string `json:"status"`
}

type trackHandlingView struct {
	Pickup   trackStageView `json:"pickup"`
	Delivery trackStageView `json:"delivery"`
}

type trackStageView struct {
	Status string `json:"status"`
}

// TrackOrder 按订单号查询进度。
// 命中缓存直接返回，未命中回源数据库并写入快照。
func (h *Handler) TrackOrder(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "order_no is required", nil)
		return
	}

	if state, hit, err := cache.GetTrackState(c.Request.Context(), orderNo); err == nil && hit {
		response.Success(c, state)
		return
	} else if err != nil {
		requestLog(c).Warnw("track_cache_read_failed", "order_no", orderNo, "error", err)
	}

	order, err := h.OrderService.GetOrderByNo(orderNo)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "order not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch order", err)
		return
	}

	state := buildTrackState(order)
	if err := cache.SetTrackState(c.Request.Context(), state); err != nil {
		requestLog(c).Warnw("track_cache_write_failed", "order_no", orderNo, "error", err)
	}
	response.Success(c, state)
}

func buildTrackState(order *models.Order) *cache.TrackState {
	baskets := make([]trackBasketView, 0, len(order.Breakdown.Baskets))
	for _, basket := range order.Breakdown.Baskets {
		services := make([]trackServiceView, 0, len(basket.Services))
		for _, svc := range basket.Services {
			services = append(services, trackServiceView{
				ServiceName: svc.ServiceName,
				ServiceType: svc.ServiceType,
				Status:      svc.Status,
			})
		}
		baskets = append(baskets, trackBasketView{
			BasketNumber: basket.BasketNumber,
			Status:       basket.Status,
			Services:     services,
		})
	}

	return &cache.TrackState{
		OrderNo: order.OrderNo,
		Status:  order.Status,
		Baskets: baskets,
		Handling: trackHandlingView{
			Pickup:   trackStageView{Status: order.Handling.Pickup.Status},
			Delivery: trackStageView{Status: order.Handling.Delivery.Status},
		},
		CompletedAt: order.CompletedAt,
		UpdatedAt:   time.Now().Unix(),
	}
}
