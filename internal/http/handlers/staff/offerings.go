package staff

import (
	"errors"
	"strconv"
	"strings"

	"github.com/washpoint-next/internal/fulfillment"
	handlershared "github.com/washpoint-next/internal/http/handlers/shared"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/repository"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OfferingRequest 创建/更新价目项请求
type OfferingRequest struct {
	Name            string          `json:"name"`
	ServiceType     string          `json:"service_type"`
	Price           decimal.Decimal `json:"price"`
	Description     string          `json:"description"`
	Active          *bool           `json:"active"`
	InventoryItemID *uint           `json:"inventory_item_id"`
	UnitsPerBasket  int             `json:"units_per_basket"`
}

func (r OfferingRequest) toInput() service.OfferingInput {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return service.OfferingInput{
		Name:            r.Name,
		ServiceType:     r.ServiceType,
		Price:           r.Price,
		Description:     r.Description,
		Active:          active,
		InventoryItemID: r.InventoryItemID,
		UnitsPerBasket:  r.UnitsPerBasket,
	}
}

// CreateOffering 新建价目项
func (h *Handler) CreateOffering(c *gin.Context) {
	var req OfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid offering payload", err)
		return
	}
	offering, err := h.OfferingService.CreateOffering(req.toInput())
	if err != nil {
		respondOfferingError(c, err)
		return
	}
	response.Success(c, offering)
}

// ListOfferings 价目列表
func (h *Handler) ListOfferings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	offerings, total, err := h.OfferingService.ListOfferings(repository.OfferingListFilter{
		Page:        page,
		PageSize:    pageSize,
		ServiceType: strings.TrimSpace(c.Query("service_type")),
		Search:      strings.TrimSpace(c.Query("search")),
		OnlyActive:  c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch offerings", err)
		return
	}
	response.SuccessWithPage(c, offerings, response.NewPagination(page, pageSize, total))
}

// UpdateOffering 更新价目项
func (h *Handler) UpdateOffering(c *gin.Context) {
	offeringID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || offeringID == 0 {
		respondError(c, response.CodeBadRequest, "invalid offering id", err)
		return
	}
	var req OfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid offering payload", err)
		return
	}
	offering, err := h.OfferingService.UpdateOffering(uint(offeringID), req.toInput())
	if err != nil {
		respondOfferingError(c, err)
		return
	}
	response.Success(c, offering)
}

// DeleteOffering 下架价目项
func (h *Handler) DeleteOffering(c *gin.Context) {
	offeringID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || offeringID == 0 {
		respondError(c, response.CodeBadRequest, "invalid offering id", err)
		return
	}
	if err := h.OfferingService.DeleteOffering(uint(offeringID)); err != nil {
		respondOfferingError(c, err)
		return
	}
	response.SuccessWithMsg(c, "offering deleted", nil)
}

func respondOfferingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOfferingNotFound):
		respondError(c, response.CodeNotFound, "offering not found", nil)
	case errors.Is(err, service.ErrOfferingNameTaken):
		respondError(c, response.CodeConflict, "offering name already exists", nil)
	case errors.Is(err, service.ErrInventoryNotFound):
		respondError(c, response.CodeNotFound, "inventory item not found", nil)
	case errors.Is(err, fulfillment.ErrUnknownServiceType):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	default:
		respondError(c, response.CodeInternal, "failed to save offering", err)
	}
}
