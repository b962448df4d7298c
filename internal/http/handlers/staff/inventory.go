package staff

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/washpoint-next/internal/http/handlers/shared"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/repository"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
)

// InventoryItemRequest 创建/更新耗材请求
type InventoryItemRequest struct {
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	Quantity int    `json:"quantity"`
	LowMark  int    `json:"low_mark"`
}

// CreateInventoryItem 新建耗材
func (h *Handler) CreateInventoryItem(c *gin.Context) {
	var req InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid inventory payload", err)
		return
	}
	item, err := h.InventoryService.CreateItem(service.InventoryItemInput{
		Name:     req.Name,
		Unit:     req.Unit,
		Quantity: req.Quantity,
		LowMark:  req.LowMark,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidAdjustment) {
			respondError(c, response.CodeBadRequest, "name is required and quantity must not be negative", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to create inventory item", err)
		return
	}
	response.Success(c, item)
}

// ListInventoryItems 耗材列表
func (h *Handler) ListInventoryItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	items, total, err := h.InventoryService.ListItems(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch inventory", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// ListLowStock 低水位耗材列表
func (h *Handler) ListLowStock(c *gin.Context) {
	items, err := h.InventoryService.ListLowStock()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch low stock items", err)
		return
	}
	response.Success(c, items)
}

// UpdateInventoryItem 更新耗材基础信息
func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "invalid inventory item id", err)
		return
	}
	var req InventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid inventory payload", err)
		return
	}
	item, err := h.InventoryService.UpdateItem(uint(itemID), service.InventoryItemInput{
		Name:    req.Name,
		Unit:    req.Unit,
		LowMark: req.LowMark,
	})
	if err != nil {
		if errors.Is(err, service.ErrInventoryNotFound) {
			respondError(c, response.CodeNotFound, "inventory item not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update inventory item", err)
		return
	}
	response.Success(c, item)
}

// AdjustInventoryRequest 盘点调整请求
type AdjustInventoryRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// AdjustInventory 人工盘点调整库存
func (h *Handler) AdjustInventory(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "invalid inventory item id", err)
		return
	}
	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "delta is required", err)
		return
	}

	item, err := h.InventoryService.Adjust(uint(itemID), req.Delta, staffID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInventoryNotFound):
			respondError(c, response.CodeNotFound, "inventory item not found", nil)
		case errors.Is(err, service.ErrInvalidAdjustment):
			respondError(c, response.CodeBadRequest, "delta must not be zero", nil)
		case errors.Is(err, service.ErrStockInsufficient):
			respondError(c, response.CodeConflict, "adjustment would drive stock negative", nil)
		default:
			respondError(c, response.CodeInternal, "failed to adjust inventory", err)
		}
		return
	}

	requestLog(c).Infow("inventory_adjusted",
		"item_id", item.ID,
		"staff_id", staffID,
		"delta", req.Delta,
		"quantity", item.Quantity,
	)
	response.Success(c, item)
}

// ListInventoryMovements 库存流水
func (h *Handler) ListInventoryMovements(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var itemID, orderID uint
	if raw := strings.TrimSpace(c.Query("item_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			itemID = uint(parsed)
		}
	}
	if raw := strings.TrimSpace(c.Query("order_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			orderID = uint(parsed)
		}
	}

	movements, total, err := h.InventoryService.ListMovements(repository.InventoryMovementListFilter{
		Page:     page,
		PageSize: pageSize,
		ItemID:   itemID,
		OrderID:  orderID,
		Type:     strings.TrimSpace(c.Query("type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch inventory movements", err)
		return
	}
	response.SuccessWithPage(c, movements, response.NewPagination(page, pageSize, total))
}
