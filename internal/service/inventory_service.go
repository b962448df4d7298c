package service

import (
	"errors"
	"strings"
	"time"

	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/repository"
)

// InventoryService 耗材库存服务
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
}

// NewInventoryService 创建耗材库存服务
func NewInventoryService(inventoryRepo repository.InventoryRepository) *InventoryService {
	return &InventoryService{inventoryRepo: inventoryRepo}
}

// InventoryItemInput 创建/更新耗材输入
type InventoryItemInput struct {
	Name     string
	Unit     string
	Quantity int
	LowMark  int
}

// CreateItem 创建耗材
func (s *InventoryService) CreateItem(input InventoryItemInput) (*models.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Quantity < 0 {
		return nil, ErrInvalidAdjustment
	}
	now := time.Now()
	item := &models.InventoryItem{
		Name:      name,
		Unit:      strings.TrimSpace(input.Unit),
		Quantity:  input.Quantity,
		LowMark:   input.LowMark,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.inventoryRepo.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem 根据 ID 获取耗材
func (s *InventoryService) GetItem(id uint) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrInventoryNotFound
	}
	return item, nil
}

// ListItems 获取耗材列表
func (s *InventoryService) ListItems(page, pageSize int) ([]models.InventoryItem, int64, error) {
	return s.inventoryRepo.ListItems(page, pageSize)
}

// ListLowStock 获取低于水位线的耗材
func (s *InventoryService) ListLowStock() ([]models.InventoryItem, error) {
	return s.inventoryRepo.ListLowStock()
}

// UpdateItem 更新耗材基础信息（数量变更走 Adjust）
func (s *InventoryService) UpdateItem(id uint, input InventoryItemInput) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrInventoryNotFound
	}
	if strings.TrimSpace(input.Name) != "" {
		item.Name = strings.TrimSpace(input.Name)
	}
	if strings.TrimSpace(input.Unit) != "" {
		item.Unit = strings.TrimSpace(input.Unit)
	}
	item.LowMark = input.LowMark
	if err := s.inventoryRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Adjust 人工盘点调整库存
func (s *InventoryService) Adjust(itemID uint, delta int, staffID uint, reason string) (*models.InventoryItem, error) {
	if delta == 0 {
		return nil, ErrInvalidAdjustment
	}
	item, err := s.inventoryRepo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrInventoryNotFound
	}

	movement := &models.InventoryMovement{
		StaffID:   staffID,
		Type:      constants.InventoryMovementAdjust,
		Reason:    strings.TrimSpace(reason),
		CreatedAt: time.Now(),
	}
	if err := s.inventoryRepo.Adjust(itemID, delta, movement); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrStockInsufficient
		}
		return nil, err
	}

	updated, err := s.inventoryRepo.GetItemByID(itemID)
	if err != nil || updated == nil {
		return nil, ErrInventoryNotFound
	}
	if updated.Quantity <= updated.LowMark {
		logger.Warnw("inventory_low_stock",
			"item_id", updated.ID,
			"name", updated.Name,
			"quantity", updated.Quantity,
			"low_mark", updated.LowMark,
		)
	}
	return updated, nil
}

// ListMovements 获取库存流水
func (s *InventoryService) ListMovements(filter repository.InventoryMovementListFilter) ([]models.InventoryMovement, int64, error) {
	return s.inventoryRepo.ListMovements(filter)
}
