package repository

import (
	"errors"

	"github.com/washpoint-next/internal/models"

	"gorm.io/gorm"
)

// ErrInsufficientStock 库存不足
var ErrInsufficientStock = errors.New("repository: insufficient stock")

// InventoryRepository 库存数据访问接口
type InventoryRepository interface {
	CreateItem(item *models.InventoryItem) error
	GetItemByID(id uint) (*models.InventoryItem, error)
	ListItems(page, pageSize int) ([]models.InventoryItem, int64, error)
	ListLowStock() ([]models.InventoryItem, error)
	UpdateItem(item *models.InventoryItem) error
	Consume(itemID uint, units int, movement *models.InventoryMovement) error
	Restore(itemID uint, units int, movement *models.InventoryMovement) error
	Adjust(itemID uint, delta int, movement *models.InventoryMovement) error
	ListMovements(filter InventoryMovementListFilter) ([]models.InventoryMovement, int64, error)
	WithTx(tx *gorm.DB) *GormInventoryRepository
}

// GormInventoryRepository GORM 实现
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓库
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) *GormInventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// CreateItem 创建耗材
func (r *GormInventoryRepository) CreateItem(item *models.InventoryItem) error {
	return r.db.Create(item).Error
}

// GetItemByID 根据 ID 获取耗材
func (r *GormInventoryRepository) GetItemByID(id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListItems 获取耗材列表
func (r *GormInventoryRepository) ListItems(page, pageSize int) ([]models.InventoryItem, int64, error) {
	var items []models.InventoryItem
	query := r.db.Model(&models.InventoryItem{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListLowStock 获取低于水位线的耗材
func (r *GormInventoryRepository) ListLowStock() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := r.db.Where("quantity <= low_mark").Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem 保存耗材
func (r *GormInventoryRepository) UpdateItem(item *models.InventoryItem) error {
	return r.db.Save(item).Error
}

// Consume 条件扣减库存并记录流水。余量不足时返回 ErrInsufficientStock。
func (r *GormInventoryRepository) Consume(itemID uint, units int, movement *models.InventoryMovement) error {
	result := r.db.Model(&models.InventoryItem{}).
		Where("id = ? AND quantity >= ?", itemID, units).
		Update("quantity", gorm.Expr("quantity - ?", units))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return r.appendMovement(itemID, -units, movement)
}

// Restore 回补库存并记录流水
func (r *GormInventoryRepository) Restore(itemID uint, units int, movement *models.InventoryMovement) error {
	if err := r.db.Model(&models.InventoryItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", units)).Error; err != nil {
		return err
	}
	return r.appendMovement(itemID, units, movement)
}

// Adjust 人工盘点调整并记录流水，delta 可正可负。
func (r *GormInventoryRepository) Adjust(itemID uint, delta int, movement *models.InventoryMovement) error {
	if delta < 0 {
		result := r.db.Model(&models.InventoryItem{}).
			Where("id = ? AND quantity >= ?", itemID, -delta).
			Update("quantity", gorm.Expr("quantity + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientStock
		}
	} else {
		if err := r.db.Model(&models.InventoryItem{}).
			Where("id = ?", itemID).
			Update("quantity", gorm.Expr("quantity + ?", delta)).Error; err != nil {
			return err
		}
	}
	return r.appendMovement(itemID, delta, movement)
}

func (r *GormInventoryRepository) appendMovement(itemID uint, delta int, movement *models.InventoryMovement) error {
	if movement == nil {
		return nil
	}
	movement.ItemID = itemID
	movement.Delta = delta
	return r.db.Create(movement).Error
}

// ListMovements 获取库存流水
func (r *GormInventoryRepository) ListMovements(filter InventoryMovementListFilter) ([]models.InventoryMovement, int64, error) {
	var movements []models.InventoryMovement
	query := r.db.Model(&models.InventoryMovement{})

	if filter.ItemID != 0 {
		query = query.Where("item_id = ?", filter.ItemID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
