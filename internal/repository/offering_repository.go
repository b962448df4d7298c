package repository

import (
	"errors"

	"github.com/washpoint-next/internal/models"

	"gorm.io/gorm"
)

// OfferingRepository 服务项目数据访问接口
type OfferingRepository interface {
	Create(offering *models.Offering) error
	GetByID(id uint) (*models.Offering, error)
	GetByIDs(ids []uint) ([]models.Offering, error)
	GetByName(name string) (*models.Offering, error)
	List(filter OfferingListFilter) ([]models.Offering, int64, error)
	Update(offering *models.Offering) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormOfferingRepository
}

// GormOfferingRepository GORM 实现
type GormOfferingRepository struct {
	db *gorm.DB
}

// NewOfferingRepository 创建服务项目仓库
func NewOfferingRepository(db *gorm.DB) *GormOfferingRepository {
	return &GormOfferingRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOfferingRepository) WithTx(tx *gorm.DB) *GormOfferingRepository {
	if tx == nil {
		return r
	}
	return &GormOfferingRepository{db: tx}
}

// Create 创建服务项目
func (r *GormOfferingRepository) Create(offering *models.Offering) error {
	return r.db.Create(offering).Error
}

// GetByID 根据 ID 获取服务项目
func (r *GormOfferingRepository) GetByID(id uint) (*models.Offering, error) {
	var offering models.Offering
	if err := r.db.Preload("InventoryItem").First(&offering, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offering, nil
}

// GetByIDs 批量获取服务项目
func (r *GormOfferingRepository) GetByIDs(ids []uint) ([]models.Offering, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var offerings []models.Offering
	if err := r.db.Preload("InventoryItem").Where("id IN ?", ids).Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

// GetByName 根据名称获取服务项目
func (r *GormOfferingRepository) GetByName(name string) (*models.Offering, error) {
	var offering models.Offering
	if err := r.db.Where("name = ?", name).First(&offering).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offering, nil
}

// List 获取服务项目列表
func (r *GormOfferingRepository) List(filter OfferingListFilter) ([]models.Offering, int64, error) {
	var offerings []models.Offering
	query := r.db.Model(&models.Offering{})

	if filter.ServiceType != "" {
		query = query.Where("service_type = ?", filter.ServiceType)
	}
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.OnlyActive {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Preload("InventoryItem").Order("id asc").Find(&offerings).Error; err != nil {
		return nil, 0, err
	}
	return offerings, total, nil
}

// Update 保存服务项目
func (r *GormOfferingRepository) Update(offering *models.Offering) error {
	return r.db.Save(offering).Error
}

// Delete 软删除服务项目
func (r *GormOfferingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Offering{}, id).Error
}
