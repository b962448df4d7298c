package models

import (
	"time"

	"gorm.io/gorm"
)

// Offering 洗护服务价目表
type Offering struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                // 主键
	Name            string         `gorm:"uniqueIndex;not null" json:"name"`                    // 服务名称（如 Basic Wash）
	ServiceType     string         `gorm:"type:varchar(20);index;not null" json:"service_type"` // 工序类型（wash/spin/dry/iron/fold）
	Price           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`  // 每篮单价
	Description     string         `gorm:"type:text" json:"description,omitempty"`              // 描述
	Active          bool           `gorm:"not null;default:true;index" json:"active"`           // 是否可下单
	InventoryItemID *uint          `gorm:"index" json:"inventory_item_id,omitempty"`            // 关联耗材（可空）
	UnitsPerBasket  int            `gorm:"not null;default:0" json:"units_per_basket"`          // 每篮消耗耗材数量
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                             // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"` // 耗材
}

// TableName 指定表名
func (Offering) TableName() string {
	return "offerings"
}
