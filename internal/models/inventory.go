package models

import (
	"time"

	"gorm.io/gorm"
)

// InventoryItem 耗材库存表（洗涤剂、柔顺剂等）
type InventoryItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`                     // 主键
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`         // 耗材名称
	Unit      string         `gorm:"type:varchar(20);not null" json:"unit"`    // 计量单位（sachet/bottle 等）
	Quantity  int            `gorm:"not null;default:0" json:"quantity"`       // 当前库存数量
	LowMark   int            `gorm:"not null;default:0" json:"low_mark"`       // 低库存告警阈值
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`                  // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间
}

// TableName 指定表名
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// InventoryMovement 库存流水表（只追加）
type InventoryMovement struct {
	ID        uint      `gorm:"primarykey" json:"id"`                    // 主键
	ItemID    uint      `gorm:"index;not null" json:"item_id"`           // 耗材ID
	OrderID   *uint     `gorm:"index" json:"order_id,omitempty"`         // 关联订单（人工调整为空）
	StaffID   uint      `gorm:"index" json:"staff_id"`                   // 操作员工ID
	Type      string    `gorm:"type:varchar(20);not null" json:"type"`   // consume/restore/adjust
	Delta     int       `gorm:"not null" json:"delta"`                   // 数量变化（消耗为负）
	Reason    string    `gorm:"type:text" json:"reason,omitempty"`       // 说明
	CreatedAt time.Time `gorm:"index" json:"created_at"`                 // 创建时间
}

// TableName 指定表名
func (InventoryMovement) TableName() string {
	return "inventory_movements"
}
