package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer 顾客表
type Customer struct {
	ID              uint           `gorm:"primarykey" json:"id"`                           // 主键
	Name            string         `gorm:"not null" json:"name"`                           // 姓名
	Phone           string         `gorm:"uniqueIndex;not null" json:"phone"`              // 手机号（门户追踪凭据）
	Email           string         `gorm:"index" json:"email,omitempty"`                   // 邮箱（状态通知用）
	PickupAddress   string         `gorm:"type:text" json:"pickup_address,omitempty"`      // 默认取件地址
	DeliveryAddress string         `gorm:"type:text" json:"delivery_address,omitempty"`    // 默认送回地址
	LoyaltyPoints   int            `gorm:"not null;default:0" json:"loyalty_points"`       // 累计积分
	Notes           string         `gorm:"type:text" json:"notes,omitempty"`               // 备注
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                        // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (Customer) TableName() string {
	return "customers"
}
