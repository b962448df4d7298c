package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	CustomerID  uint           `gorm:"index;not null" json:"customer_id"`                            // 顾客ID
	CreatedByID uint           `gorm:"index" json:"created_by_id,omitempty"`                         // 开单员工ID（门户下单为 0）
	Channel     string         `gorm:"type:varchar(20);not null;default:counter" json:"channel"`     // 下单渠道（counter/portal）
	Status      string         `gorm:"index;not null" json:"status"`                                 // 订单状态（由流转推导）
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 应收金额
	Notes       string         `gorm:"type:text" json:"notes,omitempty"`                             // 备注
	Handling    Handling       `gorm:"type:json" json:"handling"`                                    // 收送子文档
	Breakdown   Breakdown      `gorm:"type:json" json:"breakdown"`                                   // 篮筐分解与审计日志
	CompletedAt *time.Time     `gorm:"index" json:"completed_at"`                                    // 完成时间（仅设置一次）
	CancelledAt *time.Time     `gorm:"index" json:"cancelled_at"`                                    // 取消时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"` // 顾客
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`       // 计价明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单计价明细（每篮每服务一行，价格为下单时快照）
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                  // 主键
	OrderID      uint      `gorm:"index;not null" json:"order_id"`                        // 订单ID
	OfferingID   uint      `gorm:"index;not null" json:"offering_id"`                     // 价目项ID
	BasketNumber int       `gorm:"not null" json:"basket_number"`                         // 所属篮筐编号
	ServiceName  string    `gorm:"not null" json:"service_name"`                          // 服务名称快照
	ServiceType  string    `gorm:"type:varchar(20)" json:"service_type"`                  // 工序类型快照
	Price        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`    // 单价快照
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
