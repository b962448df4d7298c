package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff 员工表
type Staff struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                       // 主键
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`                       // 登录账号
	DisplayName  string         `gorm:"not null" json:"display_name"`                               // 展示名
	PasswordHash string         `gorm:"not null" json:"-"`                                          // 密码哈希（不返回给前端）
	Role         string         `gorm:"type:varchar(20);not null;default:attendant" json:"role"`    // 角色（manager/attendant）
	Active       bool           `gorm:"not null;default:true;index" json:"active"`                  // 是否在职可登录
	LastLoginAt  *time.Time     `json:"last_login_at"`                                              // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (Staff) TableName() string {
	return "staff"
}
