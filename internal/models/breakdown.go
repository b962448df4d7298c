package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// BasketService 篮筐内的单个洗护服务
type BasketService struct {
	ServiceName string     `json:"service_name"`           // 服务名称（价目表快照）
	ServiceType string     `json:"service_type,omitempty"` // 工序类型标签；历史数据可能为空，按名称回退解析
	Status      string     `json:"status"`                 // pending/in_progress/completed/skipped
	StartedAt   *time.Time `json:"started_at,omitempty"`
	StartedBy   *uint      `json:"started_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *uint      `json:"completed_by,omitempty"`
}

// Basket 订单内的一个洗衣篮
type Basket struct {
	BasketNumber int             `json:"basket_number"`          // 订单内唯一编号
	Status       string          `json:"status"`                 // 由服务状态推导
	CompletedAt  *time.Time      `json:"completed_at,omitempty"` // 首次全部完成的时间
	Services     []BasketService `json:"services"`               // 按工序顺序排列
}

// AuditEntry 审计日志条目（只追加）
type AuditEntry struct {
	Action       string                 `json:"action"`
	Timestamp    time.Time              `json:"timestamp"`
	ChangedBy    uint                   `json:"changed_by"`
	Stage        string                 `json:"stage,omitempty"`         // 收送环节引用
	BasketNumber *int                   `json:"basket_number,omitempty"` // 篮筐引用
	ServiceName  string                 `json:"service_name,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// Breakdown 订单分解子文档：篮筐清单与审计日志
type Breakdown struct {
	Baskets  []Basket     `json:"baskets"`
	AuditLog []AuditEntry `json:"audit_log"`
}

// Value 实现 driver.Valuer 接口
func (b Breakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan 实现 sql.Scanner 接口
func (b *Breakdown) Scan(value interface{}) error {
	if value == nil {
		*b = Breakdown{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if text, ok := value.(string); ok {
			bytes = []byte(text)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, b)
}
