package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Stage 收送环节（取件/送回各一个）
type Stage struct {
	Address     string     `json:"address"`                // 地址为空表示到店自理
	Status      string     `json:"status"`                 // pending/in_progress/completed/skipped
	StartedAt   *time.Time `json:"started_at,omitempty"`   // 开始时间
	StartedBy   *uint      `json:"started_by,omitempty"`   // 开始操作员工ID
	CompletedAt *time.Time `json:"completed_at,omitempty"` // 完成时间
	CompletedBy *uint      `json:"completed_by,omitempty"` // 完成操作员工ID
}

// Handling 订单收送子文档
type Handling struct {
	Pickup   Stage `json:"pickup"`
	Delivery Stage `json:"delivery"`
}

// Value 实现 driver.Valuer 接口
func (h Handling) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan 实现 sql.Scanner 接口
func (h *Handling) Scan(value interface{}) error {
	if value == nil {
		*h = Handling{}
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
	return json.Unmarshal(bytes, h)
}
