package cache

import (
	"context"
	"fmt"
	"time"
)

const trackStateCacheTTL = 2 * time.Minute

// TrackState 客户门户的订单进度快照。
// 进度流转提交后必须失效，只用来挡住门户的重复轮询。
type TrackState struct {
	OrderNo     string      `json:"order_no"`
	Status      string      `json:"status"`
	Baskets     interface{} `json:"baskets"`
	Handling    interface{} `json:"handling"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	UpdatedAt   int64       `json:"updated_at"`
}

func trackStateKey(orderNo string) string {
	return fmt.Sprintf("track:%s", orderNo)
}

// GetTrackState 获取订单进度快照
func GetTrackState(ctx context.Context, orderNo string) (*TrackState, bool, error) {
	if orderNo == "" {
		return nil, false, nil
	}
	var state TrackState
	hit, err := GetJSON(ctx, trackStateKey(orderNo), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetTrackState 写入订单进度快照
func SetTrackState(ctx context.Context, state *TrackState) error {
	if state == nil || state.OrderNo == "" {
		return nil
	}
	return SetJSON(ctx, trackStateKey(state.OrderNo), state, trackStateCacheTTL)
}

// DelTrackState 删除订单进度快照
func DelTrackState(ctx context.Context, orderNo string) error {
	if orderNo == "" {
		return nil
	}
	return Del(ctx, trackStateKey(orderNo))
}
