package staff

import "github.com/washpoint-next/internal/provider"

// Handler 员工端接口处理器入口
// 说明：该处理器仅用于柜台与后场的员工 API。
type Handler struct {
	*provider.Container
}

// New 创建员工端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
