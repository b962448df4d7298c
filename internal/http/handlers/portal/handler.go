package portal

import "github.com/washpoint-next/internal/provider"

// Handler 客户门户处理器入口
// 说明：该处理器仅用于门户侧公开 API，不做身份认证。
type Handler struct {
	*provider.Container
}

// New 创建门户处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
