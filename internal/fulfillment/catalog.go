package fulfillment

import (
	"fmt"
	"strings"

	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/models"
)

// Sequence 工序目录顺序：后道工序只能在前道工序之后自动接续
var Sequence = []string{
	constants.ServiceTypeWash,
	constants.ServiceTypeSpin,
	constants.ServiceTypeDry,
	constants.ServiceTypeIron,
	constants.ServiceTypeFold,
}

// TypeIndex 返回工序类型在目录中的位置
func TypeIndex(serviceType string) (int, bool) {
	normalized := strings.ToLower(strings.TrimSpace(serviceType))
	for i, t := range Sequence {
		if t == normalized {
			return i, true
		}
	}
	return 0, false
}

// ResolveServiceType 解析服务所属工序类型。
// 显式的 service_type 标签优先；历史记录没有标签时按名称小写包含目录关键词回退，
// 目录顺序中第一个命中的关键词生效。两者都解析不出时返回 ErrUnknownServiceType。
func ResolveServiceType(svc models.BasketService) (string, int, error) {
	if idx, ok := TypeIndex(svc.ServiceType); ok {
		return Sequence[idx], idx, nil
	}

	name := strings.ToLower(strings.TrimSpace(svc.ServiceName))
	for i, t := range Sequence {
		if strings.Contains(name, t) {
			return t, i, nil
		}
	}
	return "", 0, fmt.Errorf("%w: %q does not match any of %v",
		ErrUnknownServiceType, svc.ServiceName, Sequence)
}
