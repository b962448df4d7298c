package authz

import (
	"fmt"

	"github.com/washpoint-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵。
// attendant 只能操作订单流转与查询；manager 覆盖全部员工端接口。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.StaffRoleAttendant,
			Policies: []Policy{
				{Object: "/staff/me", Action: "GET"},
				{Object: "/staff/orders", Action: "GET"},
				{Object: "/staff/orders", Action: "POST"},
				{Object: "/staff/orders/:id", Action: "GET"},
				{Object: "/staff/orders/:id/progress", Action: "POST"},
				{Object: "/staff/customers", Action: "GET"},
				{Object: "/staff/customers", Action: "POST"},
				{Object: "/staff/customers/:id", Action: "GET"},
				{Object: "/staff/offerings", Action: "GET"},
				{Object: "/staff/inventory/items", Action: "GET"},
				{Object: "/staff/profile/password", Action: "PUT"},
			},
		},
		{
			Role:     constants.StaffRoleManager,
			Inherits: []string{constants.StaffRoleAttendant},
			Policies: []Policy{
				{Object: "/staff/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), NormalizeAction(policy.Action)); err != nil {
				return fmt.Errorf("seed role policy failed: %w", err)
			}
		}
	}
	return nil
}
