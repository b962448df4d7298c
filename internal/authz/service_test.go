package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/washpoint-next/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceStaffWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.enforcer.AddPolicy("role:attendant", "/staff/orders/:id", "GET"); err != nil {
		t.Fatalf("add role policy failed: %v", err)
	}
	if err := svc.SetStaffRole(1, "attendant"); err != nil {
		t.Fatalf("set staff role failed: %v", err)
	}

	allow, err := svc.EnforceStaff(1, "/api/v1/staff/orders/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceStaff(1, "/api/v1/staff/orders/42", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetStaffRoleReplacesBinding(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if _, err := svc.enforcer.AddPolicy("role:attendant", "/staff/orders", "GET"); err != nil {
		t.Fatalf("add attendant policy failed: %v", err)
	}
	if _, err := svc.enforcer.AddPolicy("role:manager", "/staff/accounts", "GET"); err != nil {
		t.Fatalf("add manager policy failed: %v", err)
	}

	if err := svc.SetStaffRole(2, "attendant"); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	roles, err := svc.GetStaffRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "attendant" {
		t.Fatalf("roles want [attendant], got=%v", roles)
	}

	if err := svc.SetStaffRole(2, "manager"); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err = svc.GetStaffRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "manager" {
		t.Fatalf("roles want [manager], got=%v", roles)
	}

	allow, err := svc.EnforceStaff(2, "/staff/orders", "GET")
	if err != nil {
		t.Fatalf("enforce old role failed: %v", err)
	}
	if allow {
		t.Fatalf("expected old role permission removed")
	}

	allow, err = svc.EnforceStaff(2, "/staff/accounts", "GET")
	if err != nil {
		t.Fatalf("enforce new role failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected new role permission granted")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/staff/orders/:id", want: "/staff/orders/:id"},
		{in: "/staff/orders/:id", want: "/staff/orders/:id"},
		{in: "staff/orders", want: "/staff/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}

	if err := svc.SetStaffRole(3, constants.StaffRoleAttendant); err != nil {
		t.Fatalf("bind attendant failed: %v", err)
	}
	if err := svc.SetStaffRole(4, constants.StaffRoleManager); err != nil {
		t.Fatalf("bind manager failed: %v", err)
	}

	// 店员可以流转订单
	allow, err := svc.EnforceStaff(3, "/api/v1/staff/orders/7/progress", "POST")
	if err != nil {
		t.Fatalf("enforce attendant progress failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected attendant allowed to progress orders")
	}

	// 但不能管理员工账号
	allow, err = svc.EnforceStaff(3, "/api/v1/staff/accounts", "POST")
	if err != nil {
		t.Fatalf("enforce attendant accounts failed: %v", err)
	}
	if allow {
		t.Fatalf("expected attendant denied on staff accounts")
	}

	// 店长继承店员权限，且通过通配覆盖员工端全部接口
	allow, err = svc.EnforceStaff(4, "/api/v1/staff/orders", "GET")
	if err != nil {
		t.Fatalf("enforce manager inherited failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected manager inherited attendant permission")
	}

	allow, err = svc.EnforceStaff(4, "/api/v1/staff/accounts/5/password", "PUT")
	if err != nil {
		t.Fatalf("enforce manager wildcard failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected manager wildcard permission")
	}
}
