package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	CustomerID  uint
	Status      string
	Channel     string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CustomerListFilter 查询客户列表的过滤条件
type CustomerListFilter struct {
	Page     int
	PageSize int
	Keyword  string
}

// OfferingListFilter 查询服务项目列表的过滤条件
type OfferingListFilter struct {
	Page        int
	PageSize    int
	ServiceType string
	Search      string
	OnlyActive  bool
}

// StaffListFilter 查询员工列表的过滤条件
type StaffListFilter struct {
	Page       int
	PageSize   int
	Role       string
	Keyword    string
	OnlyActive bool
}

// InventoryMovementListFilter 查询库存流水的过滤条件
type InventoryMovementListFilter struct {
	Page        int
	PageSize    int
	ItemID      uint
	OrderID     uint
	Type        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
