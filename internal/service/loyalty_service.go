package service

import (
	"github.com/washpoint-next/internal/config"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/repository"

	"github.com/shopspring/decimal"
)

// LoyaltyService 积分服务
type LoyaltyService struct {
	customerRepo repository.CustomerRepository
	cfg          config.LoyaltyConfig
}

// NewLoyaltyService 创建积分服务
func NewLoyaltyService(customerRepo repository.CustomerRepository, cfg config.LoyaltyConfig) *LoyaltyService {
	return &LoyaltyService{
		customerRepo: customerRepo,
		cfg:          cfg,
	}
}

// AccrueForOrder 订单完成后按消费金额记积分
func (s *LoyaltyService) AccrueForOrder(order *models.Order) error {
	if order == nil || order.CustomerID == 0 {
		return nil
	}
	points := s.PointsFor(order.TotalAmount)
	if points <= 0 {
		return nil
	}
	if err := s.customerRepo.AddLoyaltyPoints(order.CustomerID, points); err != nil {
		return err
	}
	logger.Infow("loyalty_points_accrued",
		"customer_id", order.CustomerID,
		"order_no", order.OrderNo,
		"points", points,
	)
	return nil
}

// PointsFor 计算金额对应的积分，向下取整。
func (s *LoyaltyService) PointsFor(amount models.Money) int {
	if !s.cfg.Enabled || s.cfg.PointsPerPeso <= 0 {
		return 0
	}
	if s.cfg.MinOrderAmount > 0 && amount.Decimal.LessThan(decimal.NewFromInt(int64(s.cfg.MinOrderAmount))) {
		return 0
	}
	points := amount.Decimal.Div(decimal.NewFromInt(int64(s.cfg.PointsPerPeso))).IntPart()
	if points < 0 {
		return 0
	}
	return int(points)
}
