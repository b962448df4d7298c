package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/fulfillment"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/queue"
	"github.com/washpoint-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo     repository.OrderRepository
	customerRepo  repository.CustomerRepository
	offeringRepo  repository.OfferingRepository
	inventoryRepo repository.InventoryRepository
	queueClient   *queue.Client
	numberPrefix  string
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, customerRepo repository.CustomerRepository, offeringRepo repository.OfferingRepository, inventoryRepo repository.InventoryRepository, queueClient *queue.Client, numberPrefix string) *OrderService {
	if strings.TrimSpace(numberPrefix) == "" {
		numberPrefix = "WP"
	}
	return &OrderService{
		orderRepo:     orderRepo,
		customerRepo:  customerRepo,
		offeringRepo:  offeringRepo,
		inventoryRepo: inventoryRepo,
		queueClient:   queueClient,
		numberPrefix:  numberPrefix,
	}
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	CustomerID      uint
	CreatedByID     uint
	Channel         string
	Baskets         [][]uint // 每个篮筐的价目项 ID 列表
	PickupAddress   string
	DeliveryAddress string
	Notes           string
}

// CreateOrder 创建订单。
// 篮筐分解、价格快照与耗材扣减在同一事务内完成。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if input.CustomerID == 0 {
		return nil, ErrCustomerNotFound
	}
	if len(input.Baskets) == 0 {
		return nil, ErrEmptyBasket
	}
	for _, basket := range input.Baskets {
		if len(basket) == 0 {
			return nil, ErrEmptyBasket
		}
	}
	channel := input.Channel
	if channel == "" {
		channel = constants.OrderChannelCounter
	}

	customer, err := s.customerRepo.GetByID(input.CustomerID)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	offerings, err := s.resolveOfferings(input.Baskets)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		CustomerID:  input.CustomerID,
		CreatedByID: input.CreatedByID,
		Channel:     channel,
		Status:      constants.OrderStatusPending,
		Notes:       strings.TrimSpace(input.Notes),
		Handling: models.Handling{
			Pickup:   models.Stage{Address: strings.TrimSpace(input.PickupAddress), Status: constants.StageStatusPending},
			Delivery: models.Stage{Address: strings.TrimSpace(input.DeliveryAddress), Status: constants.StageStatusPending},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var items []models.OrderItem
	total := decimal.Zero
	for i, basketIDs := range input.Baskets {
		basket := models.Basket{
			BasketNumber: i + 1,
			Status:       constants.BasketStatusPending,
		}
		for _, offeringID := range basketIDs {
			offering := offerings[offeringID]
			basket.Services = append(basket.Services, models.BasketService{
				ServiceName: offering.Name,
				ServiceType: offering.ServiceType,
				Status:      constants.ServiceStatusPending,
			})
			items = append(items, models.OrderItem{
				OfferingID:   offering.ID,
				BasketNumber: basket.BasketNumber,
				ServiceName:  offering.Name,
				ServiceType:  offering.ServiceType,
				Price:        offering.Price,
				CreatedAt:    now,
			})
			total = total.Add(offering.Price.Decimal)
		}
		order.Breakdown.Baskets = append(order.Breakdown.Baskets, basket)
	}
	order.TotalAmount = models.NewMoneyFromDecimal(total)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)

		orderNo, err := s.nextOrderNo(orderRepo, now)
		if err != nil {
			return err
		}
		order.OrderNo = orderNo

		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		// 扣减每个篮筐绑定耗材的库存
		for _, basketIDs := range input.Baskets {
			for _, offeringID := range basketIDs {
				offering := offerings[offeringID]
				if offering.InventoryItemID == nil || offering.UnitsPerBasket <= 0 {
					continue
				}
				movement := &models.InventoryMovement{
					OrderID:   &order.ID,
					StaffID:   input.CreatedByID,
					Type:      constants.InventoryMovementConsume,
					Reason:    fmt.Sprintf("order %s", order.OrderNo),
					CreatedAt: now,
				}
				if err := inventoryRepo.Consume(*offering.InventoryItemID, offering.UnitsPerBasket, movement); err != nil {
					if errors.Is(err, repository.ErrInsufficientStock) {
						return ErrStockInsufficient
					}
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrStockInsufficient) {
			return nil, ErrStockInsufficient
		}
		logger.Errorw("order_create_failed",
			"customer_id", input.CustomerID,
			"channel", channel,
			"error", err,
		)
		return nil, ErrOrderCreateFailed
	}

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: order.ID,
			Status:  order.Status,
		}); err != nil {
			logger.Warnw("order_enqueue_status_notify_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}

	full, err := s.orderRepo.GetByID(order.ID)
	if err == nil && full != nil {
		return full, nil
	}
	return order, nil
}

// resolveOfferings 校验并收集订单引用的价目项
func (s *OrderService) resolveOfferings(baskets [][]uint) (map[uint]*models.Offering, error) {
	idSet := map[uint]bool{}
	var ids []uint
	for _, basket := range baskets {
		for _, id := range basket {
			if id == 0 {
				return nil, ErrInvalidOrderItem
			}
			if !idSet[id] {
				idSet[id] = true
				ids = append(ids, id)
			}
		}
	}

	found, err := s.offeringRepo.GetByIDs(ids)
	if err != nil {
		return nil, ErrOrderCreateFailed
	}
	offerings := map[uint]*models.Offering{}
	for i := range found {
		offerings[found[i].ID] = &found[i]
	}
	for _, id := range ids {
		offering, ok := offerings[id]
		if !ok {
			return nil, ErrOfferingNotFound
		}
		if !offering.Active {
			return nil, ErrOfferingInactive
		}
		if _, ok := fulfillment.TypeIndex(offering.ServiceType); !ok {
			return nil, fmt.Errorf("%w: offering %q", fulfillment.ErrUnknownServiceType, offering.Name)
		}
	}
	return offerings, nil
}

// nextOrderNo 生成当日递增订单号，如 WP20260314000007
func (s *OrderService) nextOrderNo(orderRepo repository.OrderRepository, now time.Time) (string, error) {
	prefix := s.numberPrefix + now.Format("20060102")
	count, err := orderRepo.CountCreatedOn(prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

// GetOrder 根据 ID 获取订单
func (s *OrderService) GetOrder(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetOrderByNo 根据订单号获取订单
func (s *OrderService) GetOrderByNo(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(strings.TrimSpace(orderNo))
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 获取订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// CancelOrder 取消订单并回补已扣减的耗材。
// 只有尚未完成的订单可以取消。
func (s *OrderService) CancelOrder(id uint, staffID uint, reason string) (*models.Order, error) {
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(id)
		if err != nil {
			return ErrOrderFetchFailed
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCompleted || order.Status == constants.OrderStatusCancelled {
			return ErrOrderNotActive
		}

		now := time.Now()
		order.Breakdown.AuditLog = append(order.Breakdown.AuditLog, models.AuditEntry{
			Action:    constants.AuditOrderCancelled,
			Timestamp: now,
			ChangedBy: staffID,
			Details:   map[string]interface{}{"reason": strings.TrimSpace(reason)},
		})
		if err := orderRepo.UpdateStatus(id, constants.OrderStatusCancelled, map[string]interface{}{
			"cancelled_at": now,
			"breakdown":    order.Breakdown,
		}); err != nil {
			return ErrOrderUpdateFailed
		}

		return s.restoreInventory(tx, order, staffID, now)
	})
	if err != nil {
		return nil, err
	}

	order, fetchErr := s.orderRepo.GetByID(id)
	if fetchErr != nil || order == nil {
		return nil, ErrOrderFetchFailed
	}

	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: order.ID,
			Status:  order.Status,
		}); err != nil {
			logger.Warnw("order_enqueue_status_notify_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", err,
			)
		}
	}
	return order, nil
}

// restoreInventory 取消时回补订单扣减过的耗材
func (s *OrderService) restoreInventory(tx *gorm.DB, order *models.Order, staffID uint, now time.Time) error {
	inventoryRepo := s.inventoryRepo.WithTx(tx)
	movements, _, err := inventoryRepo.ListMovements(repository.InventoryMovementListFilter{
		OrderID: order.ID,
		Type:    constants.InventoryMovementConsume,
	})
	if err != nil {
		return err
	}
	for _, movement := range movements {
		restore := &models.InventoryMovement{
			OrderID:   &order.ID,
			StaffID:   staffID,
			Type:      constants.InventoryMovementRestore,
			Reason:    fmt.Sprintf("cancel order %s", order.OrderNo),
			CreatedAt: now,
		}
		if err := inventoryRepo.Restore(movement.ItemID, -movement.Delta, restore); err != nil {
			return err
		}
	}
	return nil
}
