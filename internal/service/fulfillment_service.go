package service

import (
	"context"
	"errors"
	"time"

	"github.com/washpoint-next/internal/cache"
	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/fulfillment"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/queue"
	"github.com/washpoint-next/internal/repository"

	"gorm.io/gorm"
)

// FulfillmentService 履约流转服务
type FulfillmentService struct {
	orderRepo      repository.OrderRepository
	queueClient    *queue.Client
	loyaltyService *LoyaltyService
}

// NewFulfillmentService 创建履约流转服务
func NewFulfillmentService(orderRepo repository.OrderRepository, queueClient *queue.Client, loyaltyService *LoyaltyService) *FulfillmentService {
	return &FulfillmentService{
		orderRepo:      orderRepo,
		queueClient:    queueClient,
		loyaltyService: loyaltyService,
	}
}

// ProgressInput 流转指令输入。BasketNumber 与 Handling 必须恰好给出一个。
type ProgressInput struct {
	OrderID      uint
	BasketNumber *int
	Handling     string
	Action       string
	ActorID      uint
}

// Progress 对订单执行一次流转指令。
// 同一订单的并发指令靠事务内行锁串行化，被拒绝的指令不产生任何写入。
func (s *FulfillmentService) Progress(input ProgressInput) (*models.Order, error) {
	target, err := resolveTarget(input)
	if err != nil {
		return nil, err
	}
	cmd := fulfillment.Command{
		Target:  target,
		Action:  fulfillment.Action(input.Action),
		ActorID: input.ActorID,
	}

	var outcome *fulfillment.Outcome
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		order, err := orderRepo.GetByIDForUpdate(input.OrderID)
		if err != nil {
			return ErrOrderFetchFailed
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status == constants.OrderStatusCompleted || order.Status == constants.OrderStatusCancelled {
			return ErrOrderNotActive
		}

		outcome, err = fulfillment.Apply(order, cmd, time.Now())
		if err != nil {
			return err
		}
		if !outcome.Changed {
			return nil
		}
		if err := orderRepo.SaveProgress(outcome.Order); err != nil {
			logger.Errorw("fulfillment_save_progress_failed",
				"order_id", input.OrderID,
				"error", err,
			)
			return ErrOrderUpdateFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if outcome.Changed {
		s.afterProgress(outcome)
	}
	return outcome.Order, nil
}

// afterProgress 提交后的旁路动作，失败只记日志不回滚。
func (s *FulfillmentService) afterProgress(outcome *fulfillment.Outcome) {
	order := outcome.Order

	if err := cache.DelTrackState(context.Background(), order.OrderNo); err != nil {
		logger.Warnw("fulfillment_track_cache_invalidate_failed",
			"order_no", order.OrderNo,
			"error", err,
		)
	}

	if outcome.StatusChanged && s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
			OrderID: order.ID,
			Status:  order.Status,
		}); err != nil {
			logger.Warnw("fulfillment_enqueue_status_notify_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"status", order.Status,
				"error", err,
			)
		}
	}

	if outcome.JustCompleted {
		if s.loyaltyService != nil {
			if err := s.loyaltyService.AccrueForOrder(order); err != nil {
				logger.Warnw("fulfillment_loyalty_accrue_failed",
					"order_id", order.ID,
					"customer_id", order.CustomerID,
					"error", err,
				)
			}
		}
		if s.queueClient != nil {
			if err := s.queueClient.EnqueueOrderReceipt(queue.OrderReceiptPayload{OrderID: order.ID}); err != nil {
				logger.Warnw("fulfillment_enqueue_receipt_failed",
					"order_id", order.ID,
					"order_no", order.OrderNo,
					"error", err,
				)
			}
		}
	}
}

// resolveTarget 校验"篮筐与收送环节二选一"并构造流转目标
func resolveTarget(input ProgressInput) (fulfillment.Target, error) {
	hasBasket := input.BasketNumber != nil
	hasHandling := input.Handling != ""
	switch {
	case hasBasket && hasHandling:
		return nil, ErrProgressTargetAmbiguous
	case hasBasket:
		return fulfillment.BasketTarget{BasketNumber: *input.BasketNumber}, nil
	case hasHandling:
		if input.Handling != constants.HandlingTypePickup && input.Handling != constants.HandlingTypeDelivery {
			return nil, ErrProgressTargetRequired
		}
		return fulfillment.HandlingTarget{Stage: input.Handling}, nil
	default:
		return nil, ErrProgressTargetRequired
	}
}

// IsProgressRejection 判断错误是否属于流转被拒绝（而非存储故障）
func IsProgressRejection(err error) bool {
	for _, target := range []error{
		fulfillment.ErrMissingActor,
		fulfillment.ErrAmbiguousTarget,
		fulfillment.ErrInvalidAction,
		fulfillment.ErrDeliveryRequiresAddress,
		fulfillment.ErrPickupAfterServicesStarted,
		fulfillment.ErrBasketsIncomplete,
		fulfillment.ErrPickupNotDone,
		fulfillment.ErrBasketNotFound,
		fulfillment.ErrUnknownServiceType,
		fulfillment.ErrNoPendingServices,
		fulfillment.ErrNoInProgressService,
		ErrProgressTargetRequired,
		ErrProgressTargetAmbiguous,
		ErrOrderNotActive,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
