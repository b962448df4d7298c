package fulfillment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/models"
)

// Outcome 一次被接受的流转结果
type Outcome struct {
	Order         *models.Order      // 变更后的订单副本；输入订单不会被修改
	Audit         *models.AuditEntry // 本次追加的审计条目；skip 空转时为 nil
	Changed       bool               // 是否发生了实际变更
	StatusChanged bool               // 订单状态是否变化
	JustCompleted bool               // 订单是否在本次变更中完成
}

// Apply 对订单执行一次流转指令。
// 纯函数：所有校验在任何字段变更之前完成，被拒绝的指令保证订单原样返回错误。
// 时钟由调用方注入。
func Apply(order *models.Order, cmd Command, now time.Time) (*Outcome, error) {
	if order == nil {
		return nil, errors.New("fulfillment: order is nil")
	}
	if cmd.ActorID == 0 {
		return nil, ErrMissingActor
	}
	if cmd.Target == nil {
		return nil, ErrAmbiguousTarget
	}
	if !cmd.Action.Valid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidAction, string(cmd.Action))
	}

	next := cloneOrder(order)
	prevStatus := next.Status

	var audit *models.AuditEntry
	var changed bool
	var err error
	switch target := cmd.Target.(type) {
	case HandlingTarget:
		audit, err = applyHandling(next, target.Stage, cmd.Action, cmd.ActorID, now)
		changed = err == nil
	case BasketTarget:
		audit, changed, err = applyBasket(next, target.BasketNumber, cmd.Action, cmd.ActorID, now)
	default:
		return nil, ErrAmbiguousTarget
	}
	if err != nil {
		return nil, err
	}

	if audit != nil {
		next.Breakdown.AuditLog = append(next.Breakdown.AuditLog, *audit)
	}
	statusChanged := next.Status != prevStatus
	return &Outcome{
		Order:         next,
		Audit:         audit,
		Changed:       changed,
		StatusChanged: statusChanged,
		JustCompleted: statusChanged && next.Status == constants.OrderStatusCompleted,
	}, nil
}

// applyHandling 执行收送环节流转
func applyHandling(order *models.Order, stage string, action Action, actor uint, now time.Time) (*models.AuditEntry, error) {
	var st *models.Stage
	switch stage {
	case constants.HandlingTypePickup:
		st = &order.Handling.Pickup
	case constants.HandlingTypeDelivery:
		st = &order.Handling.Delivery
	default:
		return nil, fmt.Errorf("%w: handling stage %q", ErrAmbiguousTarget, stage)
	}

	// 无地址：取件静默跳过，送回是硬错误
	if action == ActionStart && strings.TrimSpace(st.Address) == "" {
		if stage == constants.HandlingTypeDelivery {
			return nil, ErrDeliveryRequiresAddress
		}
		before := st.Status
		st.Status = constants.StageStatusSkipped
		order.Status = constants.OrderStatusProcessing
		return &models.AuditEntry{
			Action:    constants.AuditHandlingSkipped,
			Timestamp: now,
			ChangedBy: actor,
			Stage:     stage,
			Details: map[string]interface{}{
				"reason": constants.AuditReasonNoAddress,
				"before": before,
				"after":  st.Status,
			},
		}, nil
	}

	switch stage {
	case constants.HandlingTypePickup:
		if action == ActionStart {
			if touched := touchedServices(order.Breakdown); len(touched) > 0 {
				return nil, fmt.Errorf("%w: %s", ErrPickupAfterServicesStarted, strings.Join(touched, "; "))
			}
		}
	case constants.HandlingTypeDelivery:
		// 送回的 complete/skip 都会完结订单，未完结的服务一律拦截
		if unfinished := unfinishedServices(order.Breakdown); len(unfinished) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrBasketsIncomplete, strings.Join(unfinished, "; "))
		}
	}

	before := st.Status
	var auditAction string
	switch action {
	case ActionStart:
		st.Status = constants.StageStatusInProgress
		st.StartedAt = timePtr(now)
		st.StartedBy = uintPtr(actor)
		auditAction = constants.AuditHandlingStarted
	case ActionComplete:
		st.Status = constants.StageStatusCompleted
		st.CompletedAt = timePtr(now)
		st.CompletedBy = uintPtr(actor)
		auditAction = constants.AuditHandlingCompleted
	case ActionSkip:
		st.Status = constants.StageStatusSkipped
		auditAction = constants.AuditHandlingSkipped
	}

	deriveOrderStatusFromHandling(order, stage, st.Status, now)

	return &models.AuditEntry{
		Action:    auditAction,
		Timestamp: now,
		ChangedBy: actor,
		Stage:     stage,
		Details: map[string]interface{}{
			"before": before,
			"after":  st.Status,
		},
	}, nil
}

// deriveOrderStatusFromHandling 由收送环节状态推导订单状态
func deriveOrderStatusFromHandling(order *models.Order, stage, stageStatus string, now time.Time) {
	switch stage {
	case constants.HandlingTypePickup:
		switch stageStatus {
		case constants.StageStatusInProgress:
			order.Status = constants.OrderStatusForPickup
		case constants.StageStatusCompleted, constants.StageStatusSkipped:
			order.Status = constants.OrderStatusProcessing
		}
	case constants.HandlingTypeDelivery:
		switch stageStatus {
		case constants.StageStatusInProgress:
			order.Status = constants.OrderStatusForDelivery
		case constants.StageStatusCompleted, constants.StageStatusSkipped:
			markOrderCompleted(order, now)
		}
	}
}

// applyBasket 执行篮筐内服务流转
func applyBasket(order *models.Order, basketNumber int, action Action, actor uint, now time.Time) (*models.AuditEntry, bool, error) {
	if action != ActionSkip {
		pickup := order.Handling.Pickup.Status
		if pickup != constants.StageStatusCompleted && pickup != constants.StageStatusSkipped {
			return nil, false, fmt.Errorf("%w: pickup is %q", ErrPickupNotDone, pickup)
		}
	}

	basket := findBasket(&order.Breakdown, basketNumber)
	if basket == nil {
		return nil, false, fmt.Errorf("%w: basket %d", ErrBasketNotFound, basketNumber)
	}

	var audit *models.AuditEntry
	switch action {
	case ActionStart:
		idx := firstServiceWithStatus(basket, constants.ServiceStatusPending)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: basket %d", ErrNoPendingServices, basketNumber)
		}
		svc := &basket.Services[idx]
		if _, _, err := ResolveServiceType(*svc); err != nil {
			return nil, false, err
		}
		svc.Status = constants.ServiceStatusInProgress
		svc.StartedAt = timePtr(now)
		svc.StartedBy = uintPtr(actor)
		audit = serviceAudit(constants.AuditServiceStarted, now, actor, basketNumber, svc.ServiceName, map[string]interface{}{
			"before": constants.ServiceStatusPending,
			"after":  constants.ServiceStatusInProgress,
		})

	case ActionComplete:
		idx := firstServiceWithStatus(basket, constants.ServiceStatusInProgress)
		if idx < 0 {
			return nil, false, fmt.Errorf("%w: basket %d", ErrNoInProgressService, basketNumber)
		}
		svc := &basket.Services[idx]
		_, completedPos, err := ResolveServiceType(*svc)
		if err != nil {
			return nil, false, err
		}
		svc.Status = constants.ServiceStatusCompleted
		svc.CompletedAt = timePtr(now)
		svc.CompletedBy = uintPtr(actor)

		details := map[string]interface{}{
			"before": constants.ServiceStatusInProgress,
			"after":  constants.ServiceStatusCompleted,
		}
		// 自动接续：目录顺序严格靠后的待处理服务中取最靠前的一个，每次最多启动一个
		if nextIdx := nextEligibleService(basket, completedPos); nextIdx >= 0 {
			nextSvc := &basket.Services[nextIdx]
			nextSvc.Status = constants.ServiceStatusInProgress
			nextSvc.StartedAt = timePtr(now)
			nextSvc.StartedBy = uintPtr(actor)
			details["auto_started"] = nextSvc.ServiceName
		}
		audit = serviceAudit(constants.AuditServiceCompleted, now, actor, basketNumber, svc.ServiceName, details)

	case ActionSkip:
		idx := firstServiceWithStatus(basket, constants.ServiceStatusPending)
		if idx < 0 {
			// 没有待处理服务时 skip 是被接受的空转：不变更、不审计
			return nil, false, nil
		}
		svc := &basket.Services[idx]
		if _, _, err := ResolveServiceType(*svc); err != nil {
			return nil, false, err
		}
		svc.Status = constants.ServiceStatusSkipped
		audit = serviceAudit(constants.AuditServiceSkipped, now, actor, basketNumber, svc.ServiceName, map[string]interface{}{
			"before": constants.ServiceStatusPending,
			"after":  constants.ServiceStatusSkipped,
		})
	}

	recomputeBasketStatus(basket, now)
	cascadeOrderStatus(order, now)
	return audit, true, nil
}

// nextEligibleService 自动接续候选：状态仍为 pending、工序位置严格大于
// completedPos 的服务中目录位置最小的一个；同位置取数组中靠前者。
// 无法解析工序的服务不参与接续。
func nextEligibleService(basket *models.Basket, completedPos int) int {
	best := -1
	bestPos := len(Sequence)
	for i := range basket.Services {
		svc := basket.Services[i]
		if svc.Status != constants.ServiceStatusPending {
			continue
		}
		_, pos, err := ResolveServiceType(svc)
		if err != nil {
			continue
		}
		if pos > completedPos && pos < bestPos {
			best = i
			bestPos = pos
		}
	}
	return best
}

// recomputeBasketStatus 篮筐状态是服务状态的投影，永不直接写入：
// 全部 completed/skipped 为 completed；任一 in_progress 为 processing；否则 pending。
func recomputeBasketStatus(basket *models.Basket, now time.Time) {
	derived := deriveBasketStatus(*basket)
	basket.Status = derived
	if derived == constants.BasketStatusCompleted && basket.CompletedAt == nil {
		basket.CompletedAt = timePtr(now)
	}
}

func deriveBasketStatus(basket models.Basket) string {
	allDone := true
	for _, svc := range basket.Services {
		switch svc.Status {
		case constants.ServiceStatusInProgress:
			return constants.BasketStatusProcessing
		case constants.ServiceStatusCompleted, constants.ServiceStatusSkipped:
		default:
			allDone = false
		}
	}
	if len(basket.Services) > 0 && allDone {
		return constants.BasketStatusCompleted
	}
	return constants.BasketStatusPending
}

// cascadeOrderStatus 篮筐变更后的订单级联：全部篮筐完结时，
// 有送回地址进入 for_delivery，无地址直接完成。
func cascadeOrderStatus(order *models.Order, now time.Time) {
	for _, basket := range order.Breakdown.Baskets {
		if deriveBasketStatus(basket) != constants.BasketStatusCompleted {
			return
		}
	}
	if strings.TrimSpace(order.Handling.Delivery.Address) != "" {
		order.Status = constants.OrderStatusForDelivery
		return
	}
	markOrderCompleted(order, now)
}

// markOrderCompleted 订单完成；completed_at 仅设置一次
func markOrderCompleted(order *models.Order, now time.Time) {
	order.Status = constants.OrderStatusCompleted
	if order.CompletedAt == nil {
		order.CompletedAt = timePtr(now)
	}
}

// touchedServices 已离开 pending 的服务清单（阻止取件开始）
func touchedServices(breakdown models.Breakdown) []string {
	var touched []string
	for _, basket := range breakdown.Baskets {
		for _, svc := range basket.Services {
			if svc.Status != constants.ServiceStatusPending {
				touched = append(touched, fmt.Sprintf("basket %d: %s is %s", basket.BasketNumber, svc.ServiceName, svc.Status))
			}
		}
	}
	return touched
}

// unfinishedServices 尚未完结的服务清单（阻止送回开始）
func unfinishedServices(breakdown models.Breakdown) []string {
	var unfinished []string
	for _, basket := range breakdown.Baskets {
		for _, svc := range basket.Services {
			if svc.Status != constants.ServiceStatusCompleted && svc.Status != constants.ServiceStatusSkipped {
				unfinished = append(unfinished, fmt.Sprintf("basket %d: %s is %s", basket.BasketNumber, svc.ServiceName, svc.Status))
			}
		}
	}
	return unfinished
}

func findBasket(breakdown *models.Breakdown, basketNumber int) *models.Basket {
	for i := range breakdown.Baskets {
		if breakdown.Baskets[i].BasketNumber == basketNumber {
			return &breakdown.Baskets[i]
		}
	}
	return nil
}

func firstServiceWithStatus(basket *models.Basket, status string) int {
	for i := range basket.Services {
		if basket.Services[i].Status == status {
			return i
		}
	}
	return -1
}

func serviceAudit(action string, now time.Time, actor uint, basketNumber int, serviceName string, details map[string]interface{}) *models.AuditEntry {
	number := basketNumber
	return &models.AuditEntry{
		Action:       action,
		Timestamp:    now,
		ChangedBy:    actor,
		BasketNumber: &number,
		ServiceName:  serviceName,
		Details:      details,
	}
}

// cloneOrder 深拷贝订单中本状态机会触碰的部分
func cloneOrder(order *models.Order) *models.Order {
	next := *order
	next.Handling.Pickup = cloneStage(order.Handling.Pickup)
	next.Handling.Delivery = cloneStage(order.Handling.Delivery)
	next.CompletedAt = cloneTimePtr(order.CompletedAt)

	next.Breakdown.Baskets = make([]models.Basket, len(order.Breakdown.Baskets))
	for i, basket := range order.Breakdown.Baskets {
		cloned := basket
		cloned.CompletedAt = cloneTimePtr(basket.CompletedAt)
		cloned.Services = make([]models.BasketService, len(basket.Services))
		for j, svc := range basket.Services {
			clonedSvc := svc
			clonedSvc.StartedAt = cloneTimePtr(svc.StartedAt)
			clonedSvc.StartedBy = cloneUintPtr(svc.StartedBy)
			clonedSvc.CompletedAt = cloneTimePtr(svc.CompletedAt)
			clonedSvc.CompletedBy = cloneUintPtr(svc.CompletedBy)
			cloned.Services[j] = clonedSvc
		}
		next.Breakdown.Baskets[i] = cloned
	}

	next.Breakdown.AuditLog = make([]models.AuditEntry, len(order.Breakdown.AuditLog))
	copy(next.Breakdown.AuditLog, order.Breakdown.AuditLog)
	return &next
}

func cloneStage(stage models.Stage) models.Stage {
	cloned := stage
	cloned.StartedAt = cloneTimePtr(stage.StartedAt)
	cloned.StartedBy = cloneUintPtr(stage.StartedBy)
	cloned.CompletedAt = cloneTimePtr(stage.CompletedAt)
	cloned.CompletedBy = cloneUintPtr(stage.CompletedBy)
	return cloned
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cloned := *t
	return &cloned
}

func cloneUintPtr(u *uint) *uint {
	if u == nil {
		return nil
	}
	cloned := *u
	return &cloned
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func uintPtr(u uint) *uint {
	return &u
}
