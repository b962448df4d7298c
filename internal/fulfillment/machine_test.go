package fulfillment

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/models"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestOrder(pickupAddr, deliveryAddr string, baskets ...models.Basket) *models.Order {
	return &models.Order{
		ID:      1,
		OrderNo: "WP20260314000001",
		Status:  constants.OrderStatusPending,
		Handling: models.Handling{
			Pickup:   models.Stage{Address: pickupAddr, Status: constants.StageStatusPending},
			Delivery: models.Stage{Address: deliveryAddr, Status: constants.StageStatusPending},
		},
		Breakdown: models.Breakdown{Baskets: baskets},
	}
}

func newBasket(number int, services ...string) models.Basket {
	basket := models.Basket{BasketNumber: number, Status: constants.BasketStatusPending}
	for _, name := range services {
		basket.Services = append(basket.Services, models.BasketService{
			ServiceName: name,
			Status:      constants.ServiceStatusPending,
		})
	}
	return basket
}

func pickupDone(order *models.Order) *models.Order {
	order.Handling.Pickup.Status = constants.StageStatusCompleted
	order.Status = constants.OrderStatusProcessing
	return order
}

func mustApply(t *testing.T, order *models.Order, cmd Command) *Outcome {
	t.Helper()
	out, err := Apply(order, cmd, testNow)
	if err != nil {
		t.Fatalf("apply %v: %v", cmd, err)
	}
	return out
}

func snapshot(t *testing.T, order *models.Order) string {
	t.Helper()
	raw, err := json.Marshal(order)
	if err != nil {
		t.Fatalf("marshal order: %v", err)
	}
	return string(raw)
}

func TestApplyValidation(t *testing.T) {
	order := newTestOrder("123 Mabini St", "")

	if _, err := Apply(order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: ActionStart}, testNow); !errors.Is(err, ErrMissingActor) {
		t.Fatalf("expected ErrMissingActor, got %v", err)
	}
	if _, err := Apply(order, Command{Action: ActionStart, ActorID: 7}, testNow); !errors.Is(err, ErrAmbiguousTarget) {
		t.Fatalf("expected ErrAmbiguousTarget, got %v", err)
	}
	if _, err := Apply(order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: Action("finish"), ActorID: 7}, testNow); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
	if _, err := Apply(order, Command{Target: HandlingTarget{Stage: "dropoff"}, Action: ActionStart, ActorID: 7}, testNow); !errors.Is(err, ErrAmbiguousTarget) {
		t.Fatalf("expected ErrAmbiguousTarget for unknown stage, got %v", err)
	}
}

func TestStartPickup(t *testing.T) {
	order := newTestOrder("123 Mabini St", "", newBasket(1, "Wash", "Dry"))

	out := mustApply(t, order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: ActionStart, ActorID: 7})
	if out.Order.Status != constants.OrderStatusForPickup {
		t.Fatalf("expected order status %q, got %q", constants.OrderStatusForPickup, out.Order.Status)
	}
	pickup := out.Order.Handling.Pickup
	if pickup.Status != constants.StageStatusInProgress {
		t.Fatalf("expected pickup in_progress, got %q", pickup.Status)
	}
	if pickup.StartedAt == nil || !pickup.StartedAt.Equal(testNow) {
		t.Fatalf("expected started_at %v, got %v", testNow, pickup.StartedAt)
	}
	if pickup.StartedBy == nil || *pickup.StartedBy != 7 {
		t.Fatalf("expected started_by 7, got %v", pickup.StartedBy)
	}
	if out.Audit == nil || out.Audit.Action != constants.AuditHandlingStarted {
		t.Fatalf("expected handling_started audit, got %+v", out.Audit)
	}
	if len(out.Order.Breakdown.AuditLog) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(out.Order.Breakdown.AuditLog))
	}
}

// 取件地址为空时，start 取件自动跳过并直接进入 processing
func TestStartPickupAutoSkipWithoutAddress(t *testing.T) {
	order := newTestOrder("", "", newBasket(1, "Wash"))

	out := mustApply(t, order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: ActionStart, ActorID: 7})
	if out.Order.Handling.Pickup.Status != constants.StageStatusSkipped {
		t.Fatalf("expected pickup skipped, got %q", out.Order.Handling.Pickup.Status)
	}
	if out.Order.Handling.Pickup.StartedAt != nil {
		t.Fatalf("skipped pickup must not record started_at")
	}
	if out.Order.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected order processing, got %q", out.Order.Status)
	}
	if out.Audit == nil || out.Audit.Action != constants.AuditHandlingSkipped {
		t.Fatalf("expected handling_skipped audit, got %+v", out.Audit)
	}
	if reason, _ := out.Audit.Details["reason"].(string); reason != constants.AuditReasonNoAddress {
		t.Fatalf("expected reason %q, got %v", constants.AuditReasonNoAddress, out.Audit.Details["reason"])
	}
}

func TestStartDeliveryWithoutAddress(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", ""))
	before := snapshot(t, order)

	_, err := Apply(order, Command{Target: HandlingTarget{Stage: constants.HandlingTypeDelivery}, Action: ActionStart, ActorID: 7}, testNow)
	if !errors.Is(err, ErrDeliveryRequiresAddress) {
		t.Fatalf("expected ErrDeliveryRequiresAddress, got %v", err)
	}
	if snapshot(t, order) != before {
		t.Fatalf("rejected command must not mutate the order")
	}
}

func TestStartPickupAfterServicesStarted(t *testing.T) {
	basket := newBasket(1, "Wash", "Dry")
	basket.Services[0].Status = constants.ServiceStatusInProgress
	order := newTestOrder("123 Mabini St", "", basket)
	before := snapshot(t, order)

	_, err := Apply(order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: ActionStart, ActorID: 7}, testNow)
	if !errors.Is(err, ErrPickupAfterServicesStarted) {
		t.Fatalf("expected ErrPickupAfterServicesStarted, got %v", err)
	}
	if snapshot(t, order) != before {
		t.Fatalf("rejected command must not mutate the order")
	}
}

func TestStartDeliveryBasketsIncomplete(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "456 Rizal Ave", newBasket(1, "Wash", "Dry")))
	before := snapshot(t, order)

	_, err := Apply(order, Command{Target: HandlingTarget{Stage: constants.HandlingTypeDelivery}, Action: ActionStart, ActorID: 7}, testNow)
	if !errors.Is(err, ErrBasketsIncomplete) {
		t.Fatalf("expected ErrBasketsIncomplete, got %v", err)
	}
	if snapshot(t, order) != before {
		t.Fatalf("rejected command must not mutate the order")
	}
}

// 显式 skip 取件等同取件完结，订单进入 processing
func TestSkipPickupExplicit(t *testing.T) {
	order := newTestOrder("123 Mabini St", "", newBasket(1, "Wash"))

	out := mustApply(t, order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: ActionSkip, ActorID: 7})
	if out.Order.Handling.Pickup.Status != constants.StageStatusSkipped {
		t.Fatalf("expected pickup skipped, got %q", out.Order.Handling.Pickup.Status)
	}
	if out.Order.Handling.Pickup.StartedAt != nil {
		t.Fatalf("skipped pickup must not record started_at")
	}
	if out.Order.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected order processing, got %q", out.Order.Status)
	}
	if out.Audit == nil || out.Audit.Action != constants.AuditHandlingSkipped {
		t.Fatalf("expected handling_skipped audit, got %+v", out.Audit)
	}
}

// 篮筐未完结时 skip 送回与 start 一样被拦截，订单不能被跳没
func TestSkipDeliveryBasketsIncomplete(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "456 Rizal Ave", newBasket(1, "Wash", "Dry")))
	before := snapshot(t, order)

	_, err := Apply(order, Command{Target: HandlingTarget{Stage: constants.HandlingTypeDelivery}, Action: ActionSkip, ActorID: 7}, testNow)
	if !errors.Is(err, ErrBasketsIncomplete) {
		t.Fatalf("expected ErrBasketsIncomplete, got %v", err)
	}
	if snapshot(t, order) != before {
		t.Fatalf("rejected command must not mutate the order")
	}
	if order.CompletedAt != nil {
		t.Fatalf("rejected skip must not complete the order")
	}
}

// 篮筐全部完结后，顾客改为门店自取：显式 skip 送回直接完成订单
func TestSkipDeliveryCompletesOrder(t *testing.T) {
	basket := newBasket(1, "Wash")
	basket.Services[0].Status = constants.ServiceStatusCompleted
	order := pickupDone(newTestOrder("123 Mabini St", "456 Rizal Ave", basket))
	order.Status = constants.OrderStatusForDelivery

	out := mustApply(t, order, Command{Target: HandlingTarget{Stage: constants.HandlingTypeDelivery}, Action: ActionSkip, ActorID: 7})
	if out.Order.Handling.Delivery.Status != constants.StageStatusSkipped {
		t.Fatalf("expected delivery skipped, got %q", out.Order.Handling.Delivery.Status)
	}
	if out.Order.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected order completed, got %q", out.Order.Status)
	}
	if out.Order.CompletedAt == nil || !out.Order.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completed_at %v, got %v", testNow, out.Order.CompletedAt)
	}
	if !out.JustCompleted {
		t.Fatalf("expected JustCompleted outcome")
	}
	if out.Audit == nil || out.Audit.Action != constants.AuditHandlingSkipped {
		t.Fatalf("expected handling_skipped audit, got %+v", out.Audit)
	}
}

func TestBasketRequiresPickupDone(t *testing.T) {
	order := newTestOrder("123 Mabini St", "", newBasket(1, "Wash"))
	before := snapshot(t, order)

	for _, action := range []Action{ActionStart, ActionComplete} {
		_, err := Apply(order, Command{Target: BasketTarget{BasketNumber: 1}, Action: action, ActorID: 7}, testNow)
		if !errors.Is(err, ErrPickupNotDone) {
			t.Fatalf("action %s: expected ErrPickupNotDone, got %v", action, err)
		}
	}
	if snapshot(t, order) != before {
		t.Fatalf("rejected commands must not mutate the order")
	}
}

func TestBasketNotFound(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "", newBasket(1, "Wash")))

	_, err := Apply(order, Command{Target: BasketTarget{BasketNumber: 9}, Action: ActionStart, ActorID: 7}, testNow)
	if !errors.Is(err, ErrBasketNotFound) {
		t.Fatalf("expected ErrBasketNotFound, got %v", err)
	}
}

func TestStartService(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "", newBasket(1, "Premium Wash", "Dry")))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionStart, ActorID: 7})
	basket := out.Order.Breakdown.Baskets[0]
	if basket.Services[0].Status != constants.ServiceStatusInProgress {
		t.Fatalf("expected first service in_progress, got %q", basket.Services[0].Status)
	}
	if basket.Status != constants.BasketStatusProcessing {
		t.Fatalf("expected basket processing, got %q", basket.Status)
	}
	if out.Audit == nil || out.Audit.Action != constants.AuditServiceStarted || out.Audit.ServiceName != "Premium Wash" {
		t.Fatalf("unexpected audit entry %+v", out.Audit)
	}

	// 已有 in_progress 时再次 start 作用于下一个 pending
	out2 := mustApply(t, out.Order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionStart, ActorID: 7})
	if out2.Order.Breakdown.Baskets[0].Services[1].Status != constants.ServiceStatusInProgress {
		t.Fatalf("second start should move the next pending service")
	}
}

func TestStartServiceNoPending(t *testing.T) {
	basket := newBasket(1, "Wash")
	basket.Services[0].Status = constants.ServiceStatusCompleted
	order := pickupDone(newTestOrder("123 Mabini St", "", basket))

	_, err := Apply(order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionStart, ActorID: 7}, testNow)
	if !errors.Is(err, ErrNoPendingServices) {
		t.Fatalf("expected ErrNoPendingServices, got %v", err)
	}
}

func TestStartServiceUnknownType(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "", newBasket(1, "Mystery Treatment")))
	before := snapshot(t, order)

	_, err := Apply(order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionStart, ActorID: 7}, testNow)
	if !errors.Is(err, ErrUnknownServiceType) {
		t.Fatalf("expected ErrUnknownServiceType, got %v", err)
	}
	if snapshot(t, order) != before {
		t.Fatalf("rejected command must not mutate the order")
	}
}

func TestCompleteServiceAutoAdvance(t *testing.T) {
	basket := newBasket(1, "Wash", "Iron", "Fold")
	basket.Services[0].Status = constants.ServiceStatusInProgress
	order := pickupDone(newTestOrder("123 Mabini St", "", basket))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7})
	services := out.Order.Breakdown.Baskets[0].Services
	if services[0].Status != constants.ServiceStatusCompleted {
		t.Fatalf("expected wash completed, got %q", services[0].Status)
	}
	// iron 的目录位置在 wash 之后、fold 之前，自动接续只启动它
	if services[1].Status != constants.ServiceStatusInProgress {
		t.Fatalf("expected iron auto-started, got %q", services[1].Status)
	}
	if services[2].Status != constants.ServiceStatusPending {
		t.Fatalf("expected fold still pending, got %q", services[2].Status)
	}
	if auto, _ := out.Audit.Details["auto_started"].(string); auto != "Iron" {
		t.Fatalf("expected auto_started Iron, got %v", out.Audit.Details["auto_started"])
	}
}

// 目录位置不晚于已完成工序的服务不参与自动接续
func TestCompleteServiceNoBackwardAdvance(t *testing.T) {
	basket := newBasket(1, "Iron", "Wash")
	basket.Services[0].Status = constants.ServiceStatusInProgress
	order := pickupDone(newTestOrder("123 Mabini St", "", basket))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7})
	services := out.Order.Breakdown.Baskets[0].Services
	if services[1].Status != constants.ServiceStatusPending {
		t.Fatalf("wash is earlier in the catalog than iron and must stay pending, got %q", services[1].Status)
	}
	if _, ok := out.Audit.Details["auto_started"]; ok {
		t.Fatalf("no service should have been auto-started")
	}
}

func TestCompleteServiceNoInProgress(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "", newBasket(1, "Wash")))

	_, err := Apply(order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7}, testNow)
	if !errors.Is(err, ErrNoInProgressService) {
		t.Fatalf("expected ErrNoInProgressService, got %v", err)
	}
}

// complete 两次：第二次没有 in_progress 服务，必须报错而不是幂等成功
func TestCompleteServiceTwice(t *testing.T) {
	basket := newBasket(1, "Fold")
	basket.Services[0].Status = constants.ServiceStatusInProgress
	order := pickupDone(newTestOrder("123 Mabini St", "456 Rizal Ave", basket))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7})
	if _, err := Apply(out.Order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7}, testNow); !errors.Is(err, ErrNoInProgressService) {
		t.Fatalf("expected ErrNoInProgressService on second complete, got %v", err)
	}
}

func TestSkipService(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "456 Rizal Ave", newBasket(1, "Wash", "Dry")))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionSkip, ActorID: 7})
	svc := out.Order.Breakdown.Baskets[0].Services[0]
	if svc.Status != constants.ServiceStatusSkipped {
		t.Fatalf("expected wash skipped, got %q", svc.Status)
	}
	if svc.StartedAt != nil || svc.CompletedAt != nil {
		t.Fatalf("skipped service must not record timestamps")
	}
	if out.Audit == nil || out.Audit.Action != constants.AuditServiceSkipped {
		t.Fatalf("expected service_skipped audit, got %+v", out.Audit)
	}
}

// 取件未完成时 skip 仍然允许
func TestSkipServiceBeforePickup(t *testing.T) {
	order := newTestOrder("123 Mabini St", "", newBasket(1, "Wash"))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionSkip, ActorID: 7})
	if out.Order.Breakdown.Baskets[0].Services[0].Status != constants.ServiceStatusSkipped {
		t.Fatalf("skip should be allowed before pickup completes")
	}
}

// 没有 pending 服务时 skip 是被接受的空转
func TestSkipServiceNoOp(t *testing.T) {
	basket := newBasket(1, "Wash")
	basket.Services[0].Status = constants.ServiceStatusInProgress
	order := pickupDone(newTestOrder("123 Mabini St", "", basket))
	before := snapshot(t, order)

	out, err := Apply(order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionSkip, ActorID: 7}, testNow)
	if err != nil {
		t.Fatalf("no-op skip must be accepted: %v", err)
	}
	if out.Changed || out.Audit != nil {
		t.Fatalf("no-op skip must not change anything, got changed=%v audit=%+v", out.Changed, out.Audit)
	}
	if snapshot(t, order) != before {
		t.Fatalf("input order must stay untouched")
	}
}

func TestBasketStatusDerivation(t *testing.T) {
	cases := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"all pending", []string{constants.ServiceStatusPending, constants.ServiceStatusPending}, constants.BasketStatusPending},
		{"one in progress", []string{constants.ServiceStatusCompleted, constants.ServiceStatusInProgress}, constants.BasketStatusProcessing},
		{"completed and skipped", []string{constants.ServiceStatusCompleted, constants.ServiceStatusSkipped}, constants.BasketStatusCompleted},
		{"all skipped", []string{constants.ServiceStatusSkipped, constants.ServiceStatusSkipped}, constants.BasketStatusCompleted},
		{"done and pending", []string{constants.ServiceStatusCompleted, constants.ServiceStatusPending}, constants.BasketStatusPending},
	}
	for _, tc := range cases {
		basket := models.Basket{BasketNumber: 1}
		for _, status := range tc.statuses {
			basket.Services = append(basket.Services, models.BasketService{ServiceName: "Wash", Status: status})
		}
		if got := deriveBasketStatus(basket); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

// 全部篮筐完结且有送回地址：订单进入 for_delivery
func TestCascadeToForDelivery(t *testing.T) {
	basket := newBasket(1, "Wash")
	basket.Services[0].Status = constants.ServiceStatusInProgress
	order := pickupDone(newTestOrder("123 Mabini St", "456 Rizal Ave", basket))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7})
	if out.Order.Status != constants.OrderStatusForDelivery {
		t.Fatalf("expected for_delivery, got %q", out.Order.Status)
	}
	if out.Order.CompletedAt != nil {
		t.Fatalf("order must not be completed while delivery is outstanding")
	}
}

// 全部篮筐完结且无送回地址：订单直接完成
func TestCascadeToCompleted(t *testing.T) {
	basket := newBasket(1, "Wash")
	basket.Services[0].Status = constants.ServiceStatusInProgress
	order := pickupDone(newTestOrder("123 Mabini St", "", basket))

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7})
	if out.Order.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %q", out.Order.Status)
	}
	if out.Order.CompletedAt == nil || !out.Order.CompletedAt.Equal(testNow) {
		t.Fatalf("expected completed_at %v, got %v", testNow, out.Order.CompletedAt)
	}
	if !out.JustCompleted {
		t.Fatalf("expected JustCompleted flag")
	}
	basketOut := out.Order.Breakdown.Baskets[0]
	if basketOut.CompletedAt == nil {
		t.Fatalf("expected basket completed_at to be set")
	}
}

// 完整走通：取件 → 服务 → 送回
func TestFullRunWithDelivery(t *testing.T) {
	order := newTestOrder("123 Mabini St", "456 Rizal Ave", newBasket(1, "Wash", "Dry"), newBasket(2, "Fold"))

	out := mustApply(t, order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: ActionStart, ActorID: 7})
	out = mustApply(t, out.Order, Command{Target: HandlingTarget{Stage: constants.HandlingTypePickup}, Action: ActionComplete, ActorID: 7})
	if out.Order.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected processing after pickup, got %q", out.Order.Status)
	}

	out = mustApply(t, out.Order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionStart, ActorID: 7})
	out = mustApply(t, out.Order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7})
	// dry 自动接续后完成
	out = mustApply(t, out.Order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionComplete, ActorID: 7})
	if out.Order.Breakdown.Baskets[0].Status != constants.BasketStatusCompleted {
		t.Fatalf("expected basket 1 completed, got %q", out.Order.Breakdown.Baskets[0].Status)
	}
	if out.Order.Status != constants.OrderStatusProcessing {
		t.Fatalf("basket 2 is outstanding, expected processing, got %q", out.Order.Status)
	}

	out = mustApply(t, out.Order, Command{Target: BasketTarget{BasketNumber: 2}, Action: ActionStart, ActorID: 8})
	out = mustApply(t, out.Order, Command{Target: BasketTarget{BasketNumber: 2}, Action: ActionComplete, ActorID: 8})
	if out.Order.Status != constants.OrderStatusForDelivery {
		t.Fatalf("expected for_delivery, got %q", out.Order.Status)
	}

	out = mustApply(t, out.Order, Command{Target: HandlingTarget{Stage: constants.HandlingTypeDelivery}, Action: ActionStart, ActorID: 7})
	if out.Order.Status != constants.OrderStatusForDelivery {
		t.Fatalf("expected for_delivery during delivery, got %q", out.Order.Status)
	}
	out = mustApply(t, out.Order, Command{Target: HandlingTarget{Stage: constants.HandlingTypeDelivery}, Action: ActionComplete, ActorID: 7})
	if out.Order.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %q", out.Order.Status)
	}
	if out.Order.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}

	// 每条被接受的指令都有一条审计
	if got := len(out.Order.Breakdown.AuditLog); got != 9 {
		t.Fatalf("expected 9 audit entries, got %d", got)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	order := pickupDone(newTestOrder("123 Mabini St", "", newBasket(1, "Wash", "Dry")))
	before := snapshot(t, order)

	out := mustApply(t, order, Command{Target: BasketTarget{BasketNumber: 1}, Action: ActionStart, ActorID: 7})
	if snapshot(t, order) != before {
		t.Fatalf("accepted command must not mutate the input order")
	}
	if out.Order == order {
		t.Fatalf("outcome must carry a copy")
	}
}
