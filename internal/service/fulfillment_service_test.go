package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/washpoint-next/internal/config"
	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/fulfillment"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openFulfillmentTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:fulfillment_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	prev := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = prev })
	return db
}

func seedProgressOrder(t *testing.T, db *gorm.DB, pickupAddr, deliveryAddr string, serviceNames ...string) *models.Order {
	t.Helper()
	customer := models.Customer{Name: "Maria Santos", Phone: fmt.Sprintf("0917%d", time.Now().UnixNano()%1e9)}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer failed: %v", err)
	}

	basket := models.Basket{BasketNumber: 1, Status: constants.BasketStatusPending}
	for _, name := range serviceNames {
		serviceType, _, err := fulfillment.ResolveServiceType(models.BasketService{ServiceName: name})
		if err != nil {
			t.Fatalf("unresolvable service name in fixture: %s", name)
		}
		basket.Services = append(basket.Services, models.BasketService{
			ServiceName: name,
			ServiceType: serviceType,
			Status:      constants.ServiceStatusPending,
		})
	}

	order := models.Order{
		OrderNo:     fmt.Sprintf("WP%d", time.Now().UnixNano()),
		CustomerID:  customer.ID,
		Channel:     constants.OrderChannelCounter,
		Status:      constants.OrderStatusPending,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Handling: models.Handling{
			Pickup:   models.Stage{Address: pickupAddr, Status: constants.StageStatusPending},
			Delivery: models.Stage{Address: deliveryAddr, Status: constants.StageStatusPending},
		},
		Breakdown: models.Breakdown{Baskets: []models.Basket{basket}},
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return &order
}

func newProgressService(db *gorm.DB) *FulfillmentService {
	return NewFulfillmentService(repository.NewOrderRepository(db), nil, nil)
}

func intPtr(v int) *int { return &v }

func TestProgressTargetValidation(t *testing.T) {
	db := openFulfillmentTestDB(t, "target")
	order := seedProgressOrder(t, db, "12 Sampaguita St", "", "Basic Wash")
	svc := newProgressService(db)

	_, err := svc.Progress(ProgressInput{OrderID: order.ID, Action: constants.ProgressActionStart, ActorID: 1})
	if !errors.Is(err, ErrProgressTargetRequired) {
		t.Fatalf("no target should be rejected, got: %v", err)
	}

	_, err = svc.Progress(ProgressInput{
		OrderID: order.ID, BasketNumber: intPtr(1), Handling: constants.HandlingTypePickup,
		Action: constants.ProgressActionStart, ActorID: 1,
	})
	if !errors.Is(err, ErrProgressTargetAmbiguous) {
		t.Fatalf("double target should be rejected, got: %v", err)
	}

	_, err = svc.Progress(ProgressInput{OrderID: order.ID, Handling: "dropoff", Action: constants.ProgressActionStart, ActorID: 1})
	if !errors.Is(err, ErrProgressTargetRequired) {
		t.Fatalf("unknown handling stage should be rejected, got: %v", err)
	}
}

func TestProgressStartPickupPersists(t *testing.T) {
	db := openFulfillmentTestDB(t, "pickup")
	order := seedProgressOrder(t, db, "12 Sampaguita St", "", "Basic Wash")
	svc := newProgressService(db)

	result, err := svc.Progress(ProgressInput{
		OrderID: order.ID, Handling: constants.HandlingTypePickup,
		Action: constants.ProgressActionStart, ActorID: 7,
	})
	if err != nil {
		t.Fatalf("start pickup failed: %v", err)
	}
	if result.Status != constants.OrderStatusForPickup {
		t.Fatalf("status want for_pick-up got %s", result.Status)
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusForPickup {
		t.Fatalf("persisted status want for_pick-up got %s", stored.Status)
	}
	if stored.Handling.Pickup.Status != constants.StageStatusInProgress {
		t.Fatalf("pickup stage want in_progress got %s", stored.Handling.Pickup.Status)
	}
	if stored.Handling.Pickup.StartedBy == nil || *stored.Handling.Pickup.StartedBy != 7 {
		t.Fatalf("pickup started_by want 7 got %+v", stored.Handling.Pickup.StartedBy)
	}
	if len(stored.Breakdown.AuditLog) != 1 {
		t.Fatalf("audit log want 1 entry got %d", len(stored.Breakdown.AuditLog))
	}
	if stored.Breakdown.AuditLog[0].Action != constants.AuditHandlingStarted {
		t.Fatalf("audit action want handling_started got %s", stored.Breakdown.AuditLog[0].Action)
	}
}

func TestProgressRejectionLeavesOrderUntouched(t *testing.T) {
	db := openFulfillmentTestDB(t, "nowrite")
	order := seedProgressOrder(t, db, "12 Sampaguita St", "", "Basic Wash")
	svc := newProgressService(db)

	// 未派送地址的 start delivery 属于硬拒绝
	_, err := svc.Progress(ProgressInput{
		OrderID: order.ID, Handling: constants.HandlingTypeDelivery,
		Action: constants.ProgressActionStart, ActorID: 1,
	})
	if !errors.Is(err, fulfillment.ErrDeliveryRequiresAddress) {
		t.Fatalf("delivery without address should be rejected, got: %v", err)
	}
	if !IsProgressRejection(err) {
		t.Fatalf("expected a progress rejection classification")
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusPending {
		t.Fatalf("rejected command must not change status, got %s", stored.Status)
	}
	if len(stored.Breakdown.AuditLog) != 0 {
		t.Fatalf("rejected command must not append audit entries, got %d", len(stored.Breakdown.AuditLog))
	}
}

func TestProgressOrderNotFound(t *testing.T) {
	db := openFulfillmentTestDB(t, "missing")
	svc := newProgressService(db)

	_, err := svc.Progress(ProgressInput{
		OrderID: 9999, Handling: constants.HandlingTypePickup,
		Action: constants.ProgressActionStart, ActorID: 1,
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}

func TestProgressRejectsInactiveOrder(t *testing.T) {
	db := openFulfillmentTestDB(t, "inactive")
	order := seedProgressOrder(t, db, "12 Sampaguita St", "", "Basic Wash")
	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", constants.OrderStatusCancelled).Error; err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}
	svc := newProgressService(db)

	_, err := svc.Progress(ProgressInput{
		OrderID: order.ID, Handling: constants.HandlingTypePickup,
		Action: constants.ProgressActionStart, ActorID: 1,
	})
	if !errors.Is(err, ErrOrderNotActive) {
		t.Fatalf("cancelled order want ErrOrderNotActive got %v", err)
	}
}

func TestProgressSkipNoOpDoesNotPersist(t *testing.T) {
	db := openFulfillmentTestDB(t, "noop")
	order := seedProgressOrder(t, db, "", "", "Basic Wash", "Fold & Pack")
	svc := newProgressService(db)

	// 收件空地址自动跳过，篮筐可操作
	if _, err := svc.Progress(ProgressInput{
		OrderID: order.ID, Handling: constants.HandlingTypePickup,
		Action: constants.ProgressActionStart, ActorID: 1,
	}); err != nil {
		t.Fatalf("auto-skip pickup failed: %v", err)
	}
	// 洗衣进行中，跳过折叠后篮筐里不再有 pending 服务
	if _, err := svc.Progress(ProgressInput{
		OrderID: order.ID, BasketNumber: intPtr(1),
		Action: constants.ProgressActionStart, ActorID: 1,
	}); err != nil {
		t.Fatalf("start service failed: %v", err)
	}
	if _, err := svc.Progress(ProgressInput{
		OrderID: order.ID, BasketNumber: intPtr(1),
		Action: constants.ProgressActionSkip, ActorID: 1,
	}); err != nil {
		t.Fatalf("skip service failed: %v", err)
	}

	var before models.Order
	if err := db.First(&before, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	auditCount := len(before.Breakdown.AuditLog)

	// 没有 pending 服务时 skip 是静默空操作
	if _, err := svc.Progress(ProgressInput{
		OrderID: order.ID, BasketNumber: intPtr(1),
		Action: constants.ProgressActionSkip, ActorID: 1,
	}); err != nil {
		t.Fatalf("no-op skip should be accepted, got: %v", err)
	}

	var after models.Order
	if err := db.First(&after, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if len(after.Breakdown.AuditLog) != auditCount {
		t.Fatalf("no-op skip must not append audit entries: want %d got %d", auditCount, len(after.Breakdown.AuditLog))
	}
}

func TestProgressFullRunAccruesLoyalty(t *testing.T) {
	db := openFulfillmentTestDB(t, "loyalty")
	order := seedProgressOrder(t, db, "12 Sampaguita St", "12 Sampaguita St", "Basic Wash", "Fold & Pack")

	customerRepo := repository.NewCustomerRepository(db)
	loyalty := NewLoyaltyService(customerRepo, config.LoyaltyConfig{Enabled: true, PointsPerPeso: 10})
	svc := NewFulfillmentService(repository.NewOrderRepository(db), nil, loyalty)

	steps := []ProgressInput{
		{OrderID: order.ID, Handling: constants.HandlingTypePickup, Action: constants.ProgressActionStart, ActorID: 2},
		{OrderID: order.ID, Handling: constants.HandlingTypePickup, Action: constants.ProgressActionComplete, ActorID: 2},
		{OrderID: order.ID, BasketNumber: intPtr(1), Action: constants.ProgressActionStart, ActorID: 3},
		{OrderID: order.ID, BasketNumber: intPtr(1), Action: constants.ProgressActionComplete, ActorID: 3},
		// Fold & Pack 由自动推进接手，这里直接完成
		{OrderID: order.ID, BasketNumber: intPtr(1), Action: constants.ProgressActionComplete, ActorID: 3},
		{OrderID: order.ID, Handling: constants.HandlingTypeDelivery, Action: constants.ProgressActionStart, ActorID: 2},
		{OrderID: order.ID, Handling: constants.HandlingTypeDelivery, Action: constants.ProgressActionComplete, ActorID: 2},
	}
	for i, step := range steps {
		if _, err := svc.Progress(step); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	var stored models.Order
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if stored.Status != constants.OrderStatusCompleted {
		t.Fatalf("order status want completed got %s", stored.Status)
	}
	if stored.CompletedAt == nil {
		t.Fatalf("completed order must carry completed_at")
	}

	var customer models.Customer
	if err := db.First(&customer, stored.CustomerID).Error; err != nil {
		t.Fatalf("reload customer failed: %v", err)
	}
	// 100 披索、每 10 披索 1 分
	if customer.LoyaltyPoints != 10 {
		t.Fatalf("loyalty points want 10 got %d", customer.LoyaltyPoints)
	}
}
