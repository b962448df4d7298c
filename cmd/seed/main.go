package main

import (
	"github.com/washpoint-next/internal/config"
	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 耗材
	items := []models.InventoryItem{
		{Name: "Detergent Sachet", Unit: "sachet", Quantity: 500, LowMark: 50},
		{Name: "Fabric Conditioner", Unit: "sachet", Quantity: 300, LowMark: 30},
		{Name: "Dryer Sheet", Unit: "sheet", Quantity: 400, LowMark: 40},
		{Name: "Garment Bag", Unit: "piece", Quantity: 200, LowMark: 20},
	}
	for _, item := range items {
		var existing models.InventoryItem
		if err := models.DB.Where("name = ?", item.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&item).Error; err != nil {
				stdLog.Printf("Failed to create inventory item %s: %v", item.Name, err)
			} else {
				stdLog.Printf("Created inventory item: %s", item.Name)
			}
		} else {
			stdLog.Printf("Inventory item already exists: %s", item.Name)
		}
	}

	itemIDs := map[string]uint{}
	var itemList []models.InventoryItem
	if err := models.DB.Find(&itemList).Error; err != nil {
		stdLog.Printf("Failed to load inventory items: %v", err)
	}
	for _, item := range itemList {
		itemIDs[item.Name] = item.ID
	}
	detergentID := itemIDs["Detergent Sachet"]
	conditionerID := itemIDs["Fabric Conditioner"]
	dryerSheetID := itemIDs["Dryer Sheet"]
	garmentBagID := itemIDs["Garment Bag"]

	// 价目表（覆盖全部五道工序）
	offerings := []models.Offering{
		{
			Name:            "Basic Wash",
			ServiceType:     constants.ServiceTypeWash,
			Price:           models.NewMoneyFromDecimal(decimal.NewFromFloat(65)),
			Description:     "Machine wash with standard detergent, per basket.",
			Active:          true,
			InventoryItemID: &detergentID,
			UnitsPerBasket:  1,
		},
		{
			Name:            "Premium Wash",
			ServiceType:     constants.ServiceTypeWash,
			Price:           models.NewMoneyFromDecimal(decimal.NewFromFloat(95)),
			Description:     "Machine wash with detergent and fabric conditioner.",
			Active:          true,
			InventoryItemID: &conditionerID,
			UnitsPerBasket:  1,
		},
		{
			Name:        "Spin Cycle",
			ServiceType: constants.ServiceTypeSpin,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(25)),
			Description: "Extra spin to cut drying time.",
			Active:      true,
		},
		{
			Name:            "Tumble Dry",
			ServiceType:     constants.ServiceTypeDry,
			Price:           models.NewMoneyFromDecimal(decimal.NewFromFloat(55)),
			Description:     "Full machine dry with dryer sheet.",
			Active:          true,
			InventoryItemID: &dryerSheetID,
			UnitsPerBasket:  1,
		},
		{
			Name:        "Hand Iron",
			ServiceType: constants.ServiceTypeIron,
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(80)),
			Description: "Pressing per basket, delicate fabrics included.",
			Active:      true,
		},
		{
			Name:            "Fold & Pack",
			ServiceType:     constants.ServiceTypeFold,
			Price:           models.NewMoneyFromDecimal(decimal.NewFromFloat(30)),
			Description:     "Folded and packed in a garment bag.",
			Active:          true,
			InventoryItemID: &garmentBagID,
			UnitsPerBasket:  1,
		},
	}
	for _, offering := range offerings {
		var existing models.Offering
		if err := models.DB.Where("name = ?", offering.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&offering).Error; err != nil {
				stdLog.Printf("Failed to create offering %s: %v", offering.Name, err)
			} else {
				stdLog.Printf("Created offering: %s", offering.Name)
			}
		} else {
			stdLog.Printf("Offering already exists: %s", offering.Name)
		}
	}

	// 员工账号
	seedStaff(stdLog.Printf, "manager", "Shop Manager", "manager123", constants.StaffRoleManager)
	seedStaff(stdLog.Printf, "attendant", "Counter Attendant", "attendant123", constants.StaffRoleAttendant)

	// 示例顾客
	customers := []models.Customer{
		{
			Name:            "Maria Santos",
			Phone:           "09171234567",
			Email:           "maria.santos@example.com",
			PickupAddress:   "12 Sampaguita St, Quezon City",
			DeliveryAddress: "12 Sampaguita St, Quezon City",
		},
		{
			Name:  "Jose Ramirez",
			Phone: "09189876543",
		},
	}
	for _, customer := range customers {
		var existing models.Customer
		if err := models.DB.Where("phone = ?", customer.Phone).First(&existing).Error; err != nil {
			if err := models.DB.Create(&customer).Error; err != nil {
				stdLog.Printf("Failed to create customer %s: %v", customer.Name, err)
			} else {
				stdLog.Printf("Created customer: %s", customer.Name)
			}
		} else {
			stdLog.Printf("Customer already exists: %s", customer.Name)
		}
	}

	stdLog.Printf("Seed finished.")
}

func seedStaff(printf func(string, ...interface{}), username, displayName, password, role string) {
	var existing models.Staff
	if err := models.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		printf("Staff already exists: %s", username)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		printf("Failed to hash password for %s: %v", username, err)
		return
	}
	staff := models.Staff{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := models.DB.Create(&staff).Error; err != nil {
		printf("Failed to create staff %s: %v", username, err)
		return
	}
	printf("Created staff: %s (%s)", username, role)
}
