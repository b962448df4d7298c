package provider

import (
	"github.com/washpoint-next/internal/authz"
	"github.com/washpoint-next/internal/cache"
	"github.com/washpoint-next/internal/config"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/queue"
	"github.com/washpoint-next/internal/repository"
	"github.com/washpoint-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	StaffRepo     repository.StaffRepository
	CustomerRepo  repository.CustomerRepository
	OfferingRepo  repository.OfferingRepository
	InventoryRepo repository.InventoryRepository
	OrderRepo     repository.OrderRepository

	// Services
	AuthzService       *authz.Service
	AuthService        *service.AuthService
	StaffService       *service.StaffService
	CustomerService    *service.CustomerService
	OfferingService    *service.OfferingService
	InventoryService   *service.InventoryService
	OrderService       *service.OrderService
	LoyaltyService     *service.LoyaltyService
	FulfillmentService *service.FulfillmentService
	EmailService       *service.EmailService
	CaptchaService     *service.CaptchaService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.StaffRepo = repository.NewStaffRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
	c.OfferingRepo = repository.NewOfferingRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.StaffRepo)
	c.StaffService = service.NewStaffService(c.StaffRepo, c.AuthService)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
	c.OfferingService = service.NewOfferingService(c.OfferingRepo, c.InventoryRepo)
	c.InventoryService = service.NewInventoryService(c.InventoryRepo)
	c.LoyaltyService = service.NewLoyaltyService(c.CustomerRepo, c.Config.Loyalty)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CustomerRepo, c.OfferingRepo, c.InventoryRepo, c.QueueClient, c.Config.Order.NumberPrefix)
	c.FulfillmentService = service.NewFulfillmentService(c.OrderRepo, c.QueueClient, c.LoyaltyService)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
}

// Close 释放容器资源
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
}
