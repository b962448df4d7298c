package router

import (
	"fmt"
	"strings"

	"github.com/washpoint-next/internal/cache"
	"github.com/washpoint-next/internal/config"
	portalhandlers "github.com/washpoint-next/internal/http/handlers/portal"
	staffhandlers "github.com/washpoint-next/internal/http/handlers/staff"
	"github.com/washpoint-next/internal/logger"
	"github.com/washpoint-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按门户/员工端分组）
	portalHandler := portalhandlers.New(c)
	staffHandler := staffhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "wp"
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many login attempts",
	}
	placeOrderRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:portal_order", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many orders placed",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 客户门户（无需鉴权）
		portal := apiV1.Group("/portal")
		{
			portal.GET("/offerings", portalHandler.ListOfferings)
			portal.GET("/captcha/image", portalHandler.GetImageCaptcha)
			portal.POST("/orders", RateLimitMiddleware(redisClient, placeOrderRule, KeyByIPAndJSONField("phone")), portalHandler.PlaceOrder)
			portal.GET("/orders/:order_no/track", portalHandler.TrackOrder)
		}

		// 员工端接口
		staff := apiV1.Group("/staff")
		{
			// 登录接口（无需鉴权）
			staff.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), staffHandler.Login)

			// 需要鉴权的接口
			authorized := staff.Use(StaffJWTAuthMiddleware(cfg.JWT.SecretKey, c.StaffRepo), StaffRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", staffHandler.Me)
				authorized.PUT("/profile/password", staffHandler.ChangePassword)

				// 订单与流转
				authorized.POST("/orders", staffHandler.CreateOrder)
				authorized.GET("/orders", staffHandler.ListOrders)
				authorized.GET("/orders/:id", staffHandler.GetOrder)
				authorized.POST("/orders/:id/progress", staffHandler.ProgressOrder)
				authorized.POST("/orders/:id/cancel", staffHandler.CancelOrder)

				// 顾客档案
				authorized.POST("/customers", staffHandler.CreateCustomer)
				authorized.GET("/customers", staffHandler.ListCustomers)
				authorized.GET("/customers/:id", staffHandler.GetCustomer)
				authorized.PUT("/customers/:id", staffHandler.UpdateCustomer)

				// 价目管理
				authorized.GET("/offerings", staffHandler.ListOfferings)
				authorized.POST("/offerings", staffHandler.CreateOffering)
				authorized.PUT("/offerings/:id", staffHandler.UpdateOffering)
				authorized.DELETE("/offerings/:id", staffHandler.DeleteOffering)

				// 耗材库存
				authorized.GET("/inventory/items", staffHandler.ListInventoryItems)
				authorized.POST("/inventory/items", staffHandler.CreateInventoryItem)
				authorized.PUT("/inventory/items/:id", staffHandler.UpdateInventoryItem)
				authorized.POST("/inventory/items/:id/adjust", staffHandler.AdjustInventory)
				authorized.GET("/inventory/low-stock", staffHandler.ListLowStock)
				authorized.GET("/inventory/movements", staffHandler.ListInventoryMovements)

				// 员工账号管理（经理）
				authorized.GET("/accounts", staffHandler.ListStaff)
				authorized.POST("/accounts", staffHandler.CreateStaff)
				authorized.PUT("/accounts/:id", staffHandler.UpdateStaff)
				authorized.PUT("/accounts/:id/password", staffHandler.ResetStaffPassword)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
