package router

import (
	"fmt"
	"strings"

	"github.com/tokri-next/internal/cache"
	"github.com/tokri-next/internal/config"
	adminhandlers "github.com/tokri-next/internal/http/handlers/admin"
	publichandlers "github.com/tokri-next/internal/http/handlers/public"
	"github.com/tokri-next/internal/logger"
	"github.com/tokri-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tk"
	}
	redisClient := cache.Client()
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "登录尝试过于频繁，请 %d 秒后再试",
	}
	orderSubmitRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:order_submit", redisPrefix),
		WindowSeconds: cfg.Security.OrderRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.OrderRateLimit.MaxAttempts,
		Message:       "下单过于频繁，请 %d 秒后再试",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 购物车（凭 X-Cart-Token 识别，无需登录）
		cart := apiV1.Group("/cart")
		{
			cart.POST("/token", publicHandler.MintCartToken)
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.PUT("/items/quantity", publicHandler.UpdateCartQuantity)
			cart.POST("/items/remove", publicHandler.RemoveCartItem)
			cart.DELETE("", publicHandler.ClearCart)
			cart.GET("/events", publicHandler.SubscribeCartEvents)
		}

		// 心愿单
		wishlist := apiV1.Group("/wishlist")
		{
			wishlist.GET("", publicHandler.GetWishlist)
			wishlist.POST("/items", publicHandler.ToggleWishlistItem)
			wishlist.POST("/items/remove", publicHandler.RemoveWishlistItem)
			wishlist.DELETE("", publicHandler.ClearWishlist)
		}

		// 结算
		checkout := apiV1.Group("/checkout")
		{
			checkout.GET("/quote", publicHandler.GetQuote)
			checkout.POST("/coupon", publicHandler.ApplyCoupon)
			checkout.DELETE("/coupon", publicHandler.RemoveCoupon)
		}

		// 订单
		apiV1.POST("/orders", RateLimitMiddleware(redisClient, orderSubmitRule, KeyByIP), publicHandler.SubmitOrder)
		apiV1.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByOrderNo)

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				// 商品管理
				authorized.GET("/products", adminHandler.GetAdminProducts)
				authorized.GET("/products/:id", adminHandler.GetAdminProduct)
				authorized.POST("/products", adminHandler.CreateProduct)
				authorized.PUT("/products/:id", adminHandler.UpdateProduct)
				authorized.DELETE("/products/:id", adminHandler.DeleteProduct)

				// 分类管理
				authorized.GET("/categories", adminHandler.GetAdminCategories)
				authorized.POST("/categories", adminHandler.CreateCategory)
				authorized.PUT("/categories/:id", adminHandler.UpdateCategory)
				authorized.DELETE("/categories/:id", adminHandler.DeleteCategory)

				// 优惠券管理
				authorized.GET("/coupons", adminHandler.GetAdminCoupons)
				authorized.GET("/coupons/:id", adminHandler.GetAdminCoupon)
				authorized.POST("/coupons", adminHandler.CreateCoupon)
				authorized.PUT("/coupons/:id", adminHandler.UpdateCoupon)
				authorized.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

				// 订单管理
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.PATCH("/orders/:id/status", adminHandler.AdminUpdateOrderStatus)

				// 账号
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
