package provider

import (
	"time"

	"github.com/tokri-next/internal/authz"
	"github.com/tokri-next/internal/cache"
	"github.com/tokri-next/internal/cartstore"
	"github.com/tokri-next/internal/config"
	"github.com/tokri-next/internal/logger"
	"github.com/tokri-next/internal/models"
	"github.com/tokri-next/internal/queue"
	"github.com/tokri-next/internal/repository"
	"github.com/tokri-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// 购物车/心愿单基础设施
	CartStorage cartstore.Storage
	CartBus     *cartstore.Bus
	CartBridge  *cartstore.Bridge
	CartManager *cartstore.Manager

	// Repositories
	AdminRepo       repository.AdminRepository
	CategoryRepo    repository.CategoryRepository
	ProductRepo     repository.ProductRepository
	ProductSKURepo  repository.ProductSKURepository
	CouponRepo      repository.CouponRepository
	CouponUsageRepo repository.CouponUsageRepository
	OrderRepo       repository.OrderRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	CaptchaService  *service.CaptchaService
	EmailService    *service.EmailService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	CouponService   *service.CouponService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
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

	// 1. 初始化购物车存储设施
	c.initCartStore()

	// 2. 初始化 Repositories
	c.initRepositories()

	// 3. 初始化 Services
	c.initServices()

	return c
}

// initCartStore 组装信封存储、通知总线与跨进程桥
// Redis 可用时用 Redis 存储并启用跨进程通知桥；否则回退到进程内存储。
func (c *Container) initCartStore() {
	c.CartBus = cartstore.NewBus(c.Config.CartStore.EventBufferSize)

	if cache.Enabled() {
		ttl := time.Duration(c.Config.CartStore.TTLHours) * time.Hour
		c.CartStorage = cartstore.NewRedisStorage(cache.Client(), cache.Prefix(), ttl)
		c.CartBridge = cartstore.NewBridge(cache.Client(), c.CartBus, cache.Prefix())
	} else {
		logger.Warnw("provider_cartstore_memory_fallback", "reason", "redis_disabled")
		c.CartStorage = cartstore.NewMemoryStorage()
	}

	c.CartManager = cartstore.NewManager(c.CartStorage, c.CartBus, c.CartBridge)
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductSKURepo = repository.NewProductSKURepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.CouponUsageRepo = repository.NewCouponUsageRepository(db)
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

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.ProductService = service.NewProductService(c.ProductRepo, c.ProductSKURepo, c.CategoryRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.ProductRepo)
	c.CouponService = service.NewCouponService(c.CouponRepo, c.CouponUsageRepo)
	c.CartService = service.NewCartService(c.CartManager, c.ProductService)
	c.CheckoutService = service.NewCheckoutService(c.Config.Checkout, c.CouponService, c.CartService)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.ProductRepo,
		c.CouponRepo,
		c.CouponUsageRepo,
		c.ProductService,
		c.CheckoutService,
		c.CartService,
		c.CaptchaService,
		c.QueueClient,
	)
}
