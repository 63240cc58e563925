package provider

import (
	"io"

	"github.com/vestra-shop/internal/authz"
	"github.com/vestra-shop/internal/cache"
	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/constants"
	"github.com/vestra-shop/internal/events"
	"github.com/vestra-shop/internal/logger"
	"github.com/vestra-shop/internal/models"
	"github.com/vestra-shop/internal/queue"
	"github.com/vestra-shop/internal/repository"
	"github.com/vestra-shop/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client
	Publisher   events.Publisher

	publisherCloser io.Closer

	// Repositories
	UserRepo         repository.UserRepository
	ProductRepo      repository.ProductRepository
	CartRepo         repository.CartRepository
	OrderRepo        repository.OrderRepository
	DiscountCodeRepo repository.DiscountCodeRepository
	BannerRepo       repository.BannerRepository
	NotificationRepo repository.NotificationRepository
	DashboardRepo    repository.DashboardRepository

	// Services
	AuthzService         *authz.Service
	TokenService         *service.TokenService
	UserService          *service.UserService
	EmailService         *service.EmailService
	PasswordResetService *service.PasswordResetService
	ProductService       *service.ProductService
	CartService          *service.CartService
	OrderService         *service.OrderService
	DiscountCodeService  *service.DiscountCodeService
	BannerService        *service.BannerService
	NotificationService  *service.NotificationService
	DashboardService     *service.DashboardService
}

// NewContainer 初始化容器（依赖 models.DB 已初始化）
func NewContainer(cfg *config.Config) *Container {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
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
		DB:          db,
		QueueClient: queueClient,
	}

	c.initPublisher()
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initPublisher() {
	publisher, closer, err := events.New(c.Config.Events, c.QueueClient)
	if err != nil {
		logger.Errorw("provider_init_event_publisher_failed", "driver", c.Config.Events.Driver, "error", err)
		publisher, closer, _ = events.New(config.EventsConfig{Driver: constants.EventDriverNoop}, nil)
	}
	c.Publisher = publisher
	c.publisherCloser = closer
}

func (c *Container) initRepositories() {
	db := c.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.DiscountCodeRepo = repository.NewDiscountCodeRepository(db)
	c.BannerRepo = repository.NewBannerRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.TokenService = service.NewTokenService(c.Config.JWT)
	c.UserService = service.NewUserService(c.UserRepo)
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.PasswordResetService = service.NewPasswordResetService(cache.NewOTPStore(), c.UserRepo, c.EmailService, c.TokenService, c.Config.OTP)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo)
	c.DiscountCodeService = service.NewDiscountCodeService(c.DiscountCodeRepo)
	c.OrderService = service.NewOrderService(c.DB, c.OrderRepo, c.ProductRepo, c.CartRepo, c.DiscountCodeRepo, c.Publisher, service.OrderOptionsFromConfig(c.Config.Order))
	c.BannerService = service.NewBannerService(c.BannerRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo)
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.publisherCloser != nil {
		if err := c.publisherCloser.Close(); err != nil {
			logger.Warnw("provider_close_publisher_failed", "error", err)
		}
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
