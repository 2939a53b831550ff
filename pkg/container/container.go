package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"hexalib-backend/internal/config"
	infraCache "hexalib-backend/internal/infrastructure/cache"
	"hexalib-backend/internal/infrastructure/database"
	"hexalib-backend/pkg/cache"
	"hexalib-backend/pkg/jwt"

	bookHandler "hexalib-backend/internal/domains/book/handler"
	bookRepo "hexalib-backend/internal/domains/book/repository"
	bookService "hexalib-backend/internal/domains/book/service"
	categoryHandler "hexalib-backend/internal/domains/category/handler"
	categoryRepo "hexalib-backend/internal/domains/category/repository"
	categoryService "hexalib-backend/internal/domains/category/service"
	discountHandler "hexalib-backend/internal/domains/discount/handler"
	discountRepo "hexalib-backend/internal/domains/discount/repository"
	discountService "hexalib-backend/internal/domains/discount/service"
	orderHandler "hexalib-backend/internal/domains/order/handler"
	orderRepo "hexalib-backend/internal/domains/order/repository"
	orderService "hexalib-backend/internal/domains/order/service"
	saleHandler "hexalib-backend/internal/domains/sale/handler"
	saleRepo "hexalib-backend/internal/domains/sale/repository"
	saleService "hexalib-backend/internal/domains/sale/service"
	stockHandler "hexalib-backend/internal/domains/stock/handler"
	stockRepo "hexalib-backend/internal/domains/stock/repository"
	stockService "hexalib-backend/internal/domains/stock/service"
	supplierHandler "hexalib-backend/internal/domains/supplier/handler"
	supplierRepo "hexalib-backend/internal/domains/supplier/repository"
	supplierService "hexalib-backend/internal/domains/supplier/service"
	userHandler "hexalib-backend/internal/domains/user/handler"
	userRepo "hexalib-backend/internal/domains/user/repository"
	userService "hexalib-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in layer order: config, infrastructure,
// repositories, services, handlers.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo     userRepo.Repository
	CategoryRepo categoryRepo.Repository
	BookRepo     bookRepo.Repository
	SupplierRepo supplierRepo.Repository
	DiscountRepo discountRepo.Repository
	StockRepo    stockRepo.Repository
	OrderRepo    orderRepo.Repository
	SaleRepo     saleRepo.Repository

	UserService     userService.Service
	CategoryService categoryService.Service
	BookService     bookService.Service
	SupplierService supplierService.Service
	DiscountService discountService.Service
	StockService    stockService.Service
	OrderService    orderService.Service
	SaleService     saleService.Service

	UserHandler     *userHandler.UserHandler
	CategoryHandler *categoryHandler.CategoryHandler
	BookHandler     *bookHandler.BookHandler
	SupplierHandler *supplierHandler.SupplierHandler
	DiscountHandler *discountHandler.DiscountHandler
	StockHandler    *stockHandler.StockHandler
	OrderHandler    *orderHandler.OrderHandler
	SaleHandler     *saleHandler.SaleHandler
}

// NewContainer builds the whole dependency graph. Order matters: a wrong
// order panics on a nil dependency.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[CONTAINER] Config loaded (environment: %s)", cfg.App.Environment)

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("[CONTAINER] Database connected")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// The cache is an optimization. A dead Redis degrades reads but
			// must not stop the service.
			log.Printf("[CONTAINER] Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("[CONTAINER] Redis connected")
		}
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("[CONTAINER] Initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool, c.Cache)
	c.SupplierRepo = supplierRepo.NewPostgresRepository(pool)
	c.DiscountRepo = discountRepo.NewPostgresRepository(pool)
	c.StockRepo = stockRepo.NewPostgresRepository(pool, c.Cache)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.SaleRepo = saleRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.CategoryRepo)
	c.SupplierService = supplierService.NewSupplierService(c.SupplierRepo)
	c.DiscountService = discountService.NewDiscountService(c.DiscountRepo)
	c.StockService = stockService.NewStockService(c.StockRepo)
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.SupplierRepo, c.BookRepo, c.StockRepo)
	c.SaleService = saleService.NewSaleService(c.SaleRepo, c.BookRepo, c.StockRepo, c.DiscountService)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.SupplierHandler = supplierHandler.NewSupplierHandler(c.SupplierService)
	c.DiscountHandler = discountHandler.NewDiscountHandler(c.DiscountService)
	c.StockHandler = stockHandler.NewStockHandler(c.StockService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.SaleHandler = saleHandler.NewSaleHandler(c.SaleService)
}

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("[CONTAINER] Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("[CONTAINER] Failed to close Redis: %v", err)
			} else {
				log.Println("[CONTAINER] Redis connections closed")
			}
		}
	}
}
