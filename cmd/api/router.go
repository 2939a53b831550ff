package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hexalib-backend/internal/shared/middleware"
	"hexalib-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.Logger(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCategoryRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupSupplierRoutes(v1, c)
		setupDiscountRoutes(v1, c)
		setupStockRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupSaleRoutes(v1, c)
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"app":     c.Config.App.Name,
			"version": c.Config.App.Version,
			"time":    time.Now().UTC().Format(time.RFC3339),
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}
		status["database"] = "up"

		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status["cache"] = "down"
		} else {
			status["cache"] = "up"
		}

		ctx.JSON(http.StatusOK, status)
	}
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.UserHandler.Login)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.Me)

		admin := users.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", c.UserHandler.Create)
			admin.GET("", c.UserHandler.List)
			admin.POST("/:id/deactivate", c.UserHandler.Deactivate)
		}
	}
}

func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	categories := v1.Group("/categories")
	categories.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		categories.GET("", c.CategoryHandler.List)
		categories.GET("/:id", c.CategoryHandler.GetByID)

		admin := categories.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", c.CategoryHandler.Create)
			admin.PUT("/:id", c.CategoryHandler.Update)
			admin.POST("/:id/activate", c.CategoryHandler.Activate)
			admin.POST("/:id/deactivate", c.CategoryHandler.Deactivate)
			admin.DELETE("/:id", c.CategoryHandler.Delete)
		}
	}
}

func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	books.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		books.GET("", c.BookHandler.List)
		books.GET("/low-stock", c.BookHandler.ListLowStock)
		books.GET("/:id", c.BookHandler.GetByID)

		admin := books.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", c.BookHandler.Create)
			admin.PUT("/:id", c.BookHandler.Update)
			admin.DELETE("/:id", c.BookHandler.Delete)
		}
	}
}

func setupSupplierRoutes(v1 *gin.RouterGroup, c *container.Container) {
	suppliers := v1.Group("/suppliers")
	suppliers.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		suppliers.POST("", c.SupplierHandler.Create)
		suppliers.GET("", c.SupplierHandler.List)
		suppliers.GET("/:id", c.SupplierHandler.GetByID)
		suppliers.PUT("/:id", c.SupplierHandler.Update)
		suppliers.POST("/:id/activate", c.SupplierHandler.Activate)
		suppliers.POST("/:id/deactivate", c.SupplierHandler.Deactivate)
		suppliers.DELETE("/:id", c.SupplierHandler.Delete)
	}
}

func setupDiscountRoutes(v1 *gin.RouterGroup, c *container.Container) {
	discounts := v1.Group("/discounts")
	discounts.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		discounts.GET("", c.DiscountHandler.List)
		discounts.GET("/:id", c.DiscountHandler.GetByID)

		admin := discounts.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("", c.DiscountHandler.Create)
			admin.PUT("/:id", c.DiscountHandler.Update)
			admin.DELETE("/:id", c.DiscountHandler.Delete)
		}
	}
}

func setupStockRoutes(v1 *gin.RouterGroup, c *container.Container) {
	stock := v1.Group("/stock")
	stock.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		stock.GET("/movements", c.StockHandler.List)
		stock.GET("/movements/book/:id", c.StockHandler.History)

		admin := stock.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.POST("/movements", c.StockHandler.Adjust)
		}
	}
}

func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	orders := v1.Group("/orders")
	orders.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		orders.POST("", c.OrderHandler.Create)
		orders.GET("", c.OrderHandler.List)
		orders.GET("/:id", c.OrderHandler.GetByID)
		orders.PUT("/:id", c.OrderHandler.Update)
		orders.POST("/:id/cancel", c.OrderHandler.Cancel)
		orders.POST("/:id/receive", c.OrderHandler.Receive)
		orders.DELETE("/:id", c.OrderHandler.Delete)
	}
}

func setupSaleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	sales := v1.Group("/sales")
	sales.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		sales.POST("", c.SaleHandler.Create)
		sales.GET("", c.SaleHandler.List)
		sales.GET("/stats/me", c.SaleHandler.MyDayStats)
		sales.GET("/:id", c.SaleHandler.GetByID)
		sales.POST("/:id/cancel", c.SaleHandler.Cancel)

		admin := sales.Group("")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/stats", c.SaleHandler.DayStats)
		}
	}
}
