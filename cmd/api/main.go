package main

import (
	"net/http"
	"time"

	"github.com/GrabRush/grabrush-app/internal/handler"
	appmiddleware "github.com/GrabRush/grabrush-app/internal/middleware"
	"github.com/GrabRush/grabrush-app/pkg/config"
	"github.com/GrabRush/grabrush-app/pkg/database"
	"github.com/GrabRush/grabrush-app/pkg/jwtutil"
	"github.com/GrabRush/grabrush-app/pkg/logger"
	"github.com/GrabRush/grabrush-app/pkg/mailer"
	"github.com/GrabRush/grabrush-app/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	jwtutil.Initialize(&cfg.JWT)
	prometheus.InitMetrics(cfg)
	mailer.Init(cfg.Mail, cfg.Server.BaseURL)

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(appmiddleware.RequestIDMiddleware)
	e.Use(appmiddleware.MetricsMiddleware)

	e.GET("/health", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	auth := e.Group("/auth")
	auth.POST("/send-verification", handler.SendVerification)
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login, middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(90 * time.Second),
			Burst:     10,
			ExpiresIn: 15 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"success": false, "error": "Too many login attempts"})
		},
	}))

	vendor := e.Group("/api/vendor", appmiddleware.RequireVendor)
	vendor.POST("/products", handler.CreateProduct)
	vendor.GET("/products", handler.ListProducts)
	vendor.PATCH("/products/:id", handler.UpdateProduct)
	vendor.DELETE("/products/:id", handler.DeleteProduct)
	vendor.GET("/catalog", handler.ListCatalog)
	vendor.POST("/mystery-boxes", handler.CreateMysteryBox)
	vendor.GET("/mystery-boxes", handler.ListMysteryBoxes)
	vendor.POST("/scheduled-offers", handler.CreateScheduledOffers)
	vendor.GET("/scheduled-offers", handler.ListScheduledOffers)
	vendor.GET("/dashboard/metrics", handler.DashboardMetrics)
	vendor.GET("/orders", handler.ListOrders)
	vendor.PUT("/orders/:id/status", handler.UpdateOrderStatus)
	vendor.GET("/account/summary", handler.AccountSummary)

	shop := e.Group("/api/shop", appmiddleware.RequireCustomer)
	shop.GET("/catalog", handler.BrowseCatalog)
	shop.POST("/favorites", handler.AddFavorite)
	shop.GET("/favorites", handler.ListFavorites)
	shop.DELETE("/favorites/:productId", handler.RemoveFavorite)
	shop.POST("/cart", handler.AddCartItem)
	shop.GET("/cart", handler.ListCartItems)
	shop.DELETE("/cart/:id", handler.RemoveCartItem)
	shop.POST("/checkout", handler.Checkout)

	log.Info("Starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
