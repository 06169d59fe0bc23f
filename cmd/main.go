package main

import (
	"context"
	"log"

	"dinepos/internal/caching"
	"dinepos/internal/config"
	"dinepos/internal/handlers"
	"dinepos/internal/jobs"
	"dinepos/internal/middleware"
	"dinepos/internal/models"
	"dinepos/internal/repositories"
	"dinepos/internal/services"
	"dinepos/pkg/database"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	pool, err := database.NewPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache := caching.NewRedisCacheService(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	media, err := services.NewMinioMediaService(cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := media.EnsureBucketExists(context.Background()); err != nil {
		log.Printf("WARN: could not ensure image bucket exists: %v", err)
	}

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	userRepo := repositories.NewUserRepo(pool)
	categoryRepo := repositories.NewMenuCategoryRepo(pool)
	menuItemRepo := repositories.NewMenuItemRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)

	// Services
	authService := services.NewAuthService(pool, userRepo, tenantRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.TrialDays)
	subscriptionService := services.NewSubscriptionService(tenantRepo, cache)
	menuService := services.NewMenuService(categoryRepo, menuItemRepo, media, cache)
	orderService := services.NewOrderService(pool, orderRepo, menuItemRepo, tenantRepo, paymentRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	menuHandlers := handlers.NewMenuHandlers(menuService)
	orderHandlers := handlers.NewOrderHandlers(orderService)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background jobs
	trialExpiry, err := jobs.NewTrialExpiryScheduler(tenantRepo, cache)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := trialExpiry.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer func() {
		if err := trialExpiry.Stop(); err != nil {
			log.Printf("Scheduler shutdown error: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	// Public routes
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/ready", healthHandlers.ReadinessCheck)
	e.POST("/v1/auth/signup", authHandlers.Signup)
	e.POST("/v1/auth/login", authHandlers.Login)

	// Authenticated routes
	jwtConfig := echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(middleware.AuthClaims)
		},
	}
	v1 := e.Group("/v1", echojwt.WithConfig(jwtConfig), middleware.Identity())

	// Tenant-scoped routes behind the subscription gate
	gated := v1.Group("", middleware.Subscription(subscriptionService))

	gated.POST("/users", authHandlers.CreateStaff, middleware.RequireRoles(models.RoleOwner))
	v1.GET("/users/me", authHandlers.Me)

	gated.GET("/menu/categories", menuHandlers.ListCategories)
	gated.POST("/menu/categories", menuHandlers.CreateCategory, middleware.RequireRoles(models.RoleOwner))
	gated.GET("/menu/items", menuHandlers.ListItems)
	gated.POST("/menu/items", menuHandlers.CreateItem, middleware.RequireRoles(models.RoleOwner))
	gated.PUT("/menu/items/:id/status", menuHandlers.SetItemActive, middleware.RequireRoles(models.RoleOwner))
	gated.PUT("/menu/items/:id/image", menuHandlers.SetItemImage, middleware.RequireRoles(models.RoleOwner))
	gated.DELETE("/menu/items/:id/image", menuHandlers.RemoveItemImage, middleware.RequireRoles(models.RoleOwner))

	gated.POST("/orders", orderHandlers.CreateOrder)
	gated.GET("/orders/:id", orderHandlers.GetOrder)
	gated.POST("/orders/:id/items", orderHandlers.AddItem)
	gated.PATCH("/orders/:id/items/:itemId", orderHandlers.UpdateItemQuantity)
	gated.DELETE("/orders/:id/items/:itemId", orderHandlers.RemoveItem)
	gated.POST("/orders/:id/payments", orderHandlers.Pay)

	log.Fatal(e.Start(":" + cfg.Port))
}
