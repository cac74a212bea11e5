package main

import (
	"log"
	"net/http"
	"os"

	_ "mechhub/docs" // swagger docs

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"mechhub/internal/auth"
	"mechhub/internal/cache"
	"mechhub/internal/config"
	"mechhub/internal/db"
	"mechhub/internal/handler"
	"mechhub/internal/model"
	"mechhub/internal/repository"
	"mechhub/internal/router"
	"mechhub/internal/service"
	"mechhub/internal/ws"
)

// @title MechHub API
// @version 1.0
// @description Mechanic booking platform with lifecycle management, live updates over WebSocket, and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// .env is optional, environment wins
	_ = godotenv.Load()

	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Review{},
			&model.Notification{},
			&model.Booking{},
			&model.MechanicProfile{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.MechanicProfile{},
		&model.Booking{},
		&model.Notification{},
		&model.Review{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	mechanicRepo := repository.NewMechanicRepository(gormDB)
	bookingRepo := repository.NewBookingRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize the push channel hub
	hub := ws.NewHub()
	go hub.Run()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	bookingService := service.NewBookingService(txManager, bookingRepo, mechanicRepo, hub)
	mechanicService := service.NewMechanicService(userRepo, mechanicRepo, cacheClient)
	notificationService := service.NewNotificationService(notificationRepo)
	adminService := service.NewAdminService(txManager, userRepo, mechanicRepo, bookingRepo, cacheClient, hub)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(bookingService, mechanicService)
	mechanicHandler := handler.NewMechanicHandler(bookingService, mechanicService)
	adminHandler := handler.NewAdminHandler(adminService, bookingService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	wsHandler := ws.NewHandler(hub, jwtService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		customerHandler,
		mechanicHandler,
		adminHandler,
		notificationHandler,
		wsHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
