package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/diabify/platform/internal/di"
	"github.com/diabify/platform/internal/middleware"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/pkg/config"
	"github.com/diabify/platform/pkg/database"
	"github.com/diabify/platform/pkg/kafka"
	"github.com/diabify/platform/pkg/logger"
	"github.com/diabify/platform/pkg/redis"
	"github.com/diabify/platform/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	logCfg := &logger.Config{
		Level:       logLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting platform server...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  10 * time.Second,
		MaxRetries:      3,
		RetryInterval:   2 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Initialize Redis
	redisCfg := &redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		MaxRetries:   3,
	}
	cache, err := redis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer cache.Close()
	appLog.Info("Redis connected")

	// Initialize Kafka producer when enabled
	var publisher service.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(&kafka.Config{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Kafka connection failed: %v", err))
		}
		defer producer.Close()
		publisher = service.NewKafkaPublisher(producer)
		appLog.Info(fmt.Sprintf("Kafka producer connected (brokers: %v)", cfg.Kafka.Brokers))
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config:         cfg,
		DB:             db,
		Redis:          cache,
		EventPublisher: publisher,
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	// Gated dashboard pages redirect to login when the admin session is
	// missing or invalid. API and asset paths pass through.
	router.Use(middleware.RouteGate(container.AdminService))

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// API routes
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", container.AuthHandler.Register)
			auth.POST("/verify-email", container.AuthHandler.VerifyEmail)
			auth.POST("/login", container.AuthHandler.Login)
			auth.POST("/logout", container.AuthHandler.Logout)
			auth.POST("/forgot-password", container.AuthHandler.ForgotPassword)
			auth.POST("/reset-password", container.AuthHandler.ResetPassword)

			protected := auth.Group("")
			protected.Use(middleware.UserAuth(container.AuthService))
			{
				protected.GET("/me", container.AuthHandler.Me)
				protected.PATCH("/me", container.AuthHandler.UpdateProfile)
			}
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/login", container.AdminHandler.Login)
			admin.POST("/verify-access", container.AdminHandler.VerifyAccess)
			admin.POST("/logout", container.AdminHandler.Logout)

			protected := admin.Group("")
			protected.Use(middleware.AdminAuth(container.AdminService))
			{
				protected.GET("/access-logs", container.AdminHandler.ListAccessLogs)
				protected.POST("/professionals", container.AppointmentHandler.CreateProfessional)
				protected.PATCH("/professionals/:id", container.AppointmentHandler.UpdateProfessional)
				protected.GET("/newsletter/subscribers", container.NewsletterHandler.List)
			}
		}

		v1.GET("/professionals", container.AppointmentHandler.ListProfessionals)

		appointments := v1.Group("/appointments")
		appointments.Use(middleware.UserAuth(container.AuthService))
		{
			appointments.POST("", container.AppointmentHandler.Create)
			appointments.GET("", container.AppointmentHandler.List)
			appointments.GET("/:id", container.AppointmentHandler.Get)
			appointments.POST("/:id/cancel", container.AppointmentHandler.Cancel)
		}

		newsletter := v1.Group("/newsletter")
		{
			newsletter.POST("/subscribe", container.NewsletterHandler.Subscribe)
			newsletter.POST("/unsubscribe", container.NewsletterHandler.Unsubscribe)
		}

		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/payments", container.WebhookHandler.HandlePaymentEvent)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Platform server listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
