package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	alertingapp "github.com/stayops/backend/internal/application/alerting"
	availabilityapp "github.com/stayops/backend/internal/application/availability"
	calendarapp "github.com/stayops/backend/internal/application/calendar"
	unitapp "github.com/stayops/backend/internal/application/unit"
	"github.com/stayops/backend/internal/infrastructure/cache"
	"github.com/stayops/backend/internal/infrastructure/config"
	"github.com/stayops/backend/internal/infrastructure/event"
	"github.com/stayops/backend/internal/infrastructure/logger"
	"github.com/stayops/backend/internal/infrastructure/persistence"
	"github.com/stayops/backend/internal/infrastructure/telemetry"
	"github.com/stayops/backend/internal/interfaces/http/handler"
	"github.com/stayops/backend/internal/interfaces/http/middleware"
	"github.com/stayops/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting availability engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories
	availabilityRepo := persistence.NewGormResourceAvailabilityRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	slotRepo := persistence.NewGormCapacitySlotRepository(db.DB)
	unitRepo := persistence.NewGormUnitStatusRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	txScope := persistence.NewGormCalendarTransactionScope(db.DB)

	// Application services
	availabilityService := availabilityapp.NewAvailabilityService(availabilityRepo, movementRepo)
	availabilityService.SetEventPublisher(eventBus)
	availabilityService.SetMaxRetries(cfg.Contention.MaxRetries)

	calendarService := calendarapp.NewCalendarService(slotRepo, unitRepo, txScope)
	calendarService.SetEventPublisher(eventBus)
	calendarService.SetMaxRetries(cfg.Contention.MaxRetries)
	calendarService.SetDefaultHorizon(cfg.Calendar.HorizonDays)

	unitService := unitapp.NewUnitService(unitRepo)
	unitService.SetEventPublisher(eventBus)

	alertService := alertingapp.NewAlertService(alertRepo)

	// Alert dispatcher reacts to threshold and capacity events
	dispatcher := alertingapp.NewDispatcher(log, alertRepo)
	if cfg.Alerting.NotificationsEnabled {
		dispatcher = dispatcher.WithNotifier(alertingapp.NewLoggingNotifier(log))
	}
	var dedupStore alertingapp.DedupStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisDedupStore(cache.RedisConfig{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			_ = redisStore.Close()
		}()
		dedupStore = redisStore
	} else {
		memStore := cache.NewInMemoryDedupStore()
		defer memStore.Close()
		dedupStore = memStore
	}
	dispatcher = dispatcher.WithDedupStore(dedupStore, cfg.Alerting.DedupInterval)
	eventBus.Subscribe(dispatcher)

	// Business metrics observe the same committed events
	if cfg.Telemetry.Enabled {
		metrics, err := telemetry.NewReservationMetrics(otel.Meter(cfg.Telemetry.ServiceName))
		if err != nil {
			log.Fatal("Failed to initialize metrics", zap.Error(err))
		}
		eventBus.Subscribe(metrics)
	}

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.TenantWithConfig(middleware.TenantConfig{
			Required:  cfg.App.Env == "production",
			SkipPaths: []string{"/health"},
			Logger:    log,
		}),
	)

	router.NewRouter(engine).
		Register(handler.NewAvailabilityHandler(availabilityService)).
		Register(handler.NewCalendarHandler(calendarService)).
		Register(handler.NewUnitHandler(unitService)).
		Register(handler.NewAlertHandler(alertService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}

	log.Info("Server stopped")
}
