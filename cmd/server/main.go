package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/config"
	"github.com/JoyalGJ/PG-Management/internal/database"
	"github.com/JoyalGJ/PG-Management/internal/handler"
	"github.com/JoyalGJ/PG-Management/internal/ledger"
	"github.com/JoyalGJ/PG-Management/internal/logger"
	"github.com/JoyalGJ/PG-Management/internal/queue"
	"github.com/JoyalGJ/PG-Management/internal/repository"
	"github.com/JoyalGJ/PG-Management/internal/router"
	"github.com/JoyalGJ/PG-Management/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg, err := config.Load()
	if err != nil {
		logger.Must("info", "json", "pg-api").Fatal("config", zap.Error(err))
	}
	log := logger.Must(cfg.LogLevel, cfg.LogFormat, "pg-api")
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DBOptions())
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal("schema migration failed", zap.Error(err))
		}
		log.Info("schema applied")
	}

	rdb := config.NewRedisClient(ctx, config.LoadRedisConfig())
	if rdb == nil {
		log.Warn("redis unreachable; response cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.RabbitURL != "" {
		events = queue.NewPublisher(cfg.RabbitURL, log.Named("publisher"))
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.ActivityLog, log.Named("consumer"))
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("activity consumer stopped", zap.Error(err))
			}
		}()
	} else {
		log.Info("RABBITMQ_URL not set; events are not published")
	}

	rooms := repository.NewRoomRepo(db)
	tenants := repository.NewTenantRepo(db)
	payments := repository.NewPaymentRepo(db)
	maintenance := repository.NewMaintenanceRepo(db)

	ledgerSvc := service.NewLedgerService(rooms, tenants, payments, ledger.NewCalculator(time.Now))

	e := router.New(router.Options{
		Log:       log,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
	})
	router.RegisterRoutes(e, router.Handlers{
		Health:      &handler.HealthHandler{DB: db},
		Rooms:       handler.NewRoomHandler(service.NewRoomService(rooms, tenants), log),
		Tenants:     handler.NewTenantHandler(service.NewTenantService(rooms, tenants, time.Now), ledgerSvc, log),
		Ledger:      handler.NewLedgerHandler(ledgerSvc, log),
		Payments:    handler.NewPaymentHandler(service.NewPaymentService(rooms, tenants, payments, events, log, time.Now), log),
		Maintenance: handler.NewMaintenanceHandler(service.NewMaintenanceService(rooms, maintenance, events, log), log),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
