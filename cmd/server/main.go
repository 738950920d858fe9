package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"mortgage-qualify/internal/adapters/cache"
	"mortgage-qualify/internal/adapters/http/middleware"
	"mortgage-qualify/internal/adapters/http/routes"
	"mortgage-qualify/internal/adapters/persistence/models"
	"mortgage-qualify/internal/adapters/persistence/repositories"
	"mortgage-qualify/internal/config"
	"mortgage-qualify/internal/core/engine"
	"mortgage-qualify/internal/core/services"
	"mortgage-qualify/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.IsDev())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal("failed to auto migrate", zap.Error(err))
	}

	if err := config.SeedInstitutions(db); err != nil {
		log.Fatal("failed to seed institutions", zap.Error(err))
	}

	// Registry load must complete before any computation runs; reads are
	// lock-free afterwards.
	institutionRepo := repositories.NewInstitutionRepository(db)
	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	registry, err := institutionRepo.LoadRegistry(loadCtx)
	cancel()
	if err != nil {
		log.Fatal("failed to load institution registry", zap.Error(err))
	}
	log.Info("institution registry loaded", zap.Strings("codes", registry.Codes()))

	var resultCache services.ResultCache = cache.NoopCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisResultCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisCache.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("redis unreachable, running without result cache", zap.Error(err))
		} else {
			defer redisCache.Close()
			resultCache = redisCache
			log.Info("result cache connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	profileRepo := repositories.NewLoanProfileRepository(db)
	qualificationEngine := engine.New(registry, engine.DefaultFeeRules())
	computationService := services.NewComputationService(
		qualificationEngine,
		profileRepo,
		resultCache,
		cfg.Redis.CacheTTL,
		cfg.Reservation.Window,
		log,
	)

	janitor := services.NewReservationJanitor(profileRepo, cfg.Reservation.CronSpec, log)
	if err := janitor.Start(); err != nil {
		log.Fatal("failed to start reservation janitor", zap.Error(err))
	}
	defer janitor.Stop()

	app := fiber.New(fiber.Config{
		AppName: "Mortgage Qualification API",
	})
	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg, registry, computationService)

	go gracefulShutdown(app, log)

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("mode", cfg.AppMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}

// gracefulShutdown stops the fiber app on SIGINT/SIGTERM so deferred
// cleanups in main run.
func gracefulShutdown(app *fiber.App, log *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
}
