package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/karsvo/villa-rental-api/internal/config"
	"github.com/karsvo/villa-rental-api/internal/database"
	"github.com/karsvo/villa-rental-api/internal/handler"
	"github.com/karsvo/villa-rental-api/internal/middleware"
	"github.com/karsvo/villa-rental-api/internal/queue"
	"github.com/karsvo/villa-rental-api/internal/repository"
	"github.com/karsvo/villa-rental-api/internal/router"
)

func main() {
	_ = godotenv.Load() // local .env is optional; real deployments set env directly
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.DBName); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable; response cache and rate limiting disabled")
	}

	villaRepo := repository.NewVillaRepo(db)
	numberRepo := repository.NewVillaNumberRepo(db)
	userRepo := repository.NewUserRepo(db, cfg.JWTSecret, cfg.TokenTTLDays, cfg.BcryptCost)

	publisher := queue.NewAMQPPublisher()
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			logger.Error("audit consumer stopped", zap.Error(err))
		}
	}()

	villaHandler := handler.NewVillaHandler(villaRepo, logger, publisher)
	numberHandler := handler.NewVillaNumberHandler(numberRepo, villaRepo, logger, publisher)
	userHandler := handler.NewUserHandler(userRepo, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(logger))
	router.RegisterRoutes(e, cfg, rdb, villaHandler, numberHandler, userHandler)

	addr := ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := e.Start(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds a production logger outside dev so log output is JSON in
// deployments and human-readable locally.
func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
