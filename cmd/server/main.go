package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ayoub-kd/costume-rental/internal/config"
	"github.com/ayoub-kd/costume-rental/internal/database"
	"github.com/ayoub-kd/costume-rental/internal/handler"
	"github.com/ayoub-kd/costume-rental/internal/logger"
	"github.com/ayoub-kd/costume-rental/internal/queue"
	"github.com/ayoub-kd/costume-rental/internal/repository"
	"github.com/ayoub-kd/costume-rental/internal/router"
	"github.com/ayoub-kd/costume-rental/internal/storage"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		zlog.Fatal("migrations failed", zap.Error(err))
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		zlog.Warn("redis unavailable, rate limiting and response cache disabled")
	}

	store := storage.New(cfg.StorageRoot, cfg.StorageBaseURL)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	costumes := repository.NewCostumeRepo(db)
	rentals := repository.NewRentalRepo(db)

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(users, tokens, &cfg, zlog),
		Public:  handler.NewPublicCostumeHandler(costumes, rentals, store, zlog),
		Rentals: handler.NewRentalHandler(rentals, costumes, store, zlog),
		AdminC:  handler.NewAdminCostumeHandler(costumes, store, zlog),
		AdminR:  handler.NewAdminRentalHandler(rentals, store, zlog),
		PDF:     handler.NewPDFHandler(costumes, zlog),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Register(e, h, cfg, rdb, zlog)

	go queue.StartRentalConsumer(zlog)

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := e.Start(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
