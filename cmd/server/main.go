package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	_ "github.com/tappress/checkbox/docs" // swagger docs

	"github.com/tappress/checkbox/internal/auth"
	"github.com/tappress/checkbox/internal/config"
	"github.com/tappress/checkbox/internal/db"
	"github.com/tappress/checkbox/internal/handler"
	"github.com/tappress/checkbox/internal/logging"
	"github.com/tappress/checkbox/internal/model"
	"github.com/tappress/checkbox/internal/repository"
	"github.com/tappress/checkbox/internal/router"
	"github.com/tappress/checkbox/internal/service"
)

// @title Checkbox API
// @version 1.0
// @description Point-of-sale receipt backend with JWT authentication.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		slog.Error("database init", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Receipt{},
		&model.ReceiptProduct{},
	); err != nil {
		slog.Error("auto-migrate", "error", err)
		os.Exit(1)
	}

	codec, err := auth.NewCodec(cfg.Auth.Algorithm)
	if err != nil {
		slog.Error("token codec init", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(gormDB)
	receiptRepo := repository.NewReceiptRepository(gormDB)

	userService := service.NewUserService(userRepo, codec, cfg.Auth)
	receiptService := service.NewReceiptService(receiptRepo)

	userHandler := handler.NewUserHandler(userService)
	receiptHandler := handler.NewReceiptHandler(receiptService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, userHandler, receiptHandler, userService)

	addr := ":" + cfg.ServerPort
	slog.Info("starting server", "addr", addr)
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		slog.Error("server start", "error", err)
		os.Exit(1)
	}
}
