// Seed creates a demo cashier account with a few receipts so a fresh
// database has something to query and render.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"github.com/tappress/checkbox/internal/auth"
	"github.com/tappress/checkbox/internal/config"
	"github.com/tappress/checkbox/internal/db"
	"github.com/tappress/checkbox/internal/errors"
	"github.com/tappress/checkbox/internal/logging"
	"github.com/tappress/checkbox/internal/model"
	"github.com/tappress/checkbox/internal/repository"
	"github.com/tappress/checkbox/internal/service"
)

const (
	demoEmail    = "demo_cashier@checkbox.ua"
	demoPassword = "demo-password"
)

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
	if err := gormDB.AutoMigrate(&model.User{}, &model.Receipt{}, &model.ReceiptProduct{}); err != nil {
		slog.Error("auto-migrate", "error", err)
		os.Exit(1)
	}

	codec, err := auth.NewCodec(cfg.Auth.Algorithm)
	if err != nil {
		slog.Error("token codec init", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, codec, cfg.Auth)
	receiptService := service.NewReceiptService(repository.NewReceiptRepository(gormDB))

	ctx := context.Background()

	if _, _, err := userService.SignUp(ctx, demoEmail, demoPassword); err != nil {
		if !errors.IsKind(err, errors.KindResourceAlreadyExists) {
			slog.Error("create demo user", "error", err)
			os.Exit(1)
		}
		slog.Info("demo user already exists", "email", demoEmail)
	}

	user, err := userRepo.FindByEmail(ctx, demoEmail)
	if err != nil {
		slog.Error("load demo user", "error", err)
		os.Exit(1)
	}

	for _, input := range demoReceipts() {
		receipt, err := receiptService.Create(ctx, user.ID, input)
		if err != nil {
			slog.Error("create demo receipt", "error", err)
			os.Exit(1)
		}
		slog.Info("seeded receipt", "id", receipt.ID, "total", receipt.Total)
	}

	slog.Info("seed completed", "email", demoEmail)
}

func demoReceipts() []service.CreateReceiptInput {
	return []service.CreateReceiptInput{
		{
			Products: []service.CreateReceiptProduct{
				{Name: "Espresso", Price: decimal.RequireFromString("42.00"), Quantity: 2},
				{Name: "Croissant", Price: decimal.RequireFromString("55.50"), Quantity: 1},
			},
			Payment: service.ReceiptPayment{Type: model.PaymentTypeCash, Amount: decimal.RequireFromString("150.00")},
		},
		{
			Products: []service.CreateReceiptProduct{
				{Name: "Mavic 3T", Price: decimal.RequireFromString("298870.00"), Quantity: 1},
			},
			Payment: service.ReceiptPayment{Type: model.PaymentTypeCard, Amount: decimal.RequireFromString("298870.00")},
		},
		{
			Products: []service.CreateReceiptProduct{
				{Name: "Notebook", Price: decimal.RequireFromString("120.00"), Quantity: 3},
				{Name: "Pen", Price: decimal.RequireFromString("25.00"), Quantity: 4},
			},
			Payment: service.ReceiptPayment{Type: model.PaymentTypeCard, Amount: decimal.RequireFromString("460.00")},
		},
	}
}
