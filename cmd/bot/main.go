package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"travelwallet/internal/bot"
	"travelwallet/internal/config"
	"travelwallet/internal/exchange"
	"travelwallet/internal/flow"
	"travelwallet/internal/geo"
	"travelwallet/internal/repository"
	"travelwallet/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Конфигурация: %v", err)
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatalf("Конфигурация: %v", err)
	}

	// Подключение к базе данных
	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	repository.ApplyMigrations(db, "migrations")

	// Инициализация репозиториев и сервисов
	tripRepo := repository.NewTripRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	userRepo := repository.NewUserRepository(db)
	stateRepo := repository.NewStateRepository(db)

	walletService := service.NewWalletService(tripRepo, expenseRepo, userRepo)
	userService := service.NewUserService(userRepo)

	// Клиент сервиса курсов с кэшем, чтобы не превышать лимит запросов
	client := exchange.NewClient(cfg.ExchangeBaseURL, cfg.ExchangeKey)
	cache := exchange.NewCache(client)

	engine := flow.NewEngine(stateRepo, walletService, cache, client, geo.Resolve, logger)

	// Инициализация Telegram Bot API
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal("Ошибка инициализации бота:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot.New(api, engine, userService, logger).Run(ctx)
}
