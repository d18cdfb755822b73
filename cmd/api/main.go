package main

import (
	"log"
	"log/slog"
	"os"

	"travelwallet/internal/config"
	"travelwallet/internal/handler"
	"travelwallet/internal/repository"
	"travelwallet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Конфигурация: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}
	repository.ApplyMigrations(db, "migrations")

	// Инициализируем репозитории и сервисы
	tripRepo := repository.NewTripRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	userRepo := repository.NewUserRepository(db)
	walletService := service.NewWalletService(tripRepo, expenseRepo, userRepo)

	// Создаем Handler и регистрируем маршруты
	h := handler.NewHandler(walletService)
	router := gin.Default()
	api := router.Group("/api")
	{
		api.GET("/users/:user_id/trips", h.ListTrips)
		api.GET("/users/:user_id/trips/:trip_id", h.GetTrip)
		api.GET("/users/:user_id/trips/:trip_id/expenses", h.ListExpenses)
	}
	// Health-check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if err := router.Run(":" + cfg.APIPort); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
