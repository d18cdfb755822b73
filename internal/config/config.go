package config

import (
	"fmt"
	"os"
)

// Config хранит настройки приложения, читаемые из переменных окружения.
type Config struct {
	BotToken        string // TELEGRAM_BOT_TOKEN
	ExchangeKey     string // EXCHANGERATE_ACCESS_KEY
	ExchangeBaseURL string // EXCHANGE_BASE_URL, по умолчанию api.exchangerate.host
	APIPort         string // API_PORT, порт HTTP API
	DatabaseDSN     string // собирается из DB_HOST, DB_PORT, DB_USER, DB_PASS, DB_NAME
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load читает конфигурацию из окружения. Токен бота и ключ API курсов
// обязательны для бота; HTTP API работает и без них.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:        os.Getenv("TELEGRAM_BOT_TOKEN"),
		ExchangeKey:     os.Getenv("EXCHANGERATE_ACCESS_KEY"),
		ExchangeBaseURL: getenv("EXCHANGE_BASE_URL", "http://api.exchangerate.host"),
		APIPort:         getenv("API_PORT", "8080"),
	}

	host := getenv("DB_HOST", "db")
	port := getenv("DB_PORT", "5432")
	cfg.DatabaseDSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port,
		os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_NAME"),
	)
	return cfg, nil
}

// RequireBot проверяет, что заданы настройки, без которых бот не стартует.
func (c *Config) RequireBot() error {
	if c.BotToken == "" {
		return fmt.Errorf("не указан токен бота (TELEGRAM_BOT_TOKEN)")
	}
	if c.ExchangeKey == "" {
		return fmt.Errorf("не указан ключ сервиса курсов (EXCHANGERATE_ACCESS_KEY)")
	}
	return nil
}
