package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string

	Mongo   MongoConfig
	Redis   RedisConfig
	Catalog CatalogConfig
	Kafka   KafkaConfig
	Pricing PricingConfig
	Rates   RatesConfig

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	URI            string
	DBName         string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
}

type CatalogConfig struct {
	PostgresDSN    string
	MigrationsPath string
}

type KafkaConfig struct {
	Brokers []string
}

// PricingConfig points at the pricing authority and tunes the validation
// coordinator.
type PricingConfig struct {
	BaseURL  string
	Timeout  time.Duration
	Debounce time.Duration
}

// RatesConfig carries the calculator's decimal settings as strings so they
// parse exactly, never through a float.
type RatesConfig struct {
	TaxRate               string
	FreeShippingThreshold string
	ShippingCost          string
	CurrencySymbol        string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "cartdb")
	viper.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("CATALOG_POSTGRES_DSN", "postgres://localhost:5432/catalog?sslmode=disable")
	viper.SetDefault("CATALOG_MIGRATIONS_PATH", "migrations")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("PRICING_BASE_URL", "http://localhost:9000")
	viper.SetDefault("PRICING_TIMEOUT", "10s")
	viper.SetDefault("PRICING_DEBOUNCE", "1500ms")
	viper.SetDefault("TAX_RATE", "0.21")
	viper.SetDefault("FREE_SHIPPING_THRESHOLD", "75")
	viper.SetDefault("SHIPPING_COST", "7.50")
	viper.SetDefault("CURRENCY_SYMBOL", "€")
	viper.SetDefault("REQUEST_TIMEOUT", "30s")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.AutomaticEnv()

	// .env is optional; real environments set variables directly.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        viper.GetString("PORT"),
		Environment: viper.GetString("ENVIRONMENT"),
		Mongo: MongoConfig{
			URI:            viper.GetString("MONGO_URI"),
			DBName:         viper.GetString("MONGO_DB_NAME"),
			ConnectTimeout: viper.GetDuration("MONGO_CONNECT_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
		},
		Catalog: CatalogConfig{
			PostgresDSN:    viper.GetString("CATALOG_POSTGRES_DSN"),
			MigrationsPath: viper.GetString("CATALOG_MIGRATIONS_PATH"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
		},
		Pricing: PricingConfig{
			BaseURL:  viper.GetString("PRICING_BASE_URL"),
			Timeout:  viper.GetDuration("PRICING_TIMEOUT"),
			Debounce: viper.GetDuration("PRICING_DEBOUNCE"),
		},
		Rates: RatesConfig{
			TaxRate:               viper.GetString("TAX_RATE"),
			FreeShippingThreshold: viper.GetString("FREE_SHIPPING_THRESHOLD"),
			ShippingCost:          viper.GetString("SHIPPING_COST"),
			CurrencySymbol:        viper.GetString("CURRENCY_SYMBOL"),
		},
		RequestTimeout:  viper.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
