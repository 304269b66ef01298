package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	LogLevel       string
	EnableDBCheck  bool
	StorageDriver  string
	MigrationsPath string

	CurrencyCode   string
	CurrencySymbol string
	MinorUnits     int32

	AuthEnabled bool
	JWTSecret   string

	CORSAllowedOrigins []string
	RateLimit          string // ulule limiter format, e.g. "100-M"

	SummaryCacheSize    int
	SeedChartOfAccounts bool
	KafkaBrokers        []string
	KafkaTopic          string
	PosthogAPIKey       string
	PosthogEndpoint     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("LEDGER_CURRENCY", domain.DefaultCurrency.CurrencyCode)
	v.SetDefault("LEDGER_CURRENCY_SYMBOL", domain.DefaultCurrency.Symbol)
	v.SetDefault("LEDGER_MINOR_UNITS", domain.DefaultCurrency.Precision)
	v.SetDefault("AUTH_ENABLED", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("SUMMARY_CACHE_SIZE", 256)
	v.SetDefault("SEED_CHART_OF_ACCOUNTS", true)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger.journal-entries")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	// Environment variables override defaults and .env values
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         v.GetString("PGSQL_URL"),
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		EnableDBCheck:       v.GetBool("ENABLE_DB_CHECK"),
		StorageDriver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:      v.GetString("MIGRATIONS_PATH"),
		CurrencyCode:        strings.ToUpper(v.GetString("LEDGER_CURRENCY")),
		CurrencySymbol:      v.GetString("LEDGER_CURRENCY_SYMBOL"),
		MinorUnits:          v.GetInt32("LEDGER_MINOR_UNITS"),
		AuthEnabled:         v.GetBool("AUTH_ENABLED"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		CORSAllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:           v.GetString("RATE_LIMIT"),
		SummaryCacheSize:    v.GetInt("SUMMARY_CACHE_SIZE"),
		SeedChartOfAccounts: v.GetBool("SEED_CHART_OF_ACCOUNTS"),
		KafkaBrokers:        splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:          v.GetString("KAFKA_TOPIC"),
		PosthogAPIKey:       v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:     v.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory, the ledger will not survive a restart.")
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.MinorUnits < 0 || cfg.MinorUnits > 6 {
		return nil, fmt.Errorf("LEDGER_MINOR_UNITS must be between 0 and 6, got %d", cfg.MinorUnits)
	}

	if cfg.SummaryCacheSize < 0 {
		return nil, fmt.Errorf("SUMMARY_CACHE_SIZE must not be negative, got %d", cfg.SummaryCacheSize)
	}

	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set when AUTH_ENABLED=true in production")
		}
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	return cfg, nil
}

// LedgerCurrency returns the currency the ledger is kept in.
func (c *Config) LedgerCurrency() domain.Currency {
	return domain.Currency{
		CurrencyCode: c.CurrencyCode,
		Symbol:       c.CurrencySymbol,
		Precision:    c.MinorUnits,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
