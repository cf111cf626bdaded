package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/SscSPs/posting_engine/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string

	JWTSecret string
	JWTIssuer string

	// Ledger behaviour
	BaseCurrency        string
	FxResultAccountCode string
	FxMaxResidual       decimal.Decimal
	ChequeDayCount      domain.DayCount
	ChequeInterestBase  int
	ChequeHoldingCode   string

	// Events and edge
	RedisURL           string
	EventsChannel      string
	EventsQueueSize    int
	KafkaBrokers       []string
	KafkaTopic         string
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("BASE_CURRENCY", "ARS")
	viper.SetDefault("FX_RESULT_ACCOUNT", "")
	viper.SetDefault("FX_MAX_RESIDUAL", "0")
	viper.SetDefault("CHEQUE_DAY_COUNT", string(domain.DayCountActual365))
	viper.SetDefault("CHEQUE_INTEREST_BASE", domain.DefaultInterestBase)
	viper.SetDefault("CHEQUE_HOLDING_ACCOUNT", "1200")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("EVENTS_CHANNEL", "ledger.events")
	viper.SetDefault("EVENTS_QUEUE_SIZE", 1024)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "ledger-events")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:       viper.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:         strings.ToLower(viper.GetString("STORE_DRIVER")),
		MigrationsPath:      viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		BaseCurrency:        strings.ToUpper(viper.GetString("BASE_CURRENCY")),
		FxResultAccountCode: viper.GetString("FX_RESULT_ACCOUNT"),
		ChequeDayCount:      domain.DayCount(viper.GetString("CHEQUE_DAY_COUNT")),
		ChequeInterestBase:  viper.GetInt("CHEQUE_INTEREST_BASE"),
		ChequeHoldingCode:   viper.GetString("CHEQUE_HOLDING_ACCOUNT"),
		RedisURL:            viper.GetString("REDIS_URL"),
		EventsChannel:       viper.GetString("EVENTS_CHANNEL"),
		EventsQueueSize:     viper.GetInt("EVENTS_QUEUE_SIZE"),
		KafkaBrokers:        splitList(viper.GetString("KAFKA_BROKERS")),
		KafkaTopic:          viper.GetString("KAFKA_TOPIC"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:  splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StoreDriverMemory:
		log.Println("Warning: STORE_DRIVER=memory, ledger data is not persisted.")
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if len(cfg.BaseCurrency) != 3 {
		return nil, fmt.Errorf("BASE_CURRENCY must be a 3-letter code, got %q", cfg.BaseCurrency)
	}

	maxResidual, err := decimal.NewFromString(viper.GetString("FX_MAX_RESIDUAL"))
	if err != nil || maxResidual.IsNegative() {
		return nil, fmt.Errorf("invalid FX_MAX_RESIDUAL %q", viper.GetString("FX_MAX_RESIDUAL"))
	}
	cfg.FxMaxResidual = maxResidual

	if !cfg.ChequeDayCount.Valid() {
		return nil, fmt.Errorf("invalid CHEQUE_DAY_COUNT %q, want %s or %s", cfg.ChequeDayCount, domain.DayCountActual365, domain.DayCount30360)
	}
	if cfg.ChequeInterestBase <= 0 {
		log.Printf("Warning: invalid CHEQUE_INTEREST_BASE. Defaulting to %d\n", domain.DefaultInterestBase)
		cfg.ChequeInterestBase = domain.DefaultInterestBase
	}

	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET is the default insecure key. THIS IS NOT FOR PRODUCTION.")
	}

	return cfg, nil
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
