package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// LoanAccountCodes names the accounts loan postings use.
type LoanAccountCodes struct {
	Receivable     string
	Cash           string
	InterestIncome string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	StorageDriver  string
	MigrationsPath string

	JWTSecret         string
	JWTIssuer         string
	JWTExpiryDuration time.Duration

	RateLimit          string // ulule/limiter format, e.g. "100-M"
	RedisURL           string
	CORSAllowedOrigins []string

	SeedDefaultChart bool
	ChartFile        string
	MetricsEnabled   bool

	LoanAccounts LoanAccountCodes
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "microlend-ledger")
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SEED_DEFAULT_CHART", false)
	v.SetDefault("CHART_FILE", "")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("LOAN_RECEIVABLE_ACCOUNT_CODE", "1100")
	v.SetDefault("CASH_ACCOUNT_CODE", "1001")
	v.SetDefault("INTEREST_INCOME_ACCOUNT_CODE", "4001")

	// Environment variables override the defaults and anything .env provided.
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		StorageDriver:      strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MigrationsPath:     v.GetString("MIGRATIONS_PATH"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		RedisURL:           v.GetString("REDIS_URL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		SeedDefaultChart:   v.GetBool("SEED_DEFAULT_CHART"),
		ChartFile:          v.GetString("CHART_FILE"),
		MetricsEnabled:     v.GetBool("METRICS_ENABLED"),
		LoanAccounts: LoanAccountCodes{
			Receivable:     v.GetString("LOAN_RECEIVABLE_ACCOUNT_CODE"),
			Cash:           v.GetString("CASH_ACCOUNT_CODE"),
			InterestIncome: v.GetString("INTEREST_INCOME_ACCOUNT_CODE"),
		},
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.StorageDriver == "" {
		cfg.StorageDriver = StorageMemory
		if cfg.DatabaseURL != "" {
			cfg.StorageDriver = StoragePostgres
		} else {
			log.Println("Warning: PGSQL_URL environment variable not set. Using in-memory storage.")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORAGE_DRIVER=postgres requires PGSQL_URL")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q, expected %s or %s", c.StorageDriver, StoragePostgres, StorageMemory)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.JWTSecret == defaultJWTSecret {
		if c.IsProduction {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	codes := c.LoanAccounts
	if codes.Receivable == "" || codes.Cash == "" || codes.InterestIncome == "" {
		return fmt.Errorf("loan account codes must not be empty")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
