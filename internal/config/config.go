// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"tradein-settlement/pkg/db"
)

// Market providers.
const (
	ProviderCoinGecko = "coingecko"
	ProviderBinance   = "binance"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config
	Auth       AuthConfig
	Market     MarketConfig
	Payment    PaymentConfig
	Settlement SettlementConfig
	Log        LogConfig
	RateLimit  RateLimitConfig
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type MarketConfig struct {
	Provider          string // coingecko or binance
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerMinute int
	BinanceSecretKey  string
	BinanceSymbols    string // bitcoin:BTCUSDT,ethereum:ETHUSDT
}

type PaymentConfig struct {
	MidtransServerKey  string
	MidtransProduction bool
	SandboxEnabled     bool
	Timeout            time.Duration
}

type SettlementConfig struct {
	LegacyFundsCheck bool
	DustThreshold    decimal.Decimal
}

type LogConfig struct {
	Level string
	File  string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// LoadConfig loads configuration from environment variables, after reading an optional .env file.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var errs []error
	cfg := &AppConfig{
		ServerPort: getString("SERVER_PORT", "8080"),
		DB: db.Config{
			Host:     getString("DB_HOST", "localhost"),
			Port:     getInt("DB_PORT", 5432, &errs),
			User:     getString("DB_USER", "user"),
			Password: getString("DB_PASSWORD", "password"),
			DBName:   getString("DB_NAME", "tradein"),
			SSLMode:  getString("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  getDuration("JWT_TTL", 24*time.Hour, &errs),
		},
		Market: MarketConfig{
			Provider:          strings.ToLower(getString("MARKET_PROVIDER", ProviderCoinGecko)),
			BaseURL:           os.Getenv("MARKET_BASE_URL"),
			APIKey:            os.Getenv("MARKET_API_KEY"),
			Timeout:           getDuration("MARKET_TIMEOUT", 5*time.Second, &errs),
			RequestsPerMinute: getInt("MARKET_REQUESTS_PER_MINUTE", 30, &errs),
			BinanceSecretKey:  os.Getenv("BINANCE_SECRET_KEY"),
			BinanceSymbols:    getString("BINANCE_SYMBOLS", "bitcoin:BTCUSDT,ethereum:ETHUSDT,solana:SOLUSDT"),
		},
		Payment: PaymentConfig{
			MidtransServerKey:  os.Getenv("MIDTRANS_SERVER_KEY"),
			MidtransProduction: getBool("MIDTRANS_PRODUCTION", false, &errs),
			SandboxEnabled:     getBool("PAYMENT_SANDBOX", false, &errs),
			Timeout:            getDuration("PAYMENT_TIMEOUT", 10*time.Second, &errs),
		},
		Settlement: SettlementConfig{
			LegacyFundsCheck: getBool("LEGACY_FUNDS_CHECK", false, &errs),
			DustThreshold:    getDecimal("DUST_THRESHOLD", decimal.NewFromInt(1), &errs),
		},
		Log: LogConfig{
			Level: getString("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 120, &errs),
			Burst:             getInt("RATE_LIMIT_BURST", 20, &errs),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch cfg.Market.Provider {
	case ProviderCoinGecko, ProviderBinance:
	default:
		errs = append(errs, fmt.Errorf("invalid MARKET_PROVIDER %q", cfg.Market.Provider))
	}
	if cfg.Settlement.DustThreshold.IsNegative() {
		errs = append(errs, errors.New("DUST_THRESHOLD must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int, errs *[]error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return n
}

func getBool(key string, def bool, errs *[]error) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return b
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}

func getDecimal(key string, def decimal.Decimal, errs *[]error) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return def
	}
	return d
}
