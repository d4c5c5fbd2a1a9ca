// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, ProviderCoinGecko, cfg.Market.Provider)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Settlement.LegacyFundsCheck)
	assert.True(t, decimal.NewFromInt(1).Equal(cfg.Settlement.DustThreshold))
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("MARKET_PROVIDER", "Binance")
	t.Setenv("LEGACY_FUNDS_CHECK", "true")
	t.Setenv("DUST_THRESHOLD", "0.5")
	t.Setenv("JWT_TTL", "90m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, ProviderBinance, cfg.Market.Provider)
	assert.True(t, cfg.Settlement.LegacyFundsCheck)
	assert.True(t, decimal.RequireFromString("0.5").Equal(cfg.Settlement.DustThreshold))
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("MARKET_PROVIDER", "kraken")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DB_PORT")
	assert.Contains(t, err.Error(), "MARKET_PROVIDER")
}
