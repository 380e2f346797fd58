package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "MAHI", cfg.Referral.CodePrefix)
	assert.Equal(t, 30*24*time.Hour, cfg.Voucher.TTL)
	assert.Equal(t, 3, cfg.Ledger.MaxAppendRetries)

	rewards, err := cfg.Rewards.RewardConfig()
	require.NoError(t, err)
	assert.Equal(t, "10", rewards.CoinsPerCurrencyUnit().String())
	assert.Equal(t, 100, rewards.CoinToCurrencyRatio())
	assert.Equal(t, 50, rewards.MinCoinsForRedemption())
	assert.Equal(t, 100, rewards.ReferralBonusReferrer())
	assert.Equal(t, 50, rewards.ReferralBonusReferred())
}

func TestDefault_IgnoresEnvironment(t *testing.T) {
	t.Setenv("CARTQUEST_SERVER_PORT", "9090")

	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "CQ", cfg.Voucher.CodePrefix)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CARTQUEST_SERVER_PORT", "9090")
	t.Setenv("CARTQUEST_REWARDS_MIN_COINS_FOR_REDEMPTION", "80")
	t.Setenv("CARTQUEST_VOUCHER_TTL", "48h")
	t.Setenv("CARTQUEST_LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 80, cfg.Rewards.MinCoinsForRedemption)
	assert.Equal(t, 48*time.Hour, cfg.Voucher.TTL)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
}

func TestLoad_InvalidValue_ReturnsError(t *testing.T) {
	t.Setenv("CARTQUEST_REWARDS_COIN_TO_CURRENCY_RATIO", "0")

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"unknown mode", func(c *Config) { c.Server.Mode = "prod" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"empty dsn", func(c *Config) { c.Database.DSN = " " }},
		{"bad coins per unit", func(c *Config) { c.Rewards.CoinsPerCurrencyUnit = "ten" }},
		{"negative floor", func(c *Config) { c.Rewards.MinCoinsForRedemption = -1 }},
		{"referral prefix with dash", func(c *Config) { c.Referral.CodePrefix = "MA-HI" }},
		{"empty voucher prefix", func(c *Config) { c.Voucher.CodePrefix = "" }},
		{"referral prefix too long", func(c *Config) { c.Referral.CodePrefix = strings.Repeat("A", 23) }},
		{"voucher prefix too long", func(c *Config) { c.Voucher.CodePrefix = strings.Repeat("C", 25) }},
		{"zero code attempts", func(c *Config) { c.Referral.MaxCodeAttempts = 0 }},
		{"zero append retries", func(c *Config) { c.Ledger.MaxAppendRetries = 0 }},
		{"zero voucher ttl", func(c *Config) { c.Voucher.TTL = 0 }},
		{"tolerance above 100", func(c *Config) { c.Promotion.GuessTolerancePercent = "150" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// 前綴加上使用者後綴與隨機碼剛好 32 字元時仍然有效
func TestConfig_Validate_PrefixAtLengthLimit(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.Referral.CodePrefix = strings.Repeat("A", 22)
	cfg.Voucher.CodePrefix = strings.Repeat("C", 24)

	assert.NoError(t, cfg.Validate())
}
