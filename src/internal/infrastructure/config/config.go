package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ===========================
// 組態
// ===========================

// EnvPrefix 環境變數前綴（server.port → CARTQUEST_SERVER_PORT）
const EnvPrefix = "CARTQUEST"

// Config 程序組態（Load 之後唯讀）
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Rewards   RewardsConfig   `mapstructure:"rewards"`
	Referral  ReferralConfig  `mapstructure:"referral"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Voucher   VoucherConfig   `mapstructure:"voucher"`
	Promotion PromotionConfig `mapstructure:"promotion"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 監聽位址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	InternalAPIKey string `mapstructure:"internal_api_key"`
}

// RewardsConfig 金幣規則的原始值（RewardConfig() 轉為領域值對象）
type RewardsConfig struct {
	CoinsPerCurrencyUnit  string `mapstructure:"coins_per_currency_unit"`
	CoinToCurrencyRatio   int    `mapstructure:"coin_to_currency_ratio"`
	MinCoinsForRedemption int    `mapstructure:"min_coins_for_redemption"`
	ReferralBonusReferrer int    `mapstructure:"referral_bonus_referrer"`
	ReferralBonusReferred int    `mapstructure:"referral_bonus_referred"`
}

// RewardConfig 建立領域層的 RewardConfig
func (r RewardsConfig) RewardConfig() (coins.RewardConfig, error) {
	perUnit, err := decimal.NewFromString(strings.TrimSpace(r.CoinsPerCurrencyUnit))
	if err != nil {
		return coins.RewardConfig{}, fmt.Errorf("rewards.coins_per_currency_unit: %w", err)
	}
	return coins.NewRewardConfig(
		perUnit,
		r.CoinToCurrencyRatio,
		r.MinCoinsForRedemption,
		r.ReferralBonusReferrer,
		r.ReferralBonusReferred,
	)
}

type ReferralConfig struct {
	CodePrefix      string `mapstructure:"code_prefix"`
	MaxCodeAttempts int    `mapstructure:"max_code_attempts"`
}

type LedgerConfig struct {
	MaxAppendRetries int `mapstructure:"max_append_retries"`
}

type VoucherConfig struct {
	CodePrefix      string        `mapstructure:"code_prefix"`
	TTL             time.Duration `mapstructure:"ttl"`
	MaxCodeAttempts int           `mapstructure:"max_code_attempts"`
}

type PromotionConfig struct {
	GuessTolerancePercent string `mapstructure:"guess_tolerance_percent"`
	GuessRewardCoins      int    `mapstructure:"guess_reward_coins"`
}

// GuessRules 建立猜價格規則
func (p PromotionConfig) GuessRules() (promotion.GuessRules, error) {
	tolerance, err := decimal.NewFromString(strings.TrimSpace(p.GuessTolerancePercent))
	if err != nil {
		return promotion.GuessRules{}, fmt.Errorf("promotion.guess_tolerance_percent: %w", err)
	}
	return promotion.NewGuessRules(tolerance, p.GuessRewardCoins)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ===========================
// 載入
// ===========================

// setDefaults 每個鍵都要有預設值，AutomaticEnv 才能在 Unmarshal 時套用環境變數
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "cartquest.db?_busy_timeout=5000")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.internal_api_key", "")

	v.SetDefault("rewards.coins_per_currency_unit", "10")
	v.SetDefault("rewards.coin_to_currency_ratio", 100)
	v.SetDefault("rewards.min_coins_for_redemption", 50)
	v.SetDefault("rewards.referral_bonus_referrer", 100)
	v.SetDefault("rewards.referral_bonus_referred", 50)

	v.SetDefault("referral.code_prefix", "MAHI")
	v.SetDefault("referral.max_code_attempts", 10)

	v.SetDefault("ledger.max_append_retries", 3)

	v.SetDefault("voucher.code_prefix", "CQ")
	v.SetDefault("voucher.ttl", "720h")
	v.SetDefault("voucher.max_code_attempts", 10)

	v.SetDefault("promotion.guess_tolerance_percent", "10")
	v.SetDefault("promotion.guess_reward_coins", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// loadDotEnv 載入 .env / .env.local（檔案不存在不算錯誤，已存在的環境變數不覆蓋）
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load 載入組態
//
// 優先順序（高 → 低）：環境變數 > config.yaml > 預設值。
// .env 先注入環境變數，因此等同環境變數層級。
func Load() (*Config, error) {
	if err := loadDotEnv(".env", ".env.local"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

// Default 只有預設值的組態（不讀檔案與環境變數）
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := fromViper(v)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 檢查組態的一致性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test: %q", c.Server.Mode)
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres: %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}

	if _, err := c.Rewards.RewardConfig(); err != nil {
		return fmt.Errorf("invalid rewards: %w", err)
	}
	if _, err := c.Promotion.GuessRules(); err != nil {
		return fmt.Errorf("invalid promotion: %w", err)
	}

	if !isAlphanumeric(c.Referral.CodePrefix) {
		return fmt.Errorf("referral.code_prefix must be alphanumeric: %q", c.Referral.CodePrefix)
	}
	if !isAlphanumeric(c.Voucher.CodePrefix) {
		return fmt.Errorf("voucher.code_prefix must be alphanumeric: %q", c.Voucher.CodePrefix)
	}
	if len(c.Referral.CodePrefix) > referral.MaxPrefixLength {
		return fmt.Errorf("referral.code_prefix must be at most %d characters: %q", referral.MaxPrefixLength, c.Referral.CodePrefix)
	}
	if len(c.Voucher.CodePrefix) > voucher.MaxPrefixLength {
		return fmt.Errorf("voucher.code_prefix must be at most %d characters: %q", voucher.MaxPrefixLength, c.Voucher.CodePrefix)
	}
	if c.Referral.MaxCodeAttempts < 1 || c.Voucher.MaxCodeAttempts < 1 {
		return errors.New("max_code_attempts must be at least 1")
	}
	if c.Ledger.MaxAppendRetries < 1 {
		return fmt.Errorf("ledger.max_append_retries must be at least 1: %d", c.Ledger.MaxAppendRetries)
	}
	if c.Voucher.TTL <= 0 {
		return fmt.Errorf("voucher.ttl must be positive: %s", c.Voucher.TTL)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text: %q", c.Log.Format)
	}
	return nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}
