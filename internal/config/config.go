// Package config loads engine configuration from file and environment.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the full engine configuration.
type Config struct {
	Stream  StreamConfig  `mapstructure:"stream"`
	RPC     RPCConfig     `mapstructure:"rpc"`
	Wallet  WalletConfig  `mapstructure:"wallet"`
	Snipe   SnipeConfig   `mapstructure:"snipe"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Journal JournalConfig `mapstructure:"journal"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// StreamConfig locates the entries feed.
type StreamConfig struct {
	URL string `mapstructure:"url"`
	// TargetAccount gates the scan to transactions referencing this
	// account.
	TargetAccount string `mapstructure:"target_account"`
}

// RPCConfig locates the Solana RPC node used for submission.
type RPCConfig struct {
	URL string `mapstructure:"url"`
	// BlockhashMaxAge bounds blockhash cache staleness.
	BlockhashMaxAge time.Duration `mapstructure:"blockhash_max_age"`
}

// WalletConfig carries the trading key.
type WalletConfig struct {
	// PrivateKey is the base58-encoded trading key. Required.
	PrivateKey string `mapstructure:"private_key"`
}

// SnipeConfig holds the entry and exit parameters in SOL units.
type SnipeConfig struct {
	// MinTriggerSOL and MaxTriggerSOL bound the size of an observed buy
	// that triggers an entry, in SOL, scaled by 1e9 on load.
	MinTriggerSOL float64 `mapstructure:"min_trigger_sol"`
	MaxTriggerSOL float64 `mapstructure:"max_trigger_sol"`
	// BuySOL is the SOL spent per snipe.
	BuySOL float64 `mapstructure:"buy_sol"`
	// SellDelay is the hold period before the exit is released.
	SellDelay time.Duration `mapstructure:"sell_delay"`
}

// RedisConfig locates the durable sell schedule.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// JournalConfig locates the trade and tick stores. Empty DSNs disable the
// corresponding store.
type JournalConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from the named file (or the default search
// paths when path is empty) and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("SNIPE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found; defaults and environment apply.
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("stream.target_account", "AmXoSVCLjsfKrwCUqvkMFXYcDzZ4FeoMYs7SAhGyfMGy")

	v.SetDefault("rpc.url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("rpc.blockhash_max_age", 500*time.Millisecond)

	v.SetDefault("snipe.min_trigger_sol", 0.5)
	v.SetDefault("snipe.max_trigger_sol", 3.0)
	v.SetDefault("snipe.buy_sol", 0.1)
	v.SetDefault("snipe.sell_delay", 5*time.Second)

	v.SetDefault("redis.url", "redis://127.0.0.1:6379")

	v.SetDefault("metrics.addr", ":9090")
}

// validateConfig validates the configuration values.
func validateConfig(cfg *Config) error {
	if cfg.Stream.URL == "" {
		return fmt.Errorf("stream.url is required")
	}
	if cfg.Wallet.PrivateKey == "" {
		return fmt.Errorf("wallet.private_key is required")
	}
	if cfg.Snipe.MinTriggerSOL < 0 || cfg.Snipe.MaxTriggerSOL <= 0 {
		return fmt.Errorf("invalid snipe trigger window: %f - %f", cfg.Snipe.MinTriggerSOL, cfg.Snipe.MaxTriggerSOL)
	}
	if cfg.Snipe.MinTriggerSOL > cfg.Snipe.MaxTriggerSOL {
		return fmt.Errorf("snipe.min_trigger_sol %f exceeds snipe.max_trigger_sol %f", cfg.Snipe.MinTriggerSOL, cfg.Snipe.MaxTriggerSOL)
	}
	if cfg.Snipe.BuySOL <= 0 {
		return fmt.Errorf("invalid snipe.buy_sol: %f", cfg.Snipe.BuySOL)
	}
	if cfg.Snipe.SellDelay <= 0 {
		return fmt.Errorf("invalid snipe.sell_delay: %v", cfg.Snipe.SellDelay)
	}
	return nil
}

// Lamports converts a SOL amount to lamports.
func Lamports(sol float64) uint64 {
	return uint64(sol * 1_000_000_000)
}
