// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	WebSocketURL string `mapstructure:"websocket_url"`
	HTTPURL      string `mapstructure:"http_url"`
	ChainID      uint64 `mapstructure:"chain_id"`
}

// AggregatorConfig holds the price aggregation engine configuration.
type AggregatorConfig struct {
	PollIntervalMs int              `mapstructure:"poll_interval_ms"`
	StaleAfterMs   int              `mapstructure:"stale_after_ms"`
	RPCRateLimit   float64          `mapstructure:"rpc_rate_limit"` // calls per second
	Exchanges      []ExchangeConfig `mapstructure:"exchanges"`
}

// PollInterval returns the polling cadence as a duration.
func (c *AggregatorConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// StaleAfter returns the default staleness threshold as a duration.
func (c *AggregatorConfig) StaleAfter() time.Duration {
	return time.Duration(c.StaleAfterMs) * time.Millisecond
}

// ExchangeConfig describes one DEX: its contracts and supported pairs.
type ExchangeConfig struct {
	Name           string       `mapstructure:"name"`
	RouterAddress  string       `mapstructure:"router_address"`
	FactoryAddress string       `mapstructure:"factory_address"`
	Pairs          []PairConfig `mapstructure:"pairs"`
}

// RouterAddressHex returns the router address as common.Address.
func (c *ExchangeConfig) RouterAddressHex() common.Address {
	return common.HexToAddress(c.RouterAddress)
}

// FactoryAddressHex returns the factory address as common.Address.
func (c *ExchangeConfig) FactoryAddressHex() common.Address {
	return common.HexToAddress(c.FactoryAddress)
}

// PairConfig describes one supported token pair. Tokens may be named by
// registry symbol or hex address. PairAddress is optional; when empty the
// pool is resolved via the exchange's factory.
type PairConfig struct {
	TokenA      string `mapstructure:"token_a"`
	TokenB      string `mapstructure:"token_b"`
	PairAddress string `mapstructure:"pair_address"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("AGG")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "AGG_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "AGG_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "AGG_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	v.BindEnv("ethereum.websocket_url", "AGG_ETH_WS_URL", "ETH_WS_URL")
	v.BindEnv("ethereum.http_url", "AGG_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.chain_id", "AGG_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// Aggregator
	v.BindEnv("aggregator.poll_interval_ms", "AGG_POLL_INTERVAL_MS")
	v.BindEnv("aggregator.stale_after_ms", "AGG_STALE_AFTER_MS")
	v.BindEnv("aggregator.rpc_rate_limit", "AGG_RPC_RATE_LIMIT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "AGG_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "AGG_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "AGG_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "dex-price-aggregator")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1)

	// Aggregator defaults
	v.SetDefault("aggregator.poll_interval_ms", 10_000)
	v.SetDefault("aggregator.stale_after_ms", 60_000)
	v.SetDefault("aggregator.rpc_rate_limit", 50.0)

	// Two V2-style exchanges on Ethereum Mainnet, sharing the same pairs,
	// so cross-exchange diffs work out of the box.
	v.SetDefault("aggregator.exchanges", []map[string]any{
		{
			"name":            "uniswap-v2",
			"router_address":  "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
			"factory_address": "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f",
			"pairs": []map[string]any{
				{"token_a": "WETH", "token_b": "USDC"},
				{"token_a": "WETH", "token_b": "DAI"},
			},
		},
		{
			"name":            "sushiswap",
			"router_address":  "0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F",
			"factory_address": "0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac",
			"pairs": []map[string]any{
				{"token_a": "WETH", "token_b": "USDC"},
				{"token_a": "WETH", "token_b": "DAI"},
			},
		},
	})

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "dex-price-aggregator")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration. Per-exchange problems are left to
// engine construction, which skips broken exchanges instead of failing.
func (c *Config) Validate() error {
	if c.Ethereum.HTTPURL == "" && c.Ethereum.WebSocketURL == "" {
		return fmt.Errorf("one of ethereum.http_url or ethereum.websocket_url is required")
	}
	if len(c.Aggregator.Exchanges) == 0 {
		return fmt.Errorf("aggregator.exchanges cannot be empty")
	}
	if c.Aggregator.PollIntervalMs <= 0 {
		return fmt.Errorf("aggregator.poll_interval_ms must be positive")
	}
	for _, ex := range c.Aggregator.Exchanges {
		if ex.Name == "" {
			return fmt.Errorf("exchange with empty name")
		}
	}
	return nil
}
