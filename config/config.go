package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"ghostbridge/pkg/types"
)

// Config holds the application configuration: the static fee/price
// tables the bridge core consumes plus the simulation knobs.
type Config struct {
	SourceToken     string
	TargetToken     string
	ProtocolFeeRate float64       // Flat protocol fee as a fraction of input
	QuoteTTL        time.Duration // How long a quote stays executable
	DefaultSlippage float64       // Percent, applied when the caller omits one

	GasRates       map[types.Chain]float64 // Native gas cost per chain, in source-token units
	TokenPricesUSD map[string]float64      // USD price per token symbol

	FailureRate        float64       // Probability a simulated step fails
	PropagationDelay   time.Duration // Pause before each step starts
	StepDelayPerSecond time.Duration // Simulated time per estimated-duration second

	StorePath string // Execution store file, empty for default
}

var globalConfig *Config

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".ghostbridge")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	// Set default values
	viper.SetDefault("source_token", "ZEC")
	viper.SetDefault("target_token", "wZEC")
	viper.SetDefault("protocol_fee_rate", 0.001)
	viper.SetDefault("quote_ttl_seconds", 300)
	viper.SetDefault("default_slippage", 0.5)
	viper.SetDefault("failure_rate", 0.05)
	viper.SetDefault("propagation_delay_ms", 2000)
	viper.SetDefault("step_delay_ms_per_second", 10)
	viper.SetDefault("store_path", "")

	for chain, rate := range defaultGasRates() {
		viper.SetDefault("gas_rates."+string(chain), rate)
	}
	for token, price := range defaultTokenPrices() {
		viper.SetDefault("token_prices_usd."+token, price)
	}

	// Read from environment variables
	viper.SetEnvPrefix("GHOSTBRIDGE")
	viper.AutomaticEnv()

	// Read config file (optional)
	_ = viper.ReadInConfig()

	cfg := &Config{
		SourceToken:        viper.GetString("source_token"),
		TargetToken:        viper.GetString("target_token"),
		ProtocolFeeRate:    viper.GetFloat64("protocol_fee_rate"),
		QuoteTTL:           time.Duration(viper.GetInt("quote_ttl_seconds")) * time.Second,
		DefaultSlippage:    viper.GetFloat64("default_slippage"),
		FailureRate:        viper.GetFloat64("failure_rate"),
		PropagationDelay:   time.Duration(viper.GetInt("propagation_delay_ms")) * time.Millisecond,
		StepDelayPerSecond: time.Duration(viper.GetInt("step_delay_ms_per_second")) * time.Millisecond,
		StorePath:          viper.GetString("store_path"),
		GasRates:           make(map[types.Chain]float64),
		TokenPricesUSD:     make(map[string]float64),
	}

	for chain := range defaultGasRates() {
		cfg.GasRates[chain] = viper.GetFloat64("gas_rates." + string(chain))
	}
	for token := range defaultTokenPrices() {
		cfg.TokenPricesUSD[token] = viper.GetFloat64("token_prices_usd." + token)
	}

	if cfg.QuoteTTL <= 0 {
		return nil, fmt.Errorf("quote_ttl_seconds must be greater than 0")
	}
	if cfg.FailureRate < 0 || cfg.FailureRate > 1 {
		return nil, fmt.Errorf("failure_rate must be between 0 and 1")
	}

	globalConfig = cfg
	return cfg, nil
}

// Default returns a configuration with all built-in defaults, without
// touching viper state. Used for embedding and tests.
func Default() *Config {
	return &Config{
		SourceToken:        "ZEC",
		TargetToken:        "wZEC",
		ProtocolFeeRate:    0.001,
		QuoteTTL:           300 * time.Second,
		DefaultSlippage:    0.5,
		FailureRate:        0.05,
		PropagationDelay:   2 * time.Second,
		StepDelayPerSecond: 10 * time.Millisecond,
		GasRates:           defaultGasRates(),
		TokenPricesUSD:     defaultTokenPrices(),
	}
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		return cfg
	}
	return globalConfig
}

// Set updates the global configuration
func Set(cfg *Config) {
	globalConfig = cfg
}

// GasRate returns the flat native gas cost for a chain
func (c *Config) GasRate(chain types.Chain) float64 {
	return c.GasRates[chain]
}

// USDPrice returns the USD price for a token symbol, 0 if unknown
func (c *Config) USDPrice(token string) float64 {
	return c.TokenPricesUSD[token]
}

func defaultGasRates() map[types.Chain]float64 {
	return map[types.Chain]float64{
		types.ChainZcash:     0.0001,
		types.ChainEthereum:  0.005,
		types.ChainNear:      0.001,
		types.ChainPolygon:   0.0005,
		types.ChainBinance:   0.001,
		types.ChainAvalanche: 0.002,
		types.ChainStarknet:  0.0003,
		types.ChainMina:      0.0004,
	}
}

func defaultTokenPrices() map[string]float64 {
	return map[string]float64{
		"ZEC":   35.0,
		"ETH":   3500.0,
		"NEAR":  5.5,
		"MATIC": 0.85,
		"BNB":   580.0,
		"AVAX":  35.0,
		"STRK":  0.45,
		"MINA":  0.65,
		"wZEC":  35.0,
		"USDC":  1.0,
	}
}
