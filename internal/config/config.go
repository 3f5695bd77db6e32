package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server  ServerConfig
	Admin   AdminConfig
	Storage StorageConfig
	Quotes  QuotesConfig
}

// ServerConfig defines the HTTP listener settings.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AdminConfig defines the fixed administrative wallet and shared secret.
// Validated once at startup and never mutated afterwards.
type AdminConfig struct {
	WalletAddress string `mapstructure:"wallet_address"`
	Password      string `mapstructure:"password"`
}

// StorageConfig selects and parameterizes the record store backend.
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"` // "file" or "postgres"
	FilePath string         `mapstructure:"file_path"`
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig defines the postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string `mapstructure:"dbname"`
}

// QuotesConfig defines the swap-quote fetching and opportunity detection
// settings for the fixed trading pair.
type QuotesConfig struct {
	BaseURL          string   `mapstructure:"base_url"`
	InputMint        string   `mapstructure:"input_mint"`
	OutputMint       string   `mapstructure:"output_mint"`
	Amount           int64    `mapstructure:"amount"`
	OutputDecimals   int      `mapstructure:"output_decimals"`
	TimeoutMS        int      `mapstructure:"timeout_ms"`
	Sources          []string `mapstructure:"sources"`
	Baseline         string   `mapstructure:"baseline"`
	ThresholdPercent float64  `mapstructure:"threshold_percent"`
	StreamIntervalMS int      `mapstructure:"stream_interval_ms"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
