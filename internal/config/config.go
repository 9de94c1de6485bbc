package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	API         APIConfig
	Feeds       FeedConfig
	Commission  CommissionConfig
	Storage     StorageConfig
	LogLevel    string
}

// APIConfig points at the remote spreadsheet-backed order/auth API
type APIConfig struct {
	URL string // APP_SCRIPT_API_URL: single POST endpoint, {action,email,...} bodies
}

// FeedConfig holds the static JSON feed locations
type FeedConfig struct {
	ProductDataURL string // primary storefront data.json (products + stock)
	UKProductURL   string // UK storefront product feed
	BrandURL       string // brand list feed
}

// CommissionConfig mirrors the browser-side pricing constants. Immutable after Load.
type CommissionConfig struct {
	CODRate         float64 // fraction of unit price charged as COD handling
	PackingBoxCost  float64
	PackingPolyCost float64
	AWRCFixed       float64 // fixed per-unit platform deduction
}

// StorageConfig locates the device-scoped state files and their keys
type StorageConfig struct {
	Dir         string // directory for the JSON key-value files
	CartKey     string // primary cart contents entry (bw_cart_v1 in the browser app)
	UKCartKey   string // UK storefront cart contents entry
	UserKey     string // cached identity
	TokenKey    string // cached ID token
	ShippingKey string // cached shipping address
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("COD_RATE", 0.01)
	viper.SetDefault("PACKING_WHITE_BOX", 38.0)
	viper.SetDefault("PACKING_WHITE_POLY", 19.0)
	viper.SetDefault("AWRC_FIXED", 20.0)
	viper.SetDefault("STATE_DIR", ".state")
	viper.SetDefault("CART_KEY", "bw_cart_v1")
	viper.SetDefault("UK_CART_KEY", "bw_uk_cart_v1")
	viper.SetDefault("USER_KEY", "bw_user")
	viper.SetDefault("TOKEN_KEY", "bw_id_token")
	viper.SetDefault("SHIPPING_KEY", "bw_shipping")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		API: APIConfig{
			URL: strings.TrimSpace(getEnvOrViper("APP_SCRIPT_API_URL", "")),
		},
		Feeds: FeedConfig{
			ProductDataURL: strings.TrimSpace(getEnvOrViper("PRODUCT_DATA_URL", "")),
			UKProductURL:   strings.TrimSpace(getEnvOrViper("UK_PRODUCT_DATA_URL", "")),
			BrandURL:       strings.TrimSpace(getEnvOrViper("BRAND_DATA_URL", "")),
		},
		Commission: CommissionConfig{
			CODRate:         viper.GetFloat64("COD_RATE"),
			PackingBoxCost:  viper.GetFloat64("PACKING_WHITE_BOX"),
			PackingPolyCost: viper.GetFloat64("PACKING_WHITE_POLY"),
			AWRCFixed:       viper.GetFloat64("AWRC_FIXED"),
		},
		Storage: StorageConfig{
			Dir:         getEnvOrViper("STATE_DIR", ".state"),
			CartKey:     getEnvOrViper("CART_KEY", "bw_cart_v1"),
			UKCartKey:   getEnvOrViper("UK_CART_KEY", "bw_uk_cart_v1"),
			UserKey:     getEnvOrViper("USER_KEY", "bw_user"),
			TokenKey:    getEnvOrViper("TOKEN_KEY", "bw_id_token"),
			ShippingKey: getEnvOrViper("SHIPPING_KEY", "bw_shipping"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.API.URL == "" {
		return nil, fmt.Errorf("APP_SCRIPT_API_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
