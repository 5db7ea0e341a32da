package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Gemini     GeminiConfig
	Browser    BrowserConfig
	Storefront StorefrontConfig
	Automation AutomationConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds reasoning-service configuration
type GeminiConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BrowserConfig holds Chrome session configuration
type BrowserConfig struct {
	Headless    bool   `mapstructure:"headless"`
	UserAgent   string `mapstructure:"user_agent"`
	UserDataDir string `mapstructure:"user_data_dir"`
}

// StorefrontConfig holds the retail-site endpoints the automation targets
type StorefrontConfig struct {
	LandingURL string `mapstructure:"landing_url"`
	CartURL    string `mapstructure:"cart_url"`
}

// AutomationConfig holds timing knobs for plan execution and cart probing
type AutomationConfig struct {
	SettleDelay   time.Duration `mapstructure:"settle_delay"`
	ClickDelay    time.Duration `mapstructure:"click_delay"`
	ProbeTimeout  time.Duration `mapstructure:"probe_timeout"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	WaitTimeout   time.Duration `mapstructure:"wait_timeout"`
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryBackoff  time.Duration `mapstructure:"retry_backoff"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int `mapstructure:"per_ip"`
	Gemini int `mapstructure:"gemini"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cartpilot/")

	// Environment variable settings
	v.SetEnvPrefix("CARTPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "4000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Gemini defaults
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout", "60s")

	// Browser defaults
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) "+
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("browser.user_data_dir", "")

	// Storefront defaults
	v.SetDefault("storefront.landing_url", "https://www.amazon.com/wholefoods")
	v.SetDefault("storefront.cart_url", "https://www.amazon.com/gp/cart/view.html?ref_=nav_cart")

	// Automation defaults
	v.SetDefault("automation.settle_delay", "300ms")
	v.SetDefault("automation.click_delay", "1s")
	v.SetDefault("automation.probe_timeout", "1s")
	v.SetDefault("automation.search_timeout", "5s")
	v.SetDefault("automation.wait_timeout", "30s")
	v.SetDefault("automation.max_retries", 2)
	v.SetDefault("automation.retry_backoff", "1s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 30)
	v.SetDefault("ratelimit.gemini", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set CARTPILOT_GEMINI_API_KEY)")
	}

	if config.Storefront.LandingURL == "" {
		return fmt.Errorf("storefront landing URL is required")
	}

	if config.Automation.MaxRetries < 0 {
		return fmt.Errorf("automation max_retries must be >= 0, got: %d", config.Automation.MaxRetries)
	}

	if config.Automation.SettleDelay < 0 || config.Automation.ClickDelay < 0 {
		return fmt.Errorf("automation delays must be >= 0")
	}

	return nil
}
