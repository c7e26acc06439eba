package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"finadvisor/pkg/errors"
)

type Config struct {
	App           AppConfig
	LLM           LLMConfig
	Runtime       RuntimeConfig
	MarketData    MarketDataConfig
	Redis         RedisConfig
	ErrorTracking ErrorTrackingConfig
	Metrics       MetricsConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"finadvisor"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`
}

// LLMConfig selects the chat provider. Azure OpenAI is the default deployment target.
type LLMConfig struct {
	Provider string `envconfig:"LLM_PROVIDER" default:"azure"` // azure|openai|gemini

	AzureAPIKey     string `envconfig:"AZURE_OPENAI_API_KEY"`
	AzureEndpoint   string `envconfig:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIVersion string `envconfig:"AZURE_OPENAI_API_VERSION" default:"2024-06-01"`
	AzureDeployment string `envconfig:"AZURE_OPENAI_DEPLOYMENT"`

	OpenAIKey   string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`

	GeminiKey   string `envconfig:"GEMINI_API_KEY"`
	GeminiModel string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`

	Temperature       float64       `envconfig:"APP_TEMPERATURE" default:"0.2"`
	Timeout           time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
	RequestsPerMinute int           `envconfig:"LLM_REQUESTS_PER_MINUTE" default:"0"` // 0 disables throttling
}

// AzureBaseURL mirrors the deployment-scoped URL the Azure OpenAI REST API expects
func (c LLMConfig) AzureBaseURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/", strings.TrimRight(c.AzureEndpoint, "/"), c.AzureDeployment)
}

type RuntimeConfig struct {
	WorkDir       string `envconfig:"APP_WORK_DIR" default:"./workspace"`
	DefaultMarket string `envconfig:"DEFAULT_MARKET" default:"IN"`
	MaxToolRounds int    `envconfig:"MAX_TOOL_ROUNDS" default:"3"`
	PromptsDir    string `envconfig:"PROMPTS_DIR"` // empty uses the embedded prompts
}

// DefaultSymbol returns the example ticker for the configured market
func (c RuntimeConfig) DefaultSymbol() string {
	return DefaultSymbolFor(c.DefaultMarket)
}

// DefaultSymbolFor returns AAPL for the US market and TCS.NS for anything else
func DefaultSymbolFor(market string) string {
	if strings.EqualFold(strings.TrimSpace(market), "US") {
		return "AAPL"
	}
	return "TCS.NS"
}

type MarketDataConfig struct {
	BaseURL           string        `envconfig:"MARKET_DATA_BASE_URL" default:"https://query1.finance.yahoo.com"`
	Timeout           time.Duration `envconfig:"MARKET_DATA_TIMEOUT" default:"10s"`
	RequestsPerMinute int           `envconfig:"MARKET_DATA_REQUESTS_PER_MINUTE" default:"60"`
	CacheTTL          time.Duration `envconfig:"MARKET_DATA_CACHE_TTL" default:"1m"`
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"development"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings that cannot be expressed with struct tags
func (c *Config) Validate() error {
	if c.Runtime.MaxToolRounds < 0 {
		return errors.NewValidationError("MAX_TOOL_ROUNDS", "must not be negative", c.Runtime.MaxToolRounds)
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "azure":
		if c.LLM.AzureEndpoint == "" || c.LLM.AzureDeployment == "" {
			return errors.NewValidationError("AZURE_OPENAI_ENDPOINT", "endpoint and deployment are required for the azure provider", c.LLM.AzureEndpoint)
		}
	case "openai", "gemini":
	default:
		return errors.NewValidationError("LLM_PROVIDER", "must be one of azure, openai, gemini", c.LLM.Provider)
	}

	return nil
}
