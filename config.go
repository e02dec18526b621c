package findash

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FINDASH_FINNHUB_TOKEN
const EnvPrefix = "FINDASH"

// Config is the runtime configuration of the dashboard service and CLI
type Config struct {
	ListenAddr       string        `mapstructure:"listen_addr"`
	NewsWebhookURL   string        `mapstructure:"news_webhook_url"`
	ReportWebhookURL string        `mapstructure:"report_webhook_url"`
	IPOEndpoint      string        `mapstructure:"ipo_endpoint"`
	FinnhubToken     string        `mapstructure:"finnhub_token"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout"`
	RateLimit        float64       `mapstructure:"rate_limit"`
	// Contact is appended to the User-Agent header
	Contact        string    `mapstructure:"contact"`
	DefaultMetrics []string  `mapstructure:"default_metrics"`
	Log            LogConfig `mapstructure:"log"`
}

// LogConfig controls NewLogger
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("news_webhook_url", "")
	v.SetDefault("report_webhook_url", "")
	v.SetDefault("ipo_endpoint", DefaultIPOEndpoint)
	v.SetDefault("finnhub_token", "")
	v.SetDefault("request_timeout", DefaultTimeout)
	v.SetDefault("rate_limit", DefaultRateLimit)
	v.SetDefault("contact", "")
	v.SetDefault("default_metrics", []string{"revenue", "netIncome"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/findash.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
}

// LoadConfig reads configuration from defaults, an optional .env file, an
// optional config file at path (yaml, toml or json), and FINDASH_*
// environment variables, in increasing order of precedence.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DefaultMetrics = splitList(cfg.DefaultMetrics)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and metric keys; endpoints may be left empty
func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %v", c.RateLimit)
	}
	if err := DefaultCatalog().ValidateKeys(c.DefaultMetrics); err != nil {
		return fmt.Errorf("default_metrics: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// UserAgentString returns the User-Agent for upstream requests
func (c Config) UserAgentString() string {
	return BuildUserAgent(c.Contact)
}

// splitList flattens comma-joined entries, which is how list values arrive from the environment
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
