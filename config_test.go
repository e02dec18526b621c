package findash

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, DefaultIPOEndpoint, cfg.IPOEndpoint)
	assert.Equal(t, DefaultTimeout, cfg.RequestTimeout)
	assert.Equal(t, float64(DefaultRateLimit), cfg.RateLimit)
	assert.Equal(t, []string{"revenue", "netIncome"}, cfg.DefaultMetrics)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Empty(t, cfg.NewsWebhookURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("FINDASH_NEWS_WEBHOOK_URL", "https://hooks.example.com/news")
	t.Setenv("FINDASH_FINNHUB_TOKEN", "abc")
	t.Setenv("FINDASH_REQUEST_TIMEOUT", "5s")
	t.Setenv("FINDASH_DEFAULT_METRICS", "revenue, eps")
	t.Setenv("FINDASH_LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example.com/news", cfg.NewsWebhookURL)
	assert.Equal(t, "abc", cfg.FinnhubToken)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"revenue", "eps"}, cfg.DefaultMetrics)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "findash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr: ":9090"
report_webhook_url: https://hooks.example.com/report
rate_limit: 2.5
contact: ops@example.com
default_metrics:
  - totalAssets
  - cash
log:
  format: json
`), 0o644))

	t.Setenv("FINDASH_LISTEN_ADDR", ":7070")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Environment wins over the file
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "https://hooks.example.com/report", cfg.ReportWebhookURL)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, []string{"totalAssets", "cash"}, cfg.DefaultMetrics)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "go-findash/"+VERSION+" (ops@example.com)", cfg.UserAgentString())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		ListenAddr:     ":8080",
		RequestTimeout: time.Second,
		DefaultMetrics: []string{"revenue"},
		Log:            LogConfig{Level: "info"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no listen address", func(c *Config) { c.ListenAddr = "" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }},
		{"unknown metric", func(c *Config) { c.DefaultMetrics = []string{"vibes"} }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, splitList(nil))
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", " ", "c"}))
}
