package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "trailing slash on base URL",
			mutate:  func(c *Config) { c.Site.BaseURL = "https://tv.example.org/" },
			wantErr: true,
		},
		{
			name:    "missing base URL",
			mutate:  func(c *Config) { c.Site.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Crawl.Concurrency = 0 },
			wantErr: true,
		},
		{
			name:    "zero retry attempts",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.HTTP.Timeout = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	assert.Equal(t, "https://tv.mikiacg.org", cfg.Site.BaseURL)
	assert.Equal(t, "/index.php/category/Video/", cfg.Site.ListingPath)
	assert.Equal(t, "mikiacg", cfg.Site.BrandToken)
	assert.Equal(t, 10, cfg.Crawl.MaxPages)
	assert.Equal(t, 3, cfg.Crawl.Concurrency)
	assert.Equal(t, 300*time.Millisecond, cfg.Crawl.PageDelay)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.ListingBaseDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.DetailBaseDelay)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SITE_BASE_URL", "https://legacy.example.net")
	t.Setenv("CRAWL_MAX_PAGES", "2")
	t.Setenv("CRAWL_CONCURRENCY", "5")
	t.Setenv("RETRY_DETAIL_BASE_DELAY", "50ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	assert.Equal(t, "https://legacy.example.net", cfg.Site.BaseURL)
	assert.Equal(t, 2, cfg.Crawl.MaxPages)
	assert.Equal(t, 5, cfg.Crawl.Concurrency)
	assert.Equal(t, 50*time.Millisecond, cfg.Retry.DetailBaseDelay)
}

func TestSiteConfig_ListingURL(t *testing.T) {
	site := SiteConfig{
		BaseURL:     "https://tv.example.org",
		ListingPath: "/index.php/category/Video/",
	}

	assert.Equal(t, "https://tv.example.org/index.php/category/Video/", site.ListingURL(1))
	assert.Equal(t, "https://tv.example.org/index.php/category/Video/2/", site.ListingURL(2))
	assert.Equal(t, "https://tv.example.org/index.php/category/Video/10/", site.ListingURL(10))
}
