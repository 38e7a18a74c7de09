// Package config contains configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration
type Config struct {
	// Source site
	Site SiteConfig

	// Crawl behaviour
	Crawl CrawlConfig

	// HTTP client
	HTTP HTTPConfig

	// Retry behaviour
	Retry RetryConfig

	// Export output
	Output OutputConfig

	// Optional crawl archive database (empty disables archiving)
	DatabaseURL string

	// Logging
	LogLevel string
}

// SiteConfig describes the legacy site being crawled
type SiteConfig struct {
	// BaseURL is the site root without a trailing slash
	BaseURL string

	// ListingPath is the paginated category path; page 1 uses it bare,
	// later pages append "{page}/"
	ListingPath string

	// BrandName is the site title suffix stripped from page titles
	BrandName string

	// BrandToken is the latin token appearing in the site's media hosts
	BrandToken string

	// CDNHost is the primary media CDN host
	CDNHost string
}

// CrawlConfig controls the crawl loop
type CrawlConfig struct {
	MaxPages    int
	Concurrency int

	// PageDelay is the pacing delay between listing page fetches
	PageDelay time.Duration
}

// HTTPConfig holds HTTP client settings
type HTTPConfig struct {
	Timeout               time.Duration
	UserAgent             string
	Accept                string
	AcceptLanguage        string
	MaxIdleConns          int
	MaxIdleConnsPerHost   int
	IdleConnTimeout       time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	DisableKeepAlives     bool
}

// RetryConfig holds retry settings for page fetches
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first
	MaxAttempts int

	// ListingBaseDelay is multiplied by the attempt number between
	// listing page retries
	ListingBaseDelay time.Duration

	// DetailBaseDelay is multiplied by the attempt number between
	// detail page retries
	DetailBaseDelay time.Duration
}

// OutputConfig controls the export file
type OutputConfig struct {
	Dir        string
	FilePrefix string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env if present, ignore when missing
	_ = godotenv.Load()

	config := &Config{
		Site: SiteConfig{
			BaseURL:     getEnv("SITE_BASE_URL", "https://tv.mikiacg.org"),
			ListingPath: getEnv("SITE_LISTING_PATH", "/index.php/category/Video/"),
			BrandName:   getEnv("SITE_BRAND_NAME", "咪咔映阁"),
			BrandToken:  getEnv("SITE_BRAND_TOKEN", "mikiacg"),
			CDNHost:     getEnv("SITE_CDN_HOST", "cdn.mikiacg.vip"),
		},
		Crawl: CrawlConfig{
			MaxPages:    getEnvInt("CRAWL_MAX_PAGES", 10),
			Concurrency: getEnvInt("CRAWL_CONCURRENCY", 3),
			PageDelay:   getEnvDuration("CRAWL_PAGE_DELAY", 300*time.Millisecond),
		},
		HTTP: HTTPConfig{
			Timeout:               getEnvDuration("HTTP_TIMEOUT", 20*time.Second),
			UserAgent:             getEnv("HTTP_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
			Accept:                getEnv("HTTP_ACCEPT", "text/html,application/xhtml+xml"),
			AcceptLanguage:        getEnv("HTTP_ACCEPT_LANGUAGE", "zh-CN,zh;q=0.9"),
			MaxIdleConns:          getEnvInt("HTTP_MAX_IDLE_CONNS", 100),
			MaxIdleConnsPerHost:   getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),
			IdleConnTimeout:       getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second),
			TLSHandshakeTimeout:   getEnvDuration("HTTP_TLS_HANDSHAKE_TIMEOUT", 10*time.Second),
			ResponseHeaderTimeout: getEnvDuration("HTTP_RESPONSE_HEADER_TIMEOUT", 20*time.Second),
			DisableKeepAlives:     getEnvBool("HTTP_DISABLE_KEEP_ALIVES", false),
		},
		Retry: RetryConfig{
			MaxAttempts:      getEnvInt("RETRY_MAX_ATTEMPTS", 3),
			ListingBaseDelay: getEnvDuration("RETRY_LISTING_BASE_DELAY", 1*time.Second),
			DetailBaseDelay:  getEnvDuration("RETRY_DETAIL_BASE_DELAY", 500*time.Millisecond),
		},
		Output: OutputConfig{
			Dir:        getEnv("OUTPUT_DIR", "."),
			FilePrefix: getEnv("OUTPUT_FILE_PREFIX", "legacy_import"),
		},
		DatabaseURL: getEnv("DB_DSN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("SITE_BASE_URL is required")
	}
	if strings.HasSuffix(c.Site.BaseURL, "/") {
		return fmt.Errorf("SITE_BASE_URL must not end with a slash")
	}
	if c.Site.ListingPath == "" {
		return fmt.Errorf("SITE_LISTING_PATH is required")
	}
	if c.Site.BrandToken == "" {
		return fmt.Errorf("SITE_BRAND_TOKEN is required")
	}
	if c.Crawl.MaxPages <= 0 {
		return fmt.Errorf("CRAWL_MAX_PAGES must be positive")
	}
	if c.Crawl.Concurrency <= 0 {
		return fmt.Errorf("CRAWL_CONCURRENCY must be positive")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be positive")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// ListingURL builds the listing URL for a page number
func (c *SiteConfig) ListingURL(page int) string {
	if page <= 1 {
		return c.BaseURL + c.ListingPath
	}
	return fmt.Sprintf("%s%s%d/", c.BaseURL, c.ListingPath, page)
}

// getEnv reads an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration reads an environment variable as time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
