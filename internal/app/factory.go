// Package app contains the component factory and the run loop.
package app

import (
	"fmt"

	"legacyfetch/internal/config"
	"legacyfetch/internal/crawler"
	"legacyfetch/internal/fetch"
	"legacyfetch/internal/report"
	"legacyfetch/internal/storage"

	"go.uber.org/zap"
)

// ComponentFactory creates application components
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config, logger *zap.Logger) *ComponentFactory {
	if cfg == nil {
		logger.Fatal("Config cannot be nil")
	}
	if logger == nil {
		panic("Logger cannot be nil")
	}

	return &ComponentFactory{config: cfg, logger: logger}
}

// CreateFetchClient creates the shared HTTP client
func (f *ComponentFactory) CreateFetchClient() *fetch.Client {
	return fetch.NewClient(f.config.HTTP, f.logger)
}

// CreateDiscoverer creates the listing-page discoverer
func (f *ComponentFactory) CreateDiscoverer() *crawler.Discoverer {
	return crawler.NewDiscoverer(f.config, f.logger)
}

// CreateCrawler creates the detail-page crawler with its worker pool
func (f *ComponentFactory) CreateCrawler(client *fetch.Client) *crawler.Crawler {
	scraper := crawler.NewDetailScraper(f.config, client, f.logger)
	return crawler.NewCrawler(scraper, f.config.Crawl.Concurrency, f.logger)
}

// CreateWriter creates the export file writer
func (f *ComponentFactory) CreateWriter() *report.Writer {
	return report.NewWriter(f.config.Output, f.logger)
}

// CreateArchive creates the optional crawl archive connection. Returns
// nil without error when no DB_DSN is configured.
func (f *ComponentFactory) CreateArchive() (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, nil
	}

	db, err := storage.NewPostgres(f.config.DatabaseURL, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive connection: %w", err)
	}

	return db, nil
}
