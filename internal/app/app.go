package app

import (
	"context"
	"fmt"
	"time"

	"legacyfetch/internal/config"
	"legacyfetch/internal/crawler"
	"legacyfetch/internal/model"
	"legacyfetch/internal/report"
	"legacyfetch/internal/storage"
	"legacyfetch/internal/storage/repository"

	"go.uber.org/zap"
)

// App runs one crawl-and-export cycle
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	discoverer *crawler.Discoverer
	crawler    *crawler.Crawler
	writer     *report.Writer
	archive    *storage.Postgres
}

// New assembles the application from its factory
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	factory := NewComponentFactory(cfg, logger)

	archive, err := factory.CreateArchive()
	if err != nil {
		return nil, err
	}

	client := factory.CreateFetchClient()

	return &App{
		cfg:        cfg,
		logger:     logger,
		discoverer: factory.CreateDiscoverer(),
		crawler:    factory.CreateCrawler(client),
		writer:     factory.CreateWriter(),
		archive:    archive,
	}, nil
}

// Run crawls the site and writes the export file. A partial crawl still
// produces a report: per-page failures are counted, never fatal.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting crawl",
		zap.String("base_url", a.cfg.Site.BaseURL),
		zap.Int("max_pages", a.cfg.Crawl.MaxPages),
		zap.Int("concurrency", a.cfg.Crawl.Concurrency))

	links := a.discoverer.Discover(ctx)
	a.logger.Info("Discovery finished", zap.Int("links", len(links)))

	records := a.crawler.CrawlAll(ctx, links)

	summary := model.Summarize(records)
	a.logger.Info("Crawl finished",
		zap.Int("collections", summary.Collections),
		zap.Int("videos", summary.Videos),
		zap.Int("no_video", summary.NoVideo),
		zap.Int("errors", summary.Errors))

	text, emitted := report.Format(records)

	now := time.Now()
	path, err := a.writer.Write(text, summary, emitted, now)
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	a.logger.Info("Export complete", zap.String("path", path), zap.Int("exported", emitted))

	if a.archive != nil {
		if err := a.archiveRun(ctx, now, records); err != nil {
			// Archiving is best-effort history; the export already
			// succeeded
			a.logger.Error("Failed to archive crawl run", zap.Error(err))
		}
	}

	return nil
}

// Close releases held resources
func (a *App) Close() {
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Warn("Failed to close archive connection", zap.Error(err))
		}
	}
}

// archiveRun persists the run into the crawl archive database
func (a *App) archiveRun(ctx context.Context, runAt time.Time, records []*model.VideoRecord) error {
	repo := repository.NewVideoRepository(a.archive.DB(), a.logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	return repo.SaveRun(ctx, runAt, records)
}
