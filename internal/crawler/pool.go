package crawler

import (
	"context"
	"runtime/debug"
	"sync"

	"legacyfetch/internal/model"

	"go.uber.org/zap"
)

// crawlResult pairs a scraped URL with its record; the record is nil
// when the page was dropped (no title) or the worker panicked
type crawlResult struct {
	url    string
	record *model.VideoRecord
}

// Crawler runs the detail scraper over all discovered links under a
// bounded worker pool
type Crawler struct {
	scraper *DetailScraper
	workers int
	logger  *zap.Logger
}

// NewCrawler creates a crawler with the given worker count
func NewCrawler(scraper *DetailScraper, workers int, logger *zap.Logger) *Crawler {
	return &Crawler{
		scraper: scraper,
		workers: workers,
		logger:  logger,
	}
}

// CrawlAll scrapes every URL and returns the produced records in
// completion order. One page failing never aborts the batch; tagged
// failures come back as records and dropped pages come back as nothing.
func (c *Crawler) CrawlAll(ctx context.Context, urls []string) []*model.VideoRecord {
	jobs := make(chan string)
	results := make(chan crawlResult)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go c.worker(ctx, i, jobs, results, &wg)
	}

	go func() {
		defer close(jobs)
		for _, url := range urls {
			jobs <- url
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	total := len(urls)
	done := 0
	var records []*model.VideoRecord
	for res := range results {
		done++
		if res.record == nil {
			c.logger.Info("Page dropped",
				zap.Int("done", done),
				zap.Int("total", total),
				zap.String("url", res.url))
			continue
		}
		records = append(records, res.record)
		c.logger.Info("Page scraped",
			zap.Int("done", done),
			zap.Int("total", total),
			zap.String("title", truncateRunes(res.record.Title, 30)),
			zap.String("status", scrapeStatus(res.record)))
	}

	return records
}

// worker drains the job queue until it closes
func (c *Crawler) worker(ctx context.Context, id int, jobs <-chan string, results chan<- crawlResult, wg *sync.WaitGroup) {
	defer wg.Done()

	c.logger.Debug("Crawl worker started", zap.Int("worker_id", id))
	for url := range jobs {
		results <- crawlResult{url: url, record: c.scrapeSafe(ctx, url)}
	}
	c.logger.Debug("Crawl worker stopping", zap.Int("worker_id", id))
}

// scrapeSafe isolates worker panics: a panicking page is logged and
// produces no record, distinct from a tagged failure
func (c *Crawler) scrapeSafe(ctx context.Context, url string) (record *model.VideoRecord) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic recovered in crawl worker",
				zap.String("url", url),
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())))
			record = nil
		}
	}()

	return c.scraper.Scrape(ctx, url)
}

// scrapeStatus renders the per-item progress status
func scrapeStatus(record *model.VideoRecord) string {
	switch {
	case record.FailureReason != "":
		return "✗ " + record.FailureReason
	case !record.HasMedia():
		return "✗ 无视频"
	default:
		return "✓"
	}
}

// truncateRunes shortens a string to at most n runes
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
