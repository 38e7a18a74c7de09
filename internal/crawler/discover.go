// Package crawler walks the legacy site: listing discovery, per-page
// scraping and the bounded worker pool driving it.
package crawler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"legacyfetch/internal/config"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

var archiveLinkRe = regexp.MustCompile(`(?i)/archives/\d+\.html$`)

// Discoverer walks the paginated category listing and harvests
// detail-page links. Discovery is strictly sequential: pagination ends
// the first time a page yields no links, so pages must be observed in
// order.
type Discoverer struct {
	cfg    *config.Config
	logger *zap.Logger

	// current collects the links of the page being visited; discovery
	// is sequential so no locking is needed
	current []string
}

// NewDiscoverer creates a listing discoverer
func NewDiscoverer(cfg *config.Config, logger *zap.Logger) *Discoverer {
	return &Discoverer{cfg: cfg, logger: logger}
}

// Discover returns the deduplicated detail-page URLs of up to MaxPages
// listing pages. The first page without links stops the walk early.
func (d *Discoverer) Discover(ctx context.Context) []string {
	collector := d.newCollector()

	seen := make(map[string]struct{})
	var links []string

	for page := 1; page <= d.cfg.Crawl.MaxPages; page++ {
		select {
		case <-ctx.Done():
			d.logger.Warn("Discovery stopped by context", zap.Error(ctx.Err()))
			return links
		default:
		}

		url := d.cfg.Site.ListingURL(page)
		d.logger.Info("Fetching listing page", zap.Int("page", page), zap.String("url", url))

		d.current = nil
		if err := collector.Visit(url); err != nil {
			d.logger.Warn("Listing page visit failed", zap.Int("page", page), zap.Error(err))
		}
		collector.Wait()

		if len(d.current) == 0 {
			d.logger.Info("Listing page empty, stopping pagination", zap.Int("page", page))
			break
		}

		added := 0
		for _, link := range d.current {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
			added++
		}
		d.logger.Info("Listing page parsed",
			zap.Int("page", page),
			zap.Int("links", len(d.current)),
			zap.Int("new", added))
	}

	return links
}

// newCollector builds the colly collector for listing pages: fixed
// header set, per-domain pacing delay, and manual retry on errors
func (d *Discoverer) newCollector() *colly.Collector {
	collector := colly.NewCollector(
		colly.UserAgent(d.cfg.HTTP.UserAgent),
		colly.MaxDepth(1),
	)

	collector.WithTransport(&http.Transport{
		ResponseHeaderTimeout: d.cfg.HTTP.ResponseHeaderTimeout,
		DisableKeepAlives:     true,
	})
	collector.SetRequestTimeout(d.cfg.HTTP.Timeout)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      d.cfg.Crawl.PageDelay,
	}); err != nil {
		d.logger.Error("Failed to set collector limit", zap.Error(err))
	}

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", d.cfg.HTTP.Accept)
		r.Headers.Set("Accept-Language", d.cfg.HTTP.AcceptLanguage)
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if !archiveLinkRe.MatchString(href) {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = d.cfg.Site.BaseURL + href
		}
		d.current = append(d.current, href)
	})

	// Retries are driven manually through OnError; an exhausted page
	// simply yields no links, which the walk treats as pagination end
	collector.OnError(func(r *colly.Response, err error) {
		maxRetries := d.cfg.Retry.MaxAttempts - 1
		retryCount, _ := r.Request.Ctx.GetAny("retries").(int)

		if retryCount < maxRetries {
			retryCount++
			r.Request.Ctx.Put("retries", retryCount)
			delay := d.cfg.Retry.ListingBaseDelay * time.Duration(retryCount)
			d.logger.Warn("Retrying listing page",
				zap.String("url", r.Request.URL.String()),
				zap.Int("retry", retryCount),
				zap.Duration("delay", delay),
				zap.Error(err))
			time.Sleep(delay)
			if retryErr := r.Request.Retry(); retryErr != nil {
				d.logger.Error("Failed to retry listing page",
					zap.String("url", r.Request.URL.String()),
					zap.Error(retryErr))
			}
			return
		}

		d.logger.Error("Listing page failed after max retries",
			zap.String("url", r.Request.URL.String()),
			zap.Int("retries", retryCount),
			zap.Error(err))
	})

	return collector
}
