package crawler

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"legacyfetch/internal/config"
	"legacyfetch/internal/extract"
	"legacyfetch/internal/fetch"
	"legacyfetch/internal/model"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

var archiveIDRe = regexp.MustCompile(`/archives/(\d+)\.html`)

// DetailScraper turns one detail page into a VideoRecord
type DetailScraper struct {
	fetcher  *fetch.Client
	rules    *extract.RuleSet
	episodes *extract.EpisodeResolver
	retry    fetch.Policy
	logger   *zap.Logger
}

// NewDetailScraper creates a detail-page scraper
func NewDetailScraper(cfg *config.Config, fetcher *fetch.Client, logger *zap.Logger) *DetailScraper {
	return &DetailScraper{
		fetcher:  fetcher,
		rules:    extract.NewRuleSet(cfg.Site),
		episodes: extract.NewEpisodeResolver(cfg.Site),
		retry: fetch.Policy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			BaseDelay:   cfg.Retry.DetailBaseDelay,
		},
		logger: logger,
	}
}

// PageID derives the record ID from the archive token in the URL, or a
// deterministic hash of the URL when the token is missing
func (s *DetailScraper) PageID(pageURL string) string {
	if m := archiveIDRe.FindStringSubmatch(pageURL); m != nil {
		return m[1]
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(pageURL))
	return fmt.Sprintf("%08x", h.Sum32())
}

// Scrape fetches and extracts one detail page.
//
// A fetch failure returns a tagged-failure record, never an error: the
// caller treats it as a normal result variant. A page with no
// recognizable title returns nil and produces no record at all.
func (s *DetailScraper) Scrape(ctx context.Context, pageURL string) *model.VideoRecord {
	id := s.PageID(pageURL)

	document, err := s.fetcher.GetWithRetry(ctx, pageURL, s.retry)
	if err != nil {
		s.logger.Warn("Detail page fetch failed",
			zap.String("url", pageURL),
			zap.Error(err))
		return &model.VideoRecord{
			ID:            id,
			PageURL:       pageURL,
			FailureReason: err.Error(),
		}
	}

	title := s.rules.Title(document)
	if title == "" {
		s.logger.Warn("No title pattern matched, dropping page", zap.String("url", pageURL))
		return nil
	}

	record := &model.VideoRecord{
		ID:          id,
		Title:       title,
		Author:      extract.InferAuthor(title),
		Description: s.rules.Description(document),
		CoverURL:    s.rules.Cover(document),
		Tags:        s.extractTags(document),
		PageURL:     pageURL,
	}
	record.Episodes, record.VideoURL = s.episodes.Resolve(document)

	return record
}

// extractTags collects tags from the article-tags region only. Anchors
// elsewhere on the page never count as tags.
func (s *DetailScraper) extractTags(document string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		s.logger.Debug("Failed to parse page for tags", zap.Error(err))
		return nil
	}

	seen := make(map[string]struct{})
	var tags []string
	doc.Find(`div[class*="article-tags"]`).First().Find("a").Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(a.Text())
		if !strings.HasPrefix(text, "#") {
			return
		}
		tag := strings.TrimSpace(strings.TrimPrefix(text, "#"))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	})

	return tags
}
