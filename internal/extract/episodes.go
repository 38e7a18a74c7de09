package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"legacyfetch/internal/config"
	"legacyfetch/internal/model"
)

// videoExtensions covers every container the legacy player was seen
// serving
const videoExtensions = `(?:mp4|mkv|webm|avi|mov|m4v|flv|wmv|ts|m3u8)`

// FeatureLabel is the episode label for a single unnumbered feature
const FeatureLabel = "正片"

// EpisodeLabel returns the label for a numbered episode
func EpisodeLabel(num int) string {
	return fmt.Sprintf("第%d集", num)
}

// EpisodeResolver discovers media URLs on a detail page and assembles
// the episode list
type EpisodeResolver struct {
	urlRules []*regexp.Regexp
	numberRe *regexp.Regexp
}

// NewEpisodeResolver compiles the URL-shape rules for a site. The three
// shapes are: the site's CDN host, any host carrying the site's brand
// token, and a url: key-value as emitted by the theme's player config.
func NewEpisodeResolver(site config.SiteConfig) *EpisodeResolver {
	return &EpisodeResolver{
		urlRules: []*regexp.Regexp{
			regexp.MustCompile(`(?i)["'](https?://` + regexp.QuoteMeta(site.CDNHost) + `/[^"']+\.` + videoExtensions + `)["']`),
			regexp.MustCompile(`(?i)["'](https?://[^"']*` + regexp.QuoteMeta(site.BrandToken) + `[^"']*/[^"']+\.` + videoExtensions + `)["']`),
			regexp.MustCompile(`(?i)url\s*:\s*["'](https?://[^"']+\.` + videoExtensions + `)["']`),
		},
		numberRe: regexp.MustCompile(`(?i)/(\d+)\.` + videoExtensions + `$`),
	}
}

// discoverURLs returns every candidate media URL in first-seen order.
// First-seen order is what makes "first URL wins" deterministic for
// duplicate episode numbers downstream.
func (r *EpisodeResolver) discoverURLs(document string) []string {
	seen := make(map[string]struct{})
	var urls []string
	for _, rule := range r.urlRules {
		for _, m := range rule.FindAllStringSubmatch(document, -1) {
			url := m[1]
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}
	return urls
}

// Resolve returns the episode list sorted ascending by number and the
// primary media URL (the first one discovered, empty when none).
//
// URLs ending in /<digits>.<ext> become numbered episodes; the first
// URL claiming a number keeps it and later duplicates are dropped. When
// no URL is numbered but at least one exists, the page is treated as a
// single feature.
func (r *EpisodeResolver) Resolve(document string) ([]model.Episode, string) {
	urls := r.discoverURLs(document)
	if len(urls) == 0 {
		return nil, ""
	}

	used := make(map[int]struct{})
	var episodes []model.Episode
	for _, url := range urls {
		m := r.numberRe.FindStringSubmatch(url)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil || num <= 0 {
			continue
		}
		if _, taken := used[num]; taken {
			continue
		}
		used[num] = struct{}{}
		episodes = append(episodes, model.Episode{
			Num:      num,
			Label:    EpisodeLabel(num),
			VideoURL: url,
		})
	}

	if len(episodes) == 0 {
		episodes = append(episodes, model.Episode{
			Num:      1,
			Label:    FeatureLabel,
			VideoURL: urls[0],
		})
	}

	sort.Slice(episodes, func(i, j int) bool {
		return episodes[i].Num < episodes[j].Num
	})

	return episodes, urls[0]
}
