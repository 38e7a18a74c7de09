// Package extract recovers catalog fields from raw legacy page markup.
//
// The legacy site exposes no API, so every field is recovered through an
// ordered chain of regular expressions tried against the page text. Rule
// order is load-bearing: the first rule that matches wins and later rules
// are never consulted.
package extract

import (
	"regexp"
	"strings"

	"legacyfetch/internal/config"

	"golang.org/x/text/unicode/norm"
)

var markupRe = regexp.MustCompile(`<[^>]+>`)

// RuleSet holds the per-field rule chains for one site
type RuleSet struct {
	title       []*regexp.Regexp
	description []*regexp.Regexp
	cover       []*regexp.Regexp

	// brandSuffix strips the "- <brand> ..." tail the theme appends to
	// page titles
	brandSuffix *regexp.Regexp
}

// NewRuleSet compiles the field rule chains for a site
func NewRuleSet(site config.SiteConfig) *RuleSet {
	return &RuleSet{
		title: []*regexp.Regexp{
			regexp.MustCompile(`(?i)<h1[^>]*class="[^"]*article-title[^"]*"[^>]*>([^<]+)</h1>`),
			regexp.MustCompile(`(?i)<meta[^>]*property="og:title"[^>]*content="([^"]+)"`),
			regexp.MustCompile(`(?i)<title>([^<]+)</title>`),
		},
		description: []*regexp.Regexp{
			regexp.MustCompile(`(?i)<meta[^>]*name="description"[^>]*content="([^"]+)"`),
			regexp.MustCompile(`(?i)<meta[^>]*property="og:description"[^>]*content="([^"]+)"`),
			regexp.MustCompile(`(?is)<div[^>]*class="[^"]*joe_detail__abstract[^"]*"[^>]*>(.*?)</div>`),
		},
		cover: []*regexp.Regexp{
			regexp.MustCompile(`(?i)<meta[^>]*property="og:image"[^>]*content="([^"]+)"`),
			regexp.MustCompile(`(?i)<meta[^>]*name="twitter:image"[^>]*content="([^"]+)"`),
			regexp.MustCompile(`(?i)<img[^>]*class="[^"]*joe_detail__thumb[^"]*"[^>]*src="([^"]+)"`),
		},
		brandSuffix: regexp.MustCompile(`\s*[-|]\s*` + regexp.QuoteMeta(site.BrandName) + `.*$`),
	}
}

// firstMatch returns the trimmed capture of the first matching rule, or
// empty when no rule matches
func firstMatch(document string, rules []*regexp.Regexp) string {
	for _, rule := range rules {
		if m := rule.FindStringSubmatch(document); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// Title extracts the page title with the site branding suffix removed.
// Empty means no title rule matched; the caller drops the record.
func (r *RuleSet) Title(document string) string {
	title := firstMatch(document, r.title)
	if title == "" {
		return ""
	}
	title = r.brandSuffix.ReplaceAllString(title, "")
	return norm.NFC.String(strings.TrimSpace(title))
}

// Description extracts the description with embedded markup stripped.
// HTML entities are left as-is.
func (r *RuleSet) Description(document string) string {
	desc := firstMatch(document, r.description)
	if desc == "" {
		return ""
	}
	desc = markupRe.ReplaceAllString(desc, "")
	return norm.NFC.String(strings.TrimSpace(desc))
}

// Cover extracts the cover image URL
func (r *RuleSet) Cover(document string) string {
	return firstMatch(document, r.cover)
}
