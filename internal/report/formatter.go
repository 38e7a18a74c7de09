// Package report renders the author-grouped bulk-import text.
package report

import (
	"sort"
	"strings"

	"legacyfetch/internal/extract"
	"legacyfetch/internal/model"
)

// Field labels of the bulk-import wire format. The downstream importer
// matches on these tokens verbatim, full-width colon included.
const (
	labelCollection  = "合集："
	labelTitle       = "标题："
	labelDescription = "描述："
	labelCover       = "封面："
	labelVideo       = "视频："
	labelTags        = "标签："
)

// Format renders the import text for all valid records and returns it
// with the number of emitted blocks (playable units, not records).
//
// Records are filtered to those with a title, no failure and something
// playable, grouped by author with authors sorted lexicographically;
// within a group the filtered input order is kept. Output depends only
// on the input slice, so repeated calls are byte-identical.
func Format(records []*model.VideoRecord) (string, int) {
	grouped := make(map[string][]*model.VideoRecord)
	for _, rec := range records {
		if !rec.IsValid() || !rec.HasMedia() {
			continue
		}
		author := rec.Author
		if author == "" {
			author = extract.UncategorizedAuthor
		}
		grouped[author] = append(grouped[author], rec)
	}

	authors := make([]string, 0, len(grouped))
	for author := range grouped {
		authors = append(authors, author)
	}
	sort.Strings(authors)

	var lines []string
	emitted := 0

	for _, author := range authors {
		lines = append(lines, labelCollection+author, "")

		for _, rec := range grouped[author] {
			if len(rec.Episodes) > 1 {
				for _, ep := range rec.Episodes {
					if ep.VideoURL == "" {
						continue
					}
					lines = appendBlock(lines, rec, rec.Title+" - "+ep.Label, ep.VideoURL)
					emitted++
				}
			} else if rec.VideoURL != "" {
				lines = appendBlock(lines, rec, rec.Title, rec.VideoURL)
				emitted++
			}
		}
	}

	return strings.Join(lines, "\n"), emitted
}

// appendBlock renders one playable unit followed by a blank separator
// line
func appendBlock(lines []string, rec *model.VideoRecord, title, videoURL string) []string {
	lines = append(lines, labelTitle+title)
	if rec.Description != "" {
		lines = append(lines, labelDescription+rec.Description)
	}
	if rec.CoverURL != "" {
		lines = append(lines, labelCover+rec.CoverURL)
	}
	lines = append(lines, labelVideo+videoURL)
	if len(rec.Tags) > 0 {
		lines = append(lines, labelTags+strings.Join(rec.Tags, ","))
	}
	return append(lines, "")
}
