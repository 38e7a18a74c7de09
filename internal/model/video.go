// Package model contains the data model of a crawl run.
package model

// Episode is one playable unit of a multi-part title
type Episode struct {
	Num      int
	Label    string
	VideoURL string
}

// VideoRecord is the scrape result for one detail page.
//
// A record either carries content, or carries FailureReason with all
// content fields empty. Failures are a normal result variant, not an
// error: the crawl keeps going and the report skips them.
type VideoRecord struct {
	ID          string
	Title       string
	Author      string
	Description string
	CoverURL    string

	// VideoURL is the primary media URL, the first one discovered on
	// the page
	VideoURL string

	// Tags in page order, deduplicated
	Tags []string

	// Episodes sorted ascending by Num, Num unique within a record
	Episodes []Episode

	PageURL       string
	FailureReason string
}

// IsValid reports whether the record was scraped successfully
func (v *VideoRecord) IsValid() bool {
	return v.Title != "" && v.FailureReason == ""
}

// HasMedia reports whether the record has anything playable
func (v *VideoRecord) HasMedia() bool {
	return v.VideoURL != "" || len(v.Episodes) > 0
}

// PlayableCount counts the playable units the record contributes to an
// export: one per URL-bearing episode for multi-episode records, one
// for a single primary URL, zero otherwise
func (v *VideoRecord) PlayableCount() int {
	if len(v.Episodes) > 1 {
		count := 0
		for _, ep := range v.Episodes {
			if ep.VideoURL != "" {
				count++
			}
		}
		return count
	}
	if v.VideoURL != "" {
		return 1
	}
	return 0
}

// Summary holds the counters reported at the end of a run
type Summary struct {
	// Collections is the number of successfully scraped records
	Collections int

	// Videos is the number of playable units across those records
	Videos int

	// NoVideo counts scraped records without any media URL
	NoVideo int

	// Errors counts tagged-failure records
	Errors int
}

// Summarize computes the run summary over all produced records
func Summarize(records []*VideoRecord) Summary {
	var s Summary
	for _, rec := range records {
		switch {
		case rec.FailureReason != "":
			s.Errors++
		case rec.IsValid():
			s.Collections++
			s.Videos += rec.PlayableCount()
			if !rec.HasMedia() {
				s.NoVideo++
			}
		}
	}
	return s
}
