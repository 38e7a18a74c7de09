// Package repository contains the crawl archive repositories.
package repository

import (
	"context"
	"fmt"
	"time"

	"legacyfetch/internal/model"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// VideoRow is one archived scrape result. Every run appends its records
// so later imports can be diffed against earlier ones; the archive is
// write-only history and is never read during a crawl.
type VideoRow struct {
	bun.BaseModel `bun:"table:legacy_videos"`

	RowID         int64     `bun:"row_id,pk,autoincrement"`
	RunAt         time.Time `bun:"run_at,notnull"`
	SourceID      string    `bun:"source_id,notnull"`
	Title         string    `bun:"title"`
	Author        string    `bun:"author"`
	Description   string    `bun:"description"`
	CoverURL      string    `bun:"cover_url"`
	VideoURL      string    `bun:"video_url"`
	Tags          []string  `bun:"tags,array"`
	PageURL       string    `bun:"page_url,notnull"`
	FailureReason string    `bun:"failure_reason"`
}

// EpisodeRow is one archived episode belonging to a VideoRow
type EpisodeRow struct {
	bun.BaseModel `bun:"table:legacy_video_episodes"`

	RowID    int64  `bun:"row_id,pk,autoincrement"`
	VideoRow int64  `bun:"video_row_id,notnull"`
	Num      int    `bun:"num,notnull"`
	Label    string `bun:"label"`
	VideoURL string `bun:"video_url"`
}

// VideoRepository archives crawl runs
type VideoRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewVideoRepository creates a crawl archive repository
func NewVideoRepository(db *bun.DB, logger *zap.Logger) *VideoRepository {
	return &VideoRepository{db: db, logger: logger}
}

// EnsureSchema creates the archive tables when missing
func (r *VideoRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.NewCreateTable().
		Model((*VideoRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create videos table: %w", err)
	}

	if _, err := r.db.NewCreateTable().
		Model((*EpisodeRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create episodes table: %w", err)
	}

	return nil
}

// SaveRun archives every record of one crawl run
func (r *VideoRepository) SaveRun(ctx context.Context, runAt time.Time, records []*model.VideoRecord) error {
	for _, rec := range records {
		row := &VideoRow{
			RunAt:         runAt,
			SourceID:      rec.ID,
			Title:         rec.Title,
			Author:        rec.Author,
			Description:   rec.Description,
			CoverURL:      rec.CoverURL,
			VideoURL:      rec.VideoURL,
			Tags:          rec.Tags,
			PageURL:       rec.PageURL,
			FailureReason: rec.FailureReason,
		}

		if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
			return fmt.Errorf("failed to archive record %s: %w", rec.ID, err)
		}

		if len(rec.Episodes) == 0 {
			continue
		}

		episodes := make([]EpisodeRow, 0, len(rec.Episodes))
		for _, ep := range rec.Episodes {
			episodes = append(episodes, EpisodeRow{
				VideoRow: row.RowID,
				Num:      ep.Num,
				Label:    ep.Label,
				VideoURL: ep.VideoURL,
			})
		}
		if _, err := r.db.NewInsert().Model(&episodes).Exec(ctx); err != nil {
			return fmt.Errorf("failed to archive episodes of %s: %w", rec.ID, err)
		}
	}

	r.logger.Info("Crawl run archived",
		zap.Time("run_at", runAt),
		zap.Int("records", len(records)))

	return nil
}
