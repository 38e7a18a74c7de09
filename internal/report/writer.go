package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"legacyfetch/internal/config"
	"legacyfetch/internal/model"

	"go.uber.org/zap"
)

// Writer writes the export file consumed by the bulk importer
type Writer struct {
	cfg    config.OutputConfig
	logger *zap.Logger
}

// NewWriter creates an export file writer
func NewWriter(cfg config.OutputConfig, logger *zap.Logger) *Writer {
	return &Writer{cfg: cfg, logger: logger}
}

// Write stores the rendered import text with its header and returns the
// file path
func (w *Writer) Write(text string, summary model.Summary, emitted int, now time.Time) (string, error) {
	if err := os.MkdirAll(w.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.md", w.cfg.FilePrefix, now.Format("20060102_150405"))
	path := filepath.Join(w.cfg.Dir, name)

	var header string
	header += "# 旧站视频导入数据\n\n"
	header += fmt.Sprintf("抓取时间: %s\n", now.Format("2006-01-02 15:04:05"))
	header += fmt.Sprintf("合集数: %d, 视频数: %d\n\n", summary.Collections, emitted)
	header += "---\n\n"

	if err := os.WriteFile(path, []byte(header+text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	w.logger.Info("Export file written",
		zap.String("path", path),
		zap.Int("collections", summary.Collections),
		zap.Int("videos", emitted))

	return path, nil
}
