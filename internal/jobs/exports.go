package jobs

import (
	"context"
	"io"

	"github.com/Spok95/vocab-scale/internal/export"
	"github.com/Spok95/vocab-scale/internal/models"
)

// GradeLister is the part of the aggregator the export job needs.
type GradeLister interface {
	AllByScore(ctx context.Context) ([]models.GradeSummary, error)
	AllByClass(ctx context.Context) ([]models.GradeSummary, error)
}

// ExportSorts rewrites sort1.txt and sort2.txt in dir.
func ExportSorts(g GradeLister, dir string) Job {
	return func(ctx context.Context) error {
		byScore, err := g.AllByScore(ctx)
		if err != nil {
			return err
		}
		if _, err := export.WriteFile(dir, export.ByScoreFile, func(w io.Writer) error {
			return export.WriteByScore(w, byScore)
		}); err != nil {
			return err
		}
		exportedRows.WithLabelValues(export.ByScoreFile).Set(float64(len(byScore)))

		byClass, err := g.AllByClass(ctx)
		if err != nil {
			return err
		}
		if _, err := export.WriteFile(dir, export.ByClassFile, func(w io.Writer) error {
			return export.WriteByClass(w, byClass)
		}); err != nil {
			return err
		}
		exportedRows.WithLabelValues(export.ByClassFile).Set(float64(len(byClass)))
		return nil
	}
}
