package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/outline"
	"github.com/dgallion1/docstruct/internal/spansource"
)

// Worker processes a single document job.
type Worker struct {
	log     *slog.Logger
	stats   *BuildStats
	srcOpts spansource.Options
}

func NewWorker(log *slog.Logger, stats *BuildStats, srcOpts spansource.Options) *Worker {
	return &Worker{
		log:     log,
		stats:   stats,
		srcOpts: srcOpts,
	}
}

// ExtractSpans reads the styled spans of a document using the source its
// filename selects.
func ExtractSpans(data []byte, filename string, opts spansource.Options) ([]doctree.Span, error) {
	src, err := spansource.ForFile(filename, opts)
	if err != nil {
		return nil, err
	}
	spans, err := src.Spans(bytes.NewReader(data), filename)
	if err != nil {
		return nil, fmt.Errorf("extract spans: %w", err)
	}
	return spans, nil
}

// Process extracts spans from the job's file and builds its outline.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting")
	spans, err := ExtractSpans(job.FileData(), job.Filename, w.srcOpts)
	if err != nil {
		log.Error("extract failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	job.SetSpanCount(len(spans))
	log.Info("extracted spans", "spans", len(spans))

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	// Phase 2: Structure
	job.SetStatus(StatusStructuring, "structuring")
	start := time.Now()
	doc, err := outline.Load(spans, job.Weights)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("structure failed", "error", err)
		job.AddError(fmt.Sprintf("structure: %s", err))
		job.SetStatus(StatusFailed, "structuring")
		return
	}
	if w.stats != nil {
		w.stats.Record(elapsed, len(spans))
	}

	job.SetResult(doc)
	log.Info("structured document",
		"styles", len(doc.Styles()),
		"levels", doc.Levels(),
		"roots", len(doc.Roots()),
		"duration_ms", elapsed.Milliseconds(),
	)
	job.SetStatus(StatusCompleted, "done")
}
