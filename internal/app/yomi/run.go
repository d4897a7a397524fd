package yomi

import (
	"context"
	"fmt"

	"github.com/bay-puz/kotobalist/internal/domain"
	"github.com/bay-puz/kotobalist/pkg/ctxutil"
)

// RunStore records extraction runs.
// Implemented by reading.Repo.
type RunStore interface {
	StartRun(ctx context.Context, dumpPath string) (domain.Run, error)
	FinishRun(ctx context.Context, run domain.Run) error
}

// RecordRun opens a run record, calls scan with the run ID in its context,
// and stores the totals when scan succeeds. A failed scan leaves the run
// unfinished.
func RecordRun(ctx context.Context, store RunStore, dumpPath string, scan func(context.Context) (Summary, error)) (Summary, error) {
	run, err := store.StartRun(ctx, dumpPath)
	if err != nil {
		return Summary{}, fmt.Errorf("start run: %w", err)
	}

	summary, err := scan(ctxutil.WithRunID(ctx, run.ID))
	if err != nil {
		return summary, err
	}

	run.Blocks = summary.Blocks
	run.FailedBlocks = summary.FailedBlocks
	run.Pages = summary.Pages
	run.Readings = summary.Readings
	run.ByStrategy = summary.StrategyCounts()

	if err := store.FinishRun(ctx, run); err != nil {
		return summary, fmt.Errorf("finish run %s: %w", run.ID, err)
	}
	return summary, nil
}
