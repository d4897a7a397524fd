package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bay-puz/kotobalist/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedRun creates an unfinished extraction run over a made-up dump path.
func SeedRun(t *testing.T, pool *pgxpool.Pool) domain.Run {
	t.Helper()

	run := domain.Run{
		ID:         uuid.New(),
		DumpPath:   "jawiki-" + uniqueSuffix() + "-pages-articles-multistream.xml.bz2",
		StartedAt:  time.Now().UTC().Truncate(time.Microsecond),
		ByStrategy: map[string]int{},
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO extraction_runs (id, dump_path, started_at) VALUES ($1, $2, $3)`,
		run.ID, run.DumpPath, run.StartedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRun insert extraction_run: %v", err)
	}

	return run
}

// SeedReading stores one reading for runID. The title gets a unique suffix
// so repeated calls never collide.
func SeedReading(t *testing.T, pool *pgxpool.Pool, runID uuid.UUID, title, yomi string) domain.Reading {
	t.Helper()

	rd := domain.Reading{
		ID:        uuid.New(),
		RunID:     runID,
		Title:     title + "-" + uniqueSuffix(),
		Yomi:      yomi,
		Strategy:  "yomigana",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO readings (id, run_id, title, yomi, strategy, block_offset, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rd.ID, rd.RunID, rd.Title, rd.Yomi, rd.Strategy, rd.BlockOffset, rd.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReading insert reading: %v", err)
	}

	return rd
}
