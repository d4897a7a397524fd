// Package reading implements the extraction run and reading store using
// PostgreSQL. Readings are written in pgx batches; lookups are built with
// squirrel.
package reading

import (
	"context"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/bay-puz/kotobalist/internal/adapter/postgres"
	"github.com/bay-puz/kotobalist/internal/domain"
	"github.com/bay-puz/kotobalist/pkg/ctxutil"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var readingColumns = []string{"id", "run_id", "title", "yomi", "strategy", "block_offset", "created_at"}

// Repo provides run and reading persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.Querier
	txm *postgres.TxManager
}

// New creates a new reading repository.
func New(db postgres.Querier, txm *postgres.TxManager) *Repo {
	return &Repo{db: db, txm: txm}
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// StartRun inserts a new, unfinished extraction run.
func (r *Repo) StartRun(ctx context.Context, dumpPath string) (domain.Run, error) {
	run := domain.Run{
		ID:         uuid.New(),
		DumpPath:   dumpPath,
		StartedAt:  time.Now().UTC().Truncate(time.Microsecond),
		ByStrategy: map[string]int{},
	}

	query, args, err := psql.Insert("extraction_runs").
		Columns("id", "dump_path", "started_at").
		Values(run.ID, run.DumpPath, run.StartedAt).
		ToSql()
	if err != nil {
		return domain.Run{}, fmt.Errorf("build insert run: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return domain.Run{}, postgres.MapError(err, "extraction_run", run.ID.String())
	}

	return run, nil
}

// FinishRun stores the totals of run and its per-strategy counts in one
// transaction. Returns domain.ErrNotFound if the run does not exist.
func (r *Repo) FinishRun(ctx context.Context, run domain.Run) error {
	return r.txm.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		query, args, err := psql.Update("extraction_runs").
			Set("finished_at", sq.Expr("now()")).
			Set("blocks", run.Blocks).
			Set("failed_blocks", run.FailedBlocks).
			Set("pages", run.Pages).
			Set("readings", run.Readings).
			Where(sq.Eq{"id": run.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update run: %w", err)
		}

		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return postgres.MapError(err, "extraction_run", run.ID.String())
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("extraction_run %s: %w", run.ID, domain.ErrNotFound)
		}

		if len(run.ByStrategy) == 0 {
			return nil
		}

		insert := psql.Insert("run_strategy_counts").Columns("run_id", "strategy", "count")
		strategies := make([]string, 0, len(run.ByStrategy))
		for s := range run.ByStrategy {
			strategies = append(strategies, s)
		}
		slices.Sort(strategies)
		for _, s := range strategies {
			insert = insert.Values(run.ID, s, run.ByStrategy[s])
		}

		query, args, err = insert.
			Suffix("ON CONFLICT (run_id, strategy) DO UPDATE SET count = EXCLUDED.count").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert strategy counts: %w", err)
		}

		if _, err := q.Exec(ctx, query, args...); err != nil {
			return postgres.MapError(err, "run_strategy_counts", run.ID.String())
		}
		return nil
	})
}

// GetRun returns a run with its per-strategy counts.
func (r *Repo) GetRun(ctx context.Context, id uuid.UUID) (domain.Run, error) {
	query, args, err := psql.
		Select("id", "dump_path", "started_at", "finished_at", "blocks", "failed_blocks", "pages", "readings").
		From("extraction_runs").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Run{}, fmt.Errorf("build select run: %w", err)
	}

	var run domain.Run
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(
		&run.ID, &run.DumpPath, &run.StartedAt, &run.FinishedAt,
		&run.Blocks, &run.FailedBlocks, &run.Pages, &run.Readings,
	)
	if err != nil {
		return domain.Run{}, postgres.MapError(err, "extraction_run", id.String())
	}

	counts, err := r.strategyCounts(ctx, id)
	if err != nil {
		return domain.Run{}, err
	}
	run.ByStrategy = counts

	return run, nil
}

func (r *Repo) strategyCounts(ctx context.Context, runID uuid.UUID) (map[string]int, error) {
	query, args, err := psql.Select("strategy", "count").
		From("run_strategy_counts").
		Where(sq.Eq{"run_id": runID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select strategy counts: %w", err)
	}
	return r.queryCounts(ctx, query, args)
}

// ---------------------------------------------------------------------------
// Readings
// ---------------------------------------------------------------------------

const insertReadingSQL = `
INSERT INTO readings (id, run_id, title, yomi, strategy, block_offset)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (run_id, title) DO NOTHING`

// WriteReadings inserts readings for the run whose ID is carried by ctx
// (see ctxutil.WithRunID). A title already stored for the run is skipped.
func (r *Repo) WriteReadings(ctx context.Context, readings []domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}

	runID, ok := ctxutil.RunIDFromCtx(ctx)
	if !ok {
		return fmt.Errorf("write readings: %w: no run id in context", domain.ErrValidation)
	}

	batch := &pgx.Batch{}
	for _, rd := range readings {
		id := rd.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(insertReadingSQL, id, runID, rd.Title, rd.Yomi, rd.Strategy, rd.BlockOffset)
	}

	results := postgres.QuerierFromCtx(ctx, r.db).SendBatch(ctx, batch)
	defer results.Close()

	for i := range batch.Len() {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "reading", readings[i].Title)
		}
	}

	return nil
}

// GetByTitle returns the most recently stored reading of title.
// Returns domain.ErrNotFound if no run has produced one.
func (r *Repo) GetByTitle(ctx context.Context, title string) (domain.Reading, error) {
	query, args, err := psql.Select(readingColumns...).
		From("readings").
		Where(sq.Eq{"title": title}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Reading{}, fmt.Errorf("build select reading: %w", err)
	}

	var rd domain.Reading
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(
		&rd.ID, &rd.RunID, &rd.Title, &rd.Yomi, &rd.Strategy, &rd.BlockOffset, &rd.CreatedAt,
	)
	if err != nil {
		return domain.Reading{}, postgres.MapError(err, "reading", title)
	}

	return rd, nil
}

// CountByStrategy counts the stored readings of a run per strategy.
func (r *Repo) CountByStrategy(ctx context.Context, runID uuid.UUID) (map[string]int, error) {
	query, args, err := psql.Select("strategy", "COUNT(*)").
		From("readings").
		Where(sq.Eq{"run_id": runID}).
		GroupBy("strategy").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count readings: %w", err)
	}
	return r.queryCounts(ctx, query, args)
}

func (r *Repo) queryCounts(ctx context.Context, query string, args []any) (map[string]int, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			strategy string
			n        int64
		)
		if err := rows.Scan(&strategy, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[strategy] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}

	return counts, nil
}
