package reading_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/bay-puz/kotobalist/internal/adapter/postgres"
	"github.com/bay-puz/kotobalist/internal/adapter/postgres/reading"
	"github.com/bay-puz/kotobalist/internal/domain"
)

func newRepo(t *testing.T) (*reading.Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return reading.New(mock, postgres.NewTxManager(mock)), mock
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_StartRun(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "inserted",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO extraction_runs`).
					WithArgs(pgxmock.AnyArg(), "jawiki.xml.bz2", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "duplicate id",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO extraction_runs`).
					WithArgs(pgxmock.AnyArg(), "jawiki.xml.bz2", pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			wantErr: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setup(mock)

			run, err := repo.StartRun(context.Background(), "jawiki.xml.bz2")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("StartRun() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("StartRun() unexpected error: %v", err)
				}
				if run.ID == uuid.Nil || run.DumpPath != "jawiki.xml.bz2" || run.StartedAt.IsZero() {
					t.Errorf("StartRun() = %+v", run)
				}
			}

			expectationsMet(t, mock)
		})
	}
}

func TestRepo_FinishRun(t *testing.T) {
	runID := uuid.New()
	run := domain.Run{
		ID:           runID,
		Blocks:       3,
		FailedBlocks: 1,
		Pages:        10,
		Readings:     4,
		ByStrategy:   map[string]int{"yomigana": 3, "parenthesis": 1},
	}

	tests := []struct {
		name    string
		run     domain.Run
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "totals and counts in one transaction",
			run:  run,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE extraction_runs SET finished_at = now\(\)`).
					WithArgs(3, 1, 10, 4, runID.String()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec(`INSERT INTO run_strategy_counts`).
					WithArgs(runID, "parenthesis", 1, runID, "yomigana", 3).
					WillReturnResult(pgxmock.NewResult("INSERT", 2))
				mock.ExpectCommit()
			},
		},
		{
			name: "no strategy counts",
			run:  domain.Run{ID: runID, Blocks: 1},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE extraction_runs`).
					WithArgs(1, 0, 0, 0, runID.String()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unknown run rolls back",
			run:  run,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE extraction_runs`).
					WithArgs(3, 1, 10, 4, runID.String()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "negative count rejected by check constraint",
			run:  run,
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE extraction_runs`).
					WithArgs(3, 1, 10, 4, runID.String()).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
				mock.ExpectExec(`INSERT INTO run_strategy_counts`).
					WithArgs(runID, "parenthesis", 1, runID, "yomigana", 3).
					WillReturnError(&pgconn.PgError{Code: "23514"})
				mock.ExpectRollback()
			},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setup(mock)

			err := repo.FinishRun(context.Background(), tt.run)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("FinishRun() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("FinishRun() unexpected error: %v", err)
			}

			expectationsMet(t, mock)
		})
	}
}

func TestRepo_GetByTitle(t *testing.T) {
	id, runID := uuid.New(), uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "run_id", "title", "yomi", "strategy", "block_offset", "created_at"}).
					AddRow(id, runID, "東京", "とうきょう", "parenthesis", int64(614), now)
				mock.ExpectQuery(`SELECT .* FROM readings WHERE title = \$1 ORDER BY created_at DESC LIMIT 1`).
					WithArgs("東京").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM readings`).
					WithArgs("東京").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t)
			tt.setup(mock)

			got, err := repo.GetByTitle(context.Background(), "東京")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("GetByTitle() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("GetByTitle() unexpected error: %v", err)
				}
				if got.ID != id || got.RunID != runID || got.Yomi != "とうきょう" || got.BlockOffset != 614 {
					t.Errorf("GetByTitle() = %+v", got)
				}
			}

			expectationsMet(t, mock)
		})
	}
}

func TestRepo_CountByStrategy(t *testing.T) {
	repo, mock := newRepo(t)
	runID := uuid.New()

	rows := pgxmock.NewRows([]string{"strategy", "count"}).
		AddRow("yomigana", int64(12)).
		AddRow("parenthesis", int64(30))
	mock.ExpectQuery(`FROM readings WHERE run_id = \$1 GROUP BY strategy`).
		WithArgs(runID.String()).
		WillReturnRows(rows)

	got, err := repo.CountByStrategy(context.Background(), runID)
	if err != nil {
		t.Fatalf("CountByStrategy() unexpected error: %v", err)
	}
	if len(got) != 2 || got["yomigana"] != 12 || got["parenthesis"] != 30 {
		t.Errorf("CountByStrategy() = %v", got)
	}

	expectationsMet(t, mock)
}

func TestRepo_GetRun(t *testing.T) {
	repo, mock := newRepo(t)
	runID := uuid.New()
	started := time.Now().Add(-time.Minute)
	finished := time.Now()

	mock.ExpectQuery(`FROM extraction_runs WHERE id = \$1`).
		WithArgs(runID.String()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "dump_path", "started_at", "finished_at", "blocks", "failed_blocks", "pages", "readings"}).
			AddRow(runID, "jawiki.xml.bz2", started, &finished, 3, 1, 10, 4))
	mock.ExpectQuery(`FROM run_strategy_counts WHERE run_id = \$1`).
		WithArgs(runID.String()).
		WillReturnRows(pgxmock.NewRows([]string{"strategy", "count"}).AddRow("yomigana", int64(4)))

	got, err := repo.GetRun(context.Background(), runID)
	if err != nil {
		t.Fatalf("GetRun() unexpected error: %v", err)
	}
	if got.ID != runID || got.Pages != 10 || got.FinishedAt == nil {
		t.Errorf("GetRun() = %+v", got)
	}
	if got.ByStrategy["yomigana"] != 4 {
		t.Errorf("GetRun().ByStrategy = %v", got.ByStrategy)
	}

	expectationsMet(t, mock)
}

func TestRepo_WriteReadings_RequiresRunID(t *testing.T) {
	repo, mock := newRepo(t)

	err := repo.WriteReadings(context.Background(), []domain.Reading{{Title: "東京", Yomi: "とうきょう"}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("WriteReadings() error = %v, want ErrValidation", err)
	}

	if err := repo.WriteReadings(context.Background(), nil); err != nil {
		t.Errorf("WriteReadings(nil) = %v, want nil", err)
	}

	expectationsMet(t, mock)
}
