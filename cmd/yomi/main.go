// Command yomi extracts title readings from a Japanese Wikipedia
// multistream dump and prints one reading per line on stdout.
//
// Flags:
//
//	--config      path to YAML config file
//	--index       multistream index file (plain or .bz2)
//	--dump        multistream dump file
//	--workers     number of blocks processed in parallel
//	--max-blocks  stop after the first N blocks (0 = all)
//	--debug       log every rejected title with the reason of each strategy
//	--with-title  print "title<TAB>yomi" instead of the reading alone
//	--store       also record the run and its readings in PostgreSQL
//	--mmap        map the dump into memory instead of reading it per block
//
// Exit codes: 0 = success, 1 = error or skipped blocks.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bay-puz/kotobalist/internal/adapter/postgres"
	"github.com/bay-puz/kotobalist/internal/adapter/postgres/reading"
	"github.com/bay-puz/kotobalist/internal/app"
	appyomi "github.com/bay-puz/kotobalist/internal/app/yomi"
	"github.com/bay-puz/kotobalist/internal/config"
	"github.com/bay-puz/kotobalist/internal/dump"
	"github.com/bay-puz/kotobalist/internal/yomi"
)

// Compile-time interface assertions.
var (
	_ appyomi.Sink      = (*reading.Repo)(nil)
	_ appyomi.RunStore  = (*reading.Repo)(nil)
	_ appyomi.Extractor = (*yomi.Extractor)(nil)
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	indexFlag := flag.String("index", "", "multistream index file (plain or .bz2)")
	dumpFlag := flag.String("dump", "", "multistream dump file")
	workersFlag := flag.Int("workers", 0, "blocks processed in parallel (default: from config)")
	maxBlocksFlag := flag.Int("max-blocks", -1, "stop after the first N blocks, 0 = all (default: from config)")
	debugFlag := flag.Bool("debug", false, "log rejected titles")
	withTitleFlag := flag.Bool("with-title", false, "print title and reading separated by a tab")
	storeFlag := flag.Bool("store", false, "record the run in the database")
	mmapFlag := flag.Bool("mmap", false, "map the dump into memory")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// CLI flags override config.
	if *indexFlag != "" {
		cfg.Dump.IndexPath = *indexFlag
	}
	if *dumpFlag != "" {
		cfg.Dump.Path = *dumpFlag
	}
	if *workersFlag > 0 {
		cfg.Extract.Workers = *workersFlag
		cfg.Extract.Window = max(cfg.Extract.Window, *workersFlag)
	}
	if *mmapFlag {
		cfg.Dump.Mmap = true
	}
	if *maxBlocksFlag >= 0 {
		cfg.Extract.MaxBlocks = *maxBlocksFlag
	}
	if *debugFlag {
		cfg.Extract.Debug = true
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Dump.Path == "" || cfg.Dump.IndexPath == "" {
		log.Fatal("both --dump and --index (or dump.path and dump.index_path) are required")
	}
	if *storeFlag && !cfg.Database.Enabled() {
		log.Fatal("--store requires database.dsn")
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("yomi starting",
		slog.String("version", app.BuildVersion()),
		slog.String("dump", cfg.Dump.Path),
		slog.String("index", cfg.Dump.IndexPath),
	)

	summary, err := run(logger, cfg, *withTitleFlag, *storeFlag)
	if err != nil {
		logger.Error("extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if summary.HasErrors() {
		logger.Warn("extraction completed with skipped blocks",
			slog.Int("failed_blocks", summary.FailedBlocks),
		)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config, withTitle, store bool) (appyomi.Summary, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	strategies, err := yomi.StrategiesByName(cfg.Extract.Strategies)
	if err != nil {
		return appyomi.Summary{}, err
	}
	extractor := yomi.NewExtractor(strategies...)
	logger.Info("cascade", slog.String("strategies", strings.Join(extractor.Strategies(), ",")))

	offsets, err := dump.OpenIndex(cfg.Dump.IndexPath)
	if err != nil {
		return appyomi.Summary{}, err
	}

	f, err := dump.OpenFile(cfg.Dump.Path, cfg.Dump.Mmap)
	if err != nil {
		return appyomi.Summary{}, err
	}
	defer f.Close()

	out := appyomi.NewLineSink(os.Stdout, withTitle)
	sink := appyomi.Sink(out)

	scan := func(ctx context.Context) (appyomi.Summary, error) {
		pipeline := appyomi.NewPipeline(logger, extractor, sink, cfg.Extract)
		return pipeline.Run(ctx, f, f.Size(), offsets)
	}

	var summary appyomi.Summary
	if store {
		pool, poolErr := postgres.NewPool(ctx, cfg.Database)
		if poolErr != nil {
			return appyomi.Summary{}, poolErr
		}
		defer pool.Close()

		repo := reading.New(pool, postgres.NewTxManager(pool))
		sink = appyomi.MultiSink(out, repo)
		summary, err = appyomi.RecordRun(ctx, repo, cfg.Dump.Path, scan)
	} else {
		summary, err = scan(ctx)
	}

	if flushErr := out.Flush(); flushErr != nil {
		err = errors.Join(err, flushErr)
	}
	return summary, err
}
