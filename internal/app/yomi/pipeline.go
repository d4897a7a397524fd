// Package yomi orchestrates a scan of a multistream dump: blocks are read,
// decompressed and parsed in parallel, every page goes through the reading
// extractor, and accepted readings reach the sinks in page-encounter order.
package yomi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bay-puz/kotobalist/internal/config"
	"github.com/bay-puz/kotobalist/internal/domain"
	"github.com/bay-puz/kotobalist/internal/dump"
	extract "github.com/bay-puz/kotobalist/internal/yomi"
)

// Extractor decides the reading of one page.
// Implemented by *extract.Extractor.
type Extractor interface {
	Extract(title, body string) extract.Result
}

// Summary holds the totals of one Run.
type Summary struct {
	Blocks       int
	FailedBlocks int
	Pages        int
	Readings     int
	Rejected     int
	ByStrategy   map[string]int
	Duration     time.Duration
}

// HasErrors reports whether any block was skipped.
func (s Summary) HasErrors() bool {
	return s.FailedBlocks > 0
}

// StrategyCounts returns a copy of the per-strategy totals.
func (s Summary) StrategyCounts() map[string]int {
	return maps.Clone(s.ByStrategy)
}

type blockResult struct {
	block    dump.Block
	pages    int
	rejected int
	readings []domain.Reading
	err      error
}

// Pipeline runs the extractor over every block of a dump.
type Pipeline struct {
	log       *slog.Logger
	extractor Extractor
	sink      Sink
	cfg       config.ExtractConfig
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, extractor Extractor, sink Sink, cfg config.ExtractConfig) *Pipeline {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Window < cfg.Workers {
		cfg.Window = cfg.Workers
	}
	return &Pipeline{
		log:       log,
		extractor: extractor,
		sink:      sink,
		cfg:       cfg,
	}
}

// Run scans the dump r of the given size, split at offsets. Blocks that fail
// to decompress or parse are skipped and counted; a malformed index or a
// truncated dump stops the run with an error. At most cfg.Window blocks are
// in flight, and results are handed to the sink strictly in block order.
func (p *Pipeline) Run(ctx context.Context, r io.ReaderAt, size int64, offsets []int64) (Summary, error) {
	start := time.Now()
	summary := Summary{ByStrategy: make(map[string]int)}

	blocks, err := dump.Blocks(offsets, size)
	if err != nil {
		return summary, fmt.Errorf("compute blocks: %w", err)
	}
	if p.cfg.MaxBlocks > 0 && len(blocks) > p.cfg.MaxBlocks {
		blocks = blocks[:p.cfg.MaxBlocks]
	}

	p.log.Info("starting extraction",
		slog.Int("blocks", len(blocks)),
		slog.Int("workers", p.cfg.Workers),
		slog.Int("window", p.cfg.Window),
	)

	br := dump.NewBlockReader(r)
	g, gctx := errgroup.WithContext(ctx)

	// pending holds one result slot per dispatched block, in block order.
	pending := make(chan chan blockResult, p.cfg.Window)
	sem := make(chan struct{}, p.cfg.Workers)

	g.Go(func() error {
		defer close(pending)
		for _, b := range blocks {
			if err := gctx.Err(); err != nil {
				return err
			}
			slot := make(chan blockResult, 1)
			select {
			case pending <- slot:
			case <-gctx.Done():
				return gctx.Err()
			}
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			g.Go(func() error {
				defer func() { <-sem }()
				slot <- p.processBlock(br, b)
				return nil
			})
		}
		return nil
	})

	g.Go(func() error {
		for slot := range pending {
			var res blockResult
			select {
			case res = <-slot:
			case <-gctx.Done():
				return gctx.Err()
			}
			if err := p.collect(gctx, res, &summary); err != nil {
				return err
			}
		}
		return nil
	})

	err = g.Wait()
	summary.Duration = time.Since(start)
	if err != nil {
		return summary, err
	}

	p.log.Info("extraction completed",
		slog.Int("blocks", summary.Blocks),
		slog.Int("failed_blocks", summary.FailedBlocks),
		slog.Int("pages", summary.Pages),
		slog.Int("readings", summary.Readings),
		slog.Int("rejected", summary.Rejected),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// processBlock reads, decompresses, parses and extracts one block. It never
// touches shared state, so blocks may be processed in any order.
func (p *Pipeline) processBlock(br *dump.BlockReader, b dump.Block) blockResult {
	res := blockResult{block: b}

	raw, err := br.Read(b)
	if err != nil {
		res.err = err
		return res
	}
	data, err := dump.Decompress(raw)
	if err != nil {
		res.err = err
		return res
	}
	pages, err := dump.ParsePages(data)
	if err != nil {
		res.err = err
		return res
	}

	res.pages = len(pages)
	for _, page := range pages {
		r := p.extractor.Extract(page.Title, page.Body)
		if !r.OK() {
			res.rejected++
			if p.cfg.Debug {
				p.logRejected(b, r)
			}
			continue
		}
		res.readings = append(res.readings, domain.Reading{
			ID:          uuid.New(),
			Title:       r.Title,
			Yomi:        r.Reading,
			Strategy:    r.Strategy,
			BlockOffset: b.Start,
		})
	}
	return res
}

func (p *Pipeline) logRejected(b dump.Block, r extract.Result) {
	attrs := []any{
		slog.Int64("block", b.Start),
		slog.String("title", r.Title),
		slog.String("reason", r.Reason),
	}
	for _, a := range r.Attempts {
		attrs = append(attrs, slog.String("attempt."+a.Strategy, a.Reason))
	}
	p.log.Debug("title rejected", attrs...)
}

// collect folds one block result into the summary and forwards its readings.
func (p *Pipeline) collect(ctx context.Context, res blockResult, summary *Summary) error {
	summary.Blocks++

	if res.err != nil {
		if !domain.IsBlockRecoverable(res.err) {
			return fmt.Errorf("block at %d: %w", res.block.Start, res.err)
		}
		summary.FailedBlocks++
		p.log.Warn("block skipped",
			slog.Int64("offset", res.block.Start),
			slog.Int64("bytes", res.block.Len()),
			slog.String("error", res.err.Error()),
		)
		return nil
	}

	err := batchProcess(res.readings, p.cfg.BatchSize, func(batch []domain.Reading) error {
		return p.sink.WriteReadings(ctx, batch)
	})
	if err != nil {
		return fmt.Errorf("write readings of block at %d: %w", res.block.Start, err)
	}

	summary.Pages += res.pages
	summary.Rejected += res.rejected
	summary.Readings += len(res.readings)
	for _, r := range res.readings {
		summary.ByStrategy[r.Strategy]++
	}

	p.log.Debug("block done",
		slog.Int64("offset", res.block.Start),
		slog.Int("pages", res.pages),
		slog.Int("readings", len(res.readings)),
		slog.Int("rejected", res.rejected),
	)
	return nil
}

func batchProcess[T any](items []T, batchSize int, fn func([]T) error) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		if err := fn(items[i:end]); err != nil {
			return err
		}
	}
	return nil
}
