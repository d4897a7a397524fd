package yomi

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/bay-puz/kotobalist/internal/domain"
)

// Sink receives accepted readings, one batch at a time, in page-encounter
// order. Implemented by *LineSink and reading.Repo.
type Sink interface {
	WriteReadings(ctx context.Context, readings []domain.Reading) error
}

// LineSink writes one reading per line. With titles enabled each line is
// "title<TAB>reading".
type LineSink struct {
	w         *bufio.Writer
	withTitle bool
}

// NewLineSink creates a buffered LineSink over w. Call Flush when done.
func NewLineSink(w io.Writer, withTitle bool) *LineSink {
	return &LineSink{w: bufio.NewWriter(w), withTitle: withTitle}
}

// WriteReadings implements Sink.
func (s *LineSink) WriteReadings(_ context.Context, readings []domain.Reading) error {
	for _, r := range readings {
		var err error
		if s.withTitle {
			_, err = fmt.Fprintf(s.w, "%s\t%s\n", r.Title, r.Yomi)
		} else {
			_, err = fmt.Fprintln(s.w, r.Yomi)
		}
		if err != nil {
			return fmt.Errorf("write reading: %w", err)
		}
	}
	return nil
}

// Flush writes any buffered lines.
func (s *LineSink) Flush() error {
	return s.w.Flush()
}

type multiSink []Sink

// MultiSink fans every batch out to all sinks in order, stopping at the
// first error.
func MultiSink(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) WriteReadings(ctx context.Context, readings []domain.Reading) error {
	for _, s := range m {
		if err := s.WriteReadings(ctx, readings); err != nil {
			return err
		}
	}
	return nil
}
