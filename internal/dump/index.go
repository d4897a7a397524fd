// Package dump reads a multistream Wikipedia dump: the offset index, the
// byte ranges of the independently compressed blocks, and the pages inside
// each block.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"

	"github.com/bay-puz/kotobalist/internal/domain"
)

// maxLineSize is the buffer size for bufio.Scanner (1 MB).
const maxLineSize = 1 << 20

// Entry is one index line: OFFSET:PAGEID:TITLE. Only Offset is needed to
// locate blocks.
type Entry struct {
	Offset int64
	PageID int64
	Title  string
}

// ParseEntry parses a single index line. The title may itself contain colons.
func ParseEntry(line string) (Entry, error) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 3 {
		return Entry{}, fmt.Errorf("%w: %q: want OFFSET:PAGEID:TITLE", domain.ErrMalformedIndex, line)
	}

	offset, err := parseOffset(parts[0])
	if err != nil {
		return Entry{}, err
	}
	pageID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: page id %q", domain.ErrMalformedIndex, parts[1])
	}

	return Entry{Offset: offset, PageID: pageID, Title: parts[2]}, nil
}

func parseOffset(field string) (int64, error) {
	offset, err := strconv.ParseInt(field, 10, 64)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: offset %q", domain.ErrMalformedIndex, field)
	}
	return offset, nil
}

// ParseIndex reads index lines from r and returns the distinct block offsets
// in first-seen order. Pages sharing a compressed block repeat its offset;
// those collapse to one boundary. Offsets must not decrease.
func ParseIndex(r io.Reader) ([]int64, error) {
	var offsets []int64
	seen := make(map[int64]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		field, _, _ := strings.Cut(line, ":")
		offset, err := parseOffset(field)
		if err != nil {
			return nil, fmt.Errorf("index line %d: %w", lineNo, err)
		}
		if seen[offset] {
			continue
		}
		if n := len(offsets); n > 0 && offset < offsets[n-1] {
			return nil, fmt.Errorf("index line %d: %w: offset %d after %d", lineNo, domain.ErrMalformedIndex, offset, offsets[n-1])
		}
		seen[offset] = true
		offsets = append(offsets, offset)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan index: %w", err)
	}

	return offsets, nil
}

// OpenIndex parses the index file at path. Files ending in ".bz2" are
// decompressed on the fly.
func OpenIndex(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".bz2") {
		zr, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, fmt.Errorf("open index: %w", err)
		}
		defer zr.Close()
		r = zr
	}

	return ParseIndex(r)
}
