package dump

import (
	"errors"
	"fmt"
	"io"

	"github.com/bay-puz/kotobalist/internal/domain"
)

// Block is the byte range [Start, End) of one compressed block of the dump.
type Block struct {
	Start int64
	End   int64
}

// Len returns the block size in bytes.
func (b Block) Len() int64 { return b.End - b.Start }

// Blocks turns ascending distinct offsets into consecutive byte ranges. The
// last block runs to size, the length of the dump file.
func Blocks(offsets []int64, size int64) ([]Block, error) {
	blocks := make([]Block, 0, len(offsets))
	for i, start := range offsets {
		end := size
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start > size {
			return nil, fmt.Errorf("%w: block at %d starts past end of dump (%d bytes)", domain.ErrTruncated, start, size)
		}
		if end <= start {
			return nil, fmt.Errorf("%w: block at %d ends at %d", domain.ErrMalformedIndex, start, end)
		}
		if end > size {
			return nil, fmt.Errorf("%w: block at %d ends at %d past end of dump (%d bytes)", domain.ErrTruncated, start, end, size)
		}
		blocks = append(blocks, Block{Start: start, End: end})
	}
	return blocks, nil
}

// BlockReader reads block byte ranges from a dump. It only uses ReadAt, so one
// BlockReader may serve concurrent callers.
type BlockReader struct {
	r io.ReaderAt
}

// NewBlockReader creates a BlockReader over r.
func NewBlockReader(r io.ReaderAt) *BlockReader {
	return &BlockReader{r: r}
}

// Read returns exactly the bytes of b. Fewer available bytes is ErrTruncated.
func (br *BlockReader) Read(b Block) ([]byte, error) {
	buf := make([]byte, b.Len())
	n, err := br.r.ReadAt(buf, b.Start)
	if n < len(buf) {
		return nil, fmt.Errorf("block %d: read %d of %d bytes: %w", b.Start, n, len(buf), domain.ErrTruncated)
	}
	// ReadAt may report io.EOF together with a full read of the final block.
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("block %d: %w", b.Start, err)
	}
	return buf, nil
}
