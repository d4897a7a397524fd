package dump

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"

	"github.com/bay-puz/kotobalist/internal/domain"
)

// Decompress inflates one bzip2 block of the dump. Any failure wraps
// domain.ErrDecompression.
func Decompress(raw []byte) ([]byte, error) {
	zr, err := bzip2.NewReader(bytes.NewReader(raw), &bzip2.ReaderConfig{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecompression, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecompression, err)
	}
	return out, nil
}
