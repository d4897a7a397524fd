package dump

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// File is an open dump: random access to its bytes and its total size.
type File struct {
	io.ReaderAt
	size  int64
	close func() error
}

// OpenFile opens the dump at path. With useMmap the file is mapped read-only
// and blocks are served from the mapping instead of pread calls.
func OpenFile(path string, useMmap bool) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat dump: %w", err)
	}

	// Empty files cannot be mapped.
	if !useMmap || info.Size() == 0 {
		return &File{ReaderAt: f, size: info.Size(), close: f.Close}, nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mmap dump: %w", err)
	}

	return &File{
		ReaderAt: bytes.NewReader(m),
		size:     int64(len(m)),
		close: func() error {
			unmapErr := m.Unmap()
			closeErr := f.Close()
			if unmapErr != nil {
				return fmt.Errorf("unmap dump: %w", unmapErr)
			}
			return closeErr
		},
	}, nil
}

// Size returns the dump size in bytes.
func (f *File) Size() int64 { return f.size }

// Close releases the file and its mapping, if any.
func (f *File) Close() error { return f.close() }
