// Package wordindex tabulates reading lists by word length so that a client
// can jump straight to the words of a given length.
package wordindex

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const maxLineSize = 1 << 20

// Bucket describes the words of one length: where the first one sits in the
// list and how many there are in total.
type Bucket struct {
	Length int `json:"length"`
	Start  int `json:"start"`
	Count  int `json:"count"`
}

// Build groups words by their length in runes. Start is the position of the
// first word of that length; words of one length need not be contiguous.
func Build(words []string) map[int]Bucket {
	buckets := make(map[int]Bucket)
	for pos, w := range words {
		n := utf8.RuneCountInString(w)
		b, ok := buckets[n]
		if !ok {
			b = Bucket{Length: n, Start: pos}
		}
		b.Count++
		buckets[n] = b
	}
	return buckets
}

// ListName returns the name a list is indexed under: the file's base name up
// to its first dot.
func ListName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	name, _, _ = strings.Cut(name, ".")
	return name
}

// LoadList reads a list file, one word per line.
func LoadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		words = append(words, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read list %s: %w", path, err)
	}
	return words, nil
}
