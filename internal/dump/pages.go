package dump

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/bay-puz/kotobalist/internal/domain"
)

var (
	rootOpen       = []byte("<root>")
	rootClose      = []byte("</root>")
	pageOpen       = []byte("<page")
	mediawikiClose = []byte("</mediawiki>")
)

// ParsePages extracts the pages of one decompressed block. A block is a
// sequence of <page> elements without a common root, so it is wrapped in one
// before decoding. The i-th <title> pairs with the i-th <text>; differing
// counts, or XML the decoder cannot read, wrap domain.ErrParseMismatch.
// The site header in front of the first page, if any, is skipped.
func ParsePages(data []byte) ([]domain.Page, error) {
	data = bytes.TrimSpace(data)
	data = bytes.TrimSuffix(data, mediawikiClose)

	// The <mediawiki> opener declares a default namespace that the synthetic
	// root could not close. A header-only block has no pages at all.
	i := bytes.Index(data, pageOpen)
	if i < 0 {
		return []domain.Page{}, nil
	}
	data = data[i:]

	dec := xml.NewDecoder(io.MultiReader(
		bytes.NewReader(rootOpen),
		bytes.NewReader(data),
		bytes.NewReader(rootClose),
	))
	// Tolerate unbalanced markup at block edges.
	dec.Strict = false

	var titles, texts []string
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParseMismatch, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "title", "text":
			var s string
			if err := dec.DecodeElement(&s, &start); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrParseMismatch, start.Name.Local, err)
			}
			if start.Name.Local == "title" {
				titles = append(titles, s)
			} else {
				texts = append(texts, s)
			}
		}
	}

	if len(titles) != len(texts) {
		return nil, fmt.Errorf("%w: %d titles, %d texts", domain.ErrParseMismatch, len(titles), len(texts))
	}

	pages := make([]domain.Page, len(titles))
	for i := range titles {
		pages[i] = domain.Page{Title: titles[i], Body: texts[i]}
	}
	return pages, nil
}
