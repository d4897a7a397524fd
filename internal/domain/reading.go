package domain

import (
	"time"

	"github.com/google/uuid"
)

// Page is one article of a dump block: its title and raw wikitext body.
type Page struct {
	Title string
	Body  string
}

// Reading is an accepted title reading. Yomi is always a non-empty kana word.
type Reading struct {
	ID          uuid.UUID
	RunID       uuid.UUID
	Title       string
	Yomi        string
	Strategy    string
	BlockOffset int64
	CreatedAt   time.Time
}

// Run describes one scan over a dump.
type Run struct {
	ID           uuid.UUID
	DumpPath     string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Blocks       int
	FailedBlocks int
	Pages        int
	Readings     int
	ByStrategy   map[string]int
}
