package yomi

import "fmt"

// StrategyTitleIsKana marks a result where the title already is a reading.
const StrategyTitleIsKana = "title-is-kana"

// Failure reasons reported by Extract.
const (
	ReasonNotWorthful = "not worthful"
	ReasonNoStrategy  = "no strategy matched"
)

// Attempt records why one strategy of the cascade gave up.
type Attempt struct {
	Strategy string
	Reason   string
}

// Result is the outcome of Extract. It is a success iff Reading is non-empty;
// a success always carries a kana-only Reading and the Strategy that found it.
type Result struct {
	Title    string // title after TrimTitle
	Reading  string
	Strategy string
	Reason   string    // set on failure
	Attempts []Attempt // strategies tried before giving up
}

// OK reports whether a reading was found.
func (r Result) OK() bool { return r.Reading != "" }

// Extractor runs the strategy cascade; the first strategy to succeed wins and
// conflicting later matches are never consulted.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor creates an Extractor over the given cascade, or over
// DefaultStrategies when none is given.
func NewExtractor(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Extractor{strategies: strategies}
}

// Strategies returns the names of the cascade in order.
func (e *Extractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name
	}
	return names
}

// Extract decides the reading of one (title, body) pair.
func (e *Extractor) Extract(title, body string) Result {
	title = TrimTitle(title)
	res := Result{Title: title}

	if !IsWorthfulTitle(title) {
		res.Reason = ReasonNotWorthful
		return res
	}

	if IsKanaWord(title) {
		res.Reading = title
		res.Strategy = StrategyTitleIsKana
		return res
	}

	doc := NewDocument(body)
	for _, s := range e.strategies {
		reading, err := s.Match(title, doc)
		if err == nil && IsKanaWord(reading) {
			res.Reading = reading
			res.Strategy = s.Name
			res.Attempts = nil
			return res
		}
		if err == nil {
			err = fmt.Errorf("%w: %q", ErrNotKana, reading)
		}
		reason := err.Error()
		res.Attempts = append(res.Attempts, Attempt{Strategy: s.Name, Reason: reason})
	}

	res.Reason = ReasonNoStrategy
	return res
}
