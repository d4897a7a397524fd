package yomi

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Strategy names, in default cascade order.
const (
	StrategyYomigana         = "yomigana"
	StrategyNativeName       = "nativename"
	StrategyYomiganaTemplate = "yomigana-template"
	StrategyParenthesis      = "parenthesis"
)

// Reasons a strategy gives up. They are diagnostic only: any error from a
// strategy means "try the next one".
var (
	ErrNoMatch      = errors.New("no match")
	ErrNotKana      = errors.New("value is not a kana word")
	ErrGenericUsage = errors.New("gloss followed by generic phrasing")
)

// Strategy is one reading matcher of the cascade. Match returns the reading it
// found, or an error explaining why it found none.
type Strategy struct {
	Name  string
	Match func(title string, doc *Document) (string, error)
}

// Document is an article body with its derived forms computed on first use.
type Document struct {
	raw     string
	compact *string
	reduced *string
}

// NewDocument wraps a raw wikitext body.
func NewDocument(body string) *Document {
	return &Document{raw: body}
}

// Raw returns the body as given.
func (d *Document) Raw() string { return d.raw }

// Compact returns the body with all spaces removed.
func (d *Document) Compact() string {
	if d.compact == nil {
		s := RemoveSpaces(d.raw)
		d.compact = &s
	}
	return *d.compact
}

// Reduced returns ReduceBody of the body.
func (d *Document) Reduced() string {
	if d.reduced == nil {
		s := ReduceBody(d.raw)
		d.reduced = &s
	}
	return *d.reduced
}

// DefaultStrategies returns the full cascade in priority order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyYomigana, Match: matchYomiganaField},
		{Name: StrategyNativeName, Match: matchNativeNameField},
		{Name: StrategyYomiganaTemplate, Match: matchYomiganaTemplate},
		{Name: StrategyParenthesis, Match: matchParenthesis},
	}
}

// StrategiesByName builds a cascade from strategy names, keeping the given
// order. An empty list yields DefaultStrategies.
func StrategiesByName(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return DefaultStrategies(), nil
	}

	known := make(map[string]Strategy)
	for _, s := range DefaultStrategies() {
		known[s.Name] = s
	}

	seen := make(map[string]bool, len(names))
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown strategy %q", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("strategy %q listed twice", name)
		}
		seen[name] = true
		out = append(out, s)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Template fields
// ---------------------------------------------------------------------------

var (
	yomiganaFieldRes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\|よみがな=(.*)$`),
	}
	nativeNameFieldRes = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\|nativename=(.*)$`),
		regexp.MustCompile(`(?m)^\|name=\{\{(?i:ruby)\|[^|{}]*\|([^|{}]*)\}\}`),
	}
)

func matchYomiganaField(_ string, doc *Document) (string, error) {
	return matchField(doc.Compact(), yomiganaFieldRes, "|よみがな=")
}

func matchNativeNameField(_ string, doc *Document) (string, error) {
	return matchField(doc.Compact(), nativeNameFieldRes, "|nativename= or |name={{ruby}}")
}

// matchField tries each pattern on its first occurrence in body. The first
// kana value wins.
func matchField(body string, res []*regexp.Regexp, field string) (string, error) {
	err := fmt.Errorf("%w: %s field", ErrNoMatch, field)
	for _, re := range res {
		m := re.FindStringSubmatch(body)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if IsKanaWord(value) {
			return value, nil
		}
		err = fmt.Errorf("%w: %s %q", ErrNotKana, field, value)
	}
	return "", err
}

// ---------------------------------------------------------------------------
// {{読み仮名}} template
// ---------------------------------------------------------------------------

func matchYomiganaTemplate(title string, doc *Document) (string, error) {
	re, err := regexp.Compile(`\{\{読み仮名(?:_ruby不使用)?[ 　]*\|(?:[^|{}]*\|)*?[ 　]*'''` +
		regexp.QuoteMeta(title) + `'''[ 　]*\|([^|{}]*)`)
	if err != nil {
		return "", fmt.Errorf("compile 読み仮名 pattern: %w", err)
	}

	m := re.FindStringSubmatch(doc.Raw())
	if m == nil {
		return "", fmt.Errorf("%w: {{読み仮名}} for title", ErrNoMatch)
	}
	value := strings.TrimSpace(m[1])
	if !IsKanaWord(value) {
		return "", fmt.Errorf("%w: {{読み仮名}} %q", ErrNotKana, value)
	}
	return value, nil
}

// ---------------------------------------------------------------------------
// '''TITLE'''（よみ） gloss
// ---------------------------------------------------------------------------

// genericUsageRe matches phrasing right after the gloss that marks the title as
// a topic heading ("〜（…）の一覧", "〜（…）一覧の記事では") rather than a word.
var genericUsageRe = regexp.MustCompile(`^(?:(?:一覧)?(?:の記事)?では|の一覧)`)

// delimiters separate alternative readings inside one gloss.
var delimiters = []string{"、", "，", ",", "・", "もしくは", "または"}

func matchParenthesis(title string, doc *Document) (string, error) {
	body := doc.Reduced()
	t := regexp.QuoteMeta(parenWidener.Replace(RemoveSpaces(title)))

	patterns := []string{
		`'''` + t + `'''（(` + kanaClass + `+)）`,
		`'''[「『]?` + t + `[」』]?'''(?:<ref[^>]*/>|<ref[^>]*>.*?</ref>)*（'*([^）\n]*)）`,
	}

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return "", fmt.Errorf("compile gloss pattern: %w", err)
		}
		loc := re.FindStringSubmatchIndex(body)
		if loc == nil {
			continue
		}
		if genericUsageRe.MatchString(body[loc[1]:]) {
			return "", fmt.Errorf("%w: %q", ErrGenericUsage, body[loc[0]:loc[1]])
		}

		value := trimAlternatives(title, body[loc[2]:loc[3]])
		if !IsKanaWord(value) {
			return "", fmt.Errorf("%w: gloss %q", ErrNotKana, value)
		}
		return value, nil
	}

	return "", fmt.Errorf("%w: '''title'''（…） gloss", ErrNoMatch)
}

// trimAlternatives keeps only the first of several listed readings. A delimiter
// that also occurs in title is part of the word and is left alone.
func trimAlternatives(title, value string) string {
	for _, d := range delimiters {
		if strings.Contains(title, d) {
			continue
		}
		if i := strings.Index(value, d); i >= 0 {
			value = value[:i]
		}
	}
	return value
}
