// Package yomi recovers the kana reading of a Wikipedia article title from the
// raw wikitext of the article. Every function in this package is pure: no
// shared state is touched and results depend only on (title, body).
package yomi

import "strings"

const (
	// kanaFirst and kanaLast bound the hiragana and katakana blocks (ぁ..ヿ).
	kanaFirst = 'ぁ'
	kanaLast  = 'ヿ'

	// kanaSymbols are punctuation and symbols allowed inside a reading.
	kanaSymbols = " 　＝、，,。〜~！？!?⁉‼⁈★☆♡♪♂♀-"
)

// IsKana reports whether r may appear in a reading.
func IsKana(r rune) bool {
	if r >= kanaFirst && r <= kanaLast {
		return true
	}
	return strings.ContainsRune(kanaSymbols, r)
}

// IsKanaWord reports whether s is non-empty and every rune of s is kana or an
// allowed symbol.
func IsKanaWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// kanaClass is IsKana as a regexp character class, for embedding in patterns.
const kanaClass = `[ぁ-ヿ 　＝、，,。〜~！？!?⁉‼⁈★☆♡♪♂♀\-]`
