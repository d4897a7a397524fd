package yomi

import (
	"testing"
	"unicode/utf8"
)

func TestIsKana_Ranges(t *testing.T) {
	t.Parallel()

	for r := rune(kanaFirst); r <= kanaLast; r++ {
		if !IsKana(r) {
			t.Fatalf("IsKana(%q) = false, want true", r)
		}
	}
	for _, r := range kanaSymbols {
		if !IsKana(r) {
			t.Errorf("IsKana(%q) = false, want true", r)
		}
	}
}

func TestIsKana_Rejects(t *testing.T) {
	t.Parallel()

	for _, r := range []rune{'a', 'Z', '0', '東', '京', '（', '(', '「', '\'', '\n', '〽', utf8.RuneError} {
		if IsKana(r) {
			t.Errorf("IsKana(%q) = true, want false", r)
		}
	}
}

func TestIsKanaWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"hiragana", "とうきょう", true},
		{"katakana", "トウキョウ", true},
		{"long vowel mark", "ラーメン", true},
		{"mixed with symbols", "わーい！？", true},
		{"spaces and middle dot", "あ・い う　え", true},
		{"hyphen and star", "ら-☆", true},
		{"empty", "", false},
		{"kanji", "東京", false},
		{"latin", "Tokyo", false},
		{"kana then kanji", "とう京", false},
		{"trailing quote", "とうきょう'''", false},
		{"invalid utf8", "あ\xff", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsKanaWord(tt.in); got != tt.want {
				t.Errorf("IsKanaWord(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsKanaWord_EveryAllowedRune(t *testing.T) {
	t.Parallel()

	var all []rune
	for r := rune(kanaFirst); r <= kanaLast; r++ {
		all = append(all, r)
	}
	all = append(all, []rune(kanaSymbols)...)

	if !IsKanaWord(string(all)) {
		t.Error("string of every allowed rune should be a kana word")
	}
	if IsKanaWord(string(all) + "漢") {
		t.Error("one disallowed rune should make the word non-kana")
	}
}
