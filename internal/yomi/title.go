package yomi

import (
	"regexp"
	"unicode/utf8"
)

// disambiguationRe matches a trailing "(曖昧さ回避)" style annotation,
// full-width or half-width, optionally preceded by one space.
var disambiguationRe = regexp.MustCompile(`[ 　]?[（(].+[）)]$`)

// deniedTitleRes are titles of generic pages (lists, dates, namespaces) that do
// not name a word. Each pattern is anchored and must match the whole title.
var deniedTitleRes = compileAnchored(
	`.+一覧`,
	`.+年表`,
	`.+(順|の)リスト`,
	`[0-9]+月[0-9]+日`,
	`[0-9]+年`,
	`[0-9]+年代`,
	`(紀元前)?[0-9]+(世|千年)紀`,
	`(Category|カテゴリ|Wikipedia|Help|ヘルプ|Template|テンプレート|Portal|ポータル|プロジェクト|File|ファイル|Image|画像|MediaWiki|Module|モジュール):.+`,
)

func compileAnchored(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(`^(?:` + p + `)$`)
	}
	return res
}

// TrimTitle removes a trailing parenthetical disambiguation suffix:
// "東京 (曖昧さ回避)" becomes "東京".
func TrimTitle(title string) string {
	return disambiguationRe.ReplaceAllString(title, "")
}

// IsWorthfulTitle reports whether title looks like a lexical entry rather than
// a list, date, year or namespaced page. Empty titles and titles made of a
// single kana character are rejected too.
func IsWorthfulTitle(title string) bool {
	if title == "" {
		return false
	}
	if utf8.RuneCountInString(title) == 1 {
		r, _ := utf8.DecodeRuneInString(title)
		if IsKana(r) {
			return false
		}
	}
	for _, re := range deniedTitleRes {
		if re.MatchString(title) {
			return false
		}
	}
	return true
}
