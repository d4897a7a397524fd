package yomi

import "testing"

func TestTrimTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"東京(曖昧さ回避)", "東京"},
		{"東京 (曖昧さ回避)", "東京"},
		{"東京（曖昧さ回避）", "東京"},
		{"東京　（曖昧さ回避）", "東京"},
		{"東京", "東京"},
		{"", ""},
		{"(株)", ""},
		{"A (x) B (y)", "A"},
		{"東京(都)駅", "東京(都)駅"},
	}

	for _, tt := range tests {
		if got := TrimTitle(tt.in); got != tt.want {
			t.Errorf("TrimTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsWorthfulTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"東京", true},
		{"さくら", true},
		{"C++", true},
		{"年", true},
		{"一覧", true},

		{"", false},
		{"あ", false},
		{"ア", false},
		{"、", false},
		{"都道府県一覧", false},
		{"日本の歴史年表", false},
		{"五十音順リスト", false},
		{"駅のリスト", false},
		{"1月1日", false},
		{"2023年", false},
		{"1980年代", false},
		{"21世紀", false},
		{"紀元前5世紀", false},
		{"2千年紀", false},
		{"Category:日本", false},
		{"Wikipedia:井戸端", false},
		{"Help:目次", false},
		{"Template:Infobox", false},
		{"Portal:鉄道", false},
		{"プロジェクト:鉄道", false},
		{"ファイル:Tokyo.jpg", false},
	}

	for _, tt := range tests {
		if got := IsWorthfulTitle(tt.in); got != tt.want {
			t.Errorf("IsWorthfulTitle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsWorthfulTitle_FullMatchOnly(t *testing.T) {
	t.Parallel()

	// Patterns are anchored: a year or a namespace inside a longer title is fine.
	for _, title := range []string{"2023年の日本", "平成2年度", "私のCategory:論", "一覧表"} {
		if !IsWorthfulTitle(title) {
			t.Errorf("IsWorthfulTitle(%q) = false, want true", title)
		}
	}
}
