package wordindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	got := Build([]string{"あ", "いぬ", "ねこ", "う", "さくら", "とうきょう"})

	assert.Equal(t, map[int]Bucket{
		1: {Length: 1, Start: 0, Count: 2},
		2: {Length: 2, Start: 1, Count: 2},
		3: {Length: 3, Start: 4, Count: 1},
		5: {Length: 5, Start: 5, Count: 1},
	}, got)
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Build(nil))
}

func TestBuild_EmptyLineCountsAsZeroLength(t *testing.T) {
	t.Parallel()

	got := Build([]string{"か", ""})
	assert.Equal(t, Bucket{Length: 0, Start: 1, Count: 1}, got[0])
}

func TestListName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"words.txt", "words"},
		{"out/yomi.txt", "yomi"},
		{"/data/jawiki.sorted.txt", "jawiki"},
		{"./list.d/nouns", "nouns"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ListName(tt.path))
		})
	}
}

func TestLoadList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "yomi.txt")
	require.NoError(t, os.WriteFile(path, []byte("あい\r\nうえお\nか\n"), 0o600))

	words, err := LoadList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"あい", "うえお", "か"}, words)
}

func TestLoadList_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadList(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
