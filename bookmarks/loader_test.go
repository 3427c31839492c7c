package bookmarks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/poiesic/bookdigest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_StandardJSON(t *testing.T) {
	path := writeFile(t, "bookmarks.json", `[
		{
			"id": "111",
			"text": "  first post  ",
			"user": {"name": "Test User", "screen_name": "testuser"},
			"created_at": "2026-02-19T03:00:00.000Z",
			"url": "https://x.com/testuser/status/111",
			"public_metrics": {"like_count": 100}
		}
	]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	created := time.Date(2026, 2, 19, 3, 0, 0, 0, time.UTC)
	want := core.Record{
		ID:             "111",
		Text:           "first post",
		AuthorName:     "Test User",
		AuthorUsername: "testuser",
		URL:            "https://x.com/testuser/status/111",
		CreatedAt:      &created,
		LikeCount:      100,
	}
	if diff := cmp.Diff(want, records[0]); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Deduplication(t *testing.T) {
	path := writeFile(t, "bookmarks.json", `[
		{"id": "111", "text": "A", "user": {"name": "U", "screen_name": "u"}},
		{"id": "222", "text": "C"},
		{"id": "111", "text": "B", "user": {"name": "U", "screen_name": "u"}}
	]`)

	records, err := Load(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "111", records[0].ID)
	assert.Equal(t, "A", records[0].Text, "first occurrence wins")
	assert.Equal(t, "222", records[1].ID)
}

func TestLoad_Idempotent(t *testing.T) {
	path := writeFile(t, "bookmarks.json", `[{"id": "1", "text": "x"}, {"id": "2"}, {"id": "1", "text": "y"}]`)

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second load differs (-first +second):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("zero bytes", func(t *testing.T) {
		records, err := Load(writeFile(t, "empty.json", ""))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("whitespace only", func(t *testing.T) {
		records, err := Load(writeFile(t, "blank.json", "  \n\t "))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("object instead of array", func(t *testing.T) {
		_, err := Load(writeFile(t, "obj.json", `{"id": "1"}`))
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("truncated json", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.json", `[{"id": "1"`))
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestLoad_MislabeledExtension(t *testing.T) {
	t.Run("csv content in .json file", func(t *testing.T) {
		path := writeFile(t, "bookmarks.json", "Text,Username,Link\nhello,@alice,https://x.com/alice/status/42\n")
		records, err := Load(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "42", records[0].ID)
	})

	t.Run("json content in .csv file", func(t *testing.T) {
		path := writeFile(t, "bookmarks.csv", `[{"id": "7", "text": "json"}]`)
		records, err := Load(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "json", records[0].Text)
	})
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Format
	}{
		{"array", `[{"id":1}]`, FormatJSON},
		{"object", `{"id":1}`, FormatJSON},
		{"leading whitespace", "\n\n  [", FormatJSON},
		{"bom then array", "\xEF\xBB\xBF[]", FormatJSON},
		{"csv header", "Text,Link\n", FormatCSV},
		{"empty", "", FormatEmpty},
		{"whitespace", "   ", FormatEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat([]byte(tt.in)))
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []core.Record{{ID: "1", Text: "a"}, {ID: "2"}, {ID: "1", Text: "b"}, {ID: "3"}, {ID: "2"}}
	out := Dedupe(in)

	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Equal(t, "a", out[0].Text)
	assert.Empty(t, Dedupe(nil))
}
