package watermark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/bookdigest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ceiling int) *Cache {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "processed_ids.json"), ceiling, nil)
}

func readIDs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var f struct {
		IDs []string `json:"ids"`
	}
	require.NoError(t, json.Unmarshal(data, &f))
	return f.IDs
}

func TestCache_SaveAndLoad(t *testing.T) {
	c := newTestCache(t, 0)

	n, err := c.Save([]string{"111", "222", "333"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, NewSet("111", "222", "333"), c.Load())
	assert.Equal(t, []string{"333", "222", "111"}, readIDs(t, c.Path), "file is sorted descending")
}

func TestCache_SaveMergesWithExisting(t *testing.T) {
	c := newTestCache(t, 0)

	_, err := c.Save([]string{"1", "2"})
	require.NoError(t, err)
	_, err = c.Save([]string{"2", "3"})
	require.NoError(t, err)

	assert.Equal(t, NewSet("1", "2", "3"), c.Load())
}

func TestCache_LoadTolerant(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		c := newTestCache(t, 0)
		assert.Empty(t, c.Load())
	})

	t.Run("corrupt file", func(t *testing.T) {
		c := newTestCache(t, 0)
		require.NoError(t, os.WriteFile(c.Path, []byte("{not json"), 0o644))
		assert.Empty(t, c.Load())
	})

	t.Run("wrong shape", func(t *testing.T) {
		c := newTestCache(t, 0)
		require.NoError(t, os.WriteFile(c.Path, []byte(`{"ids": [1, 2]}`), 0o644))
		assert.Empty(t, c.Load())
	})

	t.Run("corrupt file is replaced on save", func(t *testing.T) {
		c := newTestCache(t, 0)
		require.NoError(t, os.WriteFile(c.Path, []byte("garbage"), 0o644))
		_, err := c.Save([]string{"5"})
		require.NoError(t, err)
		assert.Equal(t, NewSet("5"), c.Load())
	})
}

func TestCache_NumericOrdering(t *testing.T) {
	c := newTestCache(t, 0)
	require.NoError(t, os.WriteFile(c.Path, []byte(`{"ids": ["9", "10"]}`), 0o644))

	ids := c.Load().IDs()
	assert.Equal(t, []string{"10", "9"}, ids, "numeric, not lexicographic")
}

func TestCache_Bounding(t *testing.T) {
	const ceiling = 50
	c := newTestCache(t, ceiling)

	ids := make([]string, 0, 3*ceiling)
	for i := 1; i <= 3*ceiling; i++ {
		ids = append(ids, fmt.Sprint(i))
	}
	ids = append(ids, "not-a-number")

	n, err := c.Save(ids)
	require.NoError(t, err)
	assert.Equal(t, ceiling, n)

	persisted := readIDs(t, c.Path)
	require.Len(t, persisted, ceiling)
	assert.Equal(t, "150", persisted[0])
	assert.Equal(t, "101", persisted[ceiling-1])
	assert.NotContains(t, persisted, "not-a-number", "non-numeric ids are evicted first")
}

func TestCache_SaveWritesDescending(t *testing.T) {
	c := newTestCache(t, 0)
	_, err := c.Save([]string{"12", "x", "1893456789012345678901", "3"})
	require.NoError(t, err)
	_, err = c.Save([]string{"200", "y"})
	require.NoError(t, err)

	assert.Equal(t, []string{"1893456789012345678901", "200", "12", "3", "y", "x"}, readIDs(t, c.Path))
}

func TestCache_CreatesDirectory(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "nested", "dir", "ids.json"), 0, nil)
	_, err := c.Save([]string{"1"})
	require.NoError(t, err)
	assert.True(t, c.Load().Has("1"))
}

func TestFilter(t *testing.T) {
	records := []core.Record{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	t.Run("removes processed", func(t *testing.T) {
		kept, skipped := Filter(records, NewSet("1", "3"))
		require.Len(t, kept, 1)
		assert.Equal(t, "2", kept[0].ID)
		assert.Equal(t, 2, skipped)
	})

	t.Run("all new", func(t *testing.T) {
		kept, skipped := Filter(records, Set{})
		assert.Len(t, kept, 3)
		assert.Zero(t, skipped)
	})

	t.Run("method form", func(t *testing.T) {
		c := newTestCache(t, 0)
		kept := c.Filter(records, NewSet("2"))
		assert.Equal(t, []core.Record{{ID: "1"}, {ID: "3"}}, kept)
	})
}

func TestWatermarkMonotonicity(t *testing.T) {
	c := newTestCache(t, 0)
	run1 := []core.Record{{ID: "10"}, {ID: "11"}, {ID: "12"}}

	kept, _ := Filter(run1, c.Load())
	require.Len(t, kept, 3)
	ids := make([]string, len(kept))
	for i, r := range kept {
		ids[i] = r.ID
	}
	_, err := c.Save(ids)
	require.NoError(t, err)

	run2 := []core.Record{{ID: "11"}, {ID: "13"}, {ID: "10"}, {ID: "14"}}
	kept, skipped := Filter(run2, c.Load())
	assert.Equal(t, 2, skipped)
	for _, r := range kept {
		assert.NotContains(t, ids, r.ID)
	}
}
