package bookdigest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/bookdigest/ai/mock"
	"github.com/poiesic/bookdigest/ask"
	"github.com/poiesic/bookdigest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenArchive(t *testing.T) {
	t.Run("create new archive", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "digest_db")
		archive, err := OpenArchive(dir)
		require.NoError(t, err)
		require.NotNil(t, archive)
		defer archive.Close()

		assert.NotNil(t, archive.DigestRepository())
		assert.NotNil(t, archive.backend)
		assert.NotNil(t, archive.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0644))

		archive, err := OpenArchive(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, archive)
	})
}

func TestArchive_Close(t *testing.T) {
	archive, err := OpenArchive("", InMemory())
	require.NoError(t, err)
	assert.NoError(t, archive.Close())
}

func TestArchive_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	digest := &core.DigestResult{
		RunID:      core.RunIDFromRecords([]string{"1"}),
		Date:       time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		Records:    []core.EnrichedRecord{{Record: core.Record{ID: "1"}, Tier: core.TierNormal}},
		TotalCount: 1,
	}

	archive, err := OpenArchive(dir)
	require.NoError(t, err)
	require.NoError(t, archive.DigestRepository().SaveDigest(context.Background(), digest))
	require.NoError(t, archive.Close())

	archive, err = OpenArchive(dir)
	require.NoError(t, err)
	defer archive.Close()

	latest, err := archive.DigestRepository().LatestDigest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, digest.RunID, latest.RunID)
}

func TestArchive_NewAsker(t *testing.T) {
	archive, err := OpenArchive("", InMemory())
	require.NoError(t, err)
	defer archive.Close()

	asker, err := archive.NewAsker(mock.NewMockCompleter(), ask.WithModel("haiku"))
	require.NoError(t, err)

	_, err = asker.Ask(context.Background(), "what did I save?")
	assert.ErrorIs(t, err, ask.ErrNoDigest)

	_, err = archive.NewAsker(nil)
	assert.ErrorIs(t, err, ask.ErrCompleterRequired)

}
