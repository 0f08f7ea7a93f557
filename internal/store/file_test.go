package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreLoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "game_data.json"))
	data, ok, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "dir", "game_data.json"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte(`{"schemaVersion":2}`)))

	data, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"schemaVersion":2}`, string(data))
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "game_data.json"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte("first")))
	require.NoError(t, s.Save(ctx, []byte("second")))

	data, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", string(data))
}

func TestFileStoreDelete(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "game_data.json"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, []byte("data")))
	require.NoError(t, s.Delete(ctx))

	_, ok, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent file is tolerated.
	assert.NoError(t, s.Delete(ctx))
}
