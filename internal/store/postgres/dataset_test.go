package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletopkit/companion/internal/store/postgres"
	"github.com/tabletopkit/companion/internal/testutil"
)

func TestDatasetStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)

	ctx := context.Background()
	s := postgres.NewDatasetStore(pc.RawPool, "dnd_game_data")

	t.Run("load missing", func(t *testing.T) {
		data, ok, err := s.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	t.Run("save and load", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, []byte(`{"schemaVersion": 2, "players": []}`)))

		data, ok, err := s.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.JSONEq(t, `{"schemaVersion": 2, "players": []}`, string(data))
	})

	t.Run("save upserts", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, []byte(`{"schemaVersion": 2, "players": [{"id": 1, "name": "Ann", "character_id": 2}]}`)))

		data, ok, err := s.Load(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, string(data), "Ann")
	})

	t.Run("keys are isolated", func(t *testing.T) {
		other := postgres.NewDatasetStore(pc.RawPool, "another_session")
		_, ok, err := other.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx))

		_, ok, err := s.Load(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		// Deleting an absent row is tolerated.
		assert.NoError(t, s.Delete(ctx))
	})
}
