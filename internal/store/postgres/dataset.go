package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DatasetStore persists the dataset blob in the game_datasets table,
// one row per storage key. Implements store.Store.
type DatasetStore struct {
	db  *pgxpool.Pool
	key string
}

// NewDatasetStore creates a DatasetStore backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; key must be
// non-empty.
func NewDatasetStore(db *pgxpool.Pool, key string) *DatasetStore {
	return &DatasetStore{db: db, key: key}
}

// Load returns the blob stored under the configured key.
//
// Postcondition: returns (nil, false, nil) when no row exists for the key.
func (s *DatasetStore) Load(ctx context.Context) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM game_datasets WHERE key = $1`, s.key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading dataset %q: %w", s.key, err)
	}
	return data, true, nil
}

// Save upserts the blob under the configured key.
func (s *DatasetStore) Save(ctx context.Context, data []byte) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO game_datasets (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		s.key, data,
	)
	if err != nil {
		return fmt.Errorf("saving dataset %q: %w", s.key, err)
	}
	return nil
}

// Delete removes the row for the configured key. Absent rows are tolerated.
func (s *DatasetStore) Delete(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM game_datasets WHERE key = $1`, s.key)
	if err != nil {
		return fmt.Errorf("deleting dataset %q: %w", s.key, err)
	}
	return nil
}
