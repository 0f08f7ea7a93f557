// Package store persists the working dataset as a single opaque blob
// under a fixed key. The blob model mirrors the browser local-storage
// layout the companion app originally used: one document, last writer
// wins, no partial updates.
package store

import "context"

// Store persists and retrieves the raw dataset blob.
type Store interface {
	// Load returns the persisted blob. The second return is false when no
	// blob has been saved yet; that is not an error.
	Load(ctx context.Context) ([]byte, bool, error)
	// Save persists the blob, replacing any previous value atomically.
	Save(ctx context.Context, data []byte) error
	// Delete removes the persisted blob. Deleting an absent blob is a no-op.
	Delete(ctx context.Context) error
}
