// Package source fetches the authoritative (master-published) dataset.
//
// The authoritative dataset is an optional input: a missing document is
// not an error, it simply means there is nothing to reconcile against.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Source fetches the raw authoritative dataset blob.
type Source interface {
	// Fetch returns the published dataset. The second return is false
	// when no dataset is published; that is not an error.
	Fetch(ctx context.Context) ([]byte, bool, error)
}

// HTTPSource fetches the published dataset from a URL.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates an HTTPSource for the given URL.
//
// Precondition: url must be non-empty; timeout bounds each fetch.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the published dataset.
//
// Postcondition: a non-200 response yields (nil, false, nil) — the dataset
// is treated as unpublished, never as corrupt local state.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building dataset request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching dataset from %q: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset response: %w", err)
	}
	return data, true, nil
}

// FileSource reads the published dataset from a local file.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the published dataset file.
//
// Postcondition: a missing file yields (nil, false, nil).
func (s *FileSource) Fetch(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset file %q: %w", s.path, err)
	}
	return data, true, nil
}
