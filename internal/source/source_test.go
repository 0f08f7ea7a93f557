package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schemaVersion":2}`))
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, 5*time.Second)
	data, ok, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"schemaVersion":2}`, string(data))
}

func TestHTTPSourceNon200MeansUnpublished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewHTTPSource(srv.URL, 5*time.Second)
	data, ok, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestHTTPSourceConnectionError(t *testing.T) {
	s := NewHTTPSource("http://127.0.0.1:1", time.Second)
	_, _, err := s.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileSourceFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schemaVersion":2}`), 0644))

	s := NewFileSource(path)
	data, ok, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"schemaVersion":2}`, string(data))
}

func TestFileSourceMissingMeansUnpublished(t *testing.T) {
	s := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	data, ok, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}
