package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "daily.csv"), []byte("Name,Date,Quotes\nAlice,2024-05-01,5\n"), 0o644))

	manager := NewManager(Config{Root: dir}, nil)

	ds, err := manager.Load(context.Background(), "daily.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
	assert.Contains(t, manager.Cached(), "daily.csv")

	t.Run("cached until restart", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "daily.csv"), []byte("Name,Date,Quotes\n"), 0o644))

		again, err := manager.Load(context.Background(), "daily.csv")
		require.NoError(t, err)
		assert.Equal(t, 1, again.Len())
	})
}

func TestLoadMissingFile(t *testing.T) {
	manager := NewManager(Config{Root: t.TempDir()}, nil)

	_, err := manager.Load(context.Background(), "missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, manager.Cached(), "failures are not cached")
}

func TestLoadRemote(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/data/april_may_summary.csv":
			_, _ = w.Write([]byte("Name,Sensei Quotes_April,Sensei Quotes_May\nAlice,10,20\nBob,,5"))
		case "/data/binary.csv":
			_, _ = w.Write([]byte{0xff, 0xfe, 0x00})
		case "/data/broken.csv":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	manager := NewManager(Config{Root: server.URL}, nil)

	t.Run("fetches and parses", func(t *testing.T) {
		ds, err := manager.Load(context.Background(), "data/april_may_summary.csv")
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Len())
	})

	t.Run("concurrent loads share one fetch", func(t *testing.T) {
		before := hits.Load()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := manager.Load(context.Background(), "data/april_may_summary.csv")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, before, hits.Load())
	})

	t.Run("absolute URL bypasses root", func(t *testing.T) {
		ds, err := manager.Load(context.Background(), server.URL+"/data/april_may_summary.csv")
		require.NoError(t, err)
		assert.Equal(t, 2, ds.Len())
	})

	t.Run("not found", func(t *testing.T) {
		_, err := manager.Load(context.Background(), "data/nope.csv")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := manager.Load(context.Background(), "data/broken.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("non-text content", func(t *testing.T) {
		_, err := manager.Load(context.Background(), "data/binary.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "UTF-8")
	})
}

func TestLoadCancelled(t *testing.T) {
	manager := NewManager(Config{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := manager.Load(ctx, "http://127.0.0.1:1/never.csv")
	assert.Error(t, err)
}
