// Package sources fetches CSV sources by URL and keeps the parsed datasets in memory.
package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"salesdash.senseiquotes.org/internal/csvdata"
	"salesdash.senseiquotes.org/internal/logging"
)

// ErrNotFound is returned when a source does not exist.
var ErrNotFound = errors.New("source not found")

// Config controls where relative source URLs are resolved.
type Config struct {
	// Root is a directory or an http(s) base URL that relative URLs are joined to.
	Root string
	// Timeout bounds a single remote fetch. Zero means no timeout.
	Timeout time.Duration
}

// Manager loads datasets and caches them by URL until the process exits.
type Manager struct {
	config Config
	client *http.Client
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	ready    chan struct{}
	dataset  csvdata.Dataset
	err      error
	loadedAt time.Time
}

// NewManager creates a Manager. A nil logger logs nowhere.
func NewManager(config Config, logger *slog.Logger) *Manager {
	return &Manager{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		logger:  logging.ForComponent(logger, logging.ComponentSources),
		entries: make(map[string]*entry),
	}
}

// Load returns the parsed dataset for url, fetching it on first use. Concurrent callers
// for the same url share one fetch. Failures are not cached.
func (manager *Manager) Load(ctx context.Context, url string) (csvdata.Dataset, error) {
	manager.mu.Lock()
	e, ok := manager.entries[url]
	if !ok {
		e = &entry{ready: make(chan struct{})}
		manager.entries[url] = e
		manager.mu.Unlock()
		manager.fill(ctx, url, e)
	} else {
		manager.mu.Unlock()
	}

	select {
	case <-e.ready:
	case <-ctx.Done():
		return csvdata.Dataset{}, ctx.Err()
	}
	return e.dataset, e.err
}

func (manager *Manager) fill(ctx context.Context, url string, e *entry) {
	start := time.Now()
	text, err := manager.fetch(ctx, url)
	if err != nil {
		e.err = err
		manager.mu.Lock()
		delete(manager.entries, url)
		manager.mu.Unlock()
		close(e.ready)
		logging.LogError(manager.logger, "failed to load source", err, slog.String("url", url))
		return
	}

	e.dataset = csvdata.Parse(text)
	e.loadedAt = time.Now()
	close(e.ready)

	logging.LogOperation(manager.logger, "source_loaded",
		slog.String("url", url),
		slog.Int("records", e.dataset.Len()),
		slog.Duration("duration", time.Since(start)))
}

// fetch returns the raw text behind url without touching the cache.
func (manager *Manager) fetch(ctx context.Context, url string) (string, error) {
	location := manager.resolve(url)

	var data []byte
	var err error
	if isRemote(location) {
		data, err = manager.fetchRemote(ctx, location)
	} else {
		data, err = os.ReadFile(location)
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrNotFound, location)
		}
	}
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("source %s is not UTF-8 text", location)
	}
	return string(data), nil
}

func (manager *Manager) fetchRemote(ctx context.Context, location string) (body []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := manager.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", location, err)
	}
	defer logging.CloseLogged(resp.Body, manager.logger, "source_response_body")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching %s: unexpected status %d", location, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Cached lists the URLs currently held in memory with their load time.
func (manager *Manager) Cached() map[string]time.Time {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	out := make(map[string]time.Time, len(manager.entries))
	for url, e := range manager.entries {
		select {
		case <-e.ready:
			if e.err == nil {
				out[url] = e.loadedAt
			}
		default:
		}
	}
	return out
}

func (manager *Manager) resolve(url string) string {
	if isRemote(url) || filepath.IsAbs(url) || manager.config.Root == "" {
		return url
	}
	if isRemote(manager.config.Root) {
		return strings.TrimSuffix(manager.config.Root, "/") + "/" + strings.TrimPrefix(url, "/")
	}
	return filepath.Join(manager.config.Root, url)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
