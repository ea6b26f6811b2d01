package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/models"
	"neowatch/internal/repository"
)

type fakeNASAClient struct {
	raw   string
	err   error
	calls int
	start time.Time
	end   time.Time
}

func (c *fakeNASAClient) FetchNEOFeed(ctx context.Context, start, end time.Time) (*models.Feed, error) {
	c.calls++
	c.start, c.end = start, end
	if c.err != nil {
		return nil, c.err
	}
	return clients.ParseNearEarthObjects([]byte(c.raw))
}

type memoryCache struct {
	data   map[string][]byte
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestFeedWindow(t *testing.T) {
	start, end := FeedWindow(time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC), 3)
	if start.Format(models.DateLayout) != "2024-02-28" || end.Format(models.DateLayout) != "2024-03-01" {
		t.Errorf("unexpected window %s..%s", start, end)
	}
}

func TestFetchRecentObjectsWritesRawDump(t *testing.T) {
	client := &fakeNASAClient{raw: scenarioObjects}
	rawPath := filepath.Join(t.TempDir(), "near_earth_objects.txt")
	svc := NewNEOService(client, nil, NEOConfig{Days: 3, RawPath: rawPath})

	today := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	result, err := svc.FetchRecentObjects(context.Background(), today)
	if err != nil {
		t.Fatalf("FetchRecentObjects failed: %v", err)
	}

	if client.start.Format(models.DateLayout) != "2023-12-30" || client.end.Format(models.DateLayout) != "2024-01-01" {
		t.Errorf("unexpected window %s..%s", client.start, client.end)
	}
	if result.FromCache {
		t.Error("first fetch should not come from cache")
	}

	dump, err := os.ReadFile(rawPath)
	if err != nil {
		t.Fatalf("raw dump missing: %v", err)
	}
	if string(dump) != scenarioObjects {
		t.Errorf("raw dump should hold near_earth_objects verbatim, got %s", dump)
	}
}

func TestFetchRecentObjectsFailure(t *testing.T) {
	client := &fakeNASAClient{err: models.ErrFetch}
	rawPath := filepath.Join(t.TempDir(), "near_earth_objects.txt")
	svc := NewNEOService(client, nil, NEOConfig{RawPath: rawPath})

	result, err := svc.FetchRecentObjects(context.Background(), time.Now())
	if !errors.Is(err, models.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}
	if result != nil {
		t.Error("failed fetch must not return a result")
	}
	if _, err := os.Stat(rawPath); !os.IsNotExist(err) {
		t.Error("raw dump should not be written on failure")
	}
}

func TestFetchRecentObjectsUsesCache(t *testing.T) {
	client := &fakeNASAClient{raw: scenarioObjects}
	cache := newMemoryCache()
	svc := NewNEOService(client, cache, NEOConfig{Days: 3, CacheTTL: time.Hour})
	today := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := svc.FetchRecentObjects(context.Background(), today); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	start, end := FeedWindow(today, 3)
	if _, ok := cache.data[repository.FeedCacheKey(start, end)]; !ok {
		t.Fatal("feed should be cached after a live fetch")
	}

	result, err := svc.FetchRecentObjects(context.Background(), today)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !result.FromCache {
		t.Error("second fetch should hit the cache")
	}
	if client.calls != 1 {
		t.Errorf("expected 1 API call, got %d", client.calls)
	}
	if len(result.Feed.NearEarthObjects["2024-01-01"]) != 1 {
		t.Errorf("cached feed should decode, got %+v", result.Feed.NearEarthObjects)
	}
}

func TestFetchRecentObjectsCacheErrorFallsBack(t *testing.T) {
	client := &fakeNASAClient{raw: scenarioObjects}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	svc := NewNEOService(client, cache, NEOConfig{})

	result, err := svc.FetchRecentObjects(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("cache errors must not fail the fetch: %v", err)
	}
	if result.FromCache || client.calls != 1 {
		t.Errorf("expected a live fetch, from_cache=%v calls=%d", result.FromCache, client.calls)
	}
}
