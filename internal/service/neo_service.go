package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"neowatch/internal/clients"
	"neowatch/internal/logger"
	"neowatch/internal/models"
	"neowatch/internal/repository"
)

// FetchResult is the outcome of a successful feed fetch.
type FetchResult struct {
	Feed      *models.Feed
	Start     time.Time
	End       time.Time
	FromCache bool
}

type NEOService interface {
	FetchRecentObjects(ctx context.Context, today time.Time) (*FetchResult, error)
}

type NEOConfig struct {
	Days     int
	RawPath  string
	CacheTTL time.Duration
}

type neoService struct {
	client    clients.NASAClient
	cacheRepo repository.CacheRepository
	cfg       NEOConfig
}

// NewNEOService wires the feed client. cacheRepo may be nil, which disables
// the feed cache.
func NewNEOService(client clients.NASAClient, cacheRepo repository.CacheRepository, cfg NEOConfig) NEOService {
	if cfg.Days < 1 {
		cfg.Days = 3
	}
	return &neoService{
		client:    client,
		cacheRepo: cacheRepo,
		cfg:       cfg,
	}
}

// FeedWindow returns the inclusive window of days ending on today.
func FeedWindow(today time.Time, days int) (time.Time, time.Time) {
	end := models.Today(today)
	return end.AddDate(0, 0, -(days - 1)), end
}

func (s *neoService) FetchRecentObjects(ctx context.Context, today time.Time) (*FetchResult, error) {
	log := logger.GetLogger("neo")
	start, end := FeedWindow(today, s.cfg.Days)
	result := &FetchResult{Start: start, End: end}

	if feed := s.fromCache(ctx, start, end); feed != nil {
		result.Feed = feed
		result.FromCache = true
	} else {
		feed, err := s.client.FetchNEOFeed(ctx, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetch NEO feed %s..%s: %w",
				start.Format(models.DateLayout), end.Format(models.DateLayout), err)
		}
		result.Feed = feed
		s.toCache(ctx, start, end, feed)
	}

	if s.cfg.RawPath != "" {
		if err := os.WriteFile(s.cfg.RawPath, result.Feed.Raw, 0644); err != nil {
			return nil, fmt.Errorf("write raw feed dump: %w", err)
		}
	}

	log.Infow("NEO feed loaded",
		"start_date", start.Format(models.DateLayout),
		"end_date", end.Format(models.DateLayout),
		"objects", result.Feed.ElementCount,
		"from_cache", result.FromCache)

	return result, nil
}

func (s *neoService) fromCache(ctx context.Context, start, end time.Time) *models.Feed {
	if s.cacheRepo == nil {
		return nil
	}

	raw, err := s.cacheRepo.Get(ctx, repository.FeedCacheKey(start, end))
	if err != nil {
		logger.GetLogger("neo").Warnf("Failed to read cached NEO feed: %v", err)
		return nil
	}
	if raw == nil {
		return nil
	}

	feed, err := clients.ParseNearEarthObjects(raw)
	if err != nil {
		logger.GetLogger("neo").Warnf("Discarding unreadable cached NEO feed: %v", err)
		return nil
	}
	return feed
}

func (s *neoService) toCache(ctx context.Context, start, end time.Time, feed *models.Feed) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Set(ctx, repository.FeedCacheKey(start, end), feed.Raw, s.cfg.CacheTTL); err != nil {
		logger.GetLogger("neo").Warnf("Failed to cache NEO feed: %v", err)
	}
}
