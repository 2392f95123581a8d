package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/kri-ruj/readnext/internal/cache"
	"github.com/kri-ruj/readnext/internal/model"
	"github.com/kri-ruj/readnext/internal/pipeline"
	"github.com/kri-ruj/readnext/internal/worker"
)

// Fetched page text and processed records are reused for a day.
const (
	contentTTL = 24 * time.Hour
	recordTTL  = 24 * time.Hour
)

// newStore builds the layered cache shared by content fetching and record
// reuse. Returns nil when caching is disabled.
func newStore(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	return cache.NewLayeredCache(cfg.Cache.MemoryTTL, cacheDir(cfg), cfg.Cache.DiskTTL)
}

// newFetchFunc composes the content fetcher, per-domain rate limiter, and
// cache into a single FetchFunc for ingest jobs. store may be nil.
func newFetchFunc(cfg *model.Config, store cache.Cache) worker.FetchFunc {
	fetcher := pipeline.NewFetcher(cfg.HTTP)
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)

	return func(ctx context.Context, url string) (string, error) {
		var key string
		if store != nil {
			key = cache.ContentKey(url)
			if data, found := store.Get(key); found {
				return string(data), nil
			}
		}

		if err := limiter.Wait(ctx, url); err != nil {
			return "", err
		}

		text, err := fetcher.FetchText(ctx, url)
		if err != nil {
			return "", err
		}

		if store != nil {
			_ = store.Set(key, []byte(text), contentTTL)
		}

		return text, nil
	}
}

// loadCachedRecord returns the stored record for the same article ID and
// text, if one exists. store may be nil.
func loadCachedRecord(store cache.Cache, raw model.RawArticle) (*model.ArticleRecord, bool) {
	if store == nil {
		return nil, false
	}
	return cache.GetRecord(store, cache.RecordKey(raw.ID, raw.Content))
}

// storeRecord saves a processed record for reuse by later runs.
func storeRecord(store cache.Cache, raw model.RawArticle, record *model.ArticleRecord) {
	if store == nil {
		return
	}
	_ = cache.SetRecord(store, cache.RecordKey(raw.ID, raw.Content), record, recordTTL)
}

// cacheDir resolves the disk cache directory, defaulting under the user's
// home so repeated runs share fetched content.
func cacheDir(cfg *model.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".readnext-cache"
	}
	return filepath.Join(home, ".readnext", "cache")
}
