package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kri-ruj/readnext/internal/model"
)

// keyPrefix is bumped whenever the cached record layout changes, so stale
// on-disk entries from older builds are simply missed instead of misparsed.
const keyPrefix = "readnext:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey generates a cache key for fetched article text, keyed by URL.
func ContentKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return keyPrefix + "content:" + hex.EncodeToString(hash[:])
}

// RecordKey generates a cache key for a processed article record. The key
// covers both the article ID and its text, so edited content is re-analyzed
// instead of served stale.
func RecordKey(id int, text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%srecord:%d:%s", keyPrefix, id, hex.EncodeToString(hash[:]))
}

// GetRecord retrieves a processed article record from the cache.
func GetRecord(c Cache, key string) (*model.ArticleRecord, bool) {
	data, found := c.Get(key)
	if !found {
		return nil, false
	}

	var record model.ArticleRecord
	if err := json.Unmarshal(data, &record); err != nil {
		// Corrupt entry; drop it so the next write replaces it.
		_ = c.Delete(key)
		return nil, false
	}
	return &record, true
}

// SetRecord stores a processed article record in the cache.
func SetRecord(c Cache, key string, record *model.ArticleRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return c.Set(key, data, ttl)
}
