// Package model provides caching for prediction results.
package model

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// CacheKey identifies a single prediction by player, stat and game date.
type CacheKey struct {
	Sport    models.Sport
	EntityID string
	Stat     string
	GameDate time.Time
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.Sport, k.EntityID, k.Stat, k.GameDate.Format("2006-01-02"))
}

// PredictionCache provides in-memory caching for prediction records so a
// re-run on the same slate does not hit the model service again.
type PredictionCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration, maxSize int) *PredictionCache {
	return &PredictionCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached prediction, or nil on a miss.
func (pc *PredictionCache) Get(key CacheKey) *models.PredictionRecord {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if result, found := pc.cache.Get(key.String()); found {
		if pred, ok := result.(*models.PredictionRecord); ok {
			pc.hitCount++
			pc.updateMetrics()
			return pred
		}
	}

	pc.missCount++
	pc.updateMetrics()
	return nil
}

// Set stores a prediction in cache
func (pc *PredictionCache) Set(key CacheKey, prediction *models.PredictionRecord) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.cache.ItemCount() >= pc.maxSize {
		pc.cache.DeleteExpired()
	}

	pc.cache.Set(key.String(), prediction, pc.ttl)
}

// InvalidateSport removes all cached predictions for one sport, used after a
// model for that sport is retrained or reconfigured.
func (pc *PredictionCache) InvalidateSport(sport models.Sport) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	prefix := string(sport) + ":"
	for key := range pc.cache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			pc.cache.Delete(key)
		}
	}
}

// Flush clears the whole cache.
func (pc *PredictionCache) Flush() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cache.Flush()
	pc.hitCount = 0
	pc.missCount = 0
}

// Stats returns hit and miss counts.
func (pc *PredictionCache) Stats() (hits, misses uint64) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	return pc.hitCount, pc.missCount
}

func (pc *PredictionCache) updateMetrics() {
	total := pc.hitCount + pc.missCount
	if total > 0 {
		CacheHitRatio.Set(float64(pc.hitCount) / float64(total))
	}
}
