package redis

import (
	"context"
	"errors"
	"time"

	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/shared"
)

// MatchSuggestionCache stores the full ranked suggestion list per user.
// The list is cached before the exclusion post-filter: exclusions change
// with every sent request, while the ranking itself only changes when
// rubric scores do.
type MatchSuggestionCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewMatchSuggestionCache creates a new MatchSuggestionCache.
func NewMatchSuggestionCache(cache *Cache) *MatchSuggestionCache {
	return &MatchSuggestionCache{cache: cache, ttl: TTLMatchSuggestions}
}

// SetTTL overrides the suggestion TTL. The TTL is a safety net: explicit
// invalidation on score replacement is the primary mechanism.
func (c *MatchSuggestionCache) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		c.ttl = ttl
	}
}

// GetSuggestions returns the cached suggestion list for a user.
// A cache miss is reported via ok=false, not an error.
func (c *MatchSuggestionCache) GetSuggestions(ctx context.Context, userID shared.UserID) (matching.CandidateList, bool, error) {
	var list matching.CandidateList
	err := c.cache.Get(ctx, MatchesKey(string(userID)), &list)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return list, true, nil
}

// SetSuggestions stores the suggestion list for a user.
func (c *MatchSuggestionCache) SetSuggestions(ctx context.Context, userID shared.UserID, list matching.CandidateList) error {
	return c.cache.Set(ctx, MatchesKey(string(userID)), list, c.ttl)
}

// InvalidateMatches drops the cached suggestions of a user.
// Called after a rubric re-analysis changes the user's scores.
func (c *MatchSuggestionCache) InvalidateMatches(ctx context.Context, userID shared.UserID) error {
	return c.cache.Delete(ctx, MatchesKey(string(userID)))
}
