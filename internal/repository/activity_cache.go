package repository

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// ActivityCache tracks the last activity time of every session. Entries
// never expire on their own; idle sessions are reclaimed by the lifecycle
// sweep, which also removes the session's files and documents.
type ActivityCache struct {
	cache *cache.Cache
}

func NewActivityCache() *ActivityCache {
	return &ActivityCache{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (a *ActivityCache) Touch(sessionID string, at time.Time) {
	a.cache.Set(sessionID, at, cache.NoExpiration)
}

func (a *ActivityCache) LastActivity(sessionID string) (time.Time, bool) {
	v, ok := a.cache.Get(sessionID)
	if !ok {
		return time.Time{}, false
	}
	at, ok := v.(time.Time)
	return at, ok
}

func (a *ActivityCache) Delete(sessionID string) {
	a.cache.Delete(sessionID)
}

// Snapshot copies the current activity map.
func (a *ActivityCache) Snapshot() map[string]time.Time {
	items := a.cache.Items()

	out := make(map[string]time.Time, len(items))
	for id, item := range items {
		if at, ok := item.Object.(time.Time); ok {
			out[id] = at
		}
	}
	return out
}
