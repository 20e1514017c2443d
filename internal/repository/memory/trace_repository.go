package memory

import (
	"time"

	"thinkboard-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type TraceRepository struct {
	cache *cache.Cache
}

func NewTraceRepository() *TraceRepository {
	// Traces expire after an hour of inactivity; expired items are
	// purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &TraceRepository{
		cache: c,
	}
}

func (r *TraceRepository) Save(trace *store.TurnTrace) {
	r.cache.Set(trace.SessionID, trace, cache.DefaultExpiration)
}

func (r *TraceRepository) Get(sessionID string) (*store.TurnTrace, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.TurnTrace), true
	}
	return nil, false
}

func (r *TraceRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
