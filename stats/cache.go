package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const summaryTTL = 60 * time.Second

// SummaryCache keeps dashboard summaries in Redis for a short TTL so a
// parent refreshing the app does not re-flatten the whole history every
// time. Optional: a nil *SummaryCache is a no-op cache.
type SummaryCache struct {
	rdb *redis.Client
}

// NewSummaryCache connects to Redis at addr. Returns nil (cache disabled)
// when addr is empty.
func NewSummaryCache(addr, password string, db int) *SummaryCache {
	if addr == "" {
		return nil
	}
	return &SummaryCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func summaryKey(classID, studentID uint) string {
	return fmt.Sprintf("summary:%d:%d", classID, studentID)
}

// Get returns the cached summary and true on a hit. Redis errors count as
// misses; the caller recomputes.
func (c *SummaryCache) Get(ctx context.Context, classID, studentID uint) (Summary, bool) {
	var s Summary
	if c == nil {
		return s, false
	}
	raw, err := c.rdb.Get(ctx, summaryKey(classID, studentID)).Bytes()
	if err != nil {
		return s, false
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, false
	}
	return s, true
}

// Set stores the summary, best effort.
func (c *SummaryCache) Set(ctx context.Context, classID, studentID uint, s Summary) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, summaryKey(classID, studentID), raw, summaryTTL)
}
