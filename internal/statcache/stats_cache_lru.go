package statcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mchain/internal/model"
	"github.com/xxxsen/mchain/internal/service"
)

const lengthStatsKey = "length_stats"

// WrapLruCacheToLengthStats serves length statistics from memory for ttl.
// A non-positive ttl returns next unchanged.
func WrapLruCacheToLengthStats(next service.LengthStatsSource, ttl time.Duration) service.LengthStatsSource {
	if next == nil || ttl <= 0 {
		return next
	}
	return &lruLengthStats{
		next:  next,
		cache: expirable.NewLRU[string, model.LengthStats](1, nil, ttl),
	}
}

type lruLengthStats struct {
	next  service.LengthStatsSource
	cache *expirable.LRU[string, model.LengthStats]
}

func (l *lruLengthStats) LengthStats(ctx context.Context) (model.LengthStats, error) {
	if cached, ok := l.cache.Get(lengthStatsKey); ok {
		logutil.GetLogger(ctx).Debug("length stats cache hit", zap.Int64("count", cached.Count))
		return cached, nil
	}
	stats, err := l.next.LengthStats(ctx)
	if err != nil {
		return model.LengthStats{}, err
	}
	// an empty history is not cached so the first ingest is visible at once
	if stats.Count > 0 {
		l.cache.Add(lengthStatsKey, stats)
	}
	return stats, nil
}
