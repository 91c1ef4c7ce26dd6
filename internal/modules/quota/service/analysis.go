package service

import (
	cachedomain "github.com/reshetovitsme/channel-scout/internal/modules/cache/domain"
	"github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
)

const (
	highUsageThreshold  int64   = 5000
	lowHitRateThreshold float64 = 30
)

// Analyze grades quota usage against dailyLimit and suggests how to spend less.
func Analyze(state domain.State, cache cachedomain.Stats, dailyLimit int64) domain.Analysis {
	if dailyLimit <= 0 {
		dailyLimit = domain.DefaultDailyLimit
	}

	a := domain.Analysis{
		State:       state,
		DailyLimit:  dailyLimit,
		Remaining:   state.Remaining(dailyLimit),
		UsedPercent: float64(state.Total) / float64(dailyLimit) * 100,
		HitRate:     state.CacheHitRate(),
	}

	add := func(sev domain.Severity, msg string) {
		a.Recommendations = append(a.Recommendations, domain.Recommendation{Severity: sev, Message: msg})
	}

	if state.Total > highUsageThreshold {
		add(domain.SeverityWarning, "Quota usage is high. Consider narrowing the search conditions.")
	}
	if state.CacheHits+state.CacheMisses > 0 && a.HitRate < lowHitRateThreshold {
		add(domain.SeverityInfo, "Cache efficiency is low. The same channels may be searched repeatedly.")
	}
	if state.Search > state.Channels+state.Videos {
		add(domain.SeverityInfo, "Search requests dominate usage. Consider fewer search terms or pages.")
	}
	if cache.ExpiredEntries > cache.ValidEntries {
		add(domain.SeverityInfo, "Many cache entries have expired. Run a cache cleanup.")
	}
	if len(a.Recommendations) == 0 {
		add(domain.SeverityOK, "Quota optimizations are working as intended.")
	}
	return a
}
