package service

import (
	"log/slog"
	"sync/atomic"

	"github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
)

// Meter counts quota units and cache lookups for one search session.
type Meter struct {
	search      atomic.Int64
	channels    atomic.Int64
	videos      atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	metrics *Metrics
}

// NewMeter creates a Meter. metrics may be nil.
func NewMeter(metrics *Metrics) *Meter {
	return &Meter{metrics: metrics}
}

// Track records one lookup. A lookup served from cache only counts as a hit;
// anything else is a miss and charges unitCost to category.
func (m *Meter) Track(category domain.Category, unitCost int64, fromCache bool) {
	if fromCache {
		m.cacheHits.Add(1)
		m.metrics.observeLookup(true)
		return
	}
	m.cacheMisses.Add(1)
	m.metrics.observeLookup(false)

	switch category {
	case domain.CategorySearch:
		m.search.Add(unitCost)
	case domain.CategoryChannels:
		m.channels.Add(unitCost)
	case domain.CategoryVideos:
		m.videos.Add(unitCost)
	default:
		slog.Warn("quota: unknown category", "category", category, "cost", unitCost)
		return
	}
	m.metrics.observeUnits(category, unitCost)
}

// Snapshot returns the current counters. Total is derived so it always equals
// the sum of the categories.
func (m *Meter) Snapshot() domain.State {
	s := domain.State{
		Search:      m.search.Load(),
		Channels:    m.channels.Load(),
		Videos:      m.videos.Load(),
		CacheHits:   m.cacheHits.Load(),
		CacheMisses: m.cacheMisses.Load(),
	}
	s.Total = s.Search + s.Channels + s.Videos
	return s
}

// Reset zeroes every counter. Prometheus totals are left untouched.
func (m *Meter) Reset() {
	m.search.Store(0)
	m.channels.Store(0)
	m.videos.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
}
