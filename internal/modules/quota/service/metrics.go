package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/reshetovitsme/channel-scout/internal/modules/quota/domain"
)

// Metrics exports quota usage as process-wide Prometheus counters shared by every Meter.
type Metrics struct {
	units   *prometheus.CounterVec
	lookups *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "channelscout",
			Name:      "quota_units_total",
			Help:      "YouTube Data API quota units consumed, by category.",
		}, []string{"category"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "channelscout",
			Name:      "cache_lookups_total",
			Help:      "Resource lookups by cache result (hit or miss).",
		}, []string{"result"}),
	}

	for _, c := range []prometheus.Collector{m.units, m.lookups} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeUnits(category domain.Category, cost int64) {
	if m == nil {
		return
	}
	m.units.WithLabelValues(category.String()).Add(float64(cost))
}

func (m *Metrics) observeLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.lookups.WithLabelValues(result).Inc()
}
