package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/evpn"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/fleet"
)

// Store holds the snapshot of the most recent fleet poll. The exporter's
// poll loop writes it, collectors read it on scrape.
type Store struct {
	mu      sync.RWMutex
	results []fleet.Result
	polled  time.Time
}

func NewStore() *Store {
	return &Store{}
}

// Update replaces the snapshot.
func (s *Store) Update(results []fleet.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	s.polled = time.Now()
}

// Snapshot returns the last results and when they were taken.
func (s *Store) Snapshot() ([]fleet.Result, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results, s.polled
}

type fleetCollector struct {
	store        *Store
	routesDesc   typedFactoryDesc
	upDesc       typedFactoryDesc
	durationDesc typedFactoryDesc
	polledDesc   typedFactoryDesc
}

func init() {
	registerCollector("fleet", NewFleetCollector)
}

// NewFleetCollector returns a new Collector exposing EVPN fleet status.
func NewFleetCollector(store *Store) (Collector, error) {
	collector := fleetCollector{
		store: store,
		routesDesc: typedFactoryDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(namespace, "fleet", "routes"),
				"The number of EVPN IP-prefix database entries per device and status.",
				[]string{"device", "host", "status"},
				nil,
			),
			valueType: prometheus.GaugeValue,
		},
		upDesc: typedFactoryDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(namespace, "fleet", "device_up"),
				"Whether the last status poll of the device succeeded.",
				[]string{"device", "host"},
				nil,
			),
			valueType: prometheus.GaugeValue,
		},
		durationDesc: typedFactoryDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(namespace, "fleet", "poll_duration_seconds"),
				"Duration of the last status poll of the device.",
				[]string{"device", "host"},
				nil,
			),
			valueType: prometheus.GaugeValue,
		},
		polledDesc: typedFactoryDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(namespace, "fleet", "last_poll_timestamp_seconds"),
				"Unix timestamp of the last completed fleet poll.",
				nil,
				nil,
			),
			valueType: prometheus.GaugeValue,
		},
	}

	return &collector, nil
}

func (c *fleetCollector) Update(ch chan<- prometheus.Metric) error {
	results, polled := c.store.Snapshot()
	if polled.IsZero() {
		return ErrNoData
	}

	for i := range results {
		result := &results[i]
		up := 0.0
		if result.Err == nil {
			up = 1.0
		}
		ch <- c.upDesc.mustNewConstMetric(up, result.Name, result.Host)
		ch <- c.durationDesc.mustNewConstMetric(result.Duration.Seconds(), result.Name, result.Host)
		if result.Counts == nil {
			continue
		}
		for _, status := range []evpn.Status{evpn.Accepted, evpn.Rejected, evpn.Pending, evpn.Invalid, evpn.Unknown} {
			ch <- c.routesDesc.mustNewConstMetric(float64(result.Counts[status]),
				result.Name, result.Host, string(status))
		}
	}
	ch <- c.polledDesc.mustNewConstMetric(float64(polled.Unix()))

	return nil
}
