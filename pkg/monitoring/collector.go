// Package monitoring exposes fleet poll results as Prometheus metrics.
package monitoring

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// namespace defines the common namespace to be used by all metrics.
const namespace = "evpn"

var (
	scrapeDurationDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "scrape", "collector_duration_seconds"),
		"evpn_auditor: Duration of a collector scrape.",
		[]string{"collector"},
		nil,
	)
	scrapeSuccessDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "scrape", "collector_success"),
		"evpn_auditor: Whether a collector succeeded.",
		[]string{"collector"},
		nil,
	)
)

var (
	factories      = make(map[string]func(store *Store) (Collector, error))
	collectorState = make(map[string]*bool)
)

type typedFactoryDesc struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
}

func (d *typedFactoryDesc) mustNewConstMetric(value float64, labels ...string) prometheus.Metric {
	return prometheus.MustNewConstMetric(d.desc, d.valueType, value, labels...)
}

func registerCollector(collector string, factory func(store *Store) (Collector, error)) {
	enabled := true
	collectorState[collector] = &enabled
	factories[collector] = factory
}

// Collector is the interface a collector has to implement.
type Collector interface {
	Update(ch chan<- prometheus.Metric) error
}

// EVPNAuditorCollector implements the prometheus.Collector interface.
type EVPNAuditorCollector struct {
	Collectors map[string]Collector
}

// NewEVPNAuditorCollector creates a new EVPNAuditorCollector over the
// given result store.
func NewEVPNAuditorCollector(store *Store) (*EVPNAuditorCollector, error) {
	collectors := make(map[string]Collector)
	for key, enabled := range collectorState {
		if !*enabled {
			continue
		}
		collector, err := factories[key](store)
		if err != nil {
			return nil, err
		}
		collectors[key] = collector
	}
	return &EVPNAuditorCollector{Collectors: collectors}, nil
}

// Describe implements the prometheus.Collector interface.
func (EVPNAuditorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- scrapeDurationDesc
	ch <- scrapeSuccessDesc
}

// Collect implements the prometheus.Collector interface.
func (n EVPNAuditorCollector) Collect(ch chan<- prometheus.Metric) {
	wg := sync.WaitGroup{}
	wg.Add(len(n.Collectors))
	for name, c := range n.Collectors {
		go func(name string, c Collector) {
			execute(name, c, ch)
			wg.Done()
		}(name, c)
	}
	wg.Wait()
}

func execute(name string, c Collector, ch chan<- prometheus.Metric) {
	begin := time.Now()
	err := c.Update(ch)
	duration := time.Since(begin)
	var success float64

	if err != nil {
		if isNoDataError(err) {
			logrus.Debugf("collector %s returned no data after %s: %s", name, duration, err)
		} else {
			logrus.Errorf("collector %s failed after %s: %s", name, duration, err)
		}
		success = 0
	} else {
		logrus.Debugf("collector %s succeeded after %s", name, duration)
		success = 1
	}
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, duration.Seconds(), name)
	ch <- prometheus.MustNewConstMetric(scrapeSuccessDesc, prometheus.GaugeValue, success, name)
}

// ErrNoData indicates the collector found no data to collect, but had no
// other error.
var ErrNoData = errors.New("collector returned no data")

func isNoDataError(err error) bool {
	return errors.Is(err, ErrNoData)
}
