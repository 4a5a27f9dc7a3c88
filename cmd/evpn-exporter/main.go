package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/config"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/fleet"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/healthcheck"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/inventory"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/logging"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/monitoring"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/version"
)

const (
	twenty = 20
)

func main() {
	version.Get().Print(os.Args[0])
	var addr string
	var hostsFile string
	var rulesFile string
	var interval time.Duration
	flag.StringVar(&addr, "listen-address", ":7083", "The address to listen on for HTTP requests.")
	flag.StringVar(&hostsFile, "hosts-file", "data/hosts.yaml", "YAML file containing the device inventory.")
	flag.StringVar(&rulesFile, "rules-file", "data/rules.yaml", "YAML file with audit rules.")
	flag.DurationVar(&interval, "interval", 5*time.Minute, "Fleet poll interval.")
	flag.Parse()

	rules, err := config.LoadRules(rulesFile)
	if err != nil {
		log.Fatal(fmt.Errorf("rules load error: %w", err))
	}
	if err := logging.Setup(&rules.Logging, ""); err != nil {
		log.Fatal(fmt.Errorf("logging setup error: %w", err))
	}

	devices, err := inventory.Load(hostsFile)
	if err != nil {
		log.Fatal(fmt.Errorf("inventory load error: %w", err))
	}
	if len(devices) == 0 {
		log.Fatal(fmt.Errorf("no devices loaded from %s", hostsFile))
	}

	store := monitoring.NewStore()

	reg, err := setupPrometheusRegistry(store)
	if err != nil {
		log.Fatal(fmt.Errorf("prometheus registry setup error: %w", err))
	}

	logrus.Info("configured Prometheus registry")

	go pollLoop(store, devices, rules, interval)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		reg,
		promhttp.HandlerOpts{
			// Opt into OpenMetrics to support exemplars.
			EnableOpenMetrics: true,
			Timeout:           time.Minute,
		},
	))

	server := http.Server{
		Addr:              addr,
		ReadHeaderTimeout: twenty * time.Second,
		ReadTimeout:       time.Minute,
		Handler:           mux,
	}

	logrus.Infof("created server, starting on %s", server.Addr)

	err = server.ListenAndServe()
	if err != nil {
		log.Fatal(fmt.Errorf("failed to start server: %w", err))
	}
}

func setupPrometheusRegistry(store *monitoring.Store) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	// Add Go module build info.
	reg.MustRegister(collectors.NewBuildInfoCollector())
	reg.MustRegister(collectors.NewGoCollector())

	collector, err := monitoring.NewEVPNAuditorCollector(store)
	if err != nil {
		return nil, fmt.Errorf("failed to create collector %w", err)
	}
	reg.MustRegister(collector)

	return reg, nil
}

// pollLoop runs the fleet check on the interval and publishes each batch
// to the store. The exporter never remediates.
func pollLoop(store *monitoring.Store, devices []inventory.Device, rules *config.Rules, interval time.Duration) {
	var prober *healthcheck.Prober
	if rules.Reachability.Enabled {
		prober = healthcheck.NewProber(
			healthcheck.NewTCPDialer(rules.Reachability.Timeout),
			rules.Reachability.ProbeRetries(),
		)
	}
	toolkit := fleet.NewDefaultToolkit(prober)

	for {
		start := time.Now()
		runner := fleet.NewRunner(devices, rules, toolkit, 0, false)
		results := runner.Run(context.Background())
		store.Update(results)
		logrus.Infof("fleet poll of %d devices finished in %s", len(devices), time.Since(start).Round(time.Millisecond))

		if sleep := interval - time.Since(start); sleep > 0 {
			time.Sleep(sleep)
		}
	}
}
