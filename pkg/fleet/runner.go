// Package fleet dispatches the EVPN status check across the device
// inventory with bounded concurrency. One device failing never aborts the
// batch, every device ends up with a Result.
package fleet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/telekom/das-schiff-evpn-auditor/pkg/config"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/evpn"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/healthcheck"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/inventory"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/junos"
	"github.com/telekom/das-schiff-evpn-auditor/pkg/logging"
	"golang.org/x/sync/semaphore"
)

// Toolkit is a helper structure that holds the injectable pieces of a run.
type Toolkit struct {
	NewClient func(d *inventory.Device, timeout time.Duration) evpn.Client
	Prober    *healthcheck.Prober
}

// NewDefaultToolkit returns a Toolkit backed by the junos NETCONF client.
// A nil prober disables the reachability pre-check.
func NewDefaultToolkit(prober *healthcheck.Prober) *Toolkit {
	return &Toolkit{
		NewClient: func(d *inventory.Device, timeout time.Duration) evpn.Client {
			return junos.NewClient(d.Host, d.Port, d.Username, d.Password, timeout)
		},
		Prober: prober,
	}
}

// Result is the outcome of one device's check.
type Result struct {
	Host         string
	Name         string
	Connected    bool
	Counts       evpn.Counts
	Err          error
	FixAttempted bool
	FixSucceeded bool
	Duration     time.Duration
}

// DisplayName mirrors inventory.Device.DisplayName for reporting.
func (r *Result) DisplayName() string {
	return r.Name + ":" + r.Host
}

// Runner executes one batch over the fleet.
type Runner struct {
	devices       []inventory.Device
	rules         *config.Rules
	toolkit       *Toolkit
	maxConcurrent int64
	fix           bool
	locks         sync.Map
}

// NewRunner creates a Runner. maxConcurrent <= 0 falls back to the rules
// value.
func NewRunner(devices []inventory.Device, rules *config.Rules, toolkit *Toolkit, maxConcurrent int, fix bool) *Runner {
	if maxConcurrent <= 0 {
		maxConcurrent = rules.MaxConcurrent()
	}
	return &Runner{
		devices:       devices,
		rules:         rules,
		toolkit:       toolkit,
		maxConcurrent: int64(maxConcurrent),
		fix:           fix,
	}
}

// Run processes every device, at most maxConcurrent at a time, and returns
// one Result per device in inventory order.
func (r *Runner) Run(ctx context.Context) []Result {
	sem := semaphore.NewWeighted(r.maxConcurrent)
	results := make([]Result, len(r.devices))

	wg := sync.WaitGroup{}
	for i := range r.devices {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			device := &r.devices[i]
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = Result{
					Host: device.Host,
					Name: device.Name,
					Err:  fmt.Errorf("run aborted: %w", err),
				}
				return
			}
			defer sem.Release(1)
			results[i] = r.processDevice(ctx, device)
		}(i)
	}
	wg.Wait()

	return results
}

func (r *Runner) processDevice(ctx context.Context, device *inventory.Device) (result Result) {
	log := logging.ForDevice(device.Name, device.Host)
	result = Result{
		Host: device.Host,
		Name: device.Name,
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	if _, loaded := r.locks.LoadOrStore(device.Host, struct{}{}); loaded {
		result.Err = fmt.Errorf("target %s still locked, refusing to start more runs", device.Host)
		log.Error(result.Err)
		return result
	}
	defer r.locks.Delete(device.Host)

	if r.toolkit.Prober != nil {
		if err := r.toolkit.Prober.Probe(device.Host, device.Port); err != nil {
			result.Err = fmt.Errorf("device unreachable: %w", err)
			log.Errorf("reachability probe failed: %s", err)
			return result
		}
	}

	client := r.toolkit.NewClient(device, r.rules.ConnectionTimeout(device.Timeout))
	if err := client.Open(ctx); err != nil {
		result.Err = fmt.Errorf("connection failed: %w", err)
		log.Errorf("connection failed: %s", err)
		return result
	}
	result.Connected = true
	log.Info("connected")
	defer func() {
		if err := client.Close(ctx); err != nil {
			log.Warnf("error closing session: %s", err)
		} else {
			log.Info("disconnected")
		}
	}()

	checker := evpn.NewChecker(client, log)
	counts, err := checker.Status(ctx)
	if err != nil {
		result.Err = err
		log.Errorf("status check failed: %s", err)
		return result
	}
	result.Counts = counts

	if r.fix && counts.NeedsFix() {
		log.Infof("found %d rejected routes", counts[evpn.Rejected])
		result.FixAttempted = true
		if err := checker.RestartRouting(ctx); err != nil {
			log.Errorf("failed to restart routing: %s", err)
		} else {
			result.FixSucceeded = true
		}
	}

	return result
}
