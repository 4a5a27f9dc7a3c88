// Package evpn interprets the Junos EVPN IP-prefix database and drives the
// per-device check/remediate cycle.
package evpn

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Status is the advertised-route acceptance state reported by the device.
type Status string

const (
	Accepted Status = "Accepted"
	Rejected Status = "Rejected"
	Pending  Status = "Pending"
	Invalid  Status = "Invalid"
	// Unknown collects every status string the device reports that we do
	// not recognise.
	Unknown Status = "Unknown"
)

// statusOrder fixes the rendering order of counts in reports.
var statusOrder = []Status{Accepted, Rejected, Pending, Invalid, Unknown}

// Counts maps an acceptance status to the number of database entries in it.
type Counts map[Status]int

// NewCounts returns a zeroed count for every known status.
func NewCounts() Counts {
	c := make(Counts, len(statusOrder))
	for _, s := range statusOrder {
		c[s] = 0
	}
	return c
}

// Add merges other into c element-wise.
func (c Counts) Add(other Counts) {
	for status, n := range other {
		c[status] += n
	}
}

// Total is the number of database entries across all statuses.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// NeedsFix reports whether the device advertises rejected routes.
func (c Counts) NeedsFix() bool {
	return c[Rejected] > 0
}

// String renders the non-zero counts in a stable order.
func (c Counts) String() string {
	parts := []string{}
	for _, status := range statusOrder {
		if c[status] > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", status, c[status]))
		}
	}
	if len(parts) == 0 {
		return "no routes found"
	}
	return strings.Join(parts, ", ")
}

// CountStatuses walks the raw database payload and tallies every
// adv-ip-route-status element, wherever it sits in the reply tree. An
// unrecognised status string counts as Unknown and is warned about rather
// than dropped.
func CountStatuses(payload []byte, log *logrus.Entry) (Counts, error) {
	counts := NewCounts()
	prefixes := 0

	dec := xml.NewDecoder(bytes.NewReader(payload))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse evpn database payload: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "adv-ip-route-status":
			var status string
			if err := dec.DecodeElement(&status, &start); err != nil {
				return nil, fmt.Errorf("failed to decode route status: %w", err)
			}
			status = strings.TrimSpace(status)
			if status == "" {
				status = string(Unknown)
			}
			switch s := Status(status); s {
			case Accepted, Rejected, Pending, Invalid:
				counts[s]++
			default:
				counts[Unknown]++
				log.Warnf("unknown route status found: %s", status)
			}
		case "entry-prefix":
			var prefix string
			if err := dec.DecodeElement(&prefix, &start); err != nil {
				return nil, fmt.Errorf("failed to decode entry prefix: %w", err)
			}
			prefixes++
		}
	}

	log.Debugf("found %d route status entries over %d prefixes", counts.Total(), prefixes)

	return counts, nil
}

// Client is the device session surface the checker needs. Implemented by
// junos.Client, mocked in tests.
type Client interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	EvpnIPPrefixDatabase(ctx context.Context) ([]byte, error)
	RestartRouting(ctx context.Context) error
}

// Checker runs the EVPN status check against a single device.
type Checker struct {
	client Client
	log    *logrus.Entry
}

func NewChecker(client Client, log *logrus.Entry) *Checker {
	return &Checker{
		client: client,
		log:    log,
	}
}

// Status fetches and tallies the EVPN IP-prefix database.
func (c *Checker) Status(ctx context.Context) (Counts, error) {
	payload, err := c.client.EvpnIPPrefixDatabase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evpn status: %w", err)
	}

	counts, err := CountStatuses(payload, c.log)
	if err != nil {
		return nil, err
	}
	c.log.Infof("evpn route status: %s", counts)

	return counts, nil
}

// RestartRouting restarts the routing process on the device.
func (c *Checker) RestartRouting(ctx context.Context) error {
	c.log.Warn("restarting routing process")
	if err := c.client.RestartRouting(ctx); err != nil {
		return err
	}
	c.log.Info("routing restart initiated")

	return nil
}
