// Package healthcheck is used for basic reachability probing of fleet
// devices before a NETCONF session is attempted.
package healthcheck

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTCPTimeout = 3
	defaultRetries    = 3
)

// TCPDialerInterface is an interface to mock tcp dialer.
type TCPDialerInterface interface {
	Dial(network, address string) (net.Conn, error)
}

// Prober checks that a device answers on its NETCONF port.
type Prober struct {
	dialer  TCPDialerInterface
	retries int
}

// NewProber creates a new Prober.
func NewProber(dialer TCPDialerInterface, retries int) *Prober {
	if retries <= 0 {
		retries = defaultRetries
	}
	return &Prober{
		dialer:  dialer,
		retries: retries,
	}
}

// Probe dials host:port with bounded retries. A refused connection counts
// as reachable: the host is up, the NETCONF attempt will report the real
// error.
func (p *Prober) Probe(host string, port int) error {
	target := net.JoinHostPort(host, strconv.Itoa(port))

	var err error
	for i := 0; i < p.retries; i++ {
		err = p.probe(target)
		if err == nil {
			return nil
		}
		if strings.Contains(err.Error(), "refused") {
			return nil
		}
	}

	return err
}

func (p *Prober) probe(target string) error {
	conn, err := p.dialer.Dial("tcp", target)
	if err != nil {
		return fmt.Errorf("error trying to connect to %s: %w", target, err)
	}
	if conn != nil {
		if err = conn.Close(); err != nil {
			return fmt.Errorf("error closing connection: %w", err)
		}
	}
	return nil
}

// NewTCPDialer returns new TCPDialerInterface.
func NewTCPDialer(dialerTimeout string) TCPDialerInterface {
	timeout, err := time.ParseDuration(dialerTimeout)
	if err != nil {
		seconds, err := strconv.Atoi(dialerTimeout)
		if err != nil {
			logrus.Infof("unable to parse TCP dialer timeout %q, will use default %ds", dialerTimeout, defaultTCPTimeout)
			timeout = time.Second * defaultTCPTimeout
		} else {
			timeout = time.Second * time.Duration(seconds)
		}
	}
	return &net.Dialer{Timeout: timeout}
}
