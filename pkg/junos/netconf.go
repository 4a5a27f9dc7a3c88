/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package junos is a thin NETCONF client for the two Junos RPCs the auditor
// needs: reading the EVPN IP-prefix database and restarting the routing
// process.
package junos

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"nemith.io/netconf"
	ncssh "nemith.io/netconf/transport/ssh"
)

type getEvpnIPPrefixDatabase struct {
	XMLName xml.Name `xml:"get-evpn-ip-prefix-database-information"`
}

type restartRoutingProcess struct {
	XMLName xml.Name `xml:"restart-routing-process"`
}

//nolint:revive
type RPCReply struct {
	netconf.RPCReply
	Body []byte `xml:",innerxml"`
}

type Client struct {
	target    string
	timeout   time.Duration
	sshConfig *ssh.ClientConfig
	session   *netconf.Session
}

func NewClient(host string, port int, user, pwd string, timeout time.Duration) *Client {
	return &Client{
		target:  net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
		sshConfig: &ssh.ClientConfig{
			User: user,
			Auth: []ssh.AuthMethod{
				ssh.Password(pwd),
			},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
			Timeout:         timeout,
		},
	}
}

func (c *Client) Open(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.session != nil {
		c.session.Close(ctx)
		c.session = nil
	}

	transport, err := ncssh.Dial(ctx, "tcp", c.target, c.sshConfig)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.target, err)
	}

	c.session, err = netconf.NewSession(transport)
	if err != nil {
		return fmt.Errorf("failed to open netconf session on %s: %w", c.target, err)
	}

	return nil
}

// Close ends the NETCONF session. Safe to call on a client that never
// opened or already closed.
func (c *Client) Close(ctx context.Context) error {
	if c.session == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.session.Close(ctx)
	c.session = nil
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to close netconf session on %s: %w", c.target, err)
	}

	return nil
}

// send executes one RPC. A session that died since the last call surfaces
// as io.EOF, in which case the session is re-opened once and the RPC
// retried.
func (c *Client) send(ctx context.Context, req, rep any) error {
	if c.session == nil {
		if err := c.Open(ctx); err != nil {
			return fmt.Errorf("failed to open netconf session: %w", err)
		}
	}

	for i := 0; i < 2; i++ {
		subctx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.session.Exec(subctx, req, rep)
		cancel()

		if err == nil {
			return nil
		} else if !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to send netconf message: %w", err)
		}

		if i == 0 {
			if err := c.Open(ctx); err != nil {
				return fmt.Errorf("failed to re-open netconf session: %w", err)
			}
		}
	}

	return fmt.Errorf("all netconf send attempts to %s failed with EOF", c.target)
}

// EvpnIPPrefixDatabase fetches the raw EVPN IP-prefix database payload.
func (c *Client) EvpnIPPrefixDatabase(ctx context.Context) ([]byte, error) {
	var rep RPCReply
	if err := c.send(ctx, &getEvpnIPPrefixDatabase{}, &rep); err != nil {
		return nil, fmt.Errorf("failed to get evpn ip-prefix database from %s: %w", c.target, err)
	}

	return rep.Body, nil
}

// RestartRouting asks rpd on the device to restart. The reply payload is
// not interesting, only whether the device raised an rpc-error.
func (c *Client) RestartRouting(ctx context.Context) error {
	var rep RPCReply
	if err := c.send(ctx, &restartRoutingProcess{}, &rep); err != nil {
		return fmt.Errorf("failed to restart routing on %s: %w", c.target, err)
	}

	return nil
}
