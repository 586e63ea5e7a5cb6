// Package aprs speaks the APRS-IS side of the uplink: one TCP connection,
// one unacknowledged login line, then newline-delimited packet frames.
// Delivery is best-effort; the network tolerates duplicate and garbage
// frames, and nothing is ever read back.
package aprs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/auswx/bomwx/internal/config"
)

// A mid-session reconnect can silently mask an expired or rejected login,
// because APRS-IS never acknowledges anything. Reconnects are therefore
// counted, and more than maxReconnects inside reconnectWindow aborts the run.
const (
	reconnectWindow = time.Minute
	maxReconnects   = 3
)

var (
	// ErrClosed is returned for any operation on a closed session.
	ErrClosed = errors.New("aprs: session closed")

	// ErrReconnectStorm is returned when mid-session reconnects exceed the
	// rate limit; callers must treat it as fatal to the run.
	ErrReconnectStorm = errors.New("aprs: too many reconnects in a short window")
)

// Client owns one best-effort APRS-IS session. It is not safe for concurrent
// use; a run drives it from a single goroutine.
type Client struct {
	addr        string
	loginLine   string
	dialTimeout time.Duration
	logger      *slog.Logger
	clock       clockwork.Clock

	// OnReconnect, when set, is invoked once per mid-session reconnect.
	OnReconnect func()

	conn       net.Conn
	closed     bool
	sentOnce   bool
	reconnects []time.Time
}

// NewClient builds a disconnected client; the connection is opened by
// Connect or lazily by the first Send.
func NewClient(cfg *config.Config, logger *slog.Logger, clock clockwork.Clock) *Client {
	return &Client{
		addr: cfg.Server,
		loginLine: fmt.Sprintf("user %s pass %s vers %s %s\n",
			cfg.Callsign, cfg.Passcode, cfg.SoftwareName, cfg.SoftwareVersion),
		dialTimeout: cfg.DialTimeout,
		logger:      logger,
		clock:       clock,
	}
}

// Connect dials the server and transmits the login line. No reply is read or
// validated; login success is assumed. Connecting an already-connected
// client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	if c.conn != nil {
		return nil
	}

	dialer := net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("dial aprs-is %s: %w", c.addr, err)
	}
	if _, err := conn.Write([]byte(c.loginLine)); err != nil {
		conn.Close()
		return fmt.Errorf("send login: %w", err)
	}

	c.conn = conn
	c.logger.Info("aprs-is session established", "server", c.addr)
	return nil
}

// Send transmits one frame of the form <callsign>>APRS:<payload>. A client
// that is not yet connected connects first. A transport error surfaces to
// the caller and drops the connection; there is no automatic retry.
func (c *Client) Send(ctx context.Context, callsign, payload string) error {
	if c.closed {
		return ErrClosed
	}
	if c.conn == nil {
		if c.sentOnce {
			if err := c.noteReconnect(); err != nil {
				return err
			}
		}
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}

	frame := fmt.Sprintf("%s>APRS:%s\n", callsign, payload)
	if _, err := c.conn.Write([]byte(frame)); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("send frame: %w", err)
	}

	c.sentOnce = true
	return nil
}

// noteReconnect records a reconnect after the first successful send and
// enforces the rate limit.
func (c *Client) noteReconnect() error {
	now := c.clock.Now()
	kept := c.reconnects[:0]
	for _, t := range c.reconnects {
		if now.Sub(t) < reconnectWindow {
			kept = append(kept, t)
		}
	}
	c.reconnects = append(kept, now)

	if len(c.reconnects) > maxReconnects {
		return ErrReconnectStorm
	}

	c.logger.Warn("reconnecting mid-session; an unacknowledged login rejection would be invisible",
		"server", c.addr,
		"reconnects_in_window", len(c.reconnects),
	)
	if c.OnReconnect != nil {
		c.OnReconnect()
	}
	return nil
}

// Close shuts the session down: reads are shut off first, then the socket is
// closed, and any error along the way is swallowed. Closing a session that
// was never connected, or closing twice, is a no-op.
func (c *Client) Close() {
	if c.closed {
		return
	}
	c.closed = true

	if c.conn == nil {
		return
	}
	if tcp, ok := c.conn.(*net.TCPConn); ok {
		_ = tcp.CloseRead()
	}
	_ = c.conn.Close()
	c.conn = nil
}
