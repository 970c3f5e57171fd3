// Package transport owns the raw TCP connection to the mount's AUX
// bridge: dialing, the transparent-bridge handshake, and half-duplex
// byte shuttling. It knows nothing about AUX framing; package session
// builds on top of it.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jochym/nexstar-evo/logging"
)

// ErrClosed is returned by Read/Write once the connection has been
// closed by the caller. A close by the peer surfaces as the underlying
// error instead (io.EOF on Read).
var ErrClosed = errors.New("transport: connection closed")

// Config controls dial and handshake behavior. The zero value is not
// usable; use DefaultConfig as a base.
type Config struct {
	Host string
	Port int

	// HandshakeDelay is the pause observed before and after each
	// handshake write, matching the reference client's asyncio.sleep(1)
	// calls around the bridge escape sequence.
	HandshakeDelay time.Duration

	// DialTimeout bounds the TCP connect itself, independent of ctx.
	DialTimeout time.Duration

	Logger logging.Logger
}

// DefaultConfig returns a Config with the reference timings filled in.
func DefaultConfig(host string, port int) Config {
	return Config{
		Host:           host,
		Port:           port,
		HandshakeDelay: time.Second,
		DialTimeout:    10 * time.Second,
		Logger:         logging.NewNop(),
	}
}

// Conn is an established, handshaken bridge session. It is safe for
// one concurrent reader and one concurrent writer (the usual Go net.Conn
// contract), but not for concurrent writers among themselves.
type Conn struct {
	nc     net.Conn
	r      *bufio.Reader
	logger logging.Logger
}

// Dial opens a TCP connection to the mount's SkyFi/WiFi bridge and
// performs the transparent-mode handshake: the bridge's command-mode
// escape sequence "$$$" followed by "exit\r\n", each separated by
// cfg.HandshakeDelay, so that whatever AT-style command shell the
// bridge boots into drops back to raw passthrough before any AUX bytes
// are sent. Grounded on nexstarevo.py's open_connection/handle_write.
func Dial(ctx context.Context, cfg Config) (*Conn, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	logger.Infow("dialing scope bridge", "addr", addr)
	nc, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}

	c := &Conn{nc: nc, r: bufio.NewReaderSize(nc, 4096), logger: logger}
	if err := c.handshake(ctx, cfg.HandshakeDelay); err != nil {
		nc.Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) handshake(ctx context.Context, delay time.Duration) error {
	steps := []string{"$$$", "exit\r\n"}
	for _, step := range steps {
		if err := sleepCtx(ctx, delay); err != nil {
			return err
		}
		if _, err := c.nc.Write([]byte(step)); err != nil {
			return fmt.Errorf("transport: handshake write %q: %w", step, err)
		}
	}
	return sleepCtx(ctx, delay)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Write sends raw bytes (an already-encoded AUX frame) to the bridge.
func (c *Conn) Write(b []byte) (int, error) {
	n, err := c.nc.Write(b)
	if err != nil {
		return n, fmt.Errorf("transport: write: %w", wrapClosed(err))
	}
	return n, nil
}

// Read fills b with whatever is currently available, blocking until at
// least one byte has arrived or the connection is closed. It mirrors
// the reference client's rd.read(1024): an opportunistic chunk read,
// not a fixed-size frame read, since frame boundaries are package
// session's problem.
func (c *Conn) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	if err != nil {
		return n, fmt.Errorf("transport: read: %w", wrapClosed(err))
	}
	return n, nil
}

// wrapClosed maps net.ErrClosed ("use of closed network connection")
// to ErrClosed, so callers can use errors.Is(err, transport.ErrClosed);
// every other error is passed through unchanged.
func wrapClosed(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return ErrClosed
	}
	return err
}

// Close closes the underlying connection. Safe to call more than once.
func (c *Conn) Close() error {
	return c.nc.Close()
}

// RemoteAddr reports the bridge's address, for logging.
func (c *Conn) RemoteAddr() net.Addr {
	return c.nc.RemoteAddr()
}
