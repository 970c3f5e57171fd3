// Package scope ties transport, session, and motion together behind a
// single functional-options constructor, the way a robotics component
// constructor wires its transport/client/state layers from one Config.
package scope

import (
	"context"
	"fmt"
	"time"

	"github.com/jochym/nexstar-evo/discovery"
	"github.com/jochym/nexstar-evo/logging"
	"github.com/jochym/nexstar-evo/motion"
	"github.com/jochym/nexstar-evo/session"
	"github.com/jochym/nexstar-evo/transport"
)

// Config collects everything needed to open a scope connection. Build
// one with the With* options rather than populating it directly; the
// zero value is not usable.
type Config struct {
	Host string
	Port int

	PollInterval   time.Duration
	WriterThrottle time.Duration
	HandshakeDelay time.Duration

	Logger logging.Logger
}

// Option mutates a Config. Apply with Open.
type Option func(*Config)

// WithHost sets the bridge host. Leaving it unset (the default) makes
// Open auto-discover the bridge via its UDP beacon.
func WithHost(host string) Option {
	return func(c *Config) { c.Host = host }
}

// WithPort sets the bridge TCP port.
func WithPort(port int) Option {
	return func(c *Config) { c.Port = port }
}

// WithPollInterval overrides how often the session polls axis
// position and slew-done status.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) { c.PollInterval = d }
}

// WithWriterThrottle overrides the pause between outbound frame
// writes.
func WithWriterThrottle(d time.Duration) Option {
	return func(c *Config) { c.WriterThrottle = d }
}

// WithHandshakeDelay overrides the pause around the bridge's
// command-mode escape sequence.
func WithHandshakeDelay(d time.Duration) Option {
	return func(c *Config) { c.HandshakeDelay = d }
}

// WithLogger overrides the logger used by every layer.
func WithLogger(l logging.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func defaultConfig() Config {
	return Config{
		Port:           2000,
		PollInterval:   time.Second,
		WriterThrottle: 50 * time.Millisecond,
		HandshakeDelay: time.Second,
		Logger:         logging.NewNop(),
	}
}

// Scope is a live, running connection to a mount: its session and the
// motion layer built on top of it.
type Scope struct {
	Session *session.Session
	Motion  *motion.Motion

	conn   *transport.Conn
	runErr chan error
}

// Open auto-discovers (if no host was given), dials, handshakes, and
// starts a session's background goroutines, returning once the
// session is open and ready to accept commands. It does not run the
// mount's init sequence; callers that need it call
// Scope.Motion.RunInitSequence explicitly, since not every caller
// (e.g. a second client watching an already-initialized mount) wants
// to replay it.
func Open(ctx context.Context, opts ...Option) (*Scope, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Host == "" {
		dcfg := discovery.DefaultConfig()
		dcfg.Logger = cfg.Logger
		bt, err := discovery.Detect(ctx, dcfg)
		if err != nil {
			return nil, fmt.Errorf("scope: discover bridge: %w", err)
		}
		cfg.Host, cfg.Port = bt.Host, bt.Port
	}

	tcfg := transport.DefaultConfig(cfg.Host, cfg.Port)
	tcfg.HandshakeDelay = cfg.HandshakeDelay
	tcfg.Logger = cfg.Logger
	conn, err := transport.Dial(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("scope: connect: %w", err)
	}

	scfg := session.DefaultConfig()
	scfg.PollInterval = cfg.PollInterval
	scfg.WriterThrottle = cfg.WriterThrottle
	scfg.Logger = cfg.Logger
	sess := session.New(conn, scfg)

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	return &Scope{
		Session: sess,
		Motion:  motion.New(sess),
		conn:    conn,
		runErr:  runErr,
	}, nil
}

// Close shuts the session down and waits for its background
// goroutines to exit, returning whatever error Session.Run surfaced.
func (s *Scope) Close() error {
	s.Session.Close()
	return <-s.runErr
}
