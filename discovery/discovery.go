// Package discovery implements the mount's UDP beacon listener: the
// in-repo reference implementation of the "external collaborator"
// spec.md describes, grounded verbatim on nexstarevo.py:detect_scope.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jochym/nexstar-evo/logging"
)

// ErrNoBeacon is returned when no qualifying beacon arrived before the
// configured timeout elapsed (or the listener failed). If ctx is done
// first, Detect returns ctx.Err() instead.
var ErrNoBeacon = errors.New("discovery: no beacon received")

// Config controls the beacon listener. The zero value does not fill in
// the reference constants (listen port 55555, beacon source port 2000,
// 110-byte payload); start from DefaultConfig for those.
type Config struct {
	ListenPort       int
	BeaconPort       int
	BeaconPayloadLen int
	Timeout          time.Duration
	Logger           logging.Logger
}

// DefaultConfig returns the constants observed on the wire by the
// reference client.
func DefaultConfig() Config {
	return Config{
		ListenPort:       55555,
		BeaconPort:       2000,
		BeaconPayloadLen: 110,
		Timeout:          30 * time.Second,
		Logger:           logging.NewNop(),
	}
}

// BridgeTarget is the (host, port) tuple discovery hands to
// transport.Dial: the mount's IP address and its fixed AUX TCP port.
type BridgeTarget struct {
	Host string
	Port int
}

// Detect listens on UDP cfg.ListenPort (bound 0.0.0.0) for the mount's
// signature datagram: a packet sourced from port cfg.BeaconPort whose
// payload is exactly cfg.BeaconPayloadLen bytes. The first qualifying
// datagram's source address is returned as a BridgeTarget whose Port is
// cfg.BeaconPort (2000 by default, which is also the mount's AUX TCP
// port).
func Detect(ctx context.Context, cfg Config) (BridgeTarget, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	pc, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: cfg.ListenPort})
	if err != nil {
		return BridgeTarget{}, fmt.Errorf("discovery: listen udp :%d: %w", cfg.ListenPort, err)
	}
	defer pc.Close()

	deadline := time.Now().Add(cfg.Timeout)
	if cfg.Timeout <= 0 {
		deadline = time.Time{}
	}

	go func() {
		<-ctx.Done()
		pc.Close()
	}()

	logger.Infow("listening for scope beacon", "port", cfg.ListenPort)

	buf := make([]byte, 2048)
	for {
		if !deadline.IsZero() {
			if err := pc.SetReadDeadline(deadline); err != nil {
				return BridgeTarget{}, fmt.Errorf("discovery: set deadline: %w", err)
			}
		}

		n, addr, err := pc.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return BridgeTarget{}, ctx.Err()
			}
			return BridgeTarget{}, fmt.Errorf("%w: %v", ErrNoBeacon, err)
		}

		if addr.Port == cfg.BeaconPort && n == cfg.BeaconPayloadLen {
			logger.Infow("scope beacon received", "addr", addr.IP.String())
			return BridgeTarget{Host: addr.IP.String(), Port: cfg.BeaconPort}, nil
		}
	}
}
