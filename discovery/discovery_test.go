package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDetect_AcceptsOnlyMatchingBeacon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenPort = 0 // filled in after listener opens below
	cfg.Timeout = 2 * time.Second

	// Bind the listener ourselves first so we know which port to target
	// from the fake beacon sender; Detect re-binds the same port.
	probe, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	port := probe.LocalAddr().(*net.UDPAddr).Port
	probe.Close()
	cfg.ListenPort = port

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	resultCh := make(chan BridgeTarget, 1)
	errCh := make(chan error, 1)
	go func() {
		bt, err := Detect(ctx, cfg)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- bt
	}()

	time.Sleep(50 * time.Millisecond) // let Detect's listener bind

	sender, err := net.DialUDP("udp", &net.UDPAddr{Port: cfg.BeaconPort}, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: port})
	require.NoError(t, err)
	defer sender.Close()

	// Wrong length: ignored.
	_, err = sender.Write(make([]byte, 42))
	require.NoError(t, err)

	// Matching signature.
	_, err = sender.Write(make([]byte, cfg.BeaconPayloadLen))
	require.NoError(t, err)

	select {
	case bt := <-resultCh:
		require.Equal(t, "127.0.0.1", bt.Host)
		require.Equal(t, cfg.BeaconPort, bt.Port)
	case err := <-errCh:
		t.Fatalf("Detect returned error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("Detect did not return")
	}
}

func TestDetect_TimesOutWithoutBeacon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ListenPort = 0
	cfg.Timeout = 100 * time.Millisecond

	probe, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	port := probe.LocalAddr().(*net.UDPAddr).Port
	probe.Close()
	cfg.ListenPort = port

	_, err = Detect(context.Background(), cfg)
	require.ErrorIs(t, err, ErrNoBeacon)
}
