package scope

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeBridge accepts one TCP connection, consumes the transparent-mode
// handshake bytes, and then just sits there — enough for Open to
// complete without a full AUX peer on the other end.
func fakeBridge(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		c, err := ln.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, len("$$$exit\r\n"))
		n := 0
		for n < len(buf) {
			k, err := c.Read(buf[n:])
			if err != nil {
				return
			}
			n += k
		}
		for {
			if _, err := c.Read(buf); err != nil {
				return
			}
		}
	}()
	return ln.Addr().String()
}

func TestOpen_DialsHandshakesAndStartsSession(t *testing.T) {
	addr := fakeBridge(t)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port := 0
	for _, c := range portStr {
		port = port*10 + int(c-'0')
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sc, err := Open(ctx,
		WithHost(host),
		WithPort(port),
		WithHandshakeDelay(time.Millisecond),
		WithPollInterval(time.Hour),
	)
	require.NoError(t, err)
	require.NotNil(t, sc.Session)
	require.NotNil(t, sc.Motion)
	require.True(t, sc.Session.State().Connected)

	require.NoError(t, sc.Close())
	require.False(t, sc.Session.State().Connected)
}

func TestOpen_PropagatesDialError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Open(ctx, WithHost("127.0.0.1"), WithPort(1), WithHandshakeDelay(time.Millisecond))
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "scope:"))
}
