package motion

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jochym/nexstar-evo/aux"
	"github.com/jochym/nexstar-evo/session"
)

func newTestMotion(t *testing.T) (*Motion, *session.Session, net.Conn, chan aux.Message) {
	t.Helper()
	client, server := net.Pipe()

	cfg := session.DefaultConfig()
	cfg.PollInterval = time.Hour
	sess := session.New(client, cfg)

	frames := make(chan aux.Message, 32)
	go func() {
		var pending []byte
		buf := make([]byte, 256)
		for {
			n, err := server.Read(buf)
			if err != nil {
				close(frames)
				return
			}
			pending = append(pending, buf[:n]...)
			fs, remainder := aux.SplitStream(pending)
			pending = append([]byte(nil), remainder...)
			for _, f := range fs {
				frames <- f
			}
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go sess.Run(ctx)

	return New(sess), sess, server, frames
}

func TestGoto_EnqueuesBothAxesAndWaitsForSlewDone(t *testing.T) {
	m, sess, server, frames := newTestMotion(t)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.Goto(ctx, 0.1, 0.2, true, true)
	}()

	altGoto := <-frames
	azmGoto := <-frames
	require.Equal(t, aux.ALT, altGoto.Destination)
	require.Equal(t, aux.MCGotoFast, altGoto.MessageId)
	require.Equal(t, []byte{0x19, 0x99, 0x99}, altGoto.Payload)

	require.Equal(t, aux.AZM, azmGoto.Destination)
	require.Equal(t, aux.MCGotoFast, azmGoto.MessageId)
	require.Equal(t, []byte{0x33, 0x33, 0x33}, azmGoto.Payload)

	st := sess.State()
	require.True(t, st.SlewAltPending)
	require.True(t, st.SlewAzmPending)

	altDone := aux.Message{Source: aux.ALT, Destination: aux.APP, MessageId: aux.MCSlewDone, Payload: []byte{0x01}}
	azmDone := aux.Message{Source: aux.AZM, Destination: aux.APP, MessageId: aux.MCSlewDone, Payload: []byte{0x01}}
	server.Write(aux.Encode(altDone))
	server.Write(aux.Encode(azmDone))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(4 * time.Second):
		t.Fatal("Goto(wait=true) did not return after slew-done replies")
	}

	st = sess.State()
	require.False(t, st.SlewAltPending)
	require.False(t, st.SlewAzmPending)
}

func TestSetAxisGuideRate_SelectsOpcodeBySign(t *testing.T) {
	m, _, server, frames := newTestMotion(t)
	defer server.Close()

	ctx := context.Background()
	require.NoError(t, m.SetAxisGuideRate(ctx, aux.ALT, 0.01))
	require.NoError(t, m.SetAxisGuideRate(ctx, aux.ALT, -0.01))

	pos := <-frames
	neg := <-frames
	require.Equal(t, aux.MCSetPosGuiderate, pos.MessageId)
	require.Equal(t, aux.MCSetNegGuiderate, neg.MessageId)
	require.Equal(t, pos.Payload, neg.Payload)
}

func TestGuide_ClearsGuidingOnceBothAxesAreZero(t *testing.T) {
	m, sess, server, frames := newTestMotion(t)
	defer server.Close()

	ctx := context.Background()
	require.NoError(t, m.Guide(ctx, 0.01, 0.02))
	<-frames
	<-frames
	require.True(t, sess.State().Guiding)

	require.NoError(t, m.Guide(ctx, 0, 0))
	<-frames
	<-frames
	require.False(t, sess.State().Guiding)
}

func TestGuide_StaysGuidingIfOnlyOneAxisIsZeroed(t *testing.T) {
	m, sess, server, frames := newTestMotion(t)
	defer server.Close()

	ctx := context.Background()
	require.NoError(t, m.Guide(ctx, 0.01, 0.02))
	<-frames
	<-frames
	require.NoError(t, m.Guide(ctx, 0, 0.02))
	<-frames
	<-frames
	require.True(t, sess.State().Guiding)
}

func TestWrapHalf(t *testing.T) {
	require.InDelta(t, 0.1, wrapHalf(0.1), 1e-9)
	require.InDelta(t, -0.1, wrapHalf(0.9), 1e-9)
	require.InDelta(t, 0.4, wrapHalf(-0.6), 1e-9)
}

type linearProvider struct {
	alt0, azm0, v float64
	t0            time.Time
}

func (p linearProvider) Now() (float64, float64) { return p.alt0, p.azm0 }
func (p linearProvider) At(when time.Time) (float64, float64) {
	dt := when.Sub(p.t0).Seconds()
	return p.alt0 + p.v*dt, p.azm0
}

func TestTrack_ConvergesGuideRateTowardVelocity(t *testing.T) {
	m, _, server, frames := newTestMotion(t)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	provider := linearProvider{alt0: 0.1, azm0: 0.2, v: 0.01, t0: time.Now()}

	go func() {
		m.Track(ctx, provider, 50*time.Millisecond, 3.0)
	}()

	// Drain the two goto frames per axis, then reply slew-done so Track
	// can proceed into its guide loop.
	for i := 0; i < 4; i++ {
		f := <-frames
		if f.MessageId == aux.MCGotoFast || f.MessageId == aux.MCGotoSlow {
			var done aux.Message
			if f.Destination == aux.ALT {
				done = aux.Message{Source: aux.ALT, Destination: aux.APP, MessageId: aux.MCSlewDone, Payload: []byte{0x01}}
			} else {
				done = aux.Message{Source: aux.AZM, Destination: aux.APP, MessageId: aux.MCSlewDone, Payload: []byte{0x01}}
			}
			server.Write(aux.Encode(done))
		}
	}

	var altRateFrame *aux.Message
	for i := 0; i < 8 && altRateFrame == nil; i++ {
		f := <-frames
		if f.Destination == aux.ALT && f.MessageId == aux.MCSetPosGuiderate {
			fc := f
			altRateFrame = &fc
		}
	}
	require.NotNil(t, altRateFrame)
	rate := aux.UnpackInt3([3]byte{altRateFrame.Payload[0], altRateFrame.Payload[1], altRateFrame.Payload[2]})
	require.InDelta(t, 3.0*provider.v, rate, 3.0*provider.v*0.5)
}
