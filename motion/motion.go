// Package motion implements the high-level pointing/guiding API on top
// of a session.Session: goto, axis guide rates, and a generic tracking
// loop. Grounded on nexstarevo.py's goto/set_axis_guide/guide/trackISS.
package motion

import (
	"context"
	"fmt"
	"time"

	"github.com/jochym/nexstar-evo/aux"
	"github.com/jochym/nexstar-evo/session"
)

// Motion drives a single session's ALT/AZM motor controllers.
type Motion struct {
	sess *session.Session

	// WaitPoll is how often Goto(wait=true) re-checks slew-pending
	// state while suspended; the protocol itself only reports slew
	// completion via the poller's MC_SLEW_DONE tick (spec.md §5's
	// ordering note), so this just bounds how promptly Goto notices.
	WaitPoll time.Duration
}

// New returns a Motion layer bound to sess.
func New(sess *session.Session) *Motion {
	return &Motion{sess: sess, WaitPoll: 200 * time.Millisecond}
}

// Goto slews both axes to (alt, azm), fractions of a full turn. fast
// selects MC_GOTO_FAST over MC_GOTO_SLOW. If wait, Goto blocks until
// the poller observes both axes report slew-done.
func (m *Motion) Goto(ctx context.Context, alt, azm float64, fast, wait bool) error {
	mid := aux.MCGotoSlow
	if fast {
		mid = aux.MCGotoFast
	}

	m.sess.BeginSlew(alt, azm)

	if err := m.send(ctx, aux.ALT, mid, aux.PackInt3(alt)); err != nil {
		return err
	}
	if err := m.send(ctx, aux.AZM, mid, aux.PackInt3(azm)); err != nil {
		return err
	}

	if !wait {
		return nil
	}
	return m.waitSlewDone(ctx)
}

func (m *Motion) waitSlewDone(ctx context.Context) error {
	t := time.NewTicker(m.WaitPoll)
	defer t.Stop()
	for {
		st := m.sess.State()
		if !st.SlewAltPending && !st.SlewAzmPending {
			return nil
		}
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SetAxisGuideRate sets the continuous guide rate on one axis, a
// signed fraction of a full turn per second. Positive and negative
// rates use different opcodes (MC_SET_POS_GUIDERATE /
// MC_SET_NEG_GUIDERATE) carrying the absolute value, per
// nexstarevo.py:set_axis_guide. Whether the mount also accepts a
// signed magnitude under a single opcode is unconfirmed; kept as the
// two-opcode form the source actually uses.
func (m *Motion) SetAxisGuideRate(ctx context.Context, axis aux.TargetId, rate float64) error {
	mid := aux.MCSetPosGuiderate
	if rate < 0 {
		mid = aux.MCSetNegGuiderate
	}
	abs := rate
	if abs < 0 {
		abs = -abs
	}
	return m.send(ctx, axis, mid, aux.PackInt3(abs))
}

// Guide issues a continuous rate command on both axes. The mount is
// considered guiding until a zero rate has been set on both axes.
func (m *Motion) Guide(ctx context.Context, altRate, azmRate float64) error {
	m.sess.SetGuiding(altRate != 0 || azmRate != 0)
	if err := m.SetAxisGuideRate(ctx, aux.ALT, altRate); err != nil {
		return err
	}
	return m.SetAxisGuideRate(ctx, aux.AZM, azmRate)
}

func (m *Motion) send(ctx context.Context, dst aux.TargetId, mid aux.CommandId, payload [3]byte) error {
	if err := m.sess.Send(ctx, aux.Message{
		Source:      aux.APP,
		Destination: dst,
		MessageId:   mid,
		Payload:     payload[:],
	}); err != nil {
		return fmt.Errorf("motion: send %#02x to target %#02x: %w", byte(mid), byte(dst), err)
	}
	return nil
}
