package motion

import (
	"context"
	"math"
	"time"
)

// TargetProvider supplies the position being tracked, as fractions of
// a full turn. Implementations may wrap any ephemeris source (TLE
// propagation, a star catalog, a fixed point); this package treats it
// as an opaque external collaborator, per spec.
type TargetProvider interface {
	Now() (alt, azm float64)
	At(when time.Time) (alt, azm float64)
}

// wrapHalf maps x into (-0.5, 0.5], the minimal-arc angular delta
// representation used by Track.
func wrapHalf(x float64) float64 {
	x = math.Mod(x, 1)
	if x > 0.5 {
		x -= 1
	}
	if x <= -0.5 {
		x += 1
	}
	return x
}

// Track slews near the provider's current position, fine-approaches,
// then repeatedly recomputes the expected position one period ahead
// and issues a differential guide rate to converge on it. It returns
// when ctx is canceled or the session disconnects.
func (m *Motion) Track(ctx context.Context, provider TargetProvider, period time.Duration, gain float64) error {
	alt, azm := provider.Now()
	if err := m.Goto(ctx, alt, azm, true, true); err != nil {
		return err
	}
	if err := m.Goto(ctx, alt, azm, false, true); err != nil {
		return err
	}

	t := time.NewTicker(period)
	defer t.Stop()

	dt := period.Seconds()
	for {
		st := m.sess.State()
		if !st.Connected {
			return nil
		}

		nextAlt, nextAzm := provider.At(time.Now().Add(period))

		altRate := clampRate(gain * wrapHalf(nextAlt-st.AltFraction) / dt)
		azmRate := clampRate(gain * wrapHalf(nextAzm-st.AzmFraction) / dt)

		if err := m.Guide(ctx, altRate, azmRate); err != nil {
			return err
		}

		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// clampRate bounds a guide rate to the protocol's representable range
// of a signed fraction of a turn per second, ±0.5.
func clampRate(rate float64) float64 {
	if rate > 0.5 {
		return 0.5
	}
	if rate < -0.5 {
		return -0.5
	}
	return rate
}
