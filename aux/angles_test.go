package aux

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Negative fractions are not wire-round-trippable at this layer by
// design — the 24-bit field is unsigned, so PackInt3 of a negative
// fraction and of (fraction+1) produce identical bytes, and UnpackInt3
// always returns a value in [0,1). Package motion does not map those
// values back to signed fractions either.
func TestPackUnpackInt3_RoundTripsNonNegativeFractions(t *testing.T) {
	for _, k := range []int64{0, 1, 2, 1000, 1 << 20, 1<<24 - 1} {
		f := float64(k) / turnScale
		got := UnpackInt3(PackInt3(f))
		require.InDelta(t, f, got, 1e-12)
	}
}

func TestPackInt3_ZeroPacksToAllZeroBytes(t *testing.T) {
	require.Equal(t, [3]byte{0, 0, 0}, PackInt3(0))
}

func TestUnpackInt3_KnownPayload(t *testing.T) {
	got := UnpackInt3([3]byte{0x12, 0x34, 0x56})
	require.InDelta(t, 0.071111, got, 1e-6)
}

func TestPackUnpackInt2_RoundTrips(t *testing.T) {
	for _, v := range []uint16{0, 1, 255, 256, 0xffff, 0x1234} {
		require.Equal(t, v, UnpackInt2(PackInt2(v)))
	}
}

func TestFToDMS_KnownValues(t *testing.T) {
	deg, min, sec := FToDMS(0.5)
	require.Equal(t, 180, deg)
	require.Equal(t, 0, min)
	require.InDelta(t, 0.0, sec, 1e-6)

	deg, min, sec = FToDMS(0.25)
	require.Equal(t, 90, deg)
	require.Equal(t, 0, min)
	require.InDelta(t, 0.0, sec, 1e-6)
}

func TestDMSToF_InverseOfFToDMS(t *testing.T) {
	for _, f := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.999} {
		deg, min, sec := FToDMS(f)
		got := DMSToF(deg, min, sec)
		require.InDelta(t, f, got, 1e-9)
	}
}
