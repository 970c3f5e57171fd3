package aux

import "errors"

// Errors surfaced by the codec. Framing and protocol errors never abort
// parsing; the raw, partially-decoded message stays available to callers
// for diagnostics.
var (
	// ErrShortFrame is returned when a frame is shorter than the minimal
	// 4-byte header (length, src, dst, mid).
	ErrShortFrame = errors.New("aux: short frame")

	// ErrChecksum is returned when a frame's checksum byte does not match
	// the computed checksum. The decoded Message is still returned.
	ErrChecksum = errors.New("aux: checksum mismatch")

	// ErrInvalidRate names a rate/angle fraction outside the
	// representable range (-0.5, 0.5]. PackInt3 has no error result and
	// does not check its input, and no function in this module returns
	// ErrInvalidRate.
	ErrInvalidRate = errors.New("aux: rate out of representable range")
)
