package session

// MountState is the materialized view of the mount, mutated by the
// session reader and by package motion, read by both plus any status
// printer. The session owns one instance behind a single mutex (see
// Session.mu) — the thread-based translation of the source's
// single-event-loop, lock-free state spec.md §9 calls for.
type MountState struct {
	AltFraction float64
	AzmFraction float64

	SlewAltPending bool
	SlewAzmPending bool

	Guiding bool

	TargetAlt float64
	TargetAzm float64

	BatteryVoltage float64

	Connected bool
}

// MountStatus is a read-only snapshot of MountState plus the derived
// fields a status line wants (degrees/minutes/seconds), the Go
// analogue of nexstarevo.py's show_status coroutine, minus the direct
// stdout coupling: the library hands back data, callers print it.
type MountStatus struct {
	MountState

	AltDeg, AltMin int
	AltSec         float64

	AzmDeg, AzmMin int
	AzmSec         float64
}
