package session

import (
	"encoding/binary"

	"github.com/jochym/nexstar-evo/aux"
)

// dispatchKey is the (target_of_interest, message_id) pair the reader
// uses to route a parsed frame to a handler.
type dispatchKey struct {
	target aux.TargetId
	mid    aux.CommandId
}

type handlerFunc func(s *Session, payload []byte, src, dst aux.TargetId)

// targetOfInterest implements nexstarevo.py's `trg = s if d in ctrlid
// else d`: a reply's frame carries the answering peripheral as its
// source and the originating controller (APP, HC, HC+) as its
// destination, so the interesting target for dispatch purposes is the
// source whenever the destination names a controller; any frame
// addressed elsewhere is itself the interesting target (used by
// nothing in the default catalog, kept for completeness and for the
// raw-frame hook's benefit).
func targetOfInterest(m aux.Message) aux.TargetId {
	if aux.IsControlTarget(m.Destination) {
		return m.Source
	}
	return m.Destination
}

func (s *Session) buildHandlers() map[dispatchKey]handlerFunc {
	h := map[dispatchKey]handlerFunc{
		{aux.ALT, aux.MCGetPosition}: handleGetPosition,
		{aux.AZM, aux.MCGetPosition}: handleGetPosition,
		{aux.ALT, aux.MCSlewDone}:    handleSlewDone,
		{aux.AZM, aux.MCSlewDone}:    handleSlewDone,
		{aux.BAT, aux.GetVoltage}:    handleGetVoltage,
	}
	return h
}

func handleGetPosition(s *Session, payload []byte, src, dst aux.TargetId) {
	if len(payload) < 3 {
		return
	}
	frac := aux.UnpackInt3([3]byte{payload[0], payload[1], payload[2]})
	s.mu.Lock()
	switch src {
	case aux.ALT:
		s.state.AltFraction = frac
	case aux.AZM:
		s.state.AzmFraction = frac
	}
	s.mu.Unlock()
}

// handleSlewDone treats payload 0x00 as "still slewing", any other
// value as "done", matching nexstarevo.py's slew_done. This polarity
// is unverified against physical hardware; some upstream AUX
// references define 0x00 as done instead. Flagged, not guessed.
func handleSlewDone(s *Session, payload []byte, src, dst aux.TargetId) {
	if len(payload) < 1 {
		return
	}
	pending := payload[0] == 0x00
	s.mu.Lock()
	switch src {
	case aux.ALT:
		s.state.SlewAltPending = pending
	case aux.AZM:
		s.state.SlewAzmPending = pending
	}
	s.mu.Unlock()
}

func handleGetVoltage(s *Session, payload []byte, src, dst aux.TargetId) {
	if len(payload) < 6 {
		return
	}
	microvolts := int32(binary.BigEndian.Uint32(payload[2:6]))
	s.mu.Lock()
	s.state.BatteryVoltage = float64(microvolts) / 1e6
	s.mu.Unlock()
}

// dispatch routes one parsed frame: it is always offered to the
// raw-frame hook first (resolving spec's Open Question 4 additively,
// without changing default behavior), then, if the frame is not
// addressed to us, it is dropped as a command echo — exactly
// nexstarevo.py's handle_msg `if d != self.me: ignore`.
func (s *Session) dispatch(m aux.Message) {
	if hook := s.rawFrameHook(); hook != nil {
		hook(m)
	}

	if m.Destination != aux.APP {
		return
	}

	trg := targetOfInterest(m)
	key := dispatchKey{target: trg, mid: m.MessageId}

	s.lastReply.Set(lastReplyKey(trg, m.MessageId), m, 0)

	if h, ok := s.handlers[key]; ok {
		h(s, m.Payload, m.Source, m.Destination)
		return
	}
	s.logger.Debugw("no handler for frame", "frame", m.String())
}
