package aux

import "fmt"

// Preamble is the single byte that precedes every frame on the wire.
const Preamble byte = 0x3b

// Message is the unit of protocol exchange: one AUX frame once it has
// been parsed (or is about to be encoded). It owns its Payload slice.
type Message struct {
	Source      TargetId
	Destination TargetId
	MessageId   CommandId
	Payload     []byte
}

// Length returns the wire "length" field: 3 (src, dst, mid) plus the
// payload length.
func (m Message) Length() int {
	return 3 + len(m.Payload)
}

// Checksum computes the AUX checksum over a header+payload buffer (no
// preamble, no trailing checksum byte): the two's-complement negation
// of the unsigned byte sum, truncated to one byte.
func Checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return byte(-int8(sum))
}

// Encode serializes m onto the wire: preamble, length, src, dst, mid,
// payload, checksum.
func Encode(m Message) []byte {
	body := make([]byte, 0, 4+len(m.Payload))
	body = append(body, byte(m.Length()), byte(m.Source), byte(m.Destination), byte(m.MessageId))
	body = append(body, m.Payload...)

	out := make([]byte, 0, 2+len(body))
	out = append(out, Preamble)
	out = append(out, body...)
	out = append(out, Checksum(body))
	return out
}

// ParseFrame parses the content strictly between two preamble bytes
// (exclusive of the leading 0x3b, terminated by the checksum byte). It
// reads exactly length+2 bytes (length byte, src, dst, mid, payload,
// checksum).
//
// On a checksum mismatch, the decoded Message is returned together with
// ErrChecksum so callers can still inspect the recovered fields. On a
// frame shorter than the 4-byte minimal header, only ErrShortFrame is
// returned.
func ParseFrame(b []byte) (Message, error) {
	if len(b) < 4 {
		return Message{}, ErrShortFrame
	}

	length := int(b[0])
	if length < 3 {
		return Message{}, ErrShortFrame
	}
	want := length + 2 // length byte + (src,dst,mid,payload) + checksum byte
	if len(b) < want {
		return Message{}, ErrShortFrame
	}

	frame := b[:want]
	headerAndPayload := frame[:want-1] // length, src, dst, mid, payload...
	sum := frame[want-1]

	m := Message{
		Source:      TargetId(headerAndPayload[1]),
		Destination: TargetId(headerAndPayload[2]),
		MessageId:   CommandId(headerAndPayload[3]),
	}
	if length > 3 {
		m.Payload = append([]byte(nil), headerAndPayload[4:]...)
	}

	if Checksum(headerAndPayload) != sum {
		return m, ErrChecksum
	}
	return m, nil
}

// SplitStream scans a raw inbound buffer for 0x3b-delimited frames. It
// returns every completed frame found, plus the leftover tail bytes that
// may be the start of an incomplete frame; callers accumulate the full
// buffer (remainder plus newly read bytes) and re-invoke SplitStream
// once more bytes arrive.
//
// Frames are sized from their own length byte, not by scanning ahead
// for the next preamble — a frame is emitted as soon as length+2 bytes
// following its preamble are available, even if it is the last thing
// in buf. This matters across Read boundaries: the remainder handed
// back here is, by construction, already inside a started frame (it
// begins with that frame's own preamble, carried forward unconsumed),
// never leftover noise to be second-guessed on the next call.
//
// Policy: bytes preceding the first preamble are discarded as noise,
// as is any preamble whose length byte is too small to form a valid
// frame (the minimum header is 3 bytes: src, dst, mid) — scanning
// simply resumes at the next preamble.
func SplitStream(buf []byte) (frames []Message, remainder []byte) {
	i := 0
	for i < len(buf) {
		if buf[i] != Preamble {
			i++
			continue
		}
		if i+1 >= len(buf) {
			return frames, buf[i:]
		}

		length := int(buf[i+1])
		if length < 3 {
			i++
			continue
		}

		want := length + 2 // length byte + (src,dst,mid,payload) + checksum byte
		if i+1+want > len(buf) {
			return frames, buf[i:]
		}

		if msg, err := ParseFrame(buf[i+1 : i+1+want]); err == nil || err == ErrChecksum {
			frames = append(frames, msg)
		}
		i += 1 + want
	}
	return frames, buf[i:]
}

// String renders m in a human-readable form, using the registry's name
// lookups with a graceful hex fallback — the idiomatic Go replacement
// for the class-hierarchy-based pretty-printers of the source protocol
// library.
func (m Message) String() string {
	other := m.Destination
	if m.Destination == APP {
		other = m.Source
	}

	srcName, srcOk := NameOfTarget(m.Source)
	dstName, dstOk := NameOfTarget(m.Destination)
	cmdName, cmdOk := NameOfCommand(other, m.MessageId)

	if !srcOk {
		srcName = fmt.Sprintf("%#02x", byte(m.Source))
	}
	if !dstOk {
		dstName = fmt.Sprintf("%#02x", byte(m.Destination))
	}
	if !cmdOk {
		return fmt.Sprintf("[%d] %s => %s (%#02x): % x", m.Length(), srcName, dstName, byte(m.MessageId), m.Payload)
	}
	return fmt.Sprintf("[%d] %s => %s (%s): % x", m.Length(), srcName, dstName, cmdName, m.Payload)
}
