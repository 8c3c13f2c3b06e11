package opvar

import "github.com/almafe/femc/pkg/status"

// LastControlMessage mirrors the per-controllable-point record of
// spec.md §3: the bytes of the most recently issued Control command,
// and the status it produced. A Monitor landing on the point's control
// RCA returns this verbatim.
type LastControlMessage struct {
	Size    uint8
	Payload [8]byte
	Status  status.Status
}

// Set records a control command outcome. At most 8 payload bytes are
// kept; longer input is truncated to its first 8 bytes (frames from
// canbus already carry no more than 8).
func (m *LastControlMessage) Set(payload []byte, st status.Status) {
	m.Size = uint8(len(payload))
	if m.Size > 8 {
		m.Size = 8
	}
	var buf [8]byte
	copy(buf[:], payload)
	m.Payload = buf
	m.Status = st
}

// Bytes returns the reply payload for a Monitor-on-Control-RCA request:
// the recorded payload bytes followed by the status byte.
func (m *LastControlMessage) Bytes() []byte {
	out := make([]byte, 0, m.Size+1)
	out = append(out, m.Payload[:m.Size]...)
	out = append(out, byte(m.Status))
	return out
}
