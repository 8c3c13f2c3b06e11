// Package canbus abstracts the physical CAN transport the front-end
// node receives its 29-bit-RCA frames over. The spec treats this as an
// external collaborator (the "parallel-port glue"); on real hardware
// the supervisory host talks CAN directly, so the collaborator here is
// a genuine CAN bus wrapper rather than a byte-level parallel port.
//
// Grounded on the teacher's pkg/can.Bus interface and its socketcan
// (github.com/brutella/can) and virtual backends.
package canbus

import "fmt"

// Frame is the in-process representation of a CAN data frame: 29-bit
// extended ID, up to 8 payload bytes.
type Frame struct {
	ID      uint32
	DLC     uint8
	Payload [8]byte
}

// NewFrame builds a Frame from an ID and payload, truncating/zero
// padding the payload to 8 bytes as needed.
func NewFrame(id uint32, payload []byte) Frame {
	f := Frame{ID: id}
	n := len(payload)
	if n > 8 {
		n = 8
	}
	copy(f.Payload[:], payload[:n])
	f.DLC = uint8(n)
	return f
}

func (f Frame) Data() []byte {
	return f.Payload[:f.DLC]
}

func (f Frame) String() string {
	return fmt.Sprintf("CAN(id=0x%08X dlc=%d data=% X)", f.ID, f.DLC, f.Data())
}

// FrameListener receives inbound CAN frames. The dispatcher implements
// this to be handed fully framed messages by the transport, matching
// design note §9's "the collaborator owns byte-level I/O; the core
// consumes fully framed messages."
type FrameListener interface {
	Handle(frame Frame)
}

// Bus is the transport-agnostic CAN interface. Concrete
// implementations: socketcan (real hardware, via brutella/can) and
// virtual (in-process, for tests).
type Bus interface {
	Connect() error
	Disconnect() error
	Send(frame Frame) error
	Subscribe(listener FrameListener) error
}
