// Package dispatch implements the CAN Dispatcher (spec.md §4.3): it
// decodes a 29-bit RCA, applies the operating-mode and availability
// gates, routes standard RCAs to the owning device's handler, and
// serves the hard-coded special RCA table.
//
// Grounded on pkg/sdo/server.go's request/response state machine
// (decode -> validate -> act -> encode reply) and pkg/nmt/nmt.go's
// Handle(frame) entrypoint convention, generalized from a single SDO
// service to the full class/module/submodule tree of spec.md §4.3.
package dispatch

import (
	"github.com/almafe/femc/internal/opvar"
	"github.com/almafe/femc/pkg/canbus"
	"github.com/almafe/femc/pkg/frontend"
	"github.com/almafe/femc/pkg/rca"
	"github.com/almafe/femc/pkg/status"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "[DISPATCH]")

// Error-ring module/code pairs for protocol-level errors (spec.md §7
// band 1), distinct from each device's own hardware error codes.
const (
	ModuleCAN uint8 = 0xFF

	ErrCodeClassRange       uint8 = 1
	ErrCodeMaintenanceMode  uint8 = 2
	ErrCodeControlOnMonitor uint8 = 3
	ErrCodeUnavailable      uint8 = 4
	ErrCodeUnknownSpecial   uint8 = 5
)

// Dispatcher routes frames to the Frontend device tree. It implements
// canbus.FrameListener; Handle is called once per fully framed inbound
// message (design note §9: "the collaborator owns byte-level I/O; the
// core consumes fully framed messages").
type Dispatcher struct {
	fe  *frontend.Frontend
	bus canbus.Bus

	// esnIndex tracks the ESN-list special-monitor iterator (spec.md
	// §6: "0x00x8 indicates end of list and resets the iterator").
	// Safe unguarded since Handle runs strictly sequentially off the
	// single main-loop goroutine.
	esnIndex int

	// exitRequested/rebootRequested latch the special-control
	// shutdown signals for cmd/femc's main loop to observe and act on;
	// dispatch itself never calls os.Exit (design note §9's "core has
	// no direct access to the outside world").
	exitRequested   bool
	rebootRequested bool
}

// New wires a Dispatcher to a Frontend and the bus it replies on.
func New(fe *frontend.Frontend, bus canbus.Bus) *Dispatcher {
	return &Dispatcher{fe: fe, bus: bus}
}

// ExitRequested / RebootRequested report whether a special-control
// "program exit" or "reboot request" has been received, for the main
// loop to poll once per iteration.
func (d *Dispatcher) ExitRequested() bool   { return d.exitRequested }
func (d *Dispatcher) RebootRequested() bool { return d.rebootRequested }

// Handle implements canbus.FrameListener. Per spec.md §5 ("ordering
// guarantees"), this runs strictly sequentially with no concurrent
// handler invocations, since the frame listener is always driven from
// the single main-loop goroutine.
func (d *Dispatcher) Handle(frame canbus.Frame) {
	reply, ok := d.dispatch(frame)
	if !ok {
		return
	}
	if err := d.bus.Send(reply); err != nil {
		log.WithField("error", err).Error("failed to send reply frame")
	}
}

// dispatch decodes and routes one frame, returning the reply frame (if
// any) and whether a reply should be sent. Control messages on success
// or protocol failure never produce a reply (spec.md §4.3, §6: "Control
// reply is not emitted").
func (d *Dispatcher) dispatch(frame canbus.Frame) (canbus.Frame, bool) {
	r := rca.Decode(frame.ID)

	if r.Special {
		return d.dispatchSpecial(r, frame)
	}

	if r.Class >= rca.ClassReserved {
		d.fe.Errors.Push(ModuleCAN, ErrCodeClassRange)
		if frame.DLC == 0 {
			return d.replyStatus(frame.ID, status.HardwareRange), true
		}
		return canbus.Frame{}, false
	}

	isMonitorRequest := frame.DLC == 0

	// "For a Control on a Monitor RCA, record an error and drop
	// silently (no reply is emitted for controls)" (spec.md §4.3).
	if r.Class == rca.ClassMonitor && !isMonitorRequest {
		d.fe.Errors.Push(ModuleCAN, ErrCodeControlOnMonitor)
		return canbus.Frame{}, false
	}

	if d.fe.Mode == frontend.ModeMaintenance {
		d.fe.Errors.Push(ModuleCAN, ErrCodeMaintenanceMode)
		if isMonitorRequest {
			return d.replyStatus(frame.ID, status.HardwareBlocked), true
		}
		return canbus.Frame{}, false
	}

	if r.Module.IsCartridge() && !d.fe.Cartridges[r.Module].Available {
		d.fe.Errors.Push(uint8(r.Module), ErrCodeUnavailable)
		if isMonitorRequest {
			return d.replyStatus(frame.ID, status.HardwareBlocked), true
		}
		return canbus.Frame{}, false
	}

	return d.dispatchDevice(r, frame, isMonitorRequest)
}

// replyStatus builds a reply frame whose payload is empty except for
// the trailing status byte, used for bare protocol-error replies.
func (d *Dispatcher) replyStatus(id uint32, st status.Status) canbus.Frame {
	return canbus.NewFrame(id, []byte{byte(st)})
}

// replyPayload appends the status byte to payload and builds the reply
// frame, matching spec.md §4.3: "every monitor reply is 1 + payloadSize
// bytes."
func (d *Dispatcher) replyPayload(id uint32, payload []byte, st status.Status) canbus.Frame {
	out := make([]byte, 0, len(payload)+1)
	out = append(out, payload...)
	out = append(out, byte(st))
	return canbus.NewFrame(id, out)
}

// replyLastControl answers a Monitor landing on a control RCA: the last
// issued control command's bytes verbatim, with the status it produced
// as the reply's status byte (spec.md §3).
func (d *Dispatcher) replyLastControl(id uint32, m *opvar.LastControlMessage) canbus.Frame {
	return d.replyPayload(id, m.Payload[:m.Size], m.Status)
}
