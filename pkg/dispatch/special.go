package dispatch

import (
	"github.com/almafe/femc/internal/wire"
	"github.com/almafe/femc/pkg/canbus"
	"github.com/almafe/femc/pkg/frontend"
	"github.com/almafe/femc/pkg/rca"
	"github.com/almafe/femc/pkg/status"
)

// Firmware version reported by the "get version" special monitor
// (spec.md §6: "3 bytes: major, minor, patch"). Version strings
// themselves are an external collaborator's concern (spec.md §1); this
// is just the firmware's own build identity.
const (
	FirmwareMajor uint8 = 1
	FirmwareMinor uint8 = 0
	FirmwarePatch uint8 = 0
)

// Special RCA table (spec.md §4.3, §6). This firmware's own address
// assignment within the 0x20002-0x20FFF (monitor) and
// 0x21000-0x21FFF (control) special ranges; the spec leaves exact
// addresses to the implementation except for the version query, which
// concrete scenario 4 pins at 0x20002.
const (
	specVersion      uint32 = 0x20002
	specRCARange     uint32 = 0x20003
	specESNList      uint32 = 0x20004
	specErrorsNumber uint32 = 0x20005
	specNextError    uint32 = 0x20006
	specFEMode       uint32 = 0x20007
	specPPCommTime   uint32 = 0x20008
	specPALimitsESNBase uint32 = 0x20010 // +0..9, one per cartridge

	specFEModeSet     uint32 = 0x21000
	specConsoleEnable uint32 = 0x21001
	specReboot        uint32 = 0x21002
	specExit          uint32 = 0x21003
	specESNRescan     uint32 = 0x21004
)

// dispatchSpecial serves the hard-coded special RCA table (spec.md §6).
// Every case replies exactly once; there is no switch fallthrough and
// no unreachable path (Open Question Resolution F.1: the source's
// stray unreachable `return` is not replicated).
func (d *Dispatcher) dispatchSpecial(r rca.RCA, frame canbus.Frame) (canbus.Frame, bool) {
	if r.IsSpecialControl() {
		return d.dispatchSpecialControl(r, frame)
	}
	return d.dispatchSpecialMonitor(r, frame)
}

func (d *Dispatcher) dispatchSpecialMonitor(r rca.RCA, frame canbus.Frame) (canbus.Frame, bool) {
	switch r.Raw {
	case specVersion:
		return d.replyPayload(frame.ID, []byte{FirmwareMajor, FirmwareMinor, FirmwarePatch}, status.Ok), true

	case specRCARange:
		lo := wire.EncodeUint32LE(rca.FirstAddressableRCA)
		hi := wire.EncodeUint32LE(rca.LastAddressableRCA)
		payload := append(append([]byte{}, lo[:]...), hi[:]...)
		return d.replyPayload(frame.ID, payload, status.Ok), true

	case specESNList:
		return d.nextESN(frame.ID), true

	case specErrorsNumber:
		n := d.fe.Errors.Count()
		b := wire.EncodeUint16(uint16(n))
		return d.replyPayload(frame.ID, b[:], status.Ok), true

	case specNextError:
		entry, ok := d.fe.Errors.Next()
		if !ok {
			return d.replyPayload(frame.ID, []byte{0xFF, 0xFF}, status.Ok), true
		}
		return d.replyPayload(frame.ID, []byte{entry.Module, entry.Code}, status.Ok), true

	case specFEMode:
		return d.replyPayload(frame.ID, []byte{byte(d.fe.Mode)}, status.Ok), true

	case specPPCommTime:
		return d.replyPayload(frame.ID, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, status.Ok), true
	}

	if r.Raw >= specPALimitsESNBase && r.Raw < specPALimitsESNBase+rca.CartridgeCount {
		idx := int(r.Raw - specPALimitsESNBase)
		c := d.fe.Cartridges[idx]
		return d.replyPayload(frame.ID, c.PALimitsESN[:], status.Ok), true
	}

	d.fe.Errors.Push(ModuleCAN, ErrCodeUnknownSpecial)
	return d.replyStatus(frame.ID, status.HardwareRange), true
}

// nextESN implements the ESN-list iterator (spec.md §6: "ESN reply is 8
// bytes of ROM; 0xFF×8 indicates 'none'; 0x00×8 indicates 'end of list'
// and resets the iterator"). Unavailable cartridges report 0xFF×8 but
// still consume their slot in the walk.
func (d *Dispatcher) nextESN(id uint32) canbus.Frame {
	if d.esnIndex >= rca.CartridgeCount {
		d.esnIndex = 0
		return d.replyPayload(id, []byte{0, 0, 0, 0, 0, 0, 0, 0}, status.Ok)
	}
	c := d.fe.Cartridges[d.esnIndex]
	d.esnIndex++
	return d.replyPayload(id, c.ESN[:], status.Ok)
}

func (d *Dispatcher) dispatchSpecialControl(r rca.RCA, frame canbus.Frame) (canbus.Frame, bool) {
	switch r.Raw {
	case specFEModeSet:
		if len(frame.Data()) < 1 {
			return canbus.Frame{}, false
		}
		d.fe.SetMode(frontend.Mode(frame.Data()[0]))
		return canbus.Frame{}, false

	case specConsoleEnable:
		// Console/REPL is an external collaborator (spec.md §1); this
		// firmware only acknowledges the toggle, it never drives one.
		log.Info("console enable requested")
		return canbus.Frame{}, false

	case specReboot:
		log.Warn("reboot requested via special control")
		d.rebootRequested = true
		return canbus.Frame{}, false

	case specExit:
		log.Warn("process exit requested via special control")
		d.exitRequested = true
		return canbus.Frame{}, false

	case specESNRescan:
		// One-wire ESN discovery is an external collaborator whose
		// only contract with this firmware is handing back 64-bit IDs
		// (spec.md §1); there is no discovery protocol to re-run here.
		log.Info("ESN rescan requested (no-op: one-wire discovery is out of process)")
		return canbus.Frame{}, false
	}

	d.fe.Errors.Push(ModuleCAN, ErrCodeUnknownSpecial)
	return canbus.Frame{}, false
}
