package cartridge

import (
	"github.com/almafe/femc/pkg/status"
)

// SetControl is a representative control handler (spec.md §4.4): save
// the incoming frame into the last-control-message record, then apply
// the hardware action and write back a status. Here "hardware action"
// is the serial-register write performed by the caller-supplied
// writeFn, matching how the real handler would drive the serial
// interface; this package stays hardware-agnostic so it can be tested
// without a mux.
func (h *SISHeater) SetControl(enable bool, writeFn func(enable bool) status.Status) status.Status {
	payload := []byte{0}
	if enable {
		payload[0] = 1
	}
	st := writeFn(enable)
	if st == status.Ok {
		h.Enable = enable
	}
	h.LastControl.Set(payload, st)
	return st
}

// MonitorControl returns the echoed last-control-message block for a
// Monitor landing on this heater's control RCA (spec.md §3 invariant).
func (h *SISHeater) MonitorControl() []byte {
	return h.LastControl.Bytes()
}

// MonitorEnable is the plain monitor-only read path, range-checking
// nothing (the heater enable bit has no warn/error thresholds).
func (h *SISHeater) MonitorEnable() ([]byte, status.Status) {
	var b byte
	if h.Enable {
		b = 1
	}
	return []byte{b}, status.Ok
}
