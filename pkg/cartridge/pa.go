package cartridge

import "github.com/almafe/femc/pkg/status"

// SetPADrainVoltage and SetPAGateVoltage implement the PA drain/gate
// guard of spec.md §4.4: blocked whenever the cartridge's 4K or 12K
// sensor reads above PAMaxAllowedTempK, regardless of lifecycle state.
// payload is the raw control-message bytes to echo back verbatim on a
// subsequent Monitor-on-Control-RCA (spec.md §3 invariant); callers
// (pkg/dispatch) own the wire encoding and pass it through unchanged.
func (c *Cartridge) SetPADrainVoltage(pol int, counts float64, payload []byte, write func(float64) status.Status) status.Status {
	st := status.HardwareBlocked
	if !c.FourOrTwelveKExceeds() {
		st = write(counts)
		if st == status.Ok {
			c.LO.PA.DrainVoltage[pol].SetCurrent(counts)
		}
	}
	c.LO.PA.LastControlDrain[pol].Set(payload, st)
	return st
}

func (c *Cartridge) SetPAGateVoltage(pol int, counts float64, payload []byte, write func(float64) status.Status) status.Status {
	st := status.HardwareBlocked
	if !c.FourOrTwelveKExceeds() {
		st = write(counts)
		if st == status.Ok {
			c.LO.PA.GateVoltage[pol].SetCurrent(counts)
		}
	}
	c.LO.PA.LastControlGate[pol].Set(payload, st)
	return st
}
