package fetim

import "github.com/almafe/femc/pkg/status"

// Tick runs one acquisition cycle: rolls compressor fault flags into
// the sensor layer, then advances the state layer's glitch counter.
func (f *FETIM) Tick() {
	f.Sensor.TemperatureOutOfRange[0] = f.Compressor.TempFault
	f.Sensor.TemperatureOutOfRange[1] = f.Compressor.PressureFault
	f.State.Tick(&f.Sensor)
}

// EnableGuard implements "interlock-triggered shutdowns are reflected
// back as HardwareBlocked on subsequent enable commands" (spec.md
// §4.8). Device handlers that gate on FETIM call this before acting.
func (f *FETIM) EnableGuard() status.Status {
	if f.Present && f.State.ShutdownTriggered {
		return status.HardwareBlocked
	}
	return status.Ok
}

// PublishFEStatus writes the one-bit cool-down-readiness flag FETIM
// polls (spec.md §4.8). Called periodically from the main loop.
func (f *FETIM) PublishFEStatus(ready bool, write func(bool) status.Status) status.Status {
	return write(ready)
}
