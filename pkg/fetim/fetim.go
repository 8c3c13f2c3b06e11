// Package fetim implements the Front-End Thermal Interlock Module: an
// independent safety observer with its own sensor layer, a
// shutdown-latching state layer, a compressor sub-device, and a dewar
// N2-fill command mirror (spec.md §3, §4.8).
//
// Grounded on pkg/emergency/emergency.go's error-register bitmask
// layering (producer bits feeding a summary state) generalized to a
// two-layer sensor/state observer with a decrementing glitch counter.
package fetim

import "github.com/almafe/femc/internal/opvar"

// CompressorTempSensorCount is the number of compressor temperature
// sensors (spec.md §3).
const CompressorTempSensorCount = 2

// Compressor models the FETIM compressor sub-device: two temperature
// sensors, a He2 pressure sensor, and its own flag set.
type Compressor struct {
	Temperatures [CompressorTempSensorCount]opvar.Float
	He2Pressure  opvar.Float
	TempFault    bool
	PressureFault bool
}

// Dewar mirrors the last N2-fill command issued to the dewar (spec.md
// §3: "Dewar (N2-fill command mirror)").
type Dewar struct {
	N2Fill opvar.LastControlMessage
}

// FETIM is the full thermal interlock module.
type FETIM struct {
	Present    bool
	Sensor     SensorLayer
	State      StateLayer
	Compressor Compressor
	Dewar      Dewar
}

// New returns a FETIM with default (not-present) wiring. Present must
// be set true by the caller once config confirms the module is
// installed (spec.md's "if FETIM is present" guards elsewhere read this
// flag).
func New() *FETIM {
	f := &FETIM{}
	f.State.GlitchCounter = GlitchCounterMax
	return f
}

// TurboBayTemperatureC reports the compressor/turbo-bay temperature
// used by pkg/cryostat's turbo pump enable guard, and whether the
// reading is available (false when FETIM isn't present).
func (f *FETIM) TurboBayTemperatureC() (float64, bool) {
	if !f.Present {
		return 0, false
	}
	v, ok := f.Compressor.Temperatures[0].Current()
	if !ok {
		return 0, false
	}
	return v, true
}
