// Package lpr implements the photonic LO receiver device handler
// (spec.md §2, module 13): an SSI speed mode bit, two LPR chassis
// temperature sensors, an optical switch, and an EDFA (Erbium Doped
// Fiber Amplifier) driving the photonic local oscillator.
//
// Grounded on _examples/original_source/arcom_fe_mc/lpr.h's LPR struct
// (ssi10MHzEnable, lprTemp[LPR_TEMP_SENSORS_NUMBER], opticalSwitch,
// edfa) and its three submodule headers opticalSwitch.h (port,
// shutter, forceShutter, state, busy), edfa.h (laser, photoDetector,
// modulationInput, driverTempAlarm), laser.h/photoDetector.h/
// modulationInput.h, reconciled against pkg/cartridge's SetX/MonitorX
// handler shape.
package lpr

import (
	"github.com/almafe/femc/internal/opvar"
	"github.com/almafe/femc/pkg/status"
)

// TempSensorCount is the number of LPR chassis temperature sensors
// (lprTemp.h: LPR_TEMP_SENSORS_NUMBER).
const TempSensorCount = 2

// LaserDriveCurrentMaxCounts is the full-scale count of the EDFA pump
// laser drive current set-point; the set handler does not check
// against it.
const LaserDriveCurrentMaxCounts = 0xFFFF

// ModulationInputMaxCounts is the full-scale count of the EDFA
// modulation input set-point; the set handler does not check against it.
const ModulationInputMaxCounts = 0xFFFF

// OpticalSwitch is the LPR's optical switch (opticalSwitch.h): a port
// selector, an enable shutter plus a momentary force-shutter, and
// read-only error/busy state.
type OpticalSwitch struct {
	Port             opvar.Uint
	LastPort         opvar.LastControlMessage
	ShutterEnable    bool
	LastShutter      opvar.LastControlMessage
	LastForceShutter opvar.LastControlMessage
	Error            bool
	Busy             bool
}

// Laser is the EDFA pump laser (laser.h).
type Laser struct {
	PumpTemp           opvar.Float
	DriveCurrent       opvar.Float
	LastDriveCurrent   opvar.LastControlMessage
	PhotoDetectCurrent opvar.Float
}

// PhotoDetector is the EDFA's own photodetector (photoDetector.h),
// distinct from the per-polarization receiver photodetectors
// elsewhere in the front end.
type PhotoDetector struct {
	Current opvar.Float
	Power   opvar.Float
	Coeff   float64
}

// ModulationInput is the EDFA's modulation input port (modulationInput.h).
type ModulationInput struct {
	Value     opvar.Float
	LastValue opvar.LastControlMessage
}

// EDFA is the Erbium Doped Fiber Amplifier driving the photonic LO
// (edfa.h).
type EDFA struct {
	Laser           Laser
	PhotoDetector   PhotoDetector
	ModulationInput ModulationInput
	DriverTempAlarm bool
}

// LPR is the photonic LO receiver (lpr.h).
type LPR struct {
	SSI10MHzEnable     bool
	LastSSI10MHzEnable opvar.LastControlMessage
	Temps              [TempSensorCount]opvar.Float
	OpticalSwitch      OpticalSwitch
	EDFA               EDFA
}

// New returns an LPR with the optical switch port at 0 and the EDFA
// photodetector coefficient at 1.0. It configures no set-point ranges.
func New() *LPR {
	l := &LPR{}
	l.OpticalSwitch.Port = opvar.NewUint(0)
	l.EDFA.PhotoDetector.Coeff = 1.0
	l.EDFA.Laser.DriveCurrent = opvar.Float{}
	l.EDFA.ModulationInput.Value = opvar.Float{}
	return l
}

// SetSSI10MHzEnable switches the remote device's communication speed
// (lpr.h: "Speed is set to 10 MHz" / "5 MHz").
func (l *LPR) SetSSI10MHzEnable(enable bool, write func(bool) status.Status) status.Status {
	st := write(enable)
	payload := byte(0)
	if enable {
		payload = 1
	}
	l.LastSSI10MHzEnable.Set([]byte{payload}, st)
	if st == status.Ok {
		l.SSI10MHzEnable = enable
	}
	return st
}

// MonitorTemp returns lprTemp[idx]'s cached reading.
func (l *LPR) MonitorTemp(idx int) (float64, status.Status) {
	if idx < 0 || idx >= TempSensorCount {
		return 0, status.HardwareRange
	}
	v, ok := l.Temps[idx].Current()
	if !ok {
		return 0, status.HardwareError
	}
	return v, status.Ok
}

// SetOpticalSwitchPort selects the optical switch's active port. Per
// opticalSwitch.h this is not a hardware read-back, only the last
// issued control cached and echoed back.
func (l *LPR) SetOpticalSwitchPort(port uint8, write func(uint8) status.Status) status.Status {
	st := write(port)
	l.OpticalSwitch.LastPort.Set([]byte{port}, st)
	if st == status.Ok {
		l.OpticalSwitch.Port.SetCurrent(uint32(port))
	}
	return st
}

// SetOpticalSwitchShutter enables/disables the optical switch shutter.
func (l *LPR) SetOpticalSwitchShutter(enable bool, write func(bool) status.Status) status.Status {
	st := write(enable)
	payload := byte(0)
	if enable {
		payload = 1
	}
	l.OpticalSwitch.LastShutter.Set([]byte{payload}, st)
	if st == status.Ok {
		l.OpticalSwitch.ShutterEnable = enable
	}
	return st
}

// ForceOpticalSwitchShutter is the optical switch's control-only force
// shutter (opticalSwitch.h: "forceShutterHandler (only control)"): it
// has no monitor-side cached state beyond the last control message.
func (l *LPR) ForceOpticalSwitchShutter(write func() status.Status) status.Status {
	st := write()
	l.OpticalSwitch.LastForceShutter.Set([]byte{1}, st)
	return st
}

// SetLaserDriveCurrent sets the EDFA pump laser's drive current.
func (l *LPR) SetLaserDriveCurrent(counts uint32, payload []byte, write func(float64) status.Status) status.Status {
	v := float64(counts)
	st := write(v)
	l.EDFA.Laser.LastDriveCurrent.Set(payload, st)
	if st == status.Ok {
		l.EDFA.Laser.DriveCurrent.SetCurrent(v)
	}
	return st
}

// SetModulationInputValue sets the EDFA modulation input's value.
func (l *LPR) SetModulationInputValue(v float64, payload []byte, write func(float64) status.Status) status.Status {
	st := write(v)
	l.EDFA.ModulationInput.LastValue.Set(payload, st)
	if st == status.Ok {
		l.EDFA.ModulationInput.Value.SetCurrent(v)
	}
	return st
}

// MonitorPhotoDetectorPower returns the EDFA photodetector's power
// reading, converted from the read-back current via Coeff
// (photoDetector.h: "coeff: Conversion coefficient for the
// photodetector power").
func (l *LPR) MonitorPhotoDetectorPower() (float64, status.Status) {
	current, ok := l.EDFA.PhotoDetector.Current.Current()
	if !ok {
		return 0, status.HardwareError
	}
	power := current * l.EDFA.PhotoDetector.Coeff
	l.EDFA.PhotoDetector.Power.SetCurrent(power)
	return power, status.Ok
}
