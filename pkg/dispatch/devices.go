package dispatch

import (
	"github.com/almafe/femc/internal/opvar"
	"github.com/almafe/femc/internal/wire"
	"github.com/almafe/femc/pkg/canbus"
	"github.com/almafe/femc/pkg/cartridge"
	"github.com/almafe/femc/pkg/cryostat"
	"github.com/almafe/femc/pkg/ifswitch"
	"github.com/almafe/femc/pkg/lpr"
	"github.com/almafe/femc/pkg/rca"
	"github.com/almafe/femc/pkg/status"
)

// Submodule numbering below is this firmware's own register map (the
// spec leaves per-device submodule assignment to the implementation);
// each device package owns the semantics, dispatch only owns routing.

// Cartridge submodules: SIS heater per sideband (4), YTO current
// set-point, PA drain/gate per polarization, 6 cartridge temperatures,
// SIS mixer bias / magnet current / LNA enable+LED per sideband.
const (
	SubSISHeaterBase    uint16 = 0  // +0..3: polarization*2+sideband
	SubYTOCounts        uint16 = 4
	SubPADrainBase      uint16 = 5  // +0..1: polarization
	SubPAGateBase       uint16 = 7  // +0..1: polarization
	SubCartTempBase     uint16 = 9  // +0..5
	SubSISMixerVoltage  uint16 = 15 // +0..3: polarization*2+sideband
	SubSISMagnetCurrent uint16 = 19 // +0..3
	SubLNAEnableBase    uint16 = 23 // +0..3
	SubLNALEDBase       uint16 = 27 // +0..3
	SubPLLLockVoltage   uint16 = 31
	SubPLLCorrVoltage   uint16 = 32
	SubPhotomixCurrent  uint16 = 33
	SubAMCGateBase      uint16 = 34 // +0..1: polarization
	SubAMCDrainBase     uint16 = 36 // +0..1
	SubAMCDrainCurrBase uint16 = 38 // +0..1
	SubPADrainCurrBase  uint16 = 40 // +0..1
	SubSISCurrentBase   uint16 = 42 // +0..3: polarization*2+sideband
	// LNA stage read-backs: (polarization*2+sideband)*18 + stage*3 +
	// {0 drain voltage, 1 drain current, 2 gate voltage}.
	SubLNAStageBase uint16 = 46 // +0..71
)

// Cryostat submodules: 13 temperature sensors, then valves/pumps/vacuum.
const (
	SubCryoTempBase      uint16 = 0  // +0..12
	SubCryoGateValve     uint16 = 13
	SubCryoSolenoidValve uint16 = 14
	SubCryoTurboPump     uint16 = 15
	SubCryoBackingPump   uint16 = 16
	SubCryoVacuumBase    uint16 = 17 // +0..1
	SubCryoSupply230     uint16 = 19
)

// PowerDistribution submodule equals the target cartridge index (0-9).
// The control payload's first byte selects the requested transition.
const (
	powerCmdOff      byte = 0
	powerCmdOn       byte = 1
	powerCmdObserve  byte = 2
	powerCmdStandby2 byte = 3
)

// IFSwitch submodules: per-channel temp servo enable, attenuator, and
// assembly temperature, then the single shared band select
// (arcom_fe_mc/ifSwitch.h: one bandSelect for all 4 channels, not a
// per-channel cartridge select).
const (
	SubIFTempServoBase    uint16 = 0  // +0..3
	SubIFAttenBase        uint16 = 4  // +0..3
	SubIFAssemblyTempBase uint16 = 8  // +0..3
	SubIFBandSelect       uint16 = 12
)

// LPR submodules: SSI speed mode, 2 chassis temperatures, optical
// switch (port/shutter/force-shutter/state/busy), EDFA (laser,
// photodetector, modulation input) (arcom_fe_mc/lpr.h, opticalSwitch.h,
// edfa.h).
const (
	SubLPRSSI10MHzEnable    uint16 = 0
	SubLPRTempBase          uint16 = 1 // +0..1
	SubLPROSPort            uint16 = 3
	SubLPROSShutter         uint16 = 4
	SubLPROSForceShutter    uint16 = 5
	SubLPROSState           uint16 = 6
	SubLPROSBusy            uint16 = 7
	SubLPREDFALaserPumpTemp uint16 = 8
	SubLPREDFALaserDrive    uint16 = 9
	SubLPREDFALaserPhotoDet uint16 = 10
	SubLPREDFAPDCurrent     uint16 = 11
	SubLPREDFAPDPower       uint16 = 12
	SubLPREDFAModInput      uint16 = 13
	SubLPREDFADriverTempAlm uint16 = 14
)

// FETIM submodules.
const (
	SubFETIMAirFlow       uint16 = 0
	SubFETIMTempBase      uint16 = 1 // +0..1
	SubFETIMMultiFail     uint16 = 3
	SubFETIMShutdown      uint16 = 4
	SubFETIMDewarN2Fill   uint16 = 5
	SubFETIMCompTempBase uint16 = 6 // +0..1
	SubFETIMCompHe2      uint16 = 8
	SubFETIMDelayTrig    uint16 = 9
	SubFETIMGlitchCount  uint16 = 10
	SubFETIMSingleFail   uint16 = 11
)

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (d *Dispatcher) dispatchDevice(r rca.RCA, frame canbus.Frame, isMonitor bool) (canbus.Frame, bool) {
	var reply canbus.Frame
	var ok bool
	switch {
	case r.Module.IsCartridge():
		reply, ok = d.dispatchCartridge(r, frame, isMonitor)
	case r.Module == rca.ModulePowerDistribution:
		reply, ok = d.dispatchPower(r, frame, isMonitor)
	case r.Module == rca.ModuleCryostat:
		reply, ok = d.dispatchCryostat(r, frame, isMonitor)
	case r.Module == rca.ModuleIFSwitch:
		reply, ok = d.dispatchIFSwitch(r, frame, isMonitor)
	case r.Module == rca.ModuleLPR:
		reply, ok = d.dispatchLPR(r, frame, isMonitor)
	case r.Module == rca.ModuleFETIM:
		reply, ok = d.dispatchFETIM(r, frame, isMonitor)
	default:
		if isMonitor {
			return d.replyStatus(frame.ID, status.HardwareRange), true
		}
		return canbus.Frame{}, false
	}

	// A control that reached a monitor-only point falls through its
	// device's monitor path and produces a reply it has no channel
	// for: log it and drop the frame instead.
	if !isMonitor && ok {
		d.fe.Errors.Push(ModuleCAN, ErrCodeControlOnMonitor)
		return canbus.Frame{}, false
	}
	return reply, ok
}

func (d *Dispatcher) dispatchCartridge(r rca.RCA, frame canbus.Frame, isMonitor bool) (canbus.Frame, bool) {
	c := d.fe.Cartridges[r.Module]

	if r.Submodule >= SubSISHeaterBase && r.Submodule < SubSISHeaterBase+4 {
		idx := r.Submodule - SubSISHeaterBase
		pol, sb := idx/2, idx%2
		heater := &c.Polarizations[pol].Sidebands[sb].Heater

		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &heater.LastControl), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			enable := frame.Data()[0] != 0
			heater.SetControl(enable, func(e bool) status.Status {
				return status.Ok
			})
			return canbus.Frame{}, false
		}
		payload, st := heater.MonitorEnable()
		return d.replyPayload(frame.ID, payload, st), true
	}

	if r.Submodule >= SubSISMixerVoltage && r.Submodule < SubSISMixerVoltage+4 {
		idx := r.Submodule - SubSISMixerVoltage
		pol, sb := idx/2, idx%2
		mixer := &c.Polarizations[pol].Sidebands[sb].Mixer

		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &mixer.LastControl), true
			}
			if len(frame.Data()) < 4 {
				return canbus.Frame{}, false
			}
			v := wire.DecodeFloat32([4]byte{frame.Data()[0], frame.Data()[1], frame.Data()[2], frame.Data()[3]})
			mixer.SetVoltage(float64(v), frame.Data(), func(float64) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyMonitorFloat(frame.ID, &mixer.Voltage), true
	}

	if r.Submodule >= SubSISMagnetCurrent && r.Submodule < SubSISMagnetCurrent+4 {
		idx := r.Submodule - SubSISMagnetCurrent
		pol, sb := idx/2, idx%2
		magnet := &c.Polarizations[pol].Sidebands[sb].Magnet

		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &magnet.LastControl), true
			}
			if len(frame.Data()) < 4 {
				return canbus.Frame{}, false
			}
			v := wire.DecodeFloat32([4]byte{frame.Data()[0], frame.Data()[1], frame.Data()[2], frame.Data()[3]})
			magnet.SetCurrent(float64(v), frame.Data(), func(float64) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyMonitorFloat(frame.ID, &magnet.Current), true
	}

	if r.Submodule >= SubLNAEnableBase && r.Submodule < SubLNAEnableBase+4 {
		idx := r.Submodule - SubLNAEnableBase
		pol, sb := idx/2, idx%2
		lna := &c.Polarizations[pol].Sidebands[sb].LNA

		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &lna.LastEnable), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			lna.SetEnable(frame.Data()[0] != 0, frame.Data(), func(bool) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{boolByte(lna.Enabled)}, status.Ok), true
	}

	if r.Submodule >= SubLNALEDBase && r.Submodule < SubLNALEDBase+4 {
		idx := r.Submodule - SubLNALEDBase
		pol, sb := idx/2, idx%2
		lna := &c.Polarizations[pol].Sidebands[sb].LNA

		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &lna.LastLED), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			lna.SetLED(frame.Data()[0] != 0, frame.Data(), func(bool) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{boolByte(lna.LEDOn)}, status.Ok), true
	}

	if r.Submodule == SubYTOCounts {
		yto := &c.LO.YTO
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &yto.LastControl), true
			}
			if len(frame.Data()) < 2 {
				return canbus.Frame{}, false
			}
			v := wire.DecodeUint16([2]byte{frame.Data()[0], frame.Data()[1]})
			st := status.OutOfRange
			if yto.CurrentCounts.InRange(uint32(v)) {
				yto.CurrentCounts.SetCurrent(uint32(v))
				st = status.Ok
			}
			yto.LastControl.Set(frame.Data(), st)
			return canbus.Frame{}, false
		}
		v, ok := yto.CurrentCounts.Current()
		if !ok {
			return d.replyPayload(frame.ID, []byte{0, 0}, status.HardwareError), true
		}
		b := wire.EncodeUint16(uint16(v))
		return d.replyPayload(frame.ID, b[:], status.Ok), true
	}

	if r.Submodule >= SubPADrainBase && r.Submodule < SubPADrainBase+2 {
		pol := int(r.Submodule - SubPADrainBase)
		return d.dispatchPA(r, frame, isMonitor, pol, true)
	}
	if r.Submodule >= SubPAGateBase && r.Submodule < SubPAGateBase+2 {
		pol := int(r.Submodule - SubPAGateBase)
		return d.dispatchPA(r, frame, isMonitor, pol, false)
	}

	if r.Submodule >= SubCartTempBase && r.Submodule < SubCartTempBase+uint16(len(c.Temperatures)) {
		idx := r.Submodule - SubCartTempBase
		return d.replyMonitorFloat(frame.ID, &c.Temperatures[idx]), true
	}

	// Remaining LO chain and amplifier read-backs are monitor-only.
	switch r.Submodule {
	case SubPLLLockVoltage:
		return d.replyMonitorFloat(frame.ID, &c.LO.PLL.LockDetectVoltage), true
	case SubPLLCorrVoltage:
		return d.replyMonitorFloat(frame.ID, &c.LO.PLL.CorrectionVoltage), true
	case SubPhotomixCurrent:
		return d.replyMonitorFloat(frame.ID, &c.LO.Photomixer.Current), true
	}

	if r.Submodule >= SubAMCGateBase && r.Submodule < SubAMCGateBase+2 {
		pol := r.Submodule - SubAMCGateBase
		return d.replyMonitorFloat(frame.ID, &c.LO.AMC.GateVoltage[pol]), true
	}
	if r.Submodule >= SubAMCDrainBase && r.Submodule < SubAMCDrainBase+2 {
		pol := r.Submodule - SubAMCDrainBase
		return d.replyMonitorFloat(frame.ID, &c.LO.AMC.DrainVoltage[pol]), true
	}
	if r.Submodule >= SubAMCDrainCurrBase && r.Submodule < SubAMCDrainCurrBase+2 {
		pol := r.Submodule - SubAMCDrainCurrBase
		return d.replyMonitorFloat(frame.ID, &c.LO.AMC.DrainCurrent[pol]), true
	}
	if r.Submodule >= SubPADrainCurrBase && r.Submodule < SubPADrainCurrBase+2 {
		pol := r.Submodule - SubPADrainCurrBase
		return d.replyMonitorFloat(frame.ID, &c.LO.PA.DrainCurrent[pol]), true
	}
	if r.Submodule >= SubSISCurrentBase && r.Submodule < SubSISCurrentBase+4 {
		idx := r.Submodule - SubSISCurrentBase
		pol, sb := idx/2, idx%2
		return d.replyMonitorFloat(frame.ID, &c.Polarizations[pol].Sidebands[sb].Mixer.Current), true
	}
	if r.Submodule >= SubLNAStageBase && r.Submodule < SubLNAStageBase+4*cartridge.MaxLNAStages*3 {
		idx := int(r.Submodule - SubLNAStageBase)
		sbFlat := idx / (cartridge.MaxLNAStages * 3)
		rem := idx % (cartridge.MaxLNAStages * 3)
		stage := &c.Polarizations[sbFlat/2].Sidebands[sbFlat%2].LNA.Stages[rem/3]
		var f *opvar.Float
		switch rem % 3 {
		case 0:
			f = &stage.DrainVoltage
		case 1:
			f = &stage.DrainCurrent
		default:
			f = &stage.GateVoltage
		}
		return d.replyMonitorFloat(frame.ID, f), true
	}

	if isMonitor {
		return d.replyStatus(frame.ID, status.HardwareRange), true
	}
	return canbus.Frame{}, false
}

func (d *Dispatcher) dispatchPA(r rca.RCA, frame canbus.Frame, isMonitor bool, pol int, drain bool) (canbus.Frame, bool) {
	c := d.fe.Cartridges[r.Module]
	var last *opvar.LastControlMessage
	var current *opvar.Float
	if drain {
		last = &c.LO.PA.LastControlDrain[pol]
		current = &c.LO.PA.DrainVoltage[pol]
	} else {
		last = &c.LO.PA.LastControlGate[pol]
		current = &c.LO.PA.GateVoltage[pol]
	}

	if r.Class == rca.ClassControl {
		if isMonitor {
			return d.replyLastControl(frame.ID, last), true
		}
		if len(frame.Data()) < 4 {
			return canbus.Frame{}, false
		}
		v := wire.DecodeFloat32([4]byte{frame.Data()[0], frame.Data()[1], frame.Data()[2], frame.Data()[3]})
		write := func(val float64) status.Status { return status.Ok }
		if drain {
			c.SetPADrainVoltage(pol, float64(v), frame.Data(), write)
		} else {
			c.SetPAGateVoltage(pol, float64(v), frame.Data(), write)
		}
		return canbus.Frame{}, false
	}
	return d.replyMonitorFloat(frame.ID, current), true
}

func (d *Dispatcher) replyMonitorFloat(id uint32, f *opvar.Float) canbus.Frame {
	v, ok := f.Current()
	if !ok {
		b := wire.EncodeFloat32(wire.ConversionErrorSentinel)
		return d.replyPayload(id, b[:], status.HardwareError)
	}
	st := status.Ok
	switch f.RangeClass(v) {
	case opvar.RangeError:
		st = status.ErrorRange
	case opvar.RangeWarning:
		st = status.WarningRange
	}
	b := wire.EncodeFloat32(float32(v))
	return d.replyPayload(id, b[:], st)
}

func (d *Dispatcher) dispatchPower(r rca.RCA, frame canbus.Frame, isMonitor bool) (canbus.Frame, bool) {
	idx := int(r.Submodule)
	if idx < 0 || idx >= 10 {
		if isMonitor {
			return d.replyStatus(frame.ID, status.HardwareRange), true
		}
		return canbus.Frame{}, false
	}

	if r.Class == rca.ClassControl {
		if isMonitor {
			return d.replyLastControl(frame.ID, &d.fe.Power.LastControl[idx]), true
		}
		if len(frame.Data()) < 1 {
			return canbus.Frame{}, false
		}
		lc := d.fe.Cartridges[idx].Lifecycle()
		switch frame.Data()[0] {
		case powerCmdOff:
			d.fe.Power.PowerOff(idx)
		case powerCmdOn:
			d.fe.Power.PowerOn(idx, d.fe.PowerMode())
		case powerCmdObserve:
			st := status.HardwareBlocked
			if lc.BeginObserving() {
				st = status.Ok
			}
			d.fe.Power.LastControl[idx].Set(frame.Data(), st)
		case powerCmdStandby2:
			st := status.HardwareBlocked
			if lc.EnterStandby2() {
				st = status.Ok
			}
			d.fe.Power.LastControl[idx].Set(frame.Data(), st)
		default:
			d.fe.Power.LastControl[idx].Set(frame.Data(), status.OutOfRange)
		}
		return canbus.Frame{}, false
	}

	lc := d.fe.Cartridges[idx].Lifecycle()
	return d.replyPayload(frame.ID, []byte{byte(lc.State()), boolByte(lc.InStandby2())}, status.Ok), true
}

func (d *Dispatcher) dispatchCryostat(r rca.RCA, frame canbus.Frame, isMonitor bool) (canbus.Frame, bool) {
	cr := d.fe.Cryostat

	if r.Submodule >= SubCryoTempBase && r.Submodule < SubCryoTempBase+cryostat.TemperatureSensorCount {
		channel := int(r.Submodule - SubCryoTempBase)
		st := cr.AcquireChannel(channel, d.fe.Timers, d.fe.ADC)
		v, _ := cr.Temps[channel].TemperatureK.Current()
		b := wire.EncodeFloat32(float32(v))
		if st == status.HardwareConversionError {
			sentinel := wire.EncodeFloat32(wire.ConversionErrorSentinel)
			return d.replyPayload(frame.ID, sentinel[:], st), true
		}
		return d.replyPayload(frame.ID, b[:], st), true
	}

	switch r.Submodule {
	case SubCryoGateValve:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &cr.GateValve.LastControl), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			if frame.Data()[0] != 0 {
				cr.OpenGateValve(d.fe.Errors)
			} else {
				cr.CloseGateValve(d.fe.Errors)
			}
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{byte(cr.GateValve.State)}, status.Ok), true

	case SubCryoSolenoidValve:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &cr.SolenoidValve.LastControl), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			if frame.Data()[0] != 0 {
				cr.SolenoidValve.State = cryostat.ValveOpen
				cr.SolenoidValve.LastControl.Set(frame.Data(), status.Ok)
			} else {
				cr.CloseSolenoidValve()
			}
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{byte(cr.SolenoidValve.State)}, status.Ok), true

	case SubCryoTurboPump:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &cr.TurboPump.LastControl), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			if frame.Data()[0] != 0 {
				cr.EnableTurboPump(d.turboTempProvider(), d.fe.Errors)
			} else {
				cr.DisableTurboPump()
			}
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{boolByte(cr.TurboPump.Enabled)}, status.Ok), true

	case SubCryoBackingPump:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &cr.BackingPump.LastControl), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			if frame.Data()[0] != 0 {
				cr.EnableBackingPump()
			} else {
				cr.DisableBackingPump(d.fe.Errors)
			}
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{boolByte(cr.BackingPump.Enabled)}, status.Ok), true

	case SubCryoSupply230:
		v, st := cr.Supply230VCurrent()
		b := wire.EncodeFloat32(float32(v))
		return d.replyPayload(frame.ID, b[:], st), true
	}

	if r.Submodule >= SubCryoVacuumBase && r.Submodule < SubCryoVacuumBase+2 {
		sensor := int(r.Submodule - SubCryoVacuumBase)
		channel := cryostat.TemperatureSensorCount + sensor
		st := cr.AcquireChannel(channel, d.fe.Timers, d.fe.ADC)
		v, _ := cr.Vacuum.Sensors[sensor].PressureMbar.Current()
		b := wire.EncodeFloat32(float32(v))
		return d.replyPayload(frame.ID, b[:], st), true
	}

	if isMonitor {
		return d.replyStatus(frame.ID, status.HardwareRange), true
	}
	return canbus.Frame{}, false
}

// turboTempProvider adapts FETIM's turbo-bay temperature reading to the
// cryostat package's TurboTempProvider signature (spec.md §4.4).
func (d *Dispatcher) turboTempProvider() cryostat.TurboTempProvider {
	return d.fe.FETIM.TurboBayTemperatureC
}

func (d *Dispatcher) dispatchIFSwitch(r rca.RCA, frame canbus.Frame, isMonitor bool) (canbus.Frame, bool) {
	s := d.fe.IFSwitch

	if r.Submodule >= SubIFTempServoBase && r.Submodule < SubIFTempServoBase+ifswitch.ChannelCount {
		ch := int(r.Submodule - SubIFTempServoBase)
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &s.Channels[ch].TempServo.LastEnable), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			s.SetTempServoEnable(ch, frame.Data()[0] != 0, func(bool) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{boolByte(s.Channels[ch].TempServo.Enable)}, status.Ok), true
	}

	if r.Submodule >= SubIFAttenBase && r.Submodule < SubIFAttenBase+ifswitch.ChannelCount {
		ch := int(r.Submodule - SubIFAttenBase)
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &s.Channels[ch].LastAttenuator), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			s.SetAttenuator(ch, uint32(frame.Data()[0]), frame.Data(), func(uint32) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		v, ok := s.Channels[ch].Attenuator.Current()
		if !ok {
			return d.replyPayload(frame.ID, []byte{0}, status.HardwareError), true
		}
		return d.replyPayload(frame.ID, []byte{byte(v)}, status.Ok), true
	}

	if r.Submodule >= SubIFAssemblyTempBase && r.Submodule < SubIFAssemblyTempBase+ifswitch.ChannelCount {
		ch := int(r.Submodule - SubIFAssemblyTempBase)
		return d.replyMonitorFloat(frame.ID, &s.Channels[ch].AssemblyTemp), true
	}

	if r.Submodule == SubIFBandSelect {
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &s.LastBandSelect), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			s.SetBandSelect(frame.Data()[0], func(uint8) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		v, ok := s.BandSelect.Current()
		if !ok {
			return d.replyPayload(frame.ID, []byte{0}, status.HardwareError), true
		}
		return d.replyPayload(frame.ID, []byte{byte(v)}, status.Ok), true
	}

	if isMonitor {
		return d.replyStatus(frame.ID, status.HardwareRange), true
	}
	return canbus.Frame{}, false
}

func (d *Dispatcher) dispatchLPR(r rca.RCA, frame canbus.Frame, isMonitor bool) (canbus.Frame, bool) {
	l := d.fe.LPR

	switch r.Submodule {
	case SubLPRSSI10MHzEnable:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &l.LastSSI10MHzEnable), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			l.SetSSI10MHzEnable(frame.Data()[0] != 0, func(bool) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{boolByte(l.SSI10MHzEnable)}, status.Ok), true

	case SubLPROSPort:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &l.OpticalSwitch.LastPort), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			l.SetOpticalSwitchPort(frame.Data()[0], func(uint8) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		v, ok := l.OpticalSwitch.Port.Current()
		if !ok {
			return d.replyPayload(frame.ID, []byte{0}, status.HardwareError), true
		}
		return d.replyPayload(frame.ID, []byte{byte(v)}, status.Ok), true

	case SubLPROSShutter:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &l.OpticalSwitch.LastShutter), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			l.SetOpticalSwitchShutter(frame.Data()[0] != 0, func(bool) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, []byte{boolByte(l.OpticalSwitch.ShutterEnable)}, status.Ok), true

	case SubLPROSForceShutter:
		// Control-only (opticalSwitch.h: "forceShutterHandler (only
		// control)"); a Monitor on this RCA only ever sees the echoed
		// last control message, never a live state.
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &l.OpticalSwitch.LastForceShutter), true
			}
			l.ForceOpticalSwitchShutter(func() status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyStatus(frame.ID, status.HardwareRange), true

	case SubLPROSState:
		return d.replyPayload(frame.ID, []byte{boolByte(l.OpticalSwitch.Error)}, status.Ok), true

	case SubLPROSBusy:
		return d.replyPayload(frame.ID, []byte{boolByte(l.OpticalSwitch.Busy)}, status.Ok), true

	case SubLPREDFALaserPumpTemp:
		return d.replyMonitorFloat(frame.ID, &l.EDFA.Laser.PumpTemp), true

	case SubLPREDFALaserDrive:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &l.EDFA.Laser.LastDriveCurrent), true
			}
			if len(frame.Data()) < 4 {
				return canbus.Frame{}, false
			}
			v := wire.DecodeFloat32([4]byte{frame.Data()[0], frame.Data()[1], frame.Data()[2], frame.Data()[3]})
			l.SetLaserDriveCurrent(uint32(v), frame.Data(), func(float64) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyMonitorFloat(frame.ID, &l.EDFA.Laser.DriveCurrent), true

	case SubLPREDFALaserPhotoDet:
		return d.replyMonitorFloat(frame.ID, &l.EDFA.Laser.PhotoDetectCurrent), true

	case SubLPREDFAPDCurrent:
		return d.replyMonitorFloat(frame.ID, &l.EDFA.PhotoDetector.Current), true

	case SubLPREDFAPDPower:
		v, st := l.MonitorPhotoDetectorPower()
		b := wire.EncodeFloat32(float32(v))
		return d.replyPayload(frame.ID, b[:], st), true

	case SubLPREDFAModInput:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &l.EDFA.ModulationInput.LastValue), true
			}
			if len(frame.Data()) < 4 {
				return canbus.Frame{}, false
			}
			v := wire.DecodeFloat32([4]byte{frame.Data()[0], frame.Data()[1], frame.Data()[2], frame.Data()[3]})
			l.SetModulationInputValue(float64(v), frame.Data(), func(float64) status.Status { return status.Ok })
			return canbus.Frame{}, false
		}
		return d.replyMonitorFloat(frame.ID, &l.EDFA.ModulationInput.Value), true

	case SubLPREDFADriverTempAlm:
		return d.replyPayload(frame.ID, []byte{boolByte(l.EDFA.DriverTempAlarm)}, status.Ok), true
	}

	if r.Submodule >= SubLPRTempBase && r.Submodule < SubLPRTempBase+lpr.TempSensorCount {
		idx := int(r.Submodule - SubLPRTempBase)
		v, st := l.MonitorTemp(idx)
		b := wire.EncodeFloat32(float32(v))
		return d.replyPayload(frame.ID, b[:], st), true
	}

	if isMonitor {
		return d.replyStatus(frame.ID, status.HardwareRange), true
	}
	return canbus.Frame{}, false
}

func (d *Dispatcher) dispatchFETIM(r rca.RCA, frame canbus.Frame, isMonitor bool) (canbus.Frame, bool) {
	f := d.fe.FETIM
	if !f.Present {
		if isMonitor {
			return d.replyStatus(frame.ID, status.HardwareBlocked), true
		}
		return canbus.Frame{}, false
	}

	switch r.Submodule {
	case SubFETIMAirFlow:
		return d.replyPayload(frame.ID, []byte{boolByte(f.Sensor.AirFlowOutOfRange)}, status.Ok), true
	case SubFETIMMultiFail:
		return d.replyPayload(frame.ID, []byte{boolByte(f.State.MultiSensorFail)}, status.Ok), true
	case SubFETIMShutdown:
		return d.replyPayload(frame.ID, []byte{boolByte(f.State.ShutdownTriggered)}, status.Ok), true
	case SubFETIMDewarN2Fill:
		if r.Class == rca.ClassControl {
			if isMonitor {
				return d.replyLastControl(frame.ID, &f.Dewar.N2Fill), true
			}
			if len(frame.Data()) < 1 {
				return canbus.Frame{}, false
			}
			st := f.EnableGuard()
			f.Dewar.N2Fill.Set(frame.Data(), st)
			return canbus.Frame{}, false
		}
		return d.replyPayload(frame.ID, f.Dewar.N2Fill.Payload[:f.Dewar.N2Fill.Size], status.Ok), true
	case SubFETIMCompHe2:
		return d.replyMonitorFloat(frame.ID, &f.Compressor.He2Pressure), true
	case SubFETIMDelayTrig:
		return d.replyPayload(frame.ID, []byte{boolByte(f.State.DelayTriggered)}, status.Ok), true
	case SubFETIMGlitchCount:
		return d.replyPayload(frame.ID, []byte{byte(f.State.GlitchCounter)}, status.Ok), true
	case SubFETIMSingleFail:
		return d.replyPayload(frame.ID, []byte{boolByte(f.Sensor.SingleSensorFail())}, status.Ok), true
	}

	if r.Submodule >= SubFETIMTempBase && r.Submodule < SubFETIMTempBase+fetimTempSensorCount {
		idx := r.Submodule - SubFETIMTempBase
		return d.replyPayload(frame.ID, []byte{boolByte(f.Sensor.TemperatureOutOfRange[idx])}, status.Ok), true
	}
	if r.Submodule >= SubFETIMCompTempBase && r.Submodule < SubFETIMCompTempBase+fetimTempSensorCount {
		idx := r.Submodule - SubFETIMCompTempBase
		return d.replyMonitorFloat(frame.ID, &f.Compressor.Temperatures[idx]), true
	}

	if isMonitor {
		return d.replyStatus(frame.ID, status.HardwareRange), true
	}
	return canbus.Frame{}, false
}

// fetimTempSensorCount mirrors fetim.CompressorTempSensorCount.
const fetimTempSensorCount = 2
