// Package cryostat implements the cryostat device tree, analog
// acquisition, and safety interlock guards (spec.md §3, §4.4, §4.5):
// 13 CryostatTemp sensors (9 TVO + 4 PRT), BackingPump, TurboPump,
// GateValve, SolenoidValve, a VacuumController with 2 VacuumSensors,
// the 230V supply current, and the cold-head hours counter.
//
// Grounded on pkg/od/extensions.go's stream-offset/retry (ErrPartial)
// pattern for the ADC settling retry counter, and on
// pkg/emergency/emergency.go's error-register bitmask style for
// out-of-range flags.
package cryostat

import (
	"github.com/almafe/femc/internal/opvar"
	"github.com/almafe/femc/pkg/config"
)

// TVOSensorCount / PRTSensorCount / TemperatureSensorCount per spec.md §3.
const (
	TVOSensorCount         = 9
	PRTSensorCount         = 4
	TemperatureSensorCount = TVOSensorCount + PRTSensorCount
)

// ValveState models the gate valve's tri-state sensor, including the
// "mid-transit" Unknown state that blocks further commands (spec.md
// §4.4).
type ValveState uint8

const (
	ValveClosed ValveState = iota
	ValveOpen
	ValveUnknown
)

// CryostatTemp is one temperature sensor: TVO sensors carry 7
// polynomial coefficients (loaded at init, immutable); PRT sensors use
// a fixed two-branch conversion and carry no per-sensor coefficients.
type CryostatTemp struct {
	IsTVO       bool
	Coeffs      config.TVOCoefficients
	TemperatureK opvar.Float
}

type BackingPump struct {
	Enabled     bool
	LastControl opvar.LastControlMessage
}

type TurboPump struct {
	Enabled     bool
	LastControl opvar.LastControlMessage
}

type GateValve struct {
	State       ValveState
	LastControl opvar.LastControlMessage
}

type SolenoidValve struct {
	State       ValveState
	LastControl opvar.LastControlMessage
}

type VacuumSensor struct {
	PressureMbar opvar.Float
	Cal          config.PressureSensorCal
}

type VacuumController struct {
	Sensors [2]VacuumSensor
}

// Cryostat is the full cryostat device tree.
type Cryostat struct {
	Temps            [TemperatureSensorCount]CryostatTemp
	BackingPump      BackingPump
	TurboPump        TurboPump
	GateValve        GateValve
	SolenoidValve    SolenoidValve
	Vacuum           VacuumController
	SupplyCurrent230 opvar.Float
	ColdHeadHours    *config.ColdHead

	acq *Acquisition
}

// NewCryostat builds a Cryostat from a loaded config.CryostatConfig,
// wiring TVO coefficients and pressure sensor calibration.
func NewCryostat(cfg *config.CryostatConfig, coldHead *config.ColdHead) *Cryostat {
	c := &Cryostat{ColdHeadHours: coldHead}
	for i := 0; i < TVOSensorCount; i++ {
		c.Temps[i] = CryostatTemp{IsTVO: true, Coeffs: cfg.TVO[i]}
	}
	for i := TVOSensorCount; i < TemperatureSensorCount; i++ {
		c.Temps[i] = CryostatTemp{IsTVO: false}
	}
	for i := 0; i < 2; i++ {
		c.Vacuum.Sensors[i].Cal = cfg.Pressure[i]
	}
	c.acq = NewAcquisition()
	return c
}

// Acquisition returns the analog-acquisition state machine.
func (c *Cryostat) Acquisition() *Acquisition {
	return c.acq
}
