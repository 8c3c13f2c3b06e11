// Package cartridge implements the per-cartridge data model and
// lifecycle state machine (spec.md §3, §4.6): ten cryogenically cooled
// mixer cartridges, each with two polarizations of two sidebands
// (SIS mixer, SIS magnet, a 6-stage LNA, an LNA LED, an SIS heater), an
// LO chain (YTO/PLL/AMC/PA/photomixer), six cartridge-temperature
// sensors, an ESN, and a config-file path.
//
// Grounded on the teacher's pkg/node.BaseNode (mutex-guarded state
// field with Get/SetState accessors) generalized from the three-state
// CANopen NMT lifecycle to the six-state OFF/ON/INITING/READY/
// OBSERVING/ERROR machine.
package cartridge

import (
	"github.com/almafe/femc/internal/opvar"
)

// MaxLNAStages bounds the (small, fixed) number of amplifier stages per
// LNA (spec.md §3).
const MaxLNAStages = 6

// State is a cartridge's lifecycle state (spec.md §4.6).
type State uint8

const (
	StateOff State = iota
	StateOn
	StateIniting
	StateReady
	StateObserving
	StateError
)

func (s State) String() string {
	switch s {
	case StateOff:
		return "OFF"
	case StateOn:
		return "ON"
	case StateIniting:
		return "INITING"
	case StateReady:
		return "READY"
	case StateObserving:
		return "OBSERVING"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SISMixer is a single sideband's SIS junction bias point.
type SISMixer struct {
	Voltage     opvar.Float // mV, control set-point
	Current     opvar.Float // mA (monitor only, read back from hardware)
	LastControl opvar.LastControlMessage
}

// SISMagnet is a single sideband's SIS magnet coil.
type SISMagnet struct {
	Current     opvar.Float // mA
	LastControl opvar.LastControlMessage
}

// SISHeater is the sideband's heater used to drive off frost/ice (a
// representative device per spec.md §4.4).
type SISHeater struct {
	Enable      bool
	LastControl opvar.LastControlMessage
}

// LNA is a 6-stage low-noise amplifier.
type LNA struct {
	Stages     [MaxLNAStages]LNAStage
	LEDOn      bool
	Enabled    bool
	LastEnable opvar.LastControlMessage
	LastLED    opvar.LastControlMessage
}

// LNAStage is one amplifier stage's drain/gate bias pair.
type LNAStage struct {
	DrainVoltage opvar.Float
	DrainCurrent opvar.Float
	GateVoltage  opvar.Float
}

// Sideband holds everything specific to one (polarization, sideband)
// pair.
type Sideband struct {
	Mixer  SISMixer
	Magnet SISMagnet
	LNA    LNA
	Heater SISHeater
}

// Polarization is one of the two RF polarizations in a cartridge, each
// carrying two sidebands (upper/lower).
type Polarization struct {
	Sidebands [2]Sideband
}

// LO is the cartridge's local-oscillator chain.
type LO struct {
	YTO       YTO
	PLL       PLL
	AMC       AMC
	PA        PA
	Photomixer Photomixer
}

type YTO struct {
	CurrentCounts opvar.Uint
	LastControl   opvar.LastControlMessage
}

type PLL struct {
	LockDetectVoltage opvar.Float
	CorrectionVoltage opvar.Float
}

type AMC struct {
	GateVoltage  [2]opvar.Float
	DrainVoltage [2]opvar.Float
	DrainCurrent [2]opvar.Float
}

// PA is the power amplifier, which the spec forbids draining/gating
// above PAMaxAllowedTempK (spec.md §4.4).
type PA struct {
	GateVoltage      [2]opvar.Float
	DrainVoltage     [2]opvar.Float
	DrainCurrent     [2]opvar.Float
	LastControlGate  [2]opvar.LastControlMessage
	LastControlDrain [2]opvar.LastControlMessage
}

type Photomixer struct {
	Current opvar.Float
}

// PAMaxAllowedTempK is the 4K/12K cartridge sensor ceiling above which
// PA drain/gate operations are blocked (spec.md §4.4).
const PAMaxAllowedTempK = 30.0

// TemperatureSensorCount is the number of cartridge-level temperature
// sensors (spec.md §3).
const TemperatureSensorCount = 6

// Cartridge is the full per-cartridge data model.
type Cartridge struct {
	ID             uint8
	Available      bool
	Polarizations  [2]Polarization
	LO             LO
	Temperatures   [TemperatureSensorCount]opvar.Float
	ESN            [8]byte
	ConfigPath     string
	PALimitsESN    [8]byte

	lifecycle *Lifecycle
}

// NewCartridge constructs a Cartridge with its state machine wired up.
// Availability is fixed for process lifetime per spec.md §3 and must be
// supplied at construction.
func NewCartridge(id uint8, available bool) *Cartridge {
	c := &Cartridge{ID: id, Available: available}
	c.lifecycle = NewLifecycle(id)
	for i := 0; i < 8; i++ {
		c.ESN[i] = 0xFF
		c.PALimitsESN[i] = 0xFF
	}
	return c
}

// Lifecycle returns the cartridge's state machine.
func (c *Cartridge) Lifecycle() *Lifecycle {
	return c.lifecycle
}

// FourOrTwelveKExceeds reports whether either of the two cold-stage
// cartridge sensors (conventionally indices 0=4K, 1=12K) reads above
// PAMaxAllowedTempK, used to gate PA drain/gate operations.
func (c *Cartridge) FourOrTwelveKExceeds() bool {
	for _, idx := range []int{0, 1} {
		v, ok := c.Temperatures[idx].Current()
		if ok && v > PAMaxAllowedTempK {
			return true
		}
	}
	return false
}
