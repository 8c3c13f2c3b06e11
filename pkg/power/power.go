// Package power implements Power Distribution's cartridge-power-on
// admission policy (spec.md §4.6, §8): at most MaxPoweredBandsOperational
// cartridges powered on in Operational mode, MaxPoweredBandsDebug in
// Troubleshooting. Only this package is allowed to drive a cartridge's
// OFF<->ON transition (the cartridge.Lifecycle type itself has no
// notion of the global count).
//
// Grounded on pkg/nmt.go's guarded-transition pattern (check condition,
// then call setState).
package power

import (
	"sync"

	"github.com/almafe/femc/internal/opvar"
	"github.com/almafe/femc/pkg/cartridge"
	"github.com/almafe/femc/pkg/status"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "[POWER]")

// Caps per operating mode (spec.md §4.6).
const (
	MaxPoweredBandsOperational = 4
	MaxPoweredBandsDebug       = 10
)

// Mode mirrors frontend.Mode without importing pkg/frontend (which
// itself owns a Distribution), keeping the dependency direction
// pointing from frontend down to power, not the reverse.
type Mode uint8

const (
	ModeOperational Mode = iota
	ModeTroubleshooting
	ModeMaintenance
)

// Distribution tracks which of the ten cartridges are currently
// powered and enforces the admission cap.
type Distribution struct {
	mu         sync.Mutex
	cartridges [10]*cartridge.Cartridge
	poweredCount int

	// LastControl echoes the last power-on/off command issued per
	// cartridge (spec.md §3 invariant: a Monitor on a control RCA
	// returns the last Control's bytes and status).
	LastControl [10]opvar.LastControlMessage
}

// NewDistribution wires up a Distribution over the frontend's ten
// cartridge instances (by index, per design note §9's "enum-index
// lookup" convention — no back-pointer to the frontend).
func NewDistribution(cartridges [10]*cartridge.Cartridge) *Distribution {
	return &Distribution{cartridges: cartridges}
}

func capFor(mode Mode) int {
	if mode == ModeTroubleshooting {
		return MaxPoweredBandsDebug
	}
	return MaxPoweredBandsOperational
}

// PowerOn attempts to power on cartridge idx under the given mode's
// cap. Returns HardwareBlocked (and leaves the cartridge OFF) if the
// cap would be exceeded or the cartridge is unavailable; otherwise
// drives the Lifecycle OFF->ON transition.
func (d *Distribution) PowerOn(idx int, mode Mode) status.Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	if idx < 0 || idx >= len(d.cartridges) || d.cartridges[idx] == nil {
		return status.HardwareRange
	}
	st := d.powerOnLocked(idx, mode)
	d.LastControl[idx].Set([]byte{1}, st)
	return st
}

func (d *Distribution) powerOnLocked(idx int, mode Mode) status.Status {
	c := d.cartridges[idx]
	if !c.Available {
		return status.HardwareBlocked
	}
	if d.poweredCount >= capFor(mode) {
		log.WithFields(logrus.Fields{"cartridge": idx, "mode": mode, "cap": capFor(mode)}).
			Warn("power-on request blocked by powered-cartridge cap")
		return status.HardwareBlocked
	}
	if !c.Lifecycle().PowerOn() {
		// Already on (or otherwise not in OFF); not a cap violation.
		return status.HardwareBlocked
	}
	d.poweredCount++
	return status.Ok
}

// PowerOff powers down cartridge idx unconditionally (any non-ERROR
// state) and decrements the powered count.
func (d *Distribution) PowerOff(idx int) status.Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	if idx < 0 || idx >= len(d.cartridges) || d.cartridges[idx] == nil {
		return status.HardwareRange
	}
	c := d.cartridges[idx]
	wasOff := c.Lifecycle().State() == cartridge.StateOff
	st := status.Ok
	if !c.Lifecycle().PowerOff() {
		st = status.HardwareBlocked
	} else if !wasOff && d.poweredCount > 0 {
		d.poweredCount--
	}
	d.LastControl[idx].Set([]byte{0}, st)
	return st
}

// PoweredCount returns the number of cartridges currently powered on,
// the invariant checked at spec.md §8 ("PoweredModules count <=
// MaxPoweredBandsOperational at all times in Operational mode").
func (d *Distribution) PoweredCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.poweredCount
}
