// Package frontend implements the Frontend root (spec.md §3): the
// singleton process-wide state tree initialized once at boot and torn
// down on exit, owning the ten Cartridge instances, PowerDistribution,
// IFSwitch, Cryostat, LPR, and FETIM.
//
// Grounded on pkg/network/network.go's Network struct (owns
// controllers/OD map, Connect/Disconnect lifecycle) generalized from
// "own CANopen nodes" to "own the ten cartridges plus cryostat, FETIM,
// IF switch, and LPR," and on canopen.go's boot-sequence logging
// (log.Errorf("Error when initializing ... %v", err), fatal on
// unrecoverable boot failure).
package frontend

import (
	"fmt"

	"github.com/almafe/femc/pkg/cartridge"
	"github.com/almafe/femc/pkg/config"
	"github.com/almafe/femc/pkg/cryostat"
	"github.com/almafe/femc/pkg/errring"
	"github.com/almafe/femc/pkg/fetim"
	"github.com/almafe/femc/pkg/ifswitch"
	"github.com/almafe/femc/pkg/lpr"
	"github.com/almafe/femc/pkg/power"
	"github.com/almafe/femc/pkg/timer"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "[FRONTEND]")

// Mode is the Frontend's top-level operating mode (spec.md §3, §6).
type Mode uint8

const (
	ModeOperational Mode = iota
	ModeTroubleshooting
	ModeMaintenance
)

func (m Mode) String() string {
	switch m {
	case ModeOperational:
		return "Operational"
	case ModeTroubleshooting:
		return "Troubleshooting"
	case ModeMaintenance:
		return "Maintenance"
	default:
		return "Unknown"
	}
}

// powerMode maps the Frontend's mode onto pkg/power's local Mode enum
// (pkg/power cannot import pkg/frontend without a cycle).
func (m Mode) powerMode() power.Mode {
	switch m {
	case ModeTroubleshooting:
		return power.ModeTroubleshooting
	default:
		return power.ModeOperational
	}
}

// Frontend is the process-wide device tree singleton (spec.md §3). All
// child references are stable for process lifetime; availability flags
// are set at init and never cleared.
type Frontend struct {
	Mode       Mode
	Cartridges [10]*cartridge.Cartridge
	Power      *power.Distribution
	IFSwitch   *ifswitch.IFSwitch
	Cryostat   *cryostat.Cryostat
	LPR        *lpr.LPR
	FETIM      *fetim.FETIM

	Errors *errring.Ring
	Timers *timer.Service

	// ADC is the analog source backing the cryostat's multiplexed
	// acquisition; nil until the boot wiring installs the serial-backed
	// reader (pkg/cryostat falls back to a fixed mid-scale reading).
	ADC cryostat.ADCSource

	cfg *config.Frontend
}

// New builds and wires a Frontend from a loaded top-level config, in
// Operational mode, with all cartridges defaulted unavailable until
// Init reads their per-cartridge config files.
func New(cfg *config.Frontend) *Frontend {
	f := &Frontend{
		Mode:    ModeOperational,
		IFSwitch: ifswitch.New(),
		LPR:     lpr.New(),
		FETIM:   fetim.New(),
		Errors:  errring.New(),
		Timers:  timer.NewService(),
		cfg:     cfg,
	}
	return f
}

// Init runs the boot sequence: loads every per-cartridge config file,
// constructs the Cartridge tree, loads the cryostat config and
// cold-head-hours counter, and wires PowerDistribution over the
// resulting cartridges. A failure to load the cryostat config is fatal
// (spec.md §7 band 3: "corruption of module tree" terminates the
// process); a missing per-cartridge config merely marks that cartridge
// unavailable, since the hardware bay may simply be empty.
func (f *Frontend) Init() error {
	log.Info("boot: loading cartridge configuration")
	for i := 0; i < 10; i++ {
		path := f.cfg.CartridgePaths[i]
		available := false
		var cc *config.CartridgeConfig
		if path != "" {
			loaded, err := config.LoadCartridge(path)
			if err != nil {
				log.WithFields(logrus.Fields{"cartridge": i, "path": path, "error": err}).
					Warn("cartridge config unreadable, marking unavailable")
			} else {
				cc = loaded
				available = cc.Available
			}
		}
		c := cartridge.NewCartridge(uint8(i), available)
		if cc != nil {
			c.ConfigPath = path
			copy(c.PALimitsESN[:], cc.PALimitsESN[:])
			c.LO.YTO.CurrentCounts.MinSet = cc.YTOMinCounts
			c.LO.YTO.CurrentCounts.MaxSet = cc.YTOMaxCounts
		}
		f.Cartridges[i] = c
	}
	f.Power = power.NewDistribution(f.Cartridges)

	log.Info("boot: loading cryostat configuration")
	cryoCfg, err := config.LoadCryostat(f.cfg.CryostatPath)
	if err != nil {
		log.WithField("error", err).Fatal("cannot boot without cryostat configuration")
	}
	coldHead := config.LoadColdHead(f.cfg.ColdHeadPath)
	f.Cryostat = cryostat.NewCryostat(cryoCfg, coldHead)

	if f.cfg.LPRPath != "" {
		lprCfg, err := config.LoadLPR(f.cfg.LPRPath)
		if err != nil {
			log.WithFields(logrus.Fields{"path": f.cfg.LPRPath, "error": err}).
				Warn("lpr config unreadable, keeping defaults")
		} else {
			f.LPR.EDFA.PhotoDetector.Coeff = lprCfg.PhotoDetectorCoeff
			f.LPR.OpticalSwitch.Port.MaxSet = lprCfg.OpticalSwitchPorts - 1
		}
	}

	if f.cfg.ESNListPath != "" {
		if esns, err := config.LoadESNList(f.cfg.ESNListPath); err == nil {
			for i := 0; i < 10; i++ {
				key := fmt.Sprintf("cartridge%d", i)
				if esn, ok := esns.Entries[key]; ok {
					f.Cartridges[i].ESN = esn
				}
			}
		}
	}

	f.FETIM.Present = f.cfg.FETIMPresent

	log.Info("boot complete")
	return nil
}

// Stop tears down the Frontend at process exit. There is currently no
// hardware handle to release beyond persisting the cold-head counter,
// which Cryostat already does incrementally; Stop exists as the
// explicit counterpart to Init per spec.md §3 ("torn down on exit").
func (f *Frontend) Stop() {
	log.Info("shutdown")
}

// SetMode transitions the Frontend's operating mode. The dispatcher
// consults Mode directly on every standard RCA; no side effects run
// here beyond the log.
func (f *Frontend) SetMode(m Mode) {
	if m == f.Mode {
		return
	}
	log.WithFields(logrus.Fields{"from": f.Mode, "to": m}).Info("mode change")
	f.Mode = m
}

// PowerMode exposes the power-distribution-facing mode translation for
// pkg/dispatch.
func (f *Frontend) PowerMode() power.Mode {
	return f.Mode.powerMode()
}
