package cartridge

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "[CARTRIDGE]")

// InitStep is one cooperative step of cartridge initialization
// (spec.md §4.6): read ESN, read config file, program LO defaults,
// clear PA, clear SIS bias. Steps run one per main-loop iteration via
// Lifecycle.PumpInit, keeping CAN responsiveness bounded.
type InitStep uint8

const (
	StepReadESN InitStep = iota
	StepReadConfig
	StepProgramLODefaults
	StepClearPA
	StepClearSISBias
	stepDone
)

var initStepNames = map[InitStep]string{
	StepReadESN:           "read-esn",
	StepReadConfig:        "read-config",
	StepProgramLODefaults: "program-lo-defaults",
	StepClearPA:           "clear-pa",
	StepClearSISBias:      "clear-sis-bias",
}

// StepFunc performs one init step's hardware work and returns an error
// to abort the sequence (transitioning the cartridge to StateError).
type StepFunc func(step InitStep) error

// Lifecycle is a single cartridge's OFF/ON/INITING/READY/OBSERVING/
// ERROR state machine (spec.md §4.6 diagram). Only PowerDistribution
// may drive OFF<->ON (enforced by callers, not by this type, mirroring
// the teacher's separation between NMT's state field and the
// PowerDistribution-equivalent caller that decides when to flip it).
type Lifecycle struct {
	id uint8

	mu    sync.Mutex
	state State

	initStep InitStep
	initFn   StepFunc

	standby2 bool
}

// NewLifecycle returns a cartridge lifecycle starting in StateOff.
func NewLifecycle(id uint8) *Lifecycle {
	return &Lifecycle{id: id, state: StateOff}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Lifecycle) setState(next State) {
	prev := l.state
	if prev == next {
		return
	}
	l.state = next
	log.WithFields(logrus.Fields{
		"cartridge": l.id, "previous": prev, "next": next,
	}).Info("cartridge state changed")
}

// PowerOn transitions OFF->ON. Only valid from StateOff; the admission
// check (MaxPoweredBandsOperational/Debug) is the caller's
// responsibility (pkg/power), since only PowerDistribution knows the
// global powered-cartridge count.
func (l *Lifecycle) PowerOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateOff {
		return false
	}
	l.setState(StateOn)
	return true
}

// PowerOff forces the cartridge back to StateOff from any state except
// StateError (the spec treats ERROR as a sink for the power cycle,
// requiring an explicit recovery path outside this state machine).
func (l *Lifecycle) PowerOff() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == StateError {
		return false
	}
	l.setState(StateOff)
	l.initStep = StepReadESN
	l.standby2 = false
	return true
}

// BeginInit starts the asynchronous init sequence (ON->INITING). fn is
// the step executor supplied by the frontend wiring (it knows how to
// read the real ESN/config/hardware); it is invoked once per call to
// PumpInit.
func (l *Lifecycle) BeginInit(fn StepFunc) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateOn {
		return false
	}
	l.initFn = fn
	l.initStep = StepReadESN
	l.setState(StateIniting)
	return true
}

// PumpInit executes exactly one pending init step. It should be called
// once per main-loop iteration while the cartridge is StateIniting.
// On the final step it transitions INITING->READY; on any step error
// it transitions to StateError (a sink: PowerOff does not leave it).
// Returns false once there is no more init work pending.
func (l *Lifecycle) PumpInit() bool {
	l.mu.Lock()
	if l.state != StateIniting {
		l.mu.Unlock()
		return false
	}
	step := l.initStep
	fn := l.initFn
	l.mu.Unlock()

	if step >= stepDone {
		return false
	}

	err := fn(step)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateIniting {
		// A power-off raced with this step; don't clobber the new state.
		return false
	}
	if err != nil {
		log.WithFields(logrus.Fields{
			"cartridge": l.id, "step": initStepNames[step], "error": err,
		}).Error("cartridge init step failed")
		l.setState(StateError)
		return false
	}
	l.initStep++
	if l.initStep >= stepDone {
		l.setState(StateReady)
		return false
	}
	return true
}

// BeginObserving transitions READY->OBSERVING on receipt of an observe
// command. It is rejected from any other state.
func (l *Lifecycle) BeginObserving() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateReady {
		return false
	}
	l.setState(StateObserving)
	return true
}

// CanGoToStandby reports whether the cartridge may transition to a
// standby state: only READY or OBSERVING qualify (spec.md §4.6).
func (l *Lifecycle) CanGoToStandby() bool {
	s := l.State()
	return s == StateReady || s == StateObserving
}

// EnterStandby2 latches the low-power STANDBY2 request. Rejected unless
// the cartridge is READY or OBSERVING; cleared again by a power-off.
func (l *Lifecycle) EnterStandby2() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateReady && l.state != StateObserving {
		return false
	}
	l.standby2 = true
	return true
}

// LeaveStandby2 clears a latched STANDBY2 request.
func (l *Lifecycle) LeaveStandby2() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.standby2 = false
}

// InStandby2 reports whether the cartridge is currently latched in
// STANDBY2.
func (l *Lifecycle) InStandby2() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.standby2
}
