package fetim

// GlitchCounterMax bounds the glitch counter (spec.md §4.8: "a
// continuously decrementing counter that latches shutdown on repeated
// triggers"). Chosen so a sustained fault latches shutdown well inside
// the 1s acquisition period's worth of ticks, while a single transient
// glitch recovers without tripping the interlock.
const GlitchCounterMax = 10

// MultiSensorFailThreshold is the sensor fail count at or above which
// the state layer reports MultiSensorFail.
const MultiSensorFailThreshold = 2

// StateLayer is FETIM's shutdown-latching observer. MultiSensorFail and
// DelayTriggered reflect the current tick; ShutdownTriggered is sticky
// once set, per spec.md §4.8 ("interlock-triggered shutdowns are
// reflected back as HardwareBlocked on subsequent enable commands").
type StateLayer struct {
	MultiSensorFail  bool
	DelayTriggered   bool
	ShutdownTriggered bool
	GlitchCounter    int
}

// Tick evaluates one acquisition cycle's sensor snapshot against the
// state layer. A fault (single or multi sensor) decrements the glitch
// counter; a clean reading lets it recover, capped at GlitchCounterMax.
// Repeated faults that exhaust the counter latch ShutdownTriggered.
func (s *StateLayer) Tick(sensors *SensorLayer) {
	failCount := sensors.FailCount()
	s.MultiSensorFail = failCount >= MultiSensorFailThreshold
	faulted := failCount > 0

	s.DelayTriggered = faulted
	if faulted {
		if s.GlitchCounter > 0 {
			s.GlitchCounter--
		}
		if s.GlitchCounter == 0 {
			s.ShutdownTriggered = true
		}
	} else if s.GlitchCounter < GlitchCounterMax {
		s.GlitchCounter++
	}
}

// Reset clears a latched shutdown, the only way to recover once
// ShutdownTriggered is set (an explicit operator action, not automatic
// recovery on a clean reading).
func (s *StateLayer) Reset() {
	s.ShutdownTriggered = false
	s.GlitchCounter = GlitchCounterMax
	s.DelayTriggered = false
	s.MultiSensorFail = false
}
