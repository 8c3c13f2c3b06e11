package cartridge

import "github.com/almafe/femc/pkg/status"

// SetVoltage is the SIS mixer bias control handler (spec.md §3): range
// checks the requested set-point against MinSet/MaxSet before driving
// hardware, then records the echoed last-control-message regardless of
// outcome (spec.md §3 invariant).
func (m *SISMixer) SetVoltage(mv float64, payload []byte, write func(float64) status.Status) status.Status {
	st := status.OutOfRange
	if mv >= m.Voltage.MinSet && mv <= m.Voltage.MaxSet {
		st = write(mv)
		if st == status.Ok {
			m.Voltage.SetCurrent(mv)
		}
	}
	m.LastControl.Set(payload, st)
	return st
}

// SetCurrent is the SIS magnet coil control handler, same shape as
// SISMixer.SetVoltage.
func (g *SISMagnet) SetCurrent(ma float64, payload []byte, write func(float64) status.Status) status.Status {
	st := status.OutOfRange
	if ma >= g.Current.MinSet && ma <= g.Current.MaxSet {
		st = write(ma)
		if st == status.Ok {
			g.Current.SetCurrent(ma)
		}
	}
	g.LastControl.Set(payload, st)
	return st
}

// SetEnable and SetLED are the LNA's two boolean control points. The
// LNA carries no range thresholds (it is a bias stage, not a
// continuously variable set-point), so unlike SISMixer/SISMagnet these
// never return OutOfRange.
func (l *LNA) SetEnable(enable bool, payload []byte, write func(bool) status.Status) status.Status {
	st := write(enable)
	if st == status.Ok {
		l.Enabled = enable
	}
	l.LastEnable.Set(payload, st)
	return st
}

func (l *LNA) SetLED(on bool, payload []byte, write func(bool) status.Status) status.Status {
	st := write(on)
	if st == status.Ok {
		l.LEDOn = on
	}
	l.LastLED.Set(payload, st)
	return st
}
