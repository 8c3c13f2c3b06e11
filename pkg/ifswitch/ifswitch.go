// Package ifswitch implements the IF switch matrix device handler
// (spec.md §2, module 11): it routes the four IF channels (2
// polarizations x 2 sidebands) from one single selected cartridge's
// band to the backend, each channel carrying its own attenuator,
// temperature servo enable, and assembly temperature read-back.
//
// Grounded on _examples/original_source/arcom_fe_mc/ifSwitch.h's
// IF_SWITCH struct (ifChannel[Po][Sb] plus a single shared
// bandSelect/lastBandSelect, NOT a per-channel cartridge select) and
// ifChannel.h's IF_CHANNEL struct (ifTempServo, attenuation,
// assemblyTemp, lastAttenuation), reconciled against pkg/cartridge's
// SetX/MonitorX handler shape.
package ifswitch

import (
	"github.com/almafe/femc/internal/opvar"
	"github.com/almafe/femc/pkg/status"
)

// ChannelCount is the number of IF channels routed by the matrix
// (2 polarizations x 2 sidebands), matching the original's
// IF_CHANNELS_NUMBER.
const ChannelCount = 4

// CartridgeCount bounds the single shared band select.
const CartridgeCount = 10

// AttenuatorMaxCounts bounds the attenuator in 0.5 dB steps (0..31.5 dB).
const AttenuatorMaxCounts = 63

// TempServo is a channel's IF temperature servo enable bit (ifTempServo.h).
type TempServo struct {
	Enable     bool
	LastEnable opvar.LastControlMessage
}

// Channel is one IF path (ifChannel.h): a temperature servo, an
// attenuator, and an assembly temperature read-back. Unlike the
// previous revision of this package, a channel does NOT carry its own
// cartridge selection — that is a single value shared by all four
// channels (see IFSwitch.BandSelect).
type Channel struct {
	TempServo      TempServo
	Attenuator     opvar.Uint
	AssemblyTemp   opvar.Float
	LastAttenuator opvar.LastControlMessage
}

// IFSwitch is the full switch matrix: four channels plus the one
// bandSelect that routes all of them to a single cartridge's IF
// outputs at a time (ifSwitch.h: "unsigned char bandSelect[Op]").
type IFSwitch struct {
	Channels       [ChannelCount]Channel
	BandSelect     opvar.Uint
	LastBandSelect opvar.LastControlMessage
}

// New returns an IFSwitch with band select defaulted to cartridge 0
// and zero attenuation on every channel.
func New() *IFSwitch {
	s := &IFSwitch{}
	s.BandSelect = opvar.NewUint(0)
	s.BandSelect.MaxSet = CartridgeCount - 1
	for i := range s.Channels {
		s.Channels[i].Attenuator = opvar.NewUint(0)
		s.Channels[i].Attenuator.MaxSet = AttenuatorMaxCounts
	}
	return s
}

// SetBandSelect routes all four IF channels to cartridgeID's band at
// once (ifSwitch.h: one bandSelectHandler shared across the whole
// switch, not one per channel).
func (s *IFSwitch) SetBandSelect(cartridgeID uint8, write func(uint8) status.Status) status.Status {
	if !s.BandSelect.InRange(uint32(cartridgeID)) {
		s.LastBandSelect.Set([]byte{cartridgeID}, status.OutOfRange)
		return status.OutOfRange
	}
	st := write(cartridgeID)
	s.LastBandSelect.Set([]byte{cartridgeID}, st)
	if st == status.Ok {
		s.BandSelect.SetCurrent(uint32(cartridgeID))
	}
	return st
}

// SetAttenuator sets channel's attenuator, range-checked against the
// opvar's configured MinSet/MaxSet. payload is the raw control-message
// bytes, echoed back verbatim on a subsequent monitor-on-control.
func (s *IFSwitch) SetAttenuator(channel int, counts uint32, payload []byte, write func(uint32) status.Status) status.Status {
	if channel < 0 || channel >= ChannelCount {
		return status.HardwareRange
	}
	ch := &s.Channels[channel]
	if !ch.Attenuator.InRange(counts) {
		ch.LastAttenuator.Set(payload, status.OutOfRange)
		return status.OutOfRange
	}
	st := write(counts)
	ch.LastAttenuator.Set(payload, st)
	if st == status.Ok {
		ch.Attenuator.SetCurrent(counts)
	}
	return st
}

// SetTempServoEnable toggles channel's IF temperature servo.
func (s *IFSwitch) SetTempServoEnable(channel int, enable bool, write func(bool) status.Status) status.Status {
	if channel < 0 || channel >= ChannelCount {
		return status.HardwareRange
	}
	ts := &s.Channels[channel].TempServo
	st := write(enable)
	payload := byte(0)
	if enable {
		payload = 1
	}
	ts.LastEnable.Set([]byte{payload}, st)
	if st == status.Ok {
		ts.Enable = enable
	}
	return st
}

// MonitorAssemblyTemp returns channel's cached assembly temperature.
func (s *IFSwitch) MonitorAssemblyTemp(channel int) (float64, status.Status) {
	if channel < 0 || channel >= ChannelCount {
		return 0, status.HardwareRange
	}
	v, ok := s.Channels[channel].AssemblyTemp.Current()
	if !ok {
		return 0, status.HardwareError
	}
	return v, status.Ok
}
