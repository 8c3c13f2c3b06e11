package ifswitch

import (
	"testing"

	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestSetBandSelectRangeChecks(t *testing.T) {
	s := New()

	st := s.SetBandSelect(3, func(uint8) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	v, ok := s.BandSelect.Current()
	require.True(t, ok)
	require.EqualValues(t, 3, v)

	st = s.SetBandSelect(10, func(uint8) status.Status { return status.Ok })
	require.Equal(t, status.OutOfRange, st)
}

func TestSetAttenuatorRangeChecks(t *testing.T) {
	s := New()

	st := s.SetAttenuator(1, 20, []byte{20}, func(uint32) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	require.Equal(t, []byte{20, byte(status.Ok)}, s.Channels[1].LastAttenuator.Bytes())

	st = s.SetAttenuator(1, AttenuatorMaxCounts+1, []byte{AttenuatorMaxCounts + 1}, func(uint32) status.Status { return status.Ok })
	require.Equal(t, status.OutOfRange, st)
	require.Equal(t, []byte{AttenuatorMaxCounts + 1, byte(status.OutOfRange)}, s.Channels[1].LastAttenuator.Bytes())
}

func TestSetBandSelectHardwareFailureLeavesCacheUntouched(t *testing.T) {
	s := New()
	st := s.SetBandSelect(5, func(uint8) status.Status { return status.HardwareError })
	require.Equal(t, status.HardwareError, st)
	v, _ := s.BandSelect.Current()
	require.EqualValues(t, 0, v)
}

func TestSetTempServoEnable(t *testing.T) {
	s := New()
	st := s.SetTempServoEnable(2, true, func(bool) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	require.True(t, s.Channels[2].TempServo.Enable)
	require.Equal(t, []byte{1, byte(status.Ok)}, s.Channels[2].TempServo.LastEnable.Bytes())
}

func TestMonitorAssemblyTempUninitialized(t *testing.T) {
	s := New()
	_, st := s.MonitorAssemblyTemp(0)
	require.Equal(t, status.HardwareError, st)

	s.Channels[0].AssemblyTemp.SetCurrent(295.0)
	v, st := s.MonitorAssemblyTemp(0)
	require.Equal(t, status.Ok, st)
	require.Equal(t, 295.0, v)

	_, st = s.MonitorAssemblyTemp(9)
	require.Equal(t, status.HardwareRange, st)
}
