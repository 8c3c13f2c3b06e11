package lpr

import (
	"testing"

	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestSetSSI10MHzEnableRecordsLastControl(t *testing.T) {
	l := New()
	st := l.SetSSI10MHzEnable(true, func(bool) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	require.True(t, l.SSI10MHzEnable)
	require.Equal(t, []byte{1, byte(status.Ok)}, l.LastSSI10MHzEnable.Bytes())
}

func TestMonitorTempBounds(t *testing.T) {
	l := New()
	_, st := l.MonitorTemp(0)
	require.Equal(t, status.HardwareError, st)

	l.Temps[1].SetCurrent(291.2)
	v, st := l.MonitorTemp(1)
	require.Equal(t, status.Ok, st)
	require.Equal(t, 291.2, v)

	_, st = l.MonitorTemp(TempSensorCount)
	require.Equal(t, status.HardwareRange, st)
}

func TestOpticalSwitchPortAndShutter(t *testing.T) {
	l := New()
	st := l.SetOpticalSwitchPort(3, func(uint8) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	v, ok := l.OpticalSwitch.Port.Current()
	require.True(t, ok)
	require.EqualValues(t, 3, v)

	st = l.SetOpticalSwitchShutter(true, func(bool) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	require.True(t, l.OpticalSwitch.ShutterEnable)
}

// The force shutter is control-only (opticalSwitch.h): it leaves no
// monitor-visible cached state beyond the echoed last control message.
func TestForceOpticalSwitchShutterHasNoCachedState(t *testing.T) {
	l := New()
	st := l.ForceOpticalSwitchShutter(func() status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	require.Equal(t, []byte{1, byte(status.Ok)}, l.OpticalSwitch.LastForceShutter.Bytes())
	require.False(t, l.OpticalSwitch.ShutterEnable)
}

func TestSetLaserDriveCurrent(t *testing.T) {
	l := New()
	st := l.SetLaserDriveCurrent(1000, []byte{0x03, 0xE8}, func(float64) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	v, ok := l.EDFA.Laser.DriveCurrent.Current()
	require.True(t, ok)
	require.Equal(t, 1000.0, v)
}

func TestMonitorPhotoDetectorPowerAppliesCoeff(t *testing.T) {
	l := New()
	l.EDFA.PhotoDetector.Coeff = 2.5
	l.EDFA.PhotoDetector.Current.SetCurrent(4.0)
	power, st := l.MonitorPhotoDetectorPower()
	require.Equal(t, status.Ok, st)
	require.Equal(t, 10.0, power)
}
