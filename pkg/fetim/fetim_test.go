package fetim

import (
	"testing"

	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestSingleSensorFail(t *testing.T) {
	var s SensorLayer
	require.False(t, s.SingleSensorFail())

	s.AirFlowOutOfRange = true
	require.True(t, s.SingleSensorFail())

	s.TemperatureOutOfRange[0] = true
	require.False(t, s.SingleSensorFail())
	require.Equal(t, 2, s.FailCount())
}

func TestGlitchCounterLatchesShutdownOnSustainedFault(t *testing.T) {
	f := New()
	f.Present = true
	f.Compressor.TempFault = true

	for i := 0; i < GlitchCounterMax; i++ {
		f.Tick()
		require.False(t, f.State.ShutdownTriggered, "tick %d", i)
	}
	f.Tick()
	require.True(t, f.State.ShutdownTriggered)
	require.Equal(t, status.HardwareBlocked, f.EnableGuard())
}

func TestGlitchCounterRecoversOnTransientFault(t *testing.T) {
	f := New()
	f.Compressor.TempFault = true
	f.Tick()
	f.Tick()
	require.Equal(t, GlitchCounterMax-2, f.State.GlitchCounter)

	f.Compressor.TempFault = false
	f.Tick()
	f.Tick()
	require.Equal(t, GlitchCounterMax, f.State.GlitchCounter)
	require.False(t, f.State.ShutdownTriggered)
}

func TestResetClearsLatchedShutdown(t *testing.T) {
	f := New()
	f.Present = true
	f.Compressor.TempFault = true
	for i := 0; i <= GlitchCounterMax; i++ {
		f.Tick()
	}
	require.True(t, f.State.ShutdownTriggered)

	f.State.Reset()
	require.Equal(t, status.Ok, f.EnableGuard())
}

func TestEnableGuardIgnoredWhenNotPresent(t *testing.T) {
	f := New()
	f.State.ShutdownTriggered = true
	require.Equal(t, status.Ok, f.EnableGuard())
}

func TestTurboBayTemperatureUnavailableWhenAbsent(t *testing.T) {
	f := New()
	_, ok := f.TurboBayTemperatureC()
	require.False(t, ok)

	f.Present = true
	f.Compressor.Temperatures[0].SetCurrent(22.5)
	v, ok := f.TurboBayTemperatureC()
	require.True(t, ok)
	require.InDelta(t, 22.5, v, 1e-9)
}
