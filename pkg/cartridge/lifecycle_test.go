package cartridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLifecycleHappyPath(t *testing.T) {
	l := NewLifecycle(0)
	require.Equal(t, StateOff, l.State())
	require.True(t, l.PowerOn())
	require.Equal(t, StateOn, l.State())

	require.True(t, l.BeginInit(func(step InitStep) error { return nil }))
	require.Equal(t, StateIniting, l.State())

	for l.PumpInit() {
	}
	require.Equal(t, StateReady, l.State())

	require.True(t, l.BeginObserving())
	require.Equal(t, StateObserving, l.State())
	require.True(t, l.CanGoToStandby())
}

func TestLifecycleInitFailureGoesToError(t *testing.T) {
	l := NewLifecycle(1)
	l.PowerOn()
	calls := 0
	l.BeginInit(func(step InitStep) error {
		calls++
		if step == StepProgramLODefaults {
			return errors.New("boom")
		}
		return nil
	})
	for l.PumpInit() {
	}
	require.Equal(t, StateError, l.State())
	require.Equal(t, 3, calls) // ReadESN, ReadConfig, ProgramLODefaults(fail)
}

func TestErrorIsSinkForPowerCycle(t *testing.T) {
	l := NewLifecycle(2)
	l.PowerOn()
	l.BeginInit(func(step InitStep) error { return errors.New("x") })
	l.PumpInit()
	require.Equal(t, StateError, l.State())
	require.False(t, l.PowerOff())
	require.Equal(t, StateError, l.State())
}

func TestPowerOnRejectedUnlessOff(t *testing.T) {
	l := NewLifecycle(3)
	require.True(t, l.PowerOn())
	require.False(t, l.PowerOn())
}

func TestStandbyRequiresReadyOrObserving(t *testing.T) {
	l := NewLifecycle(4)
	require.False(t, l.CanGoToStandby())
	require.False(t, l.EnterStandby2())
	l.PowerOn()
	require.False(t, l.CanGoToStandby())
	require.False(t, l.EnterStandby2())
}

func TestStandby2LatchClearedByPowerOff(t *testing.T) {
	l := NewLifecycle(5)
	l.PowerOn()
	l.BeginInit(func(step InitStep) error { return nil })
	for l.PumpInit() {
	}
	require.True(t, l.EnterStandby2())
	require.True(t, l.InStandby2())

	l.LeaveStandby2()
	require.False(t, l.InStandby2())

	require.True(t, l.EnterStandby2())
	require.True(t, l.PowerOff())
	require.False(t, l.InStandby2())
}
