package cryostat

import (
	"testing"

	"github.com/almafe/femc/pkg/errring"
	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestGateValveRequiresBackingPump(t *testing.T) {
	c := &Cryostat{}
	ring := errring.New()

	st := c.OpenGateValve(ring)
	require.Equal(t, status.HardwareBlocked, st)
	require.Equal(t, ValveClosed, c.GateValve.State)

	c.EnableBackingPump()
	st = c.OpenGateValve(ring)
	require.Equal(t, status.Ok, st)
	require.Equal(t, ValveOpen, c.GateValve.State)
}

func TestGateValveBlockedWhileInTransit(t *testing.T) {
	c := &Cryostat{}
	c.EnableBackingPump()
	c.GateValve.State = ValveUnknown

	st := c.OpenGateValve(nil)
	require.Equal(t, status.HardwareBlocked, st)
	require.Equal(t, ValveUnknown, c.GateValve.State)
}

func TestTurboPumpRequiresBackingPumpAndTemperature(t *testing.T) {
	c := &Cryostat{}
	ring := errring.New()

	st := c.EnableTurboPump(nil, ring)
	require.Equal(t, status.HardwareBlocked, st)
	require.False(t, c.TurboPump.Enabled)

	c.EnableBackingPump()
	hot := func() (float64, bool) { return 60.0, true }
	st = c.EnableTurboPump(hot, ring)
	require.Equal(t, status.HardwareBlocked, st)
	require.False(t, c.TurboPump.Enabled)

	inRange := func() (float64, bool) { return 20.0, true }
	st = c.EnableTurboPump(inRange, ring)
	require.Equal(t, status.Ok, st)
	require.True(t, c.TurboPump.Enabled)
}

func TestTurboPumpSkipsTemperatureCheckWhenFETIMAbsent(t *testing.T) {
	c := &Cryostat{}
	c.EnableBackingPump()
	st := c.EnableTurboPump(nil, nil)
	require.Equal(t, status.Ok, st)
}

func TestDisableBackingPumpCascades(t *testing.T) {
	c := &Cryostat{}
	c.EnableBackingPump()
	c.OpenGateValve(nil)
	c.SolenoidValve.State = ValveOpen
	c.EnableTurboPump(nil, nil)

	st := c.DisableBackingPump(nil)
	require.Equal(t, status.Ok, st)
	require.False(t, c.BackingPump.Enabled)
	require.Equal(t, ValveClosed, c.GateValve.State)
	require.Equal(t, ValveClosed, c.SolenoidValve.State)
	require.False(t, c.TurboPump.Enabled)
}

func TestDisableBackingPumpAbortsCascadeOnValveInTransit(t *testing.T) {
	c := &Cryostat{}
	c.EnableBackingPump()
	c.GateValve.State = ValveUnknown

	st := c.DisableBackingPump(nil)
	require.Equal(t, status.HardwareBlocked, st)
	// Backing pump is already off (set first); cascade stopped at the
	// gate valve step, leaving solenoid/turbo untouched.
	require.False(t, c.BackingPump.Enabled)
	require.Equal(t, ValveUnknown, c.GateValve.State)
}

func TestSupply230VCurrentRequiresBackingPump(t *testing.T) {
	c := &Cryostat{}
	_, st := c.Supply230VCurrent()
	require.Equal(t, status.HardwareBlocked, st)

	c.EnableBackingPump()
	c.SupplyCurrent230.SetCurrent(1.23)
	v, st := c.Supply230VCurrent()
	require.Equal(t, status.Ok, st)
	require.InDelta(t, 1.23, v, 1e-9)
}
