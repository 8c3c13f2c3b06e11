package cartridge

import (
	"testing"

	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestSetPADrainVoltageBlockedAboveMaxTemp(t *testing.T) {
	c := NewCartridge(0, true)
	c.Temperatures[0].SetCurrent(35.0)

	called := false
	st := c.SetPADrainVoltage(0, 1.0, []byte{0, 0, 0, 0}, func(float64) status.Status {
		called = true
		return status.Ok
	})
	require.Equal(t, status.HardwareBlocked, st)
	require.False(t, called)
}

func TestSetPAGateVoltageAllowedBelowMaxTemp(t *testing.T) {
	c := NewCartridge(0, true)
	c.Temperatures[0].SetCurrent(4.0)
	c.Temperatures[1].SetCurrent(12.0)

	st := c.SetPAGateVoltage(0, 2.5, []byte{0, 0, 0, 0}, func(float64) status.Status {
		return status.Ok
	})
	require.Equal(t, status.Ok, st)
	v, ok := c.LO.PA.GateVoltage[0].Current()
	require.True(t, ok)
	require.InDelta(t, 2.5, v, 1e-9)
}
