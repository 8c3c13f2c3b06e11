package cryostat

import (
	"testing"

	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestAcquisitionSettlesAfterChannelSwitch(t *testing.T) {
	a := NewAcquisition()

	// First request on any channel always triggers a full settle.
	require.Equal(t, status.HardwareRetry, a.RequestChannel(0))
	for i := 0; i < SettleReadoutCount-1; i++ {
		require.Equal(t, status.HardwareRetry, a.RequestChannel(0))
	}
	require.Equal(t, status.Ok, a.RequestChannel(0))
	require.Equal(t, 0, a.ReadoutsRemaining())

	// Switching channel reloads the counter: first 10 reads retry, 11th ok.
	for i := 0; i < SettleReadoutCount; i++ {
		require.Equal(t, status.HardwareRetry, a.RequestChannel(3))
	}
	require.Equal(t, status.Ok, a.RequestChannel(3))
	require.Equal(t, 0, a.ReadoutsRemaining())

	// Staying on the same channel keeps returning Ok.
	require.Equal(t, status.Ok, a.RequestChannel(3))
}

func TestAcquisitionReselectingSameChannelDoesNotReload(t *testing.T) {
	a := NewAcquisition()
	for i := 0; i < SettleReadoutCount; i++ {
		a.RequestChannel(1)
	}
	require.Equal(t, status.Ok, a.RequestChannel(1))
	require.Equal(t, status.Ok, a.RequestChannel(1))
}
