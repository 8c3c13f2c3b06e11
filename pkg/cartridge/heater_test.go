package cartridge

import (
	"testing"

	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestHeaterSetControlSuccess(t *testing.T) {
	h := &SISHeater{}
	st := h.SetControl(true, func(enable bool) status.Status { return status.Ok })
	require.Equal(t, status.Ok, st)
	require.True(t, h.Enable)
	require.Equal(t, []byte{1, byte(status.Ok)}, h.MonitorControl())
}

func TestHeaterSetControlBlockedDoesNotChangeCache(t *testing.T) {
	h := &SISHeater{Enable: false}
	st := h.SetControl(true, func(enable bool) status.Status { return status.HardwareBlocked })
	require.Equal(t, status.HardwareBlocked, st)
	require.False(t, h.Enable)
	require.Equal(t, []byte{1, byte(status.HardwareBlocked)}, h.MonitorControl())
}
