package rca

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeStandardMonitor(t *testing.T) {
	// Module=Cryostat(12), submodule=0x003, class=Monitor
	raw := uint32(0x0<<16 | 0xC<<12 | 0x003)
	r := Decode(raw)
	require.False(t, r.Special)
	require.Equal(t, ClassMonitor, r.Class)
	require.Equal(t, ModuleCryostat, r.Module)
	require.Equal(t, uint16(0x003), r.Submodule)
}

func TestDecodeStandardControl(t *testing.T) {
	raw := uint32(0x1<<16 | 0x2<<12 | 0x010)
	r := Decode(raw)
	require.Equal(t, ClassControl, r.Class)
	require.True(t, r.IsControlRange())
	require.False(t, r.IsMonitorRange())
}

func TestDecodeSpecial(t *testing.T) {
	r := Decode(0x20002)
	require.True(t, r.Special)
	require.False(t, r.IsSpecialControl())

	c := Decode(0x21001)
	require.True(t, c.Special)
	require.True(t, c.IsSpecialControl())
}

func TestCartridgeModuleRange(t *testing.T) {
	require.True(t, ModuleCartridge9.IsCartridge())
	require.False(t, ModulePowerDistribution.IsCartridge())
}
