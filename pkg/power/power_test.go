package power

import (
	"testing"

	"github.com/almafe/femc/pkg/cartridge"
	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func newCartridges(allAvailable bool) [10]*cartridge.Cartridge {
	var arr [10]*cartridge.Cartridge
	for i := range arr {
		arr[i] = cartridge.NewCartridge(uint8(i), allAvailable)
	}
	return arr
}

func TestAdmissionCapOperational(t *testing.T) {
	d := NewDistribution(newCartridges(true))
	for i := 0; i < MaxPoweredBandsOperational; i++ {
		require.Equal(t, status.Ok, d.PowerOn(i, ModeOperational))
	}
	require.Equal(t, MaxPoweredBandsOperational, d.PoweredCount())

	// One more should be blocked and stay off.
	st := d.PowerOn(MaxPoweredBandsOperational, ModeOperational)
	require.Equal(t, status.HardwareBlocked, st)
	require.Equal(t, cartridge.StateOff, d.cartridges[MaxPoweredBandsOperational].Lifecycle().State())
}

func TestTroubleshootingAllowsMoreCartridges(t *testing.T) {
	d := NewDistribution(newCartridges(true))
	for i := 0; i < MaxPoweredBandsDebug; i++ {
		require.Equal(t, status.Ok, d.PowerOn(i, ModeTroubleshooting))
	}
	require.Equal(t, MaxPoweredBandsDebug, d.PoweredCount())
}

func TestUnavailableCartridgeBlocked(t *testing.T) {
	d := NewDistribution(newCartridges(false))
	require.Equal(t, status.HardwareBlocked, d.PowerOn(0, ModeOperational))
}

func TestPowerOffDecrementsCount(t *testing.T) {
	d := NewDistribution(newCartridges(true))
	d.PowerOn(0, ModeOperational)
	require.Equal(t, 1, d.PoweredCount())
	require.Equal(t, status.Ok, d.PowerOff(0))
	require.Equal(t, 0, d.PoweredCount())
}
