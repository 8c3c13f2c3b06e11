package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/almafe/femc/pkg/cartridge"
	"github.com/almafe/femc/pkg/config"
	"github.com/almafe/femc/pkg/power"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestInitLoadsCartridgesAndCryostat(t *testing.T) {
	dir := t.TempDir()

	cryostatPath := writeFile(t, dir, "cryostat.ini", "[tvo0]\nc0=1.0\n[pressure0]\noffset=0\nscale=1\n[pressure1]\noffset=0\nscale=1\n")
	cart0Path := writeFile(t, dir, "cartridge0.ini", "[cartridge]\navailable=true\nyto_min_counts=0\nyto_max_counts=65535\n")

	cfg := &config.Frontend{
		CryostatPath: cryostatPath,
		ColdHeadPath: filepath.Join(dir, "coldhead.ini"),
	}
	cfg.CartridgePaths[0] = cart0Path

	f := New(cfg)
	err := f.Init()
	require.NoError(t, err)

	require.True(t, f.Cartridges[0].Available)
	require.Equal(t, cartridge.StateOff, f.Cartridges[0].Lifecycle().State())
	require.False(t, f.Cartridges[1].Available)
	require.NotNil(t, f.Cryostat)
	require.NotNil(t, f.Power)
}

func TestInitWiresESNListLPRAndFETIM(t *testing.T) {
	dir := t.TempDir()

	cryostatPath := writeFile(t, dir, "cryostat.ini", "[tvo0]\nc0=1.0\n[pressure0]\noffset=0\nscale=1\n[pressure1]\noffset=0\nscale=1\n")
	esnPath := writeFile(t, dir, "esns.ini", "[esns]\ncartridge3 = 0102030405060708\n")
	lprPath := writeFile(t, dir, "lpr.ini", "[lpr]\nphotodetector_coeff = 0.5\noptical_switch_ports = 8\n")

	cfg := &config.Frontend{
		CryostatPath: cryostatPath,
		LPRPath:      lprPath,
		ESNListPath:  esnPath,
		ColdHeadPath: filepath.Join(dir, "coldhead.ini"),
		FETIMPresent: true,
	}

	f := New(cfg)
	require.NoError(t, f.Init())

	require.Equal(t, [8]byte{1, 2, 3, 4, 5, 6, 7, 8}, f.Cartridges[3].ESN)
	require.Equal(t, [8]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, f.Cartridges[0].ESN)
	require.Equal(t, 0.5, f.LPR.EDFA.PhotoDetector.Coeff)
	require.EqualValues(t, 7, f.LPR.OpticalSwitch.Port.MaxSet)
	require.True(t, f.FETIM.Present)
}

func TestSetModeTranslatesToPowerMode(t *testing.T) {
	f := &Frontend{Mode: ModeOperational}
	require.Equal(t, power.ModeOperational, f.PowerMode())

	f.SetMode(ModeTroubleshooting)
	require.Equal(t, power.ModeTroubleshooting, f.PowerMode())

	f.SetMode(ModeMaintenance)
	require.Equal(t, power.ModeOperational, f.PowerMode())
}
