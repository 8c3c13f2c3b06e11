package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoadFrontend(t *testing.T) {
	path := writeTemp(t, `
[frontend]
cryostat = cryostat.ini
lpr = lpr.ini
cartridge0 = cart0.ini
cartridge9 = cart9.ini
esns = esns.ini
coldhead = coldhead.ini
`)
	fe, err := LoadFrontend(path)
	require.NoError(t, err)
	require.Equal(t, "cryostat.ini", fe.CryostatPath)
	require.Equal(t, "cart0.ini", fe.CartridgePaths[0])
	require.Equal(t, "cart9.ini", fe.CartridgePaths[9])
}

func TestLoadCryostat(t *testing.T) {
	path := writeTemp(t, `
[tvo0]
c0 = 1.0
c1 = 2.0
c2 = 3.0
c3 = 4.0
c4 = 5.0
c5 = 6.0
c6 = 7.0

[pressure0]
offset = 0.5
scale = 2.0
`)
	cfg, err := LoadCryostat(path)
	require.NoError(t, err)
	require.Equal(t, TVOCoefficients{1, 2, 3, 4, 5, 6, 7}, cfg.TVO[0])
	require.Equal(t, 0.5, cfg.Pressure[0].Offset)
	require.Equal(t, 2.0, cfg.Pressure[0].Scale)
}

func TestLoadFrontendFETIMPresence(t *testing.T) {
	path := writeTemp(t, "[frontend]\ncryostat = cryostat.ini\nfetim = true\n")
	fe, err := LoadFrontend(path)
	require.NoError(t, err)
	require.True(t, fe.FETIMPresent)
}

func TestLoadLPR(t *testing.T) {
	path := writeTemp(t, `
[lpr]
photodetector_coeff = 0.25
optical_switch_ports = 6
`)
	cfg, err := LoadLPR(path)
	require.NoError(t, err)
	require.Equal(t, 0.25, cfg.PhotoDetectorCoeff)
	require.EqualValues(t, 6, cfg.OpticalSwitchPorts)
}

func TestColdHeadAccumulatesHourlyAndSaturates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coldhead.ini")
	ch := LoadColdHead(path)
	require.Equal(t, uint32(0), ch.Hours)

	persisted := ch.Accumulate(1800) // half hour, no rollover yet
	require.False(t, persisted)
	require.Equal(t, uint32(0), ch.Hours)

	persisted = ch.Accumulate(1800) // crosses the hour boundary
	require.True(t, persisted)
	require.Equal(t, uint32(1), ch.Hours)

	reloaded := LoadColdHead(path)
	require.Equal(t, uint32(1), reloaded.Hours)
}
