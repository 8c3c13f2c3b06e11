package dispatch

import (
	"testing"

	"github.com/almafe/femc/internal/wire"
	"github.com/almafe/femc/pkg/canbus"
	"github.com/almafe/femc/pkg/rca"
	"github.com/almafe/femc/pkg/status"
	"github.com/stretchr/testify/require"
)

func TestRCARangeQueryReportsFullAddressSpace(t *testing.T) {
	d := newTestDispatcher(t)

	reply, ok := d.dispatch(canbus.NewFrame(specRCARange, nil))
	require.True(t, ok)

	lo := wire.EncodeUint32LE(rca.FirstAddressableRCA)
	hi := wire.EncodeUint32LE(rca.LastAddressableRCA)
	expected := append(append([]byte{}, lo[:]...), hi[:]...)
	expected = append(expected, byte(status.Ok))
	require.Equal(t, expected, reply.Data())
}

// The ESN-list special monitor walks all ten cartridges in order, then
// reports 0x00x8 once and resets, ready to walk again from cartridge 0.
func TestESNListIteratorWalksAndResets(t *testing.T) {
	d := newTestDispatcher(t)
	d.fe.Cartridges[0].ESN = [8]byte{1, 2, 3, 4, 5, 6, 7, 8}

	first, ok := d.dispatch(canbus.NewFrame(specESNList, nil))
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, byte(status.Ok)}, first.Data())

	// Cartridges 1-9 have no ESN configured, so they report the "none"
	// sentinel (0xFF x8) from NewCartridge's default.
	for i := 0; i < 9; i++ {
		reply, ok := d.dispatch(canbus.NewFrame(specESNList, nil))
		require.True(t, ok)
		require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, byte(status.Ok)}, reply.Data())
	}

	endOfList, ok := d.dispatch(canbus.NewFrame(specESNList, nil))
	require.True(t, ok)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, byte(status.Ok)}, endOfList.Data())

	// The iterator reset; walking again starts back at cartridge 0.
	again, ok := d.dispatch(canbus.NewFrame(specESNList, nil))
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, byte(status.Ok)}, again.Data())
}

// Open Question Resolution F.3: the LO PA limits table ESN special
// monitor reads the cartridge's cached config regardless of power
// state (the cartridge is never powered on in this test).
func TestLOPALimitsESNReadsCachedConfigRegardlessOfPowerState(t *testing.T) {
	d := newTestDispatcher(t)
	d.fe.Cartridges[0].PALimitsESN = [8]byte{9, 9, 9, 9, 9, 9, 9, 9}

	reply, ok := d.dispatch(canbus.NewFrame(specPALimitsESNBase, nil))
	require.True(t, ok)
	require.Equal(t, []byte{9, 9, 9, 9, 9, 9, 9, 9, byte(status.Ok)}, reply.Data())
}

func TestSpecialControlRebootAndExitLatchFlags(t *testing.T) {
	d := newTestDispatcher(t)

	_, ok := d.dispatch(canbus.NewFrame(specReboot, nil))
	require.False(t, ok)
	require.True(t, d.RebootRequested())
	require.False(t, d.ExitRequested())

	_, ok = d.dispatch(canbus.NewFrame(specExit, nil))
	require.False(t, ok)
	require.True(t, d.ExitRequested())
}

func TestUnknownSpecialMonitorIsLoggedAndRangeReplied(t *testing.T) {
	d := newTestDispatcher(t)

	reply, ok := d.dispatch(canbus.NewFrame(0x20FFF, nil))
	require.True(t, ok)
	require.Equal(t, byte(status.HardwareRange), reply.Data()[len(reply.Data())-1])

	entry, ok := d.fe.Errors.Next()
	require.True(t, ok)
	require.Equal(t, ModuleCAN, entry.Module)
	require.Equal(t, ErrCodeUnknownSpecial, entry.Code)
}
