package serial

import (
	"testing"

	"github.com/almafe/femc/pkg/serialmux"
	"github.com/almafe/femc/pkg/timer"
	"github.com/stretchr/testify/require"
)

func TestPortSelectionCartridgeVsFlat(t *testing.T) {
	require.Equal(t, uint8(1), Port(0, SubsystemLO))
	require.Equal(t, uint8(0), Port(0, SubsystemBias))
	require.Equal(t, uint8(19), Port(9, SubsystemLO))
	require.Equal(t, uint8(20), Port(10, SubsystemLO)) // non-cartridge module
}

func TestWriteThenReadRoundTripsThroughMux(t *testing.T) {
	regs := &serialmux.Registers{Ready: true}
	mux := serialmux.NewDriver(regs, timer.NewService(), "t")
	iface := NewInterface(mux)

	req := Request{ModuleID: 2, Subsystem: SubsystemBias, Command: 0x05, SizeBits: 16}
	require.NoError(t, iface.WriteRegister(req, 0xBEEF))

	// Reading back the same register pulls whatever the (simulated)
	// hardware register currently holds, which here is exactly what we
	// just wrote since Read/Write share the Registers block.
	got, err := iface.ReadRegister(req)
	require.NoError(t, err)
	require.Equal(t, uint64(0xBEEF), got)
}

func TestShiftAppliedOnWriteIsReversedOnRead(t *testing.T) {
	regs := &serialmux.Registers{Ready: true}
	mux := serialmux.NewDriver(regs, timer.NewService(), "t")
	iface := NewInterface(mux)

	req := Request{ModuleID: 0, Subsystem: SubsystemLO, Command: 0x01, SizeBits: 16, PreShift: 4, ShiftDir: ShiftLeft}
	require.NoError(t, iface.WriteRegister(req, 0x0ABC&0xFFF))
	got, err := iface.ReadRegister(req)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0ABC&0xFFF), got)
}
