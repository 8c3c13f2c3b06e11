package serialmux

import (
	"testing"
	"time"

	"github.com/almafe/femc/pkg/timer"
	"github.com/stretchr/testify/require"
)

func TestReadyProbeFailsWhenNeverReady(t *testing.T) {
	regs := &Registers{Ready: false}
	d := NewDriver(regs, timer.NewService(), "mux0")
	err := d.Ready()
	require.ErrorIs(t, err, ErrNotReady)
}

func TestReadyProbeSucceeds(t *testing.T) {
	regs := &Registers{}
	go func() {
		time.Sleep(2 * time.Millisecond)
		regs.Ready = true
	}()
	d := NewDriver(regs, timer.NewService(), "mux0")
	require.NoError(t, d.Ready())
}

func TestWriteRejectsOversizedLength(t *testing.T) {
	regs := &Registers{}
	d := NewDriver(regs, timer.NewService(), "mux0")
	err := d.Write(Frame{Port: 0, DataLength: 41})
	require.ErrorIs(t, err, ErrDataLengthOutOfRange)
}

func TestWriteProgramsRegisters(t *testing.T) {
	regs := &Registers{}
	d := NewDriver(regs, timer.NewService(), "mux0")
	f := Frame{Port: 3, Data: [3]uint16{0x1111, 0x2222, 0x3333}, DataLength: 40, Command: 0x1A}
	require.NoError(t, d.Write(f))
	require.Equal(t, uint8(3), regs.Port)
	require.Equal(t, f.Data, regs.Data)
	require.Equal(t, uint8(40), regs.Length)
	require.Equal(t, uint8(0x1A), regs.Command)
}

func TestReadBusyTimesOut(t *testing.T) {
	regs := &Registers{Busy: true}
	d := NewDriver(regs, timer.NewService(), "mux0")
	_, err := d.Read(Frame{Port: 1, DataLength: 16, Command: 0x05})
	require.ErrorIs(t, err, ErrBusyTimeout)
}
