// Package serialmux implements the bit-level Serial Mux Driver
// (spec.md §4.1): a hardware-mapped channel to 25 remote devices,
// addressed by port, carrying up to 40 bits of payload in three
// 16-bit words packed low-word-first, plus a 5-bit command.
//
// On real hardware this drives ISA-mapped registers; here the
// registers are simulated in-process (see Registers), with the same
// busy-wait/timeout discipline the teacher uses throughout
// pkg/nmt (time-bounded polling, never a bare spin).
//
// Grounded on pkg/sdo/io.go's low-level buffer/shift handling style and
// bus_manager.go's busy-wait-with-timeout pattern.
package serialmux

import (
	"errors"
	"time"

	"github.com/almafe/femc/pkg/timer"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "[SERIALMUX]")

// PortCount is the number of addressable remote devices on the mux.
const PortCount = 25

// MaxDataLengthBits is the maximum payload width (three 16-bit words).
const MaxDataLengthBits = 40

// BusyWaitTimeout bounds how long Write/Read will wait for the
// controller to report idle (spec.md §4.1).
const BusyWaitTimeout = 1 * time.Second

// ReadyProbeTimeout bounds the boot-time readiness probe.
const ReadyProbeTimeout = 1 * time.Second

var (
	// ErrDataLengthOutOfRange is SerialMux(DataLengthOutOfRange).
	ErrDataLengthOutOfRange = errors.New("serialmux: data length out of range")
	// ErrBusyTimeout is SerialMux(BusyTimeout).
	ErrBusyTimeout = errors.New("serialmux: controller busy bit never cleared")
	// ErrNotReady is SerialMux(NotReady), fatal at boot.
	ErrNotReady = errors.New("serialmux: controller not ready")
)

// Frame is a single mux transaction: a target port, up to 40 bits of
// data packed into three little-endian 16-bit words, the bit length of
// that data, and a 5-bit command.
type Frame struct {
	Port       uint8
	Data       [3]uint16 // low-word-first
	DataLength uint8     // bits, <= 40
	Command    uint8     // 5 bits
}

// Registers simulates the ISA-mapped hardware register file the real
// mux driver programs. A real port would mmap these; the simulation
// models exactly the fields the protocol depends on (busy bit, ready
// bit, port/data/length/command registers) so the higher layers are
// unaffected by which one backs them.
type Registers struct {
	Busy    bool
	Ready   bool
	Port    uint8
	Data    [3]uint16
	Length  uint8
	Command uint8
}

// Driver drives a Registers block with the busy-wait/timeout discipline
// of spec.md §4.1.
type Driver struct {
	regs    *Registers
	timers  *timer.Service
	timerID string
}

// NewDriver builds a mux driver over the given register file, using
// timers for the named busy-wait budget.
func NewDriver(regs *Registers, timers *timer.Service, timerName string) *Driver {
	return &Driver{regs: regs, timers: timers, timerID: timerName}
}

// Ready probes the hardware readiness register at boot. A failure here
// is fatal per spec.md §4.1 — the caller is expected to treat the
// returned error as a boot-abort condition (band 3 of §7).
func (d *Driver) Ready() error {
	ok := d.timers.WaitUntil(d.timerID+"-ready", ReadyProbeTimeout, time.Millisecond, func() bool {
		return d.regs.Ready
	})
	if !ok {
		log.Error("mux controller failed readiness probe at boot")
		return ErrNotReady
	}
	return nil
}

func (d *Driver) waitIdle() error {
	ok := d.timers.WaitUntil(d.timerID+"-busy", BusyWaitTimeout, 100*time.Microsecond, func() bool {
		return !d.regs.Busy
	})
	if !ok {
		return ErrBusyTimeout
	}
	return nil
}

// Write busy-waits for the controller to go idle, then programs the
// port, three data words, length and command registers in that order.
func (d *Driver) Write(f Frame) error {
	if f.DataLength > MaxDataLengthBits {
		return ErrDataLengthOutOfRange
	}
	if err := d.waitIdle(); err != nil {
		return err
	}
	d.regs.Port = f.Port
	d.regs.Data = f.Data
	d.regs.Length = f.DataLength
	d.regs.Command = f.Command
	return nil
}

// Read busy-waits, programs port and read-length, issues the command
// (which initiates the transfer on real hardware), busy-waits again,
// then reads the three data words back.
func (d *Driver) Read(f Frame) (Frame, error) {
	if f.DataLength > MaxDataLengthBits {
		return Frame{}, ErrDataLengthOutOfRange
	}
	if err := d.waitIdle(); err != nil {
		return Frame{}, err
	}
	d.regs.Port = f.Port
	d.regs.Length = f.DataLength
	d.regs.Command = f.Command
	if err := d.waitIdle(); err != nil {
		return Frame{}, err
	}
	out := f
	out.Data = d.regs.Data
	return out, nil
}
