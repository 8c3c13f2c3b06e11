// Package serial implements the Serial Interface (spec.md §4.2): a
// value-level wrapper around the Serial Mux Driver that knows how to
// pack/unpack a register of a given bit size into the mux's 3x16-bit
// frame, including the module-dependent port selection rule.
package serial

import (
	"github.com/almafe/femc/pkg/serialmux"
)

// Mode selects whether a transaction is a register read or write.
type Mode uint8

const (
	Read Mode = iota
	Write
)

// ShiftDirection controls which way the pre-shift is applied before
// packing (Write) or after unpacking (Read).
type ShiftDirection uint8

const (
	ShiftLeft ShiftDirection = iota
	ShiftRight
)

// Subsystem distinguishes the two serial sub-busses inside a cartridge
// (spec.md §4.2 port selection rule).
type Subsystem uint8

const (
	SubsystemLO   Subsystem = 0
	SubsystemBias Subsystem = 1
)

// CartridgeCount mirrors rca.CartridgeCount without importing pkg/rca,
// to keep this package dependency-light (it is below rca in the
// dependency graph: device handlers depend on both).
const CartridgeCount = 10

// Port computes the mux port for a given module id (0..9 cartridge,
// else a flat module index) and subsystem, per spec.md §4.2:
//
//	if module is a cartridge (0..9): port = 2*cartridge + (1 - subsystemBit)
//	else: port = CartridgeCount + moduleID
func Port(moduleID uint8, subsystem Subsystem) uint8 {
	if moduleID < CartridgeCount {
		return 2*moduleID + uint8(1-int(subsystem))
	}
	return CartridgeCount + moduleID
}

// Request describes one register-level transaction.
type Request struct {
	ModuleID   uint8
	Subsystem  Subsystem
	Command    uint8 // 5-bit mux command identifying the target register
	SizeBits   uint8 // declared register size, 1..64
	PreShift   uint8
	ShiftDir   ShiftDirection
	Mode       Mode
}

// Interface wraps a serialmux.Driver with the value-level read/write
// semantics of spec.md §4.2.
type Interface struct {
	mux *serialmux.Driver
}

// NewInterface builds a Serial Interface over the given mux driver.
func NewInterface(mux *serialmux.Driver) *Interface {
	return &Interface{mux: mux}
}

func shift(v uint64, amount uint8, dir ShiftDirection) uint64 {
	if amount == 0 {
		return v
	}
	if dir == ShiftLeft {
		return v << amount
	}
	return v >> amount
}

func inverse(dir ShiftDirection) ShiftDirection {
	if dir == ShiftLeft {
		return ShiftRight
	}
	return ShiftLeft
}

func pack3x16(v uint64) [3]uint16 {
	return [3]uint16{
		uint16(v & 0xFFFF),
		uint16((v >> 16) & 0xFFFF),
		uint16((v >> 32) & 0xFFFF),
	}
}

func unpack3x16(w [3]uint16) uint64 {
	return uint64(w[0]) | uint64(w[1])<<16 | uint64(w[2])<<32
}

// WriteRegister copies a register value into the intermediate 64-bit
// form, applies the requested pre-shift, packs it low-word-first into
// the mux frame, and writes it out.
func (iface *Interface) WriteRegister(req Request, value uint64) error {
	port := Port(req.ModuleID, req.Subsystem)
	shifted := shift(value, req.PreShift, req.ShiftDir)
	frame := serialmux.Frame{
		Port:       port,
		Data:       pack3x16(shifted),
		DataLength: req.SizeBits,
		Command:    req.Command,
	}
	return iface.mux.Write(frame)
}

// ReadRegister issues a mux read and unpacks the result, applying the
// inverse of the requested shift before truncating to SizeBits.
func (iface *Interface) ReadRegister(req Request) (uint64, error) {
	port := Port(req.ModuleID, req.Subsystem)
	frame := serialmux.Frame{
		Port:       port,
		DataLength: req.SizeBits,
		Command:    req.Command,
	}
	result, err := iface.mux.Read(frame)
	if err != nil {
		return 0, err
	}
	raw := unpack3x16(result.Data)
	unshifted := shift(raw, req.PreShift, inverse(req.ShiftDir))
	if req.SizeBits < 64 {
		unshifted &= (uint64(1) << req.SizeBits) - 1
	}
	return unshifted, nil
}
