// Package wire implements the numeric encoding rules for the CAN wire
// protocol: floats and unsigned 16-bit values are carried little-endian
// at the protocol boundary and must be byte-reordered explicitly when
// moving onto or off of the CAN bus (spec.md §6).
package wire

import (
	"encoding/binary"
	"math"
)

// ConversionErrorSentinel is the magic float used on the wire to mean
// either "conversion failed" or "uninitialized." Internally these two
// conditions must be modeled as an explicit optional (see internal/opvar),
// this sentinel only exists at the wire boundary.
const ConversionErrorSentinel float32 = -1.0

// EncodeFloat32 packs a float32 as 4 little-endian bytes, then reverses
// the byte order so it travels big-endian on the CAN payload. Calling
// DecodeFloat32 on the result recovers the original value.
func EncodeFloat32(v float32) [4]byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	return swap4(buf)
}

// DecodeFloat32 is the inverse of EncodeFloat32.
func DecodeFloat32(b [4]byte) float32 {
	le := swap4(b)
	return math.Float32frombits(binary.LittleEndian.Uint32(le[:]))
}

// EncodeUint16 swaps a uint16 from host little-endian to CAN big-endian.
func EncodeUint16(v uint16) [2]byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return swap2(buf)
}

// DecodeUint16 is the inverse of EncodeUint16.
func DecodeUint16(b [2]byte) uint16 {
	le := swap2(b)
	return binary.LittleEndian.Uint16(le[:])
}

// EncodeUint32LE packs a uint32 little-endian, used for the special
// monitor "RCA range" payload (§6) which is explicitly little-endian
// on the wire, unlike regular floats/u16 values.
func EncodeUint32LE(v uint32) [4]byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return buf
}

func swap2(b [2]byte) [2]byte {
	return [2]byte{b[1], b[0]}
}

func swap4(b [4]byte) [4]byte {
	return [4]byte{b[3], b[2], b[1], b[0]}
}

// SwapUint16 reverses the byte order of a raw uint16. Applying it twice
// is the identity, which is the round-trip law required by spec.md §8.
func SwapUint16(v uint16) uint16 {
	return v<<8 | v>>8
}

// SwapFloat32Bits reverses the byte order of the IEEE-754 bit pattern of
// a float32. Applying it twice is the identity.
func SwapFloat32Bits(bits uint32) uint32 {
	b0 := bits & 0xFF
	b1 := (bits >> 8) & 0xFF
	b2 := (bits >> 16) & 0xFF
	b3 := (bits >> 24) & 0xFF
	return b0<<24 | b1<<16 | b2<<8 | b3
}
