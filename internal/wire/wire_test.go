package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat32RoundTrip(t *testing.T) {
	values := []float32{0, 1, -1, 3.14159, -273.15, math.MaxFloat32, ConversionSentinelComplement()}
	for _, v := range values {
		encoded := EncodeFloat32(v)
		decoded := DecodeFloat32(encoded)
		require.Equal(t, v, decoded)
	}
}

func TestUint16RoundTrip(t *testing.T) {
	values := []uint16{0, 1, 0xFFFF, 0x1234, 0xABCD}
	for _, v := range values {
		encoded := EncodeUint16(v)
		decoded := DecodeUint16(encoded)
		require.Equal(t, v, decoded)
	}
}

func TestSwapTwiceIsIdentity(t *testing.T) {
	require.Equal(t, uint16(0x1234), SwapUint16(SwapUint16(0x1234)))
	require.Equal(t, uint32(0xDEADBEEF), SwapFloat32Bits(SwapFloat32Bits(0xDEADBEEF)))
}

// ConversionSentinelComplement avoids colliding the sentinel value itself
// with an arbitrary test input; it is simply -1 * the sentinel.
func ConversionSentinelComplement() float32 {
	return -ConversionErrorSentinel
}
