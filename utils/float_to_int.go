// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 scales a sample in [-1, 1] to 16-bit PCM. Values produced by
// Int16ToFloat32 convert back to the exact original integer, which keeps
// lossless containers bit-identical through a float pipeline.
func Float32ToInt16(x float32) int16 {
	v := math.Round(float64(x) * 32768.0)

	if v > math.MaxInt16 {
		return math.MaxInt16
	}

	if v < math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}

// Int16ToFloat32 maps 16-bit PCM to [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// IntToFloat32 maps a PCM sample of the given bit depth to [-1, 1).
// Unknown depths are treated as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
	default:
		return float32(v) / 32768.0
	}
}
