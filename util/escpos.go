// Package util holds byte-level helpers shared by the command builders.
package util

// IntLowHigh encodes n little-endian into width bytes, the order ESC/POS
// expects numeric parameters in (nL nH). Width is clamped to 1..4.
func IntLowHigh(n, width int) []byte {
	if width < 1 {
		width = 1
	}
	if width > 4 {
		width = 4
	}
	out := make([]byte, width)
	for i := range out {
		out[i] = byte(n % 256)
		n /= 256
	}
	return out
}
