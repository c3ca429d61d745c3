package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntLowHigh(t *testing.T) {
	tests := []struct {
		n, width int
		want     []byte
	}{
		{0, 2, []byte{0x00, 0x00}},
		{255, 2, []byte{0xff, 0x00}},
		{256, 2, []byte{0x00, 0x01}},
		{1000, 2, []byte{0xe8, 0x03}},
		{65535, 2, []byte{0xff, 0xff}},
		{7, 1, []byte{0x07}},
		{65536, 3, []byte{0x00, 0x00, 0x01}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IntLowHigh(tt.n, tt.width), "n=%d width=%d", tt.n, tt.width)
	}
}

func TestIntLowHighClampsWidth(t *testing.T) {
	assert.Len(t, IntLowHigh(1, 0), 1)
	assert.Len(t, IntLowHigh(1, -2), 1)
	assert.Len(t, IntLowHigh(1, 9), 4)
}
