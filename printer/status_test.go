package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaperLevelDecode(t *testing.T) {
	tests := []struct {
		b    byte
		want PaperLevel
	}{
		{0x72, PaperOut},
		{0xf2, PaperOut}, // extra bits do not hide the no-paper pattern
		{0x1e, PaperLow},
		{0x12, PaperAdequate},
		{0x00, PaperAdequate},
		{0x01, PaperAdequate},
		{0x80, PaperAdequate},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, paperLevel(tt.b), "byte 0x%02x", tt.b)
	}
}

func TestOnlineDecode(t *testing.T) {
	tests := []struct {
		b    byte
		want bool
	}{
		{0x00, true},
		{0x16, true},
		{0x08, false},
		{0x1e, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, online(tt.b), "byte 0x%02x", tt.b)
	}
}

func TestPaperLevelString(t *testing.T) {
	assert.Equal(t, "out", PaperOut.String())
	assert.Equal(t, "low", PaperLow.String())
	assert.Equal(t, "adequate", PaperAdequate.String())
	assert.Equal(t, "unknown", PaperLevel(9).String())
}
