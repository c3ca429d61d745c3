package printer

import (
	"strings"

	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/escpos-network-lib/log"
)

// Align is the horizontal text alignment (ESC a n).
type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// ParseAlign maps a textual alignment to its wire value. Unknown names
// fall back to left alignment.
func ParseAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AlignLeft
	case "center", "centre":
		return AlignCenter
	case "right":
		return AlignRight
	default:
		logInternal.L().Warn("unknown alignment, using left", zap.String("align", s))
		return AlignLeft
	}
}

// Font is the device font selector (ESC M n).
type Font byte

const (
	FontA Font = 0
	FontB Font = 1
)

// ParseFont maps a textual font name to its wire value. Unknown names
// fall back to font A.
func ParseFont(s string) Font {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a", "0":
		return FontA
	case "b", "1":
		return FontB
	default:
		logInternal.L().Warn("unknown font, using font A", zap.String("font", s))
		return FontA
	}
}

// CutMode selects between a full and a partial paper cut.
type CutMode byte

const (
	CutFull    CutMode = 0
	CutPartial CutMode = 1
)

// ParseCutMode maps a textual cut mode to its wire value. "part" in any
// case selects a partial cut; every other value cuts fully.
func ParseCutMode(s string) CutMode {
	if strings.EqualFold(strings.TrimSpace(s), "part") {
		return CutPartial
	}
	return CutFull
}

// Color is the ink color selector (ESC r n) for two-color printers.
type Color byte

const (
	ColorBlack Color = 0
	ColorRed   Color = 1
)

// ParseColor maps a textual color name to its wire value. Unknown names
// fall back to black.
func ParseColor(s string) Color {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "black":
		return ColorBlack
	case "red":
		return ColorRed
	default:
		logInternal.L().Warn("unknown color, using black", zap.String("color", s))
		return ColorBlack
	}
}

// DensityUnchanged keeps the printer's current density setting. Any
// density outside 0..8 is treated the same way.
const DensityUnchanged = 9

// Style is the complete set of text attributes applied by Set. The zero
// value is not useful; start from DefaultStyle.
type Style struct {
	Align     Align
	Font      Font
	Bold      bool
	Underline int // 0 none, 1 thin, 2 thick
	Invert    bool
	Smooth    bool
	Flip      bool
	Density   int

	// Character size. With CustomSize set, Width and Height select a
	// magnification of 1..8 in each axis; otherwise the Double flags
	// pick one of the four fixed sizes.
	Width        int
	Height       int
	CustomSize   bool
	DoubleWidth  bool
	DoubleHeight bool
}

// DefaultStyle returns the stock attributes: left aligned, font A,
// normal size, all effects off, density untouched.
func DefaultStyle() Style {
	return Style{
		Align:   AlignLeft,
		Font:    FontA,
		Width:   1,
		Height:  1,
		Density: DensityUnchanged,
	}
}
