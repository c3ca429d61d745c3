package printer

import (
	utilInternal "github.com/AlexStarov/escpos-network-lib/util"
)

// Control characters used by the command set.
const (
	eot = 0x04
	bel = 0x07
	lf  = 0x0a
	dle = 0x10
	esc = 0x1b
	gs  = 0x1d
)

// Fixed command sequences.
var (
	hwInit = []byte{esc, '@'} // ESC @

	txtNormal = []byte{esc, '!', 0x00} // ESC ! 0

	// Composite size selectors. Each one re-asserts normal mode before
	// switching on the wanted magnification bits.
	sizeNormal = []byte{esc, '!', 0x00, esc, '!', 0x00}
	size2H     = []byte{esc, '!', 0x00, esc, '!', 0x10}
	size2W     = []byte{esc, '!', 0x00, esc, '!', 0x20}
	size2X     = []byte{esc, '!', 0x00, esc, '!', 0x30}

	cutFull    = []byte{gs, 'V', 0x00} // GS V 0
	cutPartial = []byte{gs, 'V', 0x01} // GS V 1

	drawerKickPin2 = []byte{esc, 'p', 0x00, 50, 50} // ESC p 0
	drawerKickPin5 = []byte{esc, 'p', 0x01, 50, 50} // ESC p 1

	lineSpacingReset = []byte{esc, '2'} // ESC 2

	beepCmd = []byte{bel}
)

// CodePageChange is the prefix selecting a hardware code page table
// (ESC t n). The configured code page is fixed per printer instance, so
// the library never sends it; callers switching tables by hand can push
// it through Write followed by the table number.
var CodePageChange = []byte{esc, 't'}

// Real-time status request selectors (DLE EOT n).
var (
	StatusOnline = []byte{dle, eot, 0x01}
	StatusPaper  = []byte{dle, eot, 0x04}
)

// Status reply bit masks.
const (
	maskOnline   = 0x08 // set when offline
	maskPaper    = 0x12 // paper present
	maskLowPaper = 0x1e // paper near end
	maskNoPaper  = 0x72 // paper out
)

// Lines fed before a cut so the printed tail clears the blade.
const cutFeedLines = 6

// Character magnification nibbles, indexed 1..8. Width occupies the high
// nibble of GS ! n, height the low one.
var (
	widthBytes  = [9]byte{0, 0x00, 0x10, 0x20, 0x30, 0x40, 0x50, 0x60, 0x70}
	heightBytes = [9]byte{0, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
)

// Print density wire values, indexed 0..8. The upper half of the scale
// runs backwards on the wire.
var densityBytes = [9]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x08, 0x07, 0x06, 0x05}

func onOff(on bool) byte {
	if on {
		return 0x01
	}
	return 0x00
}

func textSize(width, height int) []byte {
	return []byte{gs, '!', widthBytes[width] | heightBytes[height]}
}

func flipMode(on bool) []byte { return []byte{esc, '{', onOff(on)} }

func smoothMode(on bool) []byte { return []byte{gs, 'b', onOff(on)} }

func boldMode(on bool) []byte { return []byte{esc, 'E', onOff(on)} }

func underlineMode(n byte) []byte { return []byte{esc, '-', n} }

func fontSelect(f Font) []byte { return []byte{esc, 'M', byte(f)} }

func alignSelect(a Align) []byte { return []byte{esc, 'a', byte(a)} }

func densityLevel(n int) []byte { return []byte{gs, '|', densityBytes[n]} }

func invertMode(on bool) []byte { return []byte{gs, 'B', onOff(on)} }

func colorSelect(c Color) []byte { return []byte{esc, 'r', byte(c)} }

func feedLines(n byte) []byte { return []byte{esc, 'd', n} }

func lineSpacing(n byte) []byte { return []byte{esc, '3', n} }

func panelButtons(enabled bool) []byte {
	if enabled {
		return []byte{esc, 'c', '5', 0x00}
	}
	return []byte{esc, 'c', '5', 0x01}
}

func moveX(x uint16) []byte {
	return append([]byte{esc, '$'}, utilInternal.IntLowHigh(int(x), 2)...)
}

func moveY(y uint16) []byte {
	return append([]byte{gs, '$'}, utilInternal.IntLowHigh(int(y), 2)...)
}
