package printer

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultCodePage is used when no code page is configured or the
// configured name is unknown.
const DefaultCodePage = "cp866"

var codePages = map[string]encoding.Encoding{
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"cp852":        charmap.CodePage852,
	"cp858":        charmap.CodePage858,
	"cp860":        charmap.CodePage860,
	"cp863":        charmap.CodePage863,
	"cp865":        charmap.CodePage865,
	"cp866":        charmap.CodePage866,
	"cp1251":       charmap.Windows1251,
	"cp1252":       charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"windows-1252": charmap.Windows1252,
	"iso8859-5":    charmap.ISO8859_5,
}

// ResolveCodePage maps a code page name to its character encoding.
// Lookup is case-insensitive; ok reports whether the name is known.
func ResolveCodePage(name string) (cp encoding.Encoding, ok bool) {
	cp, ok = codePages[strings.ToLower(strings.TrimSpace(name))]
	return cp, ok
}
