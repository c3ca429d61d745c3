package printer

// PaperLevel is the paper sensor state decoded from a DLE EOT 4 reply.
type PaperLevel int

const (
	PaperOut      PaperLevel = 0
	PaperLow      PaperLevel = 1
	PaperAdequate PaperLevel = 2
)

func (l PaperLevel) String() string {
	switch l {
	case PaperOut:
		return "out"
	case PaperLow:
		return "low"
	case PaperAdequate:
		return "adequate"
	}
	return "unknown"
}

// paperLevel decodes one paper status byte. The masks overlap, so the
// most specific one is tried first. Bytes matching none of them report
// adequate paper.
func paperLevel(b byte) PaperLevel {
	switch {
	case b&maskNoPaper == maskNoPaper:
		return PaperOut
	case b&maskLowPaper == maskLowPaper:
		return PaperLow
	case b&maskPaper == maskPaper:
		return PaperAdequate
	}
	return PaperAdequate
}

// online decodes one online status byte. The mask bit is set when the
// printer is offline.
func online(b byte) bool {
	return b&maskOnline == 0
}
