package printer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"

	logInternal "github.com/AlexStarov/escpos-network-lib/log"
)

const (
	// statusBufSize bounds a single status reply read.
	statusBufSize = 16

	// settleDelay gives the device time to answer a status request
	// before the reply is read.
	settleDelay = 1 * time.Second
)

// Printer drives an ESC/POS device over a Transport. Every method is a
// one-shot command emission: the device firmware keeps the active style
// and the Printer holds no mirror of it. A Printer is not safe for
// concurrent use.
type Printer struct {
	t      Transport
	cfg    Config
	codec  encoding.Encoding
	settle time.Duration
	log    *zap.Logger
}

// NewPrinter binds a printer to an already-open stream. A Transport is
// used as is; a net.Conn pointed at the LPD port gets the spooling
// transport; everything else is treated as a raw byte stream.
func NewPrinter(w io.ReadWriter, cfg Config) *Printer {
	var t Transport
	switch c := w.(type) {
	case net.Conn:
		if strings.HasSuffix(c.RemoteAddr().String(), ":515") {
			t = NewLPDTransport(c, "")
		} else {
			t = &rawTransport{conn: c}
		}
	case Transport:
		t = c
	case io.ReadWriteCloser:
		t = &rawTransport{conn: c}
	default:
		t = &rawTransport{conn: nopCloser{w}}
	}
	return newPrinter(t, cfg)
}

// NewNetworkPrinter connects to the printer over TCP and returns the
// controller bound to the open connection. The dial happens here, not on
// first use.
func NewNetworkPrinter(cfg Config) (*Printer, error) {
	cfg.fillDefaults()
	t, err := dialNet(cfg)
	if err != nil {
		return nil, err
	}
	p := newPrinter(t, cfg)
	p.log.Info("printer connected",
		zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
	return p, nil
}

// NewLPDPrinter connects to an LPD daemon and binds a printer to the
// given queue. Output is spooled locally and submitted as one job when
// the printer closes. A zero port selects the daemon's well-known one.
func NewLPDPrinter(cfg Config, queue string) (*Printer, error) {
	if cfg.Port == 0 {
		cfg.Port = DefaultLPDPort
	}
	cfg.fillDefaults()
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", ErrConnection, addr, err)
	}
	return newPrinter(NewLPDTransport(conn, queue), cfg), nil
}

// With connects to the printer, runs fn against it and, when the
// configuration says autoclose, releases the connection once fn returns.
func With(cfg Config, fn func(*Printer) error) error {
	p, err := NewNetworkPrinter(cfg)
	if err != nil {
		return err
	}
	if p.cfg.AutoClose {
		defer p.Close()
	}
	return fn(p)
}

func newPrinter(t Transport, cfg Config) *Printer {
	cfg.fillDefaults()
	codec, ok := ResolveCodePage(cfg.CodePage)
	if !ok {
		logInternal.L().Warn("unknown code page, falling back",
			zap.String("codepage", cfg.CodePage), zap.String("fallback", DefaultCodePage))
		cfg.CodePage = DefaultCodePage
		codec, _ = ResolveCodePage(DefaultCodePage)
	}
	return &Printer{
		t:      t,
		cfg:    cfg,
		codec:  codec,
		settle: settleDelay,
		log:    logInternal.L(),
	}
}

// Config returns a copy of the configuration the printer was built from.
func (p *Printer) Config() Config {
	return p.cfg
}

// Close releases the underlying transport.
func (p *Printer) Close() error {
	return p.t.Close()
}

// Write sends raw bytes to the printer untouched.
func (p *Printer) Write(b []byte) (int, error) {
	return p.t.Write(b)
}

func (p *Printer) send(b []byte) error {
	if err := writeAll(p.t, b); err != nil {
		return fmt.Errorf("%w: send %d bytes: %v", ErrConnection, len(b), err)
	}
	return nil
}

// Init clears the print buffer and resets the device to its power-on
// state (ESC @).
func (p *Printer) Init() error {
	return p.send(hwInit)
}

// Set sends the complete attribute sequence for s in one emission. The
// order is fixed: size, flip, smooth, bold, underline, font, alignment,
// density, invert. An out-of-range custom size leaves the device size
// untouched; an out-of-range density is not sent at all.
func (p *Printer) Set(s Style) error {
	var buf bytes.Buffer

	if s.CustomSize {
		if s.Width >= 1 && s.Width <= 8 && s.Height >= 1 && s.Height <= 8 {
			buf.Write(textSize(s.Width, s.Height))
		} else {
			p.log.Warn("character size out of range, size left unchanged",
				zap.Int("width", s.Width), zap.Int("height", s.Height))
		}
	} else {
		buf.Write(txtNormal)
		switch {
		case s.DoubleWidth && s.DoubleHeight:
			buf.Write(size2X)
		case s.DoubleWidth:
			buf.Write(size2W)
		case s.DoubleHeight:
			buf.Write(size2H)
		default:
			buf.Write(sizeNormal)
		}
	}

	buf.Write(flipMode(s.Flip))
	buf.Write(smoothMode(s.Smooth))
	buf.Write(boldMode(s.Bold))

	underline := s.Underline
	if underline < 0 || underline > 2 {
		p.log.Warn("underline out of range, using none", zap.Int("underline", s.Underline))
		underline = 0
	}
	buf.Write(underlineMode(byte(underline)))

	buf.Write(fontSelect(s.Font))
	buf.Write(alignSelect(s.Align))

	if s.Density >= 0 && s.Density <= 8 {
		buf.Write(densityLevel(s.Density))
	} else if s.Density != DensityUnchanged {
		p.log.Warn("density out of range, density left unchanged", zap.Int("density", s.Density))
	}

	buf.Write(invertMode(s.Invert))

	return p.send(buf.Bytes())
}

// Text encodes s in the configured code page and prints it. Text the
// code page cannot represent is rejected, nothing is sent then.
func (p *Printer) Text(s string) error {
	raw, err := p.codec.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return fmt.Errorf("%w: %s cannot represent text: %v", ErrEncoding, p.cfg.CodePage, err)
	}
	return p.send(raw)
}

// TextLn prints s followed by a line feed.
func (p *Printer) TextLn(s string) error {
	return p.Text(s + "\n")
}

// Ln advances the paper by count line feeds. A zero count sends nothing.
func (p *Printer) Ln(count int) error {
	if count < 0 {
		return fmt.Errorf("%w: newline count %d", ErrInvalidArgument, count)
	}
	if count == 0 {
		return nil
	}
	return p.send(bytes.Repeat([]byte{lf}, count))
}

// Cut feeds the printed tail clear of the blade and cuts the paper.
// Mode "part" in any case selects a partial cut; every other value cuts
// fully.
func (p *Printer) Cut(mode string) error {
	var buf bytes.Buffer
	buf.Write(bytes.Repeat([]byte{lf}, cutFeedLines))
	if ParseCutMode(mode) == CutPartial {
		buf.Write(cutPartial)
	} else {
		buf.Write(cutFull)
	}
	return p.send(buf.Bytes())
}

// Feed prints the buffered line and feeds n lines of paper (ESC d n).
func (p *Printer) Feed(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: feed count %d", ErrInvalidArgument, n)
	}
	if n > 255 {
		n = 255
	}
	return p.send(feedLines(byte(n)))
}

// QueryStatus sends a real-time status request and returns the raw
// reply. The settle delay between request and read gives the device time
// to answer; an empty reply means it never did.
func (p *Printer) QueryStatus(mode []byte) ([]byte, error) {
	if err := p.send(mode); err != nil {
		return nil, err
	}
	time.Sleep(p.settle)
	buf := make([]byte, statusBufSize)
	n, err := p.t.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: read status: %v", ErrConnection, err)
	}
	return buf[:n], nil
}

// IsOnline reports whether the printer answers the online query. No
// answer counts as offline.
func (p *Printer) IsOnline() (bool, error) {
	status, err := p.QueryStatus(StatusOnline)
	if err != nil {
		return false, err
	}
	if len(status) == 0 {
		return false, nil
	}
	return online(status[0]), nil
}

// PaperStatus reports the paper sensor state. No answer counts as
// adequate paper.
func (p *Printer) PaperStatus() (PaperLevel, error) {
	status, err := p.QueryStatus(StatusPaper)
	if err != nil {
		return PaperAdequate, err
	}
	if len(status) == 0 {
		return PaperAdequate, nil
	}
	return paperLevel(status[0]), nil
}

// Beep sounds the printer buzzer on devices that have one.
func (p *Printer) Beep() error {
	return p.send(beepCmd)
}

// CashDrawer pulses the drawer kick connector. Pins 2 and 5 exist on
// the connector; any other pin falls back to 2.
func (p *Printer) CashDrawer(pin int) error {
	switch pin {
	case 2:
		return p.send(drawerKickPin2)
	case 5:
		return p.send(drawerKickPin5)
	default:
		p.log.Warn("unknown drawer pin, using pin 2", zap.Int("pin", pin))
		return p.send(drawerKickPin2)
	}
}

// PanelButtons enables or disables the printer's panel buttons.
func (p *Printer) PanelButtons(enabled bool) error {
	return p.send(panelButtons(enabled))
}

// Color selects the ink color on two-color printers.
func (p *Printer) Color(c Color) error {
	return p.send(colorSelect(c))
}

// LineSpacing sets the line spacing to n motion units (ESC 3 n).
func (p *Printer) LineSpacing(n int) error {
	if n < 0 || n > 255 {
		return fmt.Errorf("%w: line spacing %d", ErrInvalidArgument, n)
	}
	return p.send(lineSpacing(byte(n)))
}

// ResetLineSpacing restores the default line spacing (ESC 2).
func (p *Printer) ResetLineSpacing() error {
	return p.send(lineSpacingReset)
}

// MoveX sets the horizontal print position to x motion units.
func (p *Printer) MoveX(x uint16) error {
	return p.send(moveX(x))
}

// MoveY sets the vertical print position to y motion units.
func (p *Printer) MoveY(y uint16) error {
	return p.send(moveY(y))
}
