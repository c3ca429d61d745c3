package printer

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/escpos-network-lib/log"
)

func TestMain(m *testing.M) {
	logInternal.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

// mockTransport captures writes and plays back scripted status replies.
type mockTransport struct {
	wrote    bytes.Buffer
	reads    [][]byte
	writeErr error
	readErr  error
	closed   bool
}

func (m *mockTransport) Write(b []byte) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	return m.wrote.Write(b)
}

func (m *mockTransport) Read(b []byte) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if len(m.reads) == 0 {
		return 0, nil
	}
	n := copy(b, m.reads[0])
	m.reads = m.reads[1:]
	return n, nil
}

func (m *mockTransport) Close() error {
	m.closed = true
	return nil
}

func newTestPrinter(t *testing.T) (*Printer, *mockTransport) {
	t.Helper()
	mock := &mockTransport{}
	p := NewPrinter(mock, DefaultConfig("printer.test"))
	p.settle = 0
	return p, mock
}

func TestSetDefaultStyle(t *testing.T) {
	p, mock := newTestPrinter(t)

	require.NoError(t, p.Set(DefaultStyle()))

	want := []byte{
		0x1b, 0x21, 0x00, // normal mode
		0x1b, 0x21, 0x00, 0x1b, 0x21, 0x00, // size normal
		0x1b, 0x7b, 0x00, // flip off
		0x1d, 0x62, 0x00, // smooth off
		0x1b, 0x45, 0x00, // bold off
		0x1b, 0x2d, 0x00, // underline off
		0x1b, 0x4d, 0x00, // font A
		0x1b, 0x61, 0x00, // align left
		0x1d, 0x42, 0x00, // invert off
	}
	assert.Equal(t, want, mock.wrote.Bytes())
}

func TestSetFullStyle(t *testing.T) {
	p, mock := newTestPrinter(t)

	style := Style{
		Align:      AlignCenter,
		Font:       FontB,
		Bold:       true,
		Underline:  1,
		Invert:     true,
		Smooth:     true,
		Flip:       true,
		Density:    8,
		Width:      3,
		Height:     4,
		CustomSize: true,
	}
	require.NoError(t, p.Set(style))

	want := []byte{
		0x1d, 0x21, 0x23, // 3x4 magnification
		0x1b, 0x7b, 0x01,
		0x1d, 0x62, 0x01,
		0x1b, 0x45, 0x01,
		0x1b, 0x2d, 0x01,
		0x1b, 0x4d, 0x01,
		0x1b, 0x61, 0x01,
		0x1d, 0x7c, 0x05, // density 8
		0x1d, 0x42, 0x01,
	}
	assert.Equal(t, want, mock.wrote.Bytes())
}

func TestSetCustomSizeBytes(t *testing.T) {
	tests := []struct {
		width, height int
		want          byte
	}{
		{1, 1, 0x00},
		{2, 2, 0x11},
		{5, 2, 0x41},
		{8, 8, 0x77},
	}
	for _, tt := range tests {
		p, mock := newTestPrinter(t)
		style := DefaultStyle()
		style.Width, style.Height, style.CustomSize = tt.width, tt.height, true

		require.NoError(t, p.Set(style))

		wrote := mock.wrote.Bytes()
		require.GreaterOrEqual(t, len(wrote), 3)
		assert.Equal(t, []byte{0x1d, 0x21, tt.want}, wrote[:3],
			"size %dx%d", tt.width, tt.height)
	}
}

func TestSetCustomSizeOutOfRange(t *testing.T) {
	for _, size := range [][2]int{{0, 1}, {9, 1}, {1, 0}, {1, 9}, {-3, 12}} {
		p, mock := newTestPrinter(t)
		style := DefaultStyle()
		style.Width, style.Height, style.CustomSize = size[0], size[1], true

		require.NoError(t, p.Set(style))

		// The size block is skipped, emission starts at flip.
		wrote := mock.wrote.Bytes()
		require.GreaterOrEqual(t, len(wrote), 3)
		assert.Equal(t, []byte{0x1b, 0x7b, 0x00}, wrote[:3], "size %v", size)
		assert.NotContains(t, string(wrote), "\x1d\x21")
	}
}

func TestSetDoubleFlags(t *testing.T) {
	tests := []struct {
		name   string
		dw, dh bool
		want   []byte
	}{
		{"normal", false, false, sizeNormal},
		{"double height", false, true, size2H},
		{"double width", true, false, size2W},
		{"both", true, true, size2X},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newTestPrinter(t)
			style := DefaultStyle()
			style.DoubleWidth, style.DoubleHeight = tt.dw, tt.dh

			require.NoError(t, p.Set(style))

			wrote := mock.wrote.Bytes()
			require.GreaterOrEqual(t, len(wrote), 9)
			assert.Equal(t, []byte{0x1b, 0x21, 0x00}, wrote[:3])
			assert.Equal(t, tt.want, wrote[3:9])
		})
	}
}

func TestSetUnderlineClamped(t *testing.T) {
	for _, underline := range []int{-1, 3, 250} {
		p, mock := newTestPrinter(t)
		style := DefaultStyle()
		style.Underline = underline

		require.NoError(t, p.Set(style))
		assert.Contains(t, string(mock.wrote.Bytes()), "\x1b\x2d\x00")
	}

	p, mock := newTestPrinter(t)
	style := DefaultStyle()
	style.Underline = 2
	require.NoError(t, p.Set(style))
	assert.Contains(t, string(mock.wrote.Bytes()), "\x1b\x2d\x02")
}

func TestSetDensity(t *testing.T) {
	t.Run("in range", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		style := DefaultStyle()
		style.Density = 5
		require.NoError(t, p.Set(style))
		assert.Contains(t, string(mock.wrote.Bytes()), "\x1d\x7c\x08")
	})

	t.Run("unchanged", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		require.NoError(t, p.Set(DefaultStyle()))
		assert.NotContains(t, string(mock.wrote.Bytes()), "\x1d\x7c")
	})

	t.Run("out of range", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		style := DefaultStyle()
		style.Density = 12
		require.NoError(t, p.Set(style))
		assert.NotContains(t, string(mock.wrote.Bytes()), "\x1d\x7c")
	})
}

func TestTextEncodesCyrillic(t *testing.T) {
	p, mock := newTestPrinter(t)

	require.NoError(t, p.Text("Привет"))
	assert.Equal(t, []byte{0x8f, 0xe0, 0xa8, 0xa2, 0xa5, 0xe2}, mock.wrote.Bytes())
}

func TestTextUnrepresentable(t *testing.T) {
	p, mock := newTestPrinter(t)

	err := p.Text("漢字")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEncoding)
	assert.Zero(t, mock.wrote.Len(), "nothing reaches the printer on encoding failure")
}

func TestTextLnMatchesTextWithNewline(t *testing.T) {
	p1, mock1 := newTestPrinter(t)
	p2, mock2 := newTestPrinter(t)

	require.NoError(t, p1.TextLn("abc"))
	require.NoError(t, p2.Text("abc\n"))
	assert.Equal(t, mock2.wrote.Bytes(), mock1.wrote.Bytes())
}

func TestLn(t *testing.T) {
	t.Run("negative", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		err := p.Ln(-1)
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Zero(t, mock.wrote.Len())
	})

	t.Run("zero", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		require.NoError(t, p.Ln(0))
		assert.Zero(t, mock.wrote.Len())
	})

	t.Run("three", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		require.NoError(t, p.Ln(3))
		assert.Equal(t, []byte("\n\n\n"), mock.wrote.Bytes())
	})
}

func TestCut(t *testing.T) {
	tests := []struct {
		mode string
		want byte
	}{
		{"PART", 0x01},
		{"part", 0x01},
		{"Part", 0x01},
		{"full", 0x00},
		{"FULL", 0x00},
		{"", 0x00},
		{"partial", 0x00},
		{"anything", 0x00},
	}
	for _, tt := range tests {
		p, mock := newTestPrinter(t)
		require.NoError(t, p.Cut(tt.mode))

		wrote := mock.wrote.Bytes()
		require.Len(t, wrote, 9, "mode %q", tt.mode)
		assert.Equal(t, []byte("\n\n\n\n\n\n"), wrote[:6], "mode %q", tt.mode)
		assert.Equal(t, []byte{0x1d, 0x56, tt.want}, wrote[6:], "mode %q", tt.mode)
	}
}

func TestInit(t *testing.T) {
	p, mock := newTestPrinter(t)
	require.NoError(t, p.Init())
	assert.Equal(t, []byte{0x1b, 0x40}, mock.wrote.Bytes())
}

func TestFeed(t *testing.T) {
	t.Run("negative", func(t *testing.T) {
		p, _ := newTestPrinter(t)
		assert.ErrorIs(t, p.Feed(-2), ErrInvalidArgument)
	})

	t.Run("lines", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		require.NoError(t, p.Feed(4))
		assert.Equal(t, []byte{0x1b, 0x64, 0x04}, mock.wrote.Bytes())
	})

	t.Run("clamped", func(t *testing.T) {
		p, mock := newTestPrinter(t)
		require.NoError(t, p.Feed(300))
		assert.Equal(t, []byte{0x1b, 0x64, 0xff}, mock.wrote.Bytes())
	})
}

func TestQueryStatus(t *testing.T) {
	p, mock := newTestPrinter(t)
	mock.reads = [][]byte{{0x16}}

	reply, err := p.QueryStatus(StatusOnline)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x04, 0x01}, mock.wrote.Bytes())
	assert.Equal(t, []byte{0x16}, reply)
}

func TestQueryStatusNoReply(t *testing.T) {
	p, _ := newTestPrinter(t)

	reply, err := p.QueryStatus(StatusPaper)
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestIsOnline(t *testing.T) {
	tests := []struct {
		name  string
		reads [][]byte
		want  bool
	}{
		{"online", [][]byte{{0x16}}, true},
		{"offline", [][]byte{{0x1e}}, false},
		{"no reply", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newTestPrinter(t)
			mock.reads = tt.reads

			online, err := p.IsOnline()
			require.NoError(t, err)
			assert.Equal(t, tt.want, online)
			assert.Equal(t, []byte{0x10, 0x04, 0x01}, mock.wrote.Bytes())
		})
	}
}

func TestPaperStatus(t *testing.T) {
	tests := []struct {
		name  string
		reads [][]byte
		want  PaperLevel
	}{
		{"paper out", [][]byte{{0x72}}, PaperOut},
		{"paper low", [][]byte{{0x1e}}, PaperLow},
		{"paper present", [][]byte{{0x12}}, PaperAdequate},
		{"unmatched byte", [][]byte{{0x00}}, PaperAdequate},
		{"no reply", nil, PaperAdequate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newTestPrinter(t)
			mock.reads = tt.reads

			level, err := p.PaperStatus()
			require.NoError(t, err)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, []byte{0x10, 0x04, 0x04}, mock.wrote.Bytes())
		})
	}
}

func TestQueryStatusReadError(t *testing.T) {
	p, mock := newTestPrinter(t)
	mock.readErr = errors.New("device gone")

	_, err := p.QueryStatus(StatusOnline)
	assert.ErrorIs(t, err, ErrConnection)
}

func TestSendFailureWrapsErrConnection(t *testing.T) {
	p, mock := newTestPrinter(t)
	mock.writeErr = errors.New("broken pipe")

	err := p.Set(DefaultStyle())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConnection)

	assert.ErrorIs(t, p.Text("x"), ErrConnection)
	assert.ErrorIs(t, p.Ln(1), ErrConnection)
	assert.ErrorIs(t, p.Cut("full"), ErrConnection)
}

func TestBeep(t *testing.T) {
	p, mock := newTestPrinter(t)
	require.NoError(t, p.Beep())
	assert.Equal(t, []byte{0x07}, mock.wrote.Bytes())
}

func TestCashDrawer(t *testing.T) {
	tests := []struct {
		pin  int
		want []byte
	}{
		{2, []byte{0x1b, 0x70, 0x00, 50, 50}},
		{5, []byte{0x1b, 0x70, 0x01, 50, 50}},
		{3, []byte{0x1b, 0x70, 0x00, 50, 50}}, // unknown pin falls back to 2
	}
	for _, tt := range tests {
		p, mock := newTestPrinter(t)
		require.NoError(t, p.CashDrawer(tt.pin))
		assert.Equal(t, tt.want, mock.wrote.Bytes(), "pin %d", tt.pin)
	}
}

func TestPanelButtons(t *testing.T) {
	p, mock := newTestPrinter(t)
	require.NoError(t, p.PanelButtons(true))
	require.NoError(t, p.PanelButtons(false))
	assert.Equal(t, []byte{0x1b, 0x63, 0x35, 0x00, 0x1b, 0x63, 0x35, 0x01}, mock.wrote.Bytes())
}

func TestColor(t *testing.T) {
	p, mock := newTestPrinter(t)
	require.NoError(t, p.Color(ColorRed))
	require.NoError(t, p.Color(ColorBlack))
	assert.Equal(t, []byte{0x1b, 0x72, 0x01, 0x1b, 0x72, 0x00}, mock.wrote.Bytes())
}

func TestLineSpacing(t *testing.T) {
	p, mock := newTestPrinter(t)
	require.NoError(t, p.LineSpacing(60))
	require.NoError(t, p.ResetLineSpacing())
	assert.Equal(t, []byte{0x1b, 0x33, 0x3c, 0x1b, 0x32}, mock.wrote.Bytes())

	assert.ErrorIs(t, p.LineSpacing(-1), ErrInvalidArgument)
	assert.ErrorIs(t, p.LineSpacing(256), ErrInvalidArgument)
}

func TestMove(t *testing.T) {
	p, mock := newTestPrinter(t)
	require.NoError(t, p.MoveX(1000))
	require.NoError(t, p.MoveY(256))
	assert.Equal(t, []byte{0x1b, 0x24, 0xe8, 0x03, 0x1d, 0x24, 0x00, 0x01}, mock.wrote.Bytes())
}

func TestWriteRawPassThrough(t *testing.T) {
	p, mock := newTestPrinter(t)

	raw := []byte{0x1b, 0x40, 0xfa}
	n, err := p.Write(raw)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, raw, mock.wrote.Bytes())
}

func TestCloseReleasesTransport(t *testing.T) {
	p, mock := newTestPrinter(t)
	require.NoError(t, p.Close())
	assert.True(t, mock.closed)
}

func TestConfigDefaultsFilled(t *testing.T) {
	mock := &mockTransport{}
	p := NewPrinter(mock, Config{Host: "printer.test"})

	cfg := p.Config()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultCodePage, cfg.CodePage)
	assert.False(t, cfg.AutoClose)
}
