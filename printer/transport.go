package printer

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/escpos-network-lib/log"
)

// Transport is a byte conduit to the printer. Implementations translate
// read timeouts and peer shutdown into short reads, so a status query
// that goes unanswered yields zero bytes instead of an error.
type Transport interface {
	Write([]byte) (int, error)
	Read([]byte) (int, error)
	Close() error
}

// netTransport carries ESC/POS over a raw TCP stream, the JetDirect way.
type netTransport struct {
	conn    net.Conn
	timeout time.Duration
	log     *zap.Logger
}

func dialNet(cfg Config) (*netTransport, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", ErrConnection, addr, err)
	}
	return &netTransport{
		conn:    conn,
		timeout: cfg.Timeout,
		log:     logInternal.L().With(zap.String("transport", "tcp"), zap.String("addr", addr)),
	}, nil
}

func (t *netTransport) Write(b []byte) (int, error) {
	if t.timeout > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	}
	return t.conn.Write(b)
}

// Read blocks up to the configured timeout. Deadline expiry and EOF come
// back as a short read; many printers simply never answer.
func (t *netTransport) Read(b []byte) (int, error) {
	if t.timeout > 0 {
		_ = t.conn.SetReadDeadline(time.Now().Add(t.timeout))
	}
	n, err := t.conn.Read(b)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return n, nil
		}
		if errors.Is(err, io.EOF) {
			return n, nil
		}
	}
	return n, err
}

// Close shuts down both directions before closing the socket. The printer
// may already have dropped its end, so teardown errors are swallowed.
func (t *netTransport) Close() error {
	if tcp, ok := t.conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			t.log.Debug("shutdown write", zap.Error(err))
		}
		if err := tcp.CloseRead(); err != nil {
			t.log.Debug("shutdown read", zap.Error(err))
		}
	}
	if err := t.conn.Close(); err != nil {
		t.log.Debug("close", zap.Error(err))
	}
	return nil
}

// rawTransport adapts any open stream to a Transport.
type rawTransport struct {
	conn io.ReadWriteCloser
}

func (r *rawTransport) Write(b []byte) (int, error) { return r.conn.Write(b) }
func (r *rawTransport) Read(b []byte) (int, error)  { return r.conn.Read(b) }
func (r *rawTransport) Close() error                { return r.conn.Close() }

type nopCloser struct {
	io.ReadWriter
}

func (nopCloser) Close() error { return nil }

// writeAll pushes b through t until every byte is out.
func writeAll(t Transport, b []byte) error {
	sent := 0
	for sent < len(b) {
		n, err := t.Write(b[sent:])
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		sent += n
	}
	return nil
}
