package printer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/escpos-network-lib/log"
)

const lpdAckTimeout = 5 * time.Second

// LPDTransport spools writes into a job buffer and submits them as one
// RFC 1179 print job when the transport closes. Until then nothing
// reaches the daemon.
type LPDTransport struct {
	conn   net.Conn
	queue  string
	jobBuf bytes.Buffer
	closed bool
	mu     sync.Mutex
	log    *zap.Logger
}

// NewLPDTransport wraps an open connection to an LPD daemon. An empty
// queue name selects the conventional "lp" queue.
func NewLPDTransport(conn net.Conn, queue string) *LPDTransport {
	if queue == "" {
		queue = "lp"
	}
	return &LPDTransport{
		conn:  conn,
		queue: queue,
		log:   logInternal.L().With(zap.String("transport", "lpd"), zap.String("queue", queue)),
	}
}

func (l *LPDTransport) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, io.ErrClosedPipe
	}
	return l.jobBuf.Write(b)
}

// Read always comes back empty. The daemon only ever answers the job
// submission handshake; there is no readback channel for status queries,
// so they report no reply instead of waiting for one.
func (l *LPDTransport) Read(b []byte) (int, error) {
	return 0, nil
}

// Close submits the buffered job, then closes the connection. A failed
// submission still closes the connection and reports the error.
func (l *LPDTransport) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	defer func() { l.closed = true }()

	if l.jobBuf.Len() == 0 {
		return l.conn.Close()
	}
	if err := l.flushJob(); err != nil {
		_ = l.conn.Close()
		return err
	}
	return l.conn.Close()
}

func (l *LPDTransport) flushJob() error {
	host, _ := os.Hostname()
	if host == "" {
		host = "localhost"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "escpos"
	}

	jobID := int(time.Now().UnixNano() % 1000000)
	hostShort := host
	if i := strings.IndexByte(hostShort, '.'); i > 0 {
		hostShort = hostShort[:i]
	}
	jobName := fmt.Sprintf("escpos-%d", jobID)
	cfName := fmt.Sprintf("cfA%03d%s", jobID%1000, hostShort)
	dfName := fmt.Sprintf("dfA%03d%s", jobID%1000, hostShort)

	// H host, P user, J job name, N source name, U data file to unlink
	control := fmt.Sprintf("H%s\nP%s\nJ%s\nN%s\nU%s\n", host, user, jobName, dfName, dfName)

	l.log.Debug("submitting print job",
		zap.String("job", jobName), zap.Int("bytes", l.jobBuf.Len()))

	if err := l.receiveJob(); err != nil {
		return fmt.Errorf("lpd: receive job: %w", err)
	}
	if err := l.sendFile(0x02, cfName, []byte(control)); err != nil {
		return fmt.Errorf("lpd: control file: %w", err)
	}
	if err := l.sendFile(0x03, dfName, l.jobBuf.Bytes()); err != nil {
		return fmt.Errorf("lpd: data file: %w", err)
	}

	l.jobBuf.Reset()
	return nil
}

// receiveJob opens the receive-job exchange for the queue
// (0x02 <queue> LF).
func (l *LPDTransport) receiveJob() error {
	if err := writeAll(l.conn, append([]byte{0x02}, []byte(l.queue+"\n")...)); err != nil {
		return err
	}
	return l.readAck("receive job")
}

// sendFile transmits one job subcommand, 0x02 for the control file and
// 0x03 for the data file: header line, payload, then a terminating zero
// byte, acknowledged as a whole.
func (l *LPDTransport) sendFile(cmd byte, name string, payload []byte) error {
	header := append([]byte{cmd}, []byte(strconv.Itoa(len(payload))+" "+name+"\n")...)
	if err := writeAll(l.conn, header); err != nil {
		return err
	}
	if err := writeAll(l.conn, payload); err != nil {
		return err
	}
	if err := writeAll(l.conn, []byte{0x00}); err != nil {
		return err
	}
	return l.readAck(name)
}

// readAck expects a single zero byte. Anything else means the daemon
// refused the preceding request.
func (l *LPDTransport) readAck(stage string) error {
	_ = l.conn.SetReadDeadline(time.Now().Add(lpdAckTimeout))
	defer l.conn.SetReadDeadline(time.Time{})

	ack := make([]byte, 1)
	n, err := l.conn.Read(ack)
	if err != nil {
		return fmt.Errorf("read ack on %s: %w", stage, err)
	}
	if n != 1 || ack[0] != 0x00 {
		return fmt.Errorf("request not acknowledged on %s (0x%02x)", stage, ack[0])
	}
	return nil
}
