package printer

import (
	"fmt"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/escpos-network-lib/log"
)

// serialReadTimeout keeps status reads on a quiet line short; the port
// reports a timed-out read as zero bytes.
const serialReadTimeout = 100 * time.Millisecond

// NewSerialPrinter opens a serial port (COM*, /dev/ttyUSB*,
// /dev/cu.usbmodem*) at baudRate with 8N1 framing and binds a printer to
// it. The port list is checked first; an unknown name fails without
// touching the device.
func NewSerialPrinter(portName string, baudRate int) (*Printer, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("%w: list serial ports: %v", ErrConnection, err)
	}
	if !contains(ports, portName) {
		return nil, fmt.Errorf("%w: serial port %s not found", ErrConnection, portName)
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: open serial port %s: %v", ErrConnection, portName, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: set read timeout on %s: %v", ErrConnection, portName, err)
	}

	logInternal.L().Info("serial port opened",
		zap.String("port", portName), zap.Int("baud", baudRate))
	return newPrinter(port, DefaultConfig("")), nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
