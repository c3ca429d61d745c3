//go:build !windows

package printer

import "fmt"

// NewWinPrintSpoolerPrinter is only available on Windows.
func NewWinPrintSpoolerPrinter(printerName string) (*Printer, error) {
	return nil, fmt.Errorf("%w: spooler printing to %q requires windows", ErrConnection, printerName)
}
