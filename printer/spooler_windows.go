//go:build windows

package printer

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modwinspool          = windows.NewLazySystemDLL("winspool.drv")
	procOpenPrinter      = modwinspool.NewProc("OpenPrinterW")
	procClosePrinter     = modwinspool.NewProc("ClosePrinter")
	procStartDocPrinter  = modwinspool.NewProc("StartDocPrinterW")
	procEndDocPrinter    = modwinspool.NewProc("EndDocPrinter")
	procStartPagePrinter = modwinspool.NewProc("StartPagePrinter")
	procEndPagePrinter   = modwinspool.NewProc("EndPagePrinter")
	procWritePrinter     = modwinspool.NewProc("WritePrinter")
)

// DOC_INFO_1 for StartDocPrinterW.
type docInfo1 struct {
	pDocName    *uint16
	pOutputFile *uint16
	pDatatype   *uint16
}

// spoolerTransport feeds RAW datatype bytes into a Windows print queue.
// One document spans the transport's lifetime; Close ends it.
type spoolerTransport struct {
	hPrinter windows.Handle
}

// NewWinPrintSpoolerPrinter opens the named spooler queue, starts a RAW
// document on it and binds a printer to the open page.
func NewWinPrintSpoolerPrinter(printerName string) (*Printer, error) {
	pname, err := windows.UTF16PtrFromString(printerName)
	if err != nil {
		return nil, fmt.Errorf("%w: printer name: %v", ErrConnection, err)
	}

	var hPrinter windows.Handle
	r1, _, callErr := procOpenPrinter.Call(
		uintptr(unsafe.Pointer(pname)),
		uintptr(unsafe.Pointer(&hPrinter)),
		0,
	)
	if r1 == 0 {
		return nil, fmt.Errorf("%w: open printer %q: %v", ErrConnection, printerName, callErr)
	}

	docName, _ := windows.UTF16PtrFromString("ESC/POS RAW Document")
	dataType, _ := windows.UTF16PtrFromString("RAW")
	di := docInfo1{
		pDocName:    docName,
		pOutputFile: nil,
		pDatatype:   dataType,
	}

	r1, _, callErr = procStartDocPrinter.Call(
		uintptr(hPrinter),
		1,
		uintptr(unsafe.Pointer(&di)),
	)
	if r1 == 0 {
		procClosePrinter.Call(uintptr(hPrinter))
		return nil, fmt.Errorf("%w: start document: %v", ErrConnection, callErr)
	}
	procStartPagePrinter.Call(uintptr(hPrinter))

	return newPrinter(&spoolerTransport{hPrinter: hPrinter}, DefaultConfig("")), nil
}

func (s *spoolerTransport) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	var written uint32
	r1, _, err := procWritePrinter.Call(
		uintptr(s.hPrinter),
		uintptr(unsafe.Pointer(&b[0])),
		uintptr(len(b)),
		uintptr(unsafe.Pointer(&written)),
	)
	if r1 == 0 {
		return int(written), err
	}
	return int(written), nil
}

// Read always comes back empty, the spooler is one-way.
func (s *spoolerTransport) Read(b []byte) (int, error) {
	return 0, nil
}

func (s *spoolerTransport) Close() error {
	procEndPagePrinter.Call(uintptr(s.hPrinter))
	procEndDocPrinter.Call(uintptr(s.hPrinter))
	procClosePrinter.Call(uintptr(s.hPrinter))
	return nil
}
