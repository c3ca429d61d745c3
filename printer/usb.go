package printer

import (
	"fmt"

	"github.com/google/gousb"
	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/escpos-network-lib/log"
)

// usbTransport owns the whole gousb handle chain for one open device.
type usbTransport struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint
	in   *gousb.InEndpoint
	log  *zap.Logger
}

// NewUSBPrinter claims the first interface of the device vendorID:productID
// and binds a printer to its bulk endpoints. Devices without an IN
// endpoint still work, their status reads come back empty.
func NewUSBPrinter(vendorID, productID gousb.ID) (*Printer, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: open usb device %s:%s: %v", ErrConnection, vendorID, productID, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: usb device %s:%s not found", ErrConnection, vendorID, productID)
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: detach kernel driver: %v", ErrConnection, err)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: usb configuration: %v", ErrConnection, err)
	}

	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: claim usb interface: %v", ErrConnection, err)
	}

	out, err := intf.OutEndpoint(0x01)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("%w: usb out endpoint: %v", ErrConnection, err)
	}

	in, err := intf.InEndpoint(1)
	if err != nil {
		in = nil
	}

	t := &usbTransport{
		ctx: ctx, dev: dev, cfg: cfg, intf: intf, out: out, in: in,
		log: logInternal.L().With(zap.String("transport", "usb")),
	}
	t.log.Info("usb device opened",
		zap.String("vendor", vendorID.String()), zap.String("product", productID.String()))
	return newPrinter(t, DefaultConfig("")), nil
}

func (u *usbTransport) Write(b []byte) (int, error) {
	return u.out.Write(b)
}

// Read drains the IN endpoint. A device without one answers nothing, so
// the read is empty.
func (u *usbTransport) Read(b []byte) (int, error) {
	if u.in == nil {
		u.log.Debug("device has no in endpoint, empty status read")
		return 0, nil
	}
	return u.in.Read(b)
}

func (u *usbTransport) Close() error {
	if u.intf != nil {
		u.intf.Close()
	}
	if u.cfg != nil {
		_ = u.cfg.Close()
	}
	if u.dev != nil {
		_ = u.dev.Close()
	}
	if u.ctx != nil {
		_ = u.ctx.Close()
	}
	return nil
}
