package device

import (
	"encoding/binary"
	"sync"
	"time"

	hid "github.com/sstallion/go-hid"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/errs"
	"github.com/tmg29/tmg29/internal/report"
)

const (
	cmdSetRange         = 0x01
	cmdEnableAutocenter = 0x02
	interCommandPacing  = 10 * time.Millisecond
)

// HIDPhysicalPort is the real PhysicalWheelPort, backed by hidapi via
// go-hid. It owns the device handle exclusively; every method takes mu,
// so reads and writes from the translation loop's two flows are serialised.
type HIDPhysicalPort struct {
	mu  sync.Mutex
	dev *hid.Device

	steeringRange  uint16
	autocenterGain float32
}

// OpenHIDPhysicalPort opens the physical wheel identified by cfg.Physical,
// by serial number when one is configured, or the first matching
// vendor/product match otherwise.
func OpenHIDPhysicalPort(cfg *config.Config) (*HIDPhysicalPort, error) {
	if err := hid.Init(); err != nil {
		return nil, errs.HIDErrorf("hid init", err)
	}

	var dev *hid.Device
	var err error
	if cfg.Physical.SerialNumber != "" {
		dev, err = hid.Open(cfg.Physical.VendorID, cfg.Physical.ProductID, cfg.Physical.SerialNumber)
	} else {
		dev, err = hid.OpenFirst(cfg.Physical.VendorID, cfg.Physical.ProductID)
	}
	if err != nil {
		return nil, errs.DeviceNotFoundf(cfg.Physical.VendorID, cfg.Physical.ProductID)
	}
	if err := dev.SetNonblock(true); err != nil {
		dev.Close()
		return nil, errs.HIDErrorf("set nonblocking", err)
	}

	return &HIDPhysicalPort{
		dev:            dev,
		steeringRange:  cfg.Input.SteeringRange,
		autocenterGain: cfg.FFB.AutocenterGain,
	}, nil
}

// Initialize sends the set-range and enable-autocentre setup commands.
// The set-range payload is the configured steering range in degrees; an
// earlier revision sent the wheel's own vendor id bytes here by mistake.
func (p *HIDPhysicalPort) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	rangeData := make([]byte, 2)
	binary.LittleEndian.PutUint16(rangeData, p.steeringRange)
	if err := p.writeFramed(report.IforceCommand{CommandID: cmdSetRange, Data: rangeData}); err != nil {
		return errs.VirtualDeviceErrorf("set range", err)
	}
	time.Sleep(interCommandPacing)

	autocenter := make([]byte, 1)
	autocenter[0] = byte(p.autocenterGain * 255)
	if err := p.writeFramed(report.IforceCommand{CommandID: cmdEnableAutocenter, Data: autocenter}); err != nil {
		return errs.VirtualDeviceErrorf("enable autocentre", err)
	}
	time.Sleep(interCommandPacing)
	return nil
}

// ReadInput performs a non-blocking read of the 8-byte input report.
func (p *HIDPhysicalPort) ReadInput() ([8]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var buf [8]byte
	n, err := p.dev.Read(buf[:])
	if err != nil {
		return buf, false, errs.IOErrorf("hid read", err)
	}
	if n == 0 {
		return buf, false, nil
	}
	return buf, true, nil
}

// SendFFBPacket frames the command and writes it as a HID feature report.
func (p *HIDPhysicalPort) SendFFBPacket(cmd report.IforceCommand) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeFramed(cmd)
}

func (p *HIDPhysicalPort) writeFramed(cmd report.IforceCommand) error {
	frame := cmd.Frame()
	buf := make([]byte, 0, len(frame)+1)
	buf = append(buf, 0x00) // report id
	buf = append(buf, frame...)
	if _, err := p.dev.SendFeatureReport(buf); err != nil {
		return errs.IOErrorf("hid feature report", err)
	}
	return nil
}

func (p *HIDPhysicalPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dev.Close()
}

var _ PhysicalWheelPort = (*HIDPhysicalPort)(nil)
