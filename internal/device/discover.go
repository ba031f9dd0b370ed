package device

import (
	hid "github.com/sstallion/go-hid"

	"github.com/tmg29/tmg29/internal/errs"
)

// Info describes one enumerated HID device.
type Info struct {
	VendorID     uint16
	ProductID    uint16
	SerialNumber string
	Product      string
	Manufacturer string
	Path         string
}

// Discover enumerates HID devices matching vid/pid (0 matches any), for
// the `tmg29 discover` subcommand.
func Discover(vendorID, productID uint16) ([]Info, error) {
	var found []Info
	err := hid.Enumerate(vendorID, productID, func(d *hid.DeviceInfo) error {
		found = append(found, Info{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			SerialNumber: d.SerialNbr,
			Product:      d.ProductStr,
			Manufacturer: d.MfrStr,
			Path:         d.Path,
		})
		return nil
	})
	if err != nil {
		return nil, errs.HIDErrorf("enumerate", err)
	}
	return found, nil
}
