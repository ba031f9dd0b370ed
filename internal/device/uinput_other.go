//go:build !linux

package device

import (
	"github.com/tmg29/tmg29/internal/errs"
	"github.com/tmg29/tmg29/internal/report"
)

// UinputVirtualPort is unavailable outside Linux; NewUinputVirtualPort
// always fails so callers fall back to discovery/config errors rather than
// a nil port.
type UinputVirtualPort struct{}

func NewUinputVirtualPort(vendor, product uint16, name string) (*UinputVirtualPort, error) {
	return nil, errs.UnsupportedPlatformf("uinput virtual device is Linux-only")
}

func (u *UinputVirtualPort) SendInput(r report.G29InputReport) error {
	return errs.UnsupportedPlatformf("uinput virtual device is Linux-only")
}

func (u *UinputVirtualPort) ReadOutput() (report.G29OutputReport, bool, error) {
	return report.G29OutputReport{}, false, errs.UnsupportedPlatformf("uinput virtual device is Linux-only")
}

func (u *UinputVirtualPort) Close() error { return nil }

var _ VirtualG29Port = (*UinputVirtualPort)(nil)
