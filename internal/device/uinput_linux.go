//go:build linux

package device

import (
	"sync"

	"github.com/bendahl/uinput"

	"github.com/tmg29/tmg29/internal/errs"
	"github.com/tmg29/tmg29/internal/report"
)

// UinputVirtualPort is the Linux VirtualG29Port backend, built on a uinput
// gamepad device. uinput's userspace API has no support for reading back
// force-feedback upload/play events, so ReadOutput never yields a report
// on this backend; a PID-capable bridge would need to talk to the kernel's
// EV_FF upload ioctls directly, which is out of scope for this port.
type UinputVirtualPort struct {
	mu  sync.Mutex
	pad uinput.Gamepad

	lastButtons uint32
}

// NewUinputVirtualPort creates the /dev/uinput-backed gamepad device
// advertising itself as the given vendor/product identity.
func NewUinputVirtualPort(vendor, product uint16, name string) (*UinputVirtualPort, error) {
	pad, err := uinput.CreateGamepad("/dev/uinput", []byte(name), vendor, product)
	if err != nil {
		return nil, errs.VirtualDeviceErrorf("create uinput gamepad", err)
	}
	return &UinputVirtualPort{pad: pad}, nil
}

// SendInput maps the G29 input report onto uinput gamepad axes and
// buttons: steering to the left stick X axis, throttle/brake to the right
// stick X and Y axes, clutch has no uinput gamepad analogue and is
// dropped, buttons are diffed against the last state to emit press/release
// events.
func (u *UinputVirtualPort) SendInput(r report.G29InputReport) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	steer := int32(r.Steering) - 32768
	if err := u.pad.LeftStickMove(axisFraction(steer, 32768), 0); err != nil {
		return errs.VirtualDeviceErrorf("steering move", err)
	}
	if err := u.pad.RightStickMove(axisFraction(int32(r.Throttle)-512, 512), axisFraction(int32(r.Brake)-512, 512)); err != nil {
		return errs.VirtualDeviceErrorf("pedal move", err)
	}

	changed := r.Buttons ^ u.lastButtons
	for bit, code := range gamepadButtonCodes {
		mask := uint32(1) << uint(bit)
		if changed&mask == 0 {
			continue
		}
		var err error
		if r.Buttons&mask != 0 {
			err = u.pad.ButtonDown(code)
		} else {
			err = u.pad.ButtonUp(code)
		}
		if err != nil {
			return errs.VirtualDeviceErrorf("button event", err)
		}
	}
	u.lastButtons = r.Buttons

	return nil
}

// ReadOutput never returns a report: see the type doc comment.
func (u *UinputVirtualPort) ReadOutput() (report.G29OutputReport, bool, error) {
	return report.G29OutputReport{}, false, nil
}

func (u *UinputVirtualPort) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pad.Close()
}

// axisFraction maps a signed value over [-span, span] onto uinput's
// float32 [-1, 1] stick axis range.
func axisFraction(v, span int32) float32 {
	if span == 0 {
		return 0
	}
	f := float32(v) / float32(span)
	if f > 1 {
		f = 1
	}
	if f < -1 {
		f = -1
	}
	return f
}

// gamepadButtonCodes maps the low bits of the G29 button field onto
// uinput's standard gamepad button codes. uinput only exposes this fixed
// vocabulary, so the remaining wheel buttons (13..23) have no uinput
// analogue and are silently dropped on this backend.
var gamepadButtonCodes = map[int]int{
	0:  uinput.ButtonGamepadA,
	1:  uinput.ButtonGamepadB,
	2:  uinput.ButtonGamepadX,
	3:  uinput.ButtonGamepadY,
	4:  uinput.ButtonGamepadTL,
	5:  uinput.ButtonGamepadTR,
	6:  uinput.ButtonGamepadTL2,
	7:  uinput.ButtonGamepadTR2,
	8:  uinput.ButtonGamepadSelect,
	9:  uinput.ButtonGamepadStart,
	10: uinput.ButtonGamepadMode,
	11: uinput.ButtonGamepadThumbl,
	12: uinput.ButtonGamepadThumbr,
}

var _ VirtualG29Port = (*UinputVirtualPort)(nil)
