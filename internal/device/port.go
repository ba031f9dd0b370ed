// Package device defines the external ports the translator depends on
// (the physical Thrustmaster wheel, the virtual G29 device) plus the
// implementations that back them: HID/uinput for real hardware, and
// demo/mock ports for testing and dry runs.
package device

import "github.com/tmg29/tmg29/internal/report"

// PhysicalWheelPort is the narrow interface the core depends on for the
// physical wheel: non-blocking input reads and framed FFB command writes.
type PhysicalWheelPort interface {
	// Initialize sends vendor-specific setup commands (set range, enable
	// autocentre) with small inter-command pacing.
	Initialize() error

	// ReadInput returns the most recent 8-byte input report, or ok=false
	// if none is ready. Non-blocking.
	ReadInput() (data [8]byte, ok bool, err error)

	// SendFFBPacket frames and transmits a single IFORCE command.
	SendFFBPacket(cmd report.IforceCommand) error

	Close() error
}

// VirtualG29Port is the narrow interface the core depends on for the
// virtual G29 device: publishing input reports and reading PID output
// reports the host's game driver emits.
type VirtualG29Port interface {
	// SendInput publishes a translated G29 input report to the host.
	SendInput(r report.G29InputReport) error

	// ReadOutput returns the next pending PID output report, or ok=false
	// if none is ready. Non-blocking.
	ReadOutput() (out report.G29OutputReport, ok bool, err error)

	Close() error
}
