package device

import (
	"math"
	"sync"

	"github.com/tmg29/tmg29/internal/report"
)

// DemoPhysicalPort generates simulated Thrustmaster input and records FFB
// commands instead of sending them anywhere, for `tmg29 test`/`tmg29 ffb-test` dry runs and development
// without hardware attached.
type DemoPhysicalPort struct {
	mu sync.Mutex
	t  float64

	sent []report.IforceCommand
}

// NewDemoPhysicalPort creates a simulated physical wheel port.
func NewDemoPhysicalPort() *DemoPhysicalPort {
	return &DemoPhysicalPort{}
}

func (d *DemoPhysicalPort) Initialize() error { return nil }

// ReadInput produces an input report on every call (never empty), a
// steering sweep with pedals ramping in sequence.
func (d *DemoPhysicalPort) ReadInput() ([8]byte, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.t += 0.001 // matches the 1ms input-pump cadence

	steering := int16(32767 * math.Sin(d.t*0.5))
	throttle := uint8((math.Sin(d.t*0.2) + 1) / 2 * 255)
	brake := uint8((math.Cos(d.t*0.2) + 1) / 2 * 255)

	in := report.ThrustmasterInputReport{
		Steering: steering,
		Throttle: throttle,
		Brake:    brake,
		Clutch:   0,
		Buttons:  0,
		DPad:     8,
	}

	var data [8]byte
	data[0] = byte(uint16(in.Steering))
	data[1] = byte(uint16(in.Steering) >> 8)
	data[2] = in.Throttle
	data[3] = in.Brake
	data[4] = in.Clutch
	data[5] = byte(in.Buttons)
	data[6] = byte(in.Buttons >> 8)
	data[7] = in.DPad
	return data, true, nil
}

// SendFFBPacket records the command for inspection by CLI/test harnesses.
func (d *DemoPhysicalPort) SendFFBPacket(cmd report.IforceCommand) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, cmd)
	return nil
}

// Sent returns every FFB command handed to this port so far.
func (d *DemoPhysicalPort) Sent() []report.IforceCommand {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]report.IforceCommand, len(d.sent))
	copy(out, d.sent)
	return out
}

func (d *DemoPhysicalPort) Close() error { return nil }

// MockVirtualG29Port records every input report published to it and lets a
// caller queue output reports for the translation loop to consume,
// standing in for an OS virtual HID device in tests and dry runs.
type MockVirtualG29Port struct {
	mu      sync.Mutex
	inputs  []report.G29InputReport
	outputs []report.G29OutputReport
}

// NewMockVirtualG29Port creates a mock virtual device port.
func NewMockVirtualG29Port() *MockVirtualG29Port {
	return &MockVirtualG29Port{}
}

func (m *MockVirtualG29Port) SendInput(r report.G29InputReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, r)
	return nil
}

// Inputs returns every input report published so far.
func (m *MockVirtualG29Port) Inputs() []report.G29InputReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]report.G29InputReport, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// QueueOutput enqueues a PID output report for the next ReadOutput call.
func (m *MockVirtualG29Port) QueueOutput(out report.G29OutputReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs = append(m.outputs, out)
}

func (m *MockVirtualG29Port) ReadOutput() (report.G29OutputReport, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.outputs) == 0 {
		return report.G29OutputReport{}, false, nil
	}
	out := m.outputs[0]
	m.outputs = m.outputs[1:]
	return out, true, nil
}

func (m *MockVirtualG29Port) Close() error { return nil }

var (
	_ PhysicalWheelPort = (*DemoPhysicalPort)(nil)
	_ VirtualG29Port    = (*MockVirtualG29Port)(nil)
)
