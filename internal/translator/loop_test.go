package translator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/device"
	"github.com/tmg29/tmg29/internal/report"
)

func testConfig() *config.Config {
	buttonMap := map[uint8]uint8{0: 0}
	return &config.Config{
		Input: config.InputConfig{
			SteeringDeadzone: 0.02,
			PedalCurves: config.PedalCurves{
				Throttle: config.PedalCurve{Type: config.CurveLinear},
				Brake:    config.PedalCurve{Type: config.CurveLinear},
				Clutch:   config.PedalCurve{Type: config.CurveLinear},
			},
			ButtonMap:   buttonMap,
			AxisScaling: config.AxisScaling{SteeringMultiplier: 1.0},
		},
		FFB: config.FFBConfig{
			Enabled:      true,
			GlobalGain:   1.0,
			ConstantGain: 1.0,
			PeriodicGain: 1.0,
			MaxForce:     2.5,
			UpdateRateHz: 1000,
		},
	}
}

type recordingObserver struct {
	inputs []report.G29InputReport
	ffb    []report.IforceCommand
}

func (r *recordingObserver) ObserveInput(in report.G29InputReport) { r.inputs = append(r.inputs, in) }
func (r *recordingObserver) ObserveFFB(cmd report.IforceCommand)   { r.ffb = append(r.ffb, cmd) }

// TestLoopPublishesInputInOrder verifies the input pump translates and
// publishes every report the demo physical port produces, in order, and
// exits cleanly when the context is cancelled.
func TestLoopPublishesInputInOrder(t *testing.T) {
	physical := device.NewDemoPhysicalPort()
	virtual := device.NewMockVirtualG29Port()
	obs := &recordingObserver{}

	loop := New(testConfig(), physical, virtual, obs)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := loop.Run(ctx)
	require.NoError(t, err)

	published := virtual.Inputs()
	assert.NotEmpty(t, published)
	assert.Equal(t, len(published), len(obs.inputs))
	for i := range published {
		assert.Equal(t, published[i], obs.inputs[i])
	}
}

// TestLoopTranslatesOutputReportsToFFBCommands verifies a queued PID
// output report is parsed, translated, and shipped to the physical port.
func TestLoopTranslatesOutputReportsToFFBCommands(t *testing.T) {
	physical := device.NewDemoPhysicalPort()
	virtual := device.NewMockVirtualG29Port()

	virtual.QueueOutput(report.G29OutputReport{
		ReportID: 0x01,
		Data:     []byte{1, 0x01, 0xF4, 0x01, 0xE8, 0x03},
	})

	loop := New(testConfig(), physical, virtual, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := loop.Run(ctx)
	require.NoError(t, err)

	sent := physical.Sent()
	require.NotEmpty(t, sent)
	assert.Equal(t, uint8(0x41), sent[0].CommandID)
}

// TestLoopTeardownEmitsStopCommands verifies the engine's Close() commands
// are sent to the physical port when the loop exits.
func TestLoopTeardownEmitsStopCommands(t *testing.T) {
	physical := device.NewDemoPhysicalPort()
	virtual := device.NewMockVirtualG29Port()

	virtual.QueueOutput(report.G29OutputReport{
		ReportID: 0x01,
		Data:     []byte{1, 0x01, 0xF4, 0x01, 0xE8, 0x03},
	})

	loop := New(testConfig(), physical, virtual, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, loop.Run(ctx))

	sent := physical.Sent()
	last := sent[len(sent)-1]
	assert.Equal(t, uint8(0x46), last.CommandID)
}
