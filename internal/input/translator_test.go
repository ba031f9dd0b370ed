package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/report"
)

func baseInputConfig() *config.InputConfig {
	buttonMap := map[uint8]uint8{0: 3, 1: 7}
	return &config.InputConfig{
		SteeringDeadzone: 0.02,
		PedalCurves: config.PedalCurves{
			Throttle: config.PedalCurve{Type: config.CurveSquared},
			Brake:    config.PedalCurve{Type: config.CurveCubed},
			Clutch:   config.PedalCurve{Type: config.CurveLinear},
		},
		ButtonMap: buttonMap,
		AxisScaling: config.AxisScaling{
			SteeringMultiplier: 1.0,
		},
	}
}

// TestTranslateCentreWithDeadzone is scenario S1.
func TestTranslateCentreWithDeadzone(t *testing.T) {
	tr := New(baseInputConfig())
	out := tr.Translate(report.ThrustmasterInputReport{Steering: 0, DPad: 8})
	assert.Equal(t, uint16(0x8000), out.Steering)
}

// TestTranslateFullSaturation is scenario S2.
func TestTranslateFullSaturation(t *testing.T) {
	tr := New(baseInputConfig())

	out := tr.Translate(report.ThrustmasterInputReport{Steering: 32767, DPad: 8})
	assert.Equal(t, uint16(0xFFFF), out.Steering)

	out = tr.Translate(report.ThrustmasterInputReport{Steering: -32768, DPad: 8})
	assert.Equal(t, uint16(0x0000), out.Steering)
}

// TestTranslatePedalCurves is scenario S3.
func TestTranslatePedalCurves(t *testing.T) {
	tr := New(baseInputConfig())

	out := tr.Translate(report.ThrustmasterInputReport{Throttle: 128, DPad: 8})
	assert.InDelta(t, 258, int(out.Throttle), 1)

	out = tr.Translate(report.ThrustmasterInputReport{Brake: 255, DPad: 8})
	assert.Equal(t, uint16(1023), out.Brake)
}

func TestSteeringMonotoneAndInRange(t *testing.T) {
	tr := New(baseInputConfig())
	var prev uint16
	for raw := int32(-32768); raw <= 32767; raw += 997 {
		out := tr.Translate(report.ThrustmasterInputReport{Steering: int16(raw), DPad: 8})
		assert.GreaterOrEqual(t, out.Steering, uint16(0))
		assert.LessOrEqual(t, out.Steering, uint16(0xFFFF))
		assert.GreaterOrEqual(t, out.Steering, prev)
		prev = out.Steering
	}
}

func TestPedalOutputAlwaysInRange(t *testing.T) {
	cfg := baseInputConfig()
	for _, curve := range []config.Curve{config.CurveLinear, config.CurveSquared, config.CurveCubed} {
		cfg.PedalCurves.Throttle.Type = curve
		tr := New(cfg)
		var prev uint16
		for raw := 0; raw <= 255; raw++ {
			out := tr.Translate(report.ThrustmasterInputReport{Throttle: uint8(raw), DPad: 8})
			require.GreaterOrEqual(t, out.Throttle, prev)
			require.LessOrEqual(t, out.Throttle, uint16(1023))
			prev = out.Throttle
		}
		assert.Equal(t, uint16(1023), prev)
	}
}

// TestButtonMapRoundTrip is the button-map property: only mapped physical
// bits set the corresponding virtual bit, and unmapped virtual bits stay 0.
func TestButtonMapRoundTrip(t *testing.T) {
	tr := New(baseInputConfig())
	out := tr.Translate(report.ThrustmasterInputReport{Buttons: 0b11, DPad: 8})
	assert.Equal(t, uint32(1<<3|1<<7), out.Buttons&0x00FFFFFF)
}

func TestDPadEncodedInTopByte(t *testing.T) {
	tr := New(baseInputConfig())
	out := tr.Translate(report.ThrustmasterInputReport{DPad: 3})
	assert.Equal(t, uint32(3), out.Buttons>>24)

	out = tr.Translate(report.ThrustmasterInputReport{DPad: 9})
	assert.Equal(t, uint32(8), out.Buttons>>24)
}

func TestLUTCurveInterpolates(t *testing.T) {
	cfg := baseInputConfig()
	cfg.PedalCurves.Throttle = config.PedalCurve{Type: config.CurveLUT, Table: []float32{0, 0.25, 1}}
	tr := New(cfg)

	out := tr.Translate(report.ThrustmasterInputReport{Throttle: 0, DPad: 8})
	assert.Equal(t, uint16(0), out.Throttle)

	out = tr.Translate(report.ThrustmasterInputReport{Throttle: 255, DPad: 8})
	assert.Equal(t, uint16(1023), out.Throttle)
}
