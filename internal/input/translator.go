// Package input translates physical Thrustmaster input reports into G29
// input reports: steering deadzone + rescale, pedal curve application,
// configurable button remap, and D-pad encoding.
package input

import (
	"math"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/report"
)

// Translator is a pure, single-threaded transformation. It retains the
// last-seen steering value only for diagnostics; the transformation itself
// carries no state across calls.
type Translator struct {
	cfg *config.InputConfig

	lastSteering uint16
}

// New creates a Translator bound to the given input shaping config.
func New(cfg *config.InputConfig) *Translator {
	return &Translator{cfg: cfg}
}

// LastSteering returns the most recently produced G29 steering value, for
// diagnostics only.
func (t *Translator) LastSteering() uint16 { return t.lastSteering }

// Translate converts a Thrustmaster input report into a G29 input report.
// Every invocation produces a report; there are no error cases.
func (t *Translator) Translate(in report.ThrustmasterInputReport) report.G29InputReport {
	steering := t.processSteering(in.Steering)
	throttle := applyPedalCurve(in.Throttle, t.cfg.PedalCurves.Throttle)
	brake := applyPedalCurve(in.Brake, t.cfg.PedalCurves.Brake)
	clutch := applyPedalCurve(in.Clutch, t.cfg.PedalCurves.Clutch)

	buttons := t.mapButtons(in.Buttons)
	buttons = includeDPad(buttons, in.DPad)

	t.lastSteering = steering

	return report.G29InputReport{
		ReportID: 0x01,
		Steering: steering,
		Throttle: throttle,
		Brake:    brake,
		Clutch:   clutch,
		Buttons:  buttons,
	}
}

// processSteering applies deadzone, rescale and multiplier, then converts
// to the G29 encoding (centre = 0x8000), per spec.md §4.1.
func (t *Translator) processSteering(raw int16) uint16 {
	x := float64(raw) / 32767.0
	deadzone := float64(t.cfg.SteeringDeadzone)

	var processed float64
	if math.Abs(x) < deadzone {
		processed = 0
	} else {
		sign := 1.0
		if x < 0 {
			sign = -1.0
		}
		processed = sign * (math.Abs(x) - deadzone) / (1.0 - deadzone)
	}

	scaled := processed * float64(t.cfg.AxisScaling.SteeringMultiplier)
	v := math.Round(scaled*32767.0) + 32768.0
	if v < 0 {
		v = 0
	}
	if v > 65535 {
		v = 65535
	}
	return uint16(v)
}

// applyPedalCurve normalises a raw 0-255 pedal value, shapes it through the
// configured curve, and scales it to the G29's 10-bit pedal range.
func applyPedalCurve(raw uint8, curve config.PedalCurve) uint16 {
	p := float64(raw) / 255.0

	var curved float64
	switch curve.Type {
	case config.CurveSquared:
		curved = p * p
	case config.CurveCubed:
		curved = p * p * p
	case config.CurveLUT:
		curved = lutInterp(p, curve.Table)
	default: // CurveLinear and unrecognised values fall back to linear
		curved = p
	}

	out := math.Round(curved * 1023.0)
	if out < 0 {
		out = 0
	}
	if out > 1023 {
		out = 1023
	}
	return uint16(out)
}

// lutInterp performs piecewise-linear interpolation over an N-point table
// indexed by p*(N-1), holding the right endpoint beyond the table.
func lutInterp(p float64, table []float32) float64 {
	n := len(table)
	if n == 0 {
		return p
	}
	if n == 1 {
		return float64(table[0])
	}

	pos := p * float64(n-1)
	idx := int(pos)
	if idx >= n-1 {
		return float64(table[n-1])
	}
	frac := pos - float64(idx)
	return float64(table[idx])*(1-frac) + float64(table[idx+1])*frac
}

// mapButtons remaps physical bits to virtual bits per the configured
// button map; unmapped physical bits are dropped.
func (t *Translator) mapButtons(buttons uint16) uint32 {
	var mapped uint32
	for physBit, virtBit := range t.cfg.ButtonMap {
		if buttons&(1<<physBit) != 0 {
			mapped |= 1 << virtBit
		}
	}
	return mapped
}

// includeDPad clamps the 4-bit D-pad value to 8 (centre) if out of range
// and shifts it into bits 24..31 of the button field.
func includeDPad(buttons uint32, dpad uint8) uint32 {
	if dpad >= 8 {
		dpad = 8
	}
	return buttons | (uint32(dpad) << 24)
}
