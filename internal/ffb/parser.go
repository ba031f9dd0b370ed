package ffb

import (
	"encoding/binary"

	"github.com/tmg29/tmg29/internal/errs"
	"github.com/tmg29/tmg29/internal/report"
)

// Parse consumes a raw G29 output report and produces an effect
// descriptor, or (nil, nil) when the report is not an FFB effect (wrong
// report id, empty payload, or an effect block index outside [1, 40]).
//
// Type code 0x02 dispatches to a Ramp effect, giving the engine's Ramp ->
// IFORCE translation a wire-level entry point instead of leaving it
// unreachable.
func Parse(out report.G29OutputReport) (*Effect, error) {
	if out.ReportID != 0x01 || len(out.Data) == 0 {
		return nil, nil
	}

	effectID := out.Data[0]
	if effectID < 1 || effectID > 40 {
		return nil, nil
	}

	if len(out.Data) < 2 {
		return nil, errs.InvalidReportf("ffb report missing effect type byte")
	}
	effectType := out.Data[1]
	params := out.Data[2:]

	return parseByType(effectID, effectType, params)
}

func parseByType(effectID, effectType uint8, data []byte) (*Effect, error) {
	switch {
	case effectType == 0x01:
		if len(data) < 4 {
			return nil, errs.InvalidReportf("constant effect data too short")
		}
		return &Effect{
			ID:   effectID,
			Kind: KindConstant,
			Gain: 0xFF,
			Constant: Constant{
				Magnitude: int16(binary.LittleEndian.Uint16(data[0:2])),
				Duration:  binary.LittleEndian.Uint16(data[2:4]),
			},
		}, nil

	case effectType == 0x02:
		if len(data) < 6 {
			return nil, errs.InvalidReportf("ramp effect data too short")
		}
		return &Effect{
			ID:   effectID,
			Kind: KindRamp,
			Gain: 0xFF,
			Ramp: Ramp{
				StartMagnitude: int16(binary.LittleEndian.Uint16(data[0:2])),
				EndMagnitude:   int16(binary.LittleEndian.Uint16(data[2:4])),
				Duration:       binary.LittleEndian.Uint16(data[4:6]),
			},
		}, nil

	case effectType >= 0x03 && effectType <= 0x07:
		if len(data) < 6 {
			return nil, errs.InvalidReportf("periodic effect data too short")
		}
		waveform, ok := waveformForType(effectType)
		if !ok {
			return nil, errs.FFBErrorf("unsupported effect type")
		}
		return &Effect{
			ID:   effectID,
			Kind: KindPeriodic,
			Gain: 0xFF,
			Periodic: Periodic{
				Magnitude: binary.LittleEndian.Uint16(data[0:2]),
				Period:    binary.LittleEndian.Uint16(data[2:4]),
				Phase:     binary.LittleEndian.Uint16(data[4:6]),
				Waveform:  waveform,
			},
		}, nil

	case effectType >= 0x08 && effectType <= 0x0B:
		if len(data) < 4 {
			return nil, errs.InvalidReportf("condition effect data too short")
		}
		condType, ok := conditionForType(effectType)
		if !ok {
			return nil, errs.FFBErrorf("unsupported effect type")
		}
		return &Effect{
			ID:   effectID,
			Kind: KindCondition,
			Gain: 0xFF,
			Condition: Condition{
				PositiveCoeff: int16(binary.LittleEndian.Uint16(data[0:2])),
				NegativeCoeff: int16(binary.LittleEndian.Uint16(data[2:4])),
				Type:          condType,
			},
		}, nil

	default:
		return nil, errs.FFBErrorf("unsupported effect type")
	}
}

func waveformForType(effectType uint8) (Waveform, bool) {
	switch effectType {
	case 0x03:
		return WaveformSquare, true
	case 0x04:
		return WaveformSine, true
	case 0x05:
		return WaveformTriangle, true
	case 0x06:
		return WaveformSawtoothUp, true
	case 0x07:
		return WaveformSawtoothDown, true
	default:
		return 0, false
	}
}

func conditionForType(effectType uint8) (ConditionType, bool) {
	switch effectType {
	case 0x08:
		return ConditionSpring, true
	case 0x09:
		return ConditionDamper, true
	case 0x0A:
		return ConditionInertia, true
	case 0x0B:
		return ConditionFriction, true
	default:
		return 0, false
	}
}
