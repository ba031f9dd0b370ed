// Package ffb implements the FFB Parser (raw PID output report -> typed
// effect descriptor) and the FFB Engine (stateful active-effect table,
// gain composition, IFORCE command synthesis).
package ffb

import "time"

// Waveform identifies a periodic effect's shape.
type Waveform uint8

const (
	WaveformSine Waveform = iota + 1
	WaveformSquare
	WaveformTriangle
	WaveformSawtoothUp
	WaveformSawtoothDown
)

// ConditionType identifies a condition effect's kind.
type ConditionType uint8

const (
	ConditionSpring ConditionType = iota + 1
	ConditionDamper
	ConditionInertia
	ConditionFriction
)

// Kind discriminates the Effect union.
type Kind uint8

const (
	KindConstant Kind = iota
	KindPeriodic
	KindCondition
	KindRamp
)

// Constant is a constant-force effect: a fixed magnitude for a fixed
// duration (0 = infinite).
type Constant struct {
	Magnitude int16
	Duration  uint16 // ms, 0 = infinite
}

// Periodic is a periodic-force effect.
type Periodic struct {
	Magnitude uint16
	Period    uint16 // ms
	Phase     uint16 // degrees, 0-359
	Waveform  Waveform
}

// Condition is a condition effect (spring/damper/inertia/friction).
type Condition struct {
	PositiveCoeff int16
	NegativeCoeff int16
	Type          ConditionType
}

// Ramp is a ramp effect from a start to an end magnitude over a duration.
type Ramp struct {
	StartMagnitude int16
	EndMagnitude   int16
	Duration       uint16 // ms
}

// Effect is the tagged-union FFB effect descriptor produced by the parser
// and consumed by the engine.
type Effect struct {
	ID   uint8 // effect block index, 1..40
	Kind Kind
	Gain uint8 // initial gain byte from the wire; the engine applies its own gains

	Constant  Constant
	Periodic  Periodic
	Condition Condition
	Ramp      Ramp
}

// ActiveEffect is an engine-owned record of a currently active effect.
type ActiveEffect struct {
	Effect  Effect
	Started time.Time
	Enabled bool
}
