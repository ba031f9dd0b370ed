package ffb

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/report"
)

const referenceForceN = 2.5 // baseline force, Newtons, the config's max_force is relative to

// Engine is the stateful FFB engine: it owns the active-effect table and
// the last-update timestamp, and turns effect descriptors into IFORCE
// commands with gain and force-limit applied.
type Engine struct {
	cfg *config.FFBConfig

	mu     sync.Mutex
	active map[uint8]*ActiveEffect
	lastUpdate time.Time
}

// New creates an Engine bound to the given FFB shaping config.
func New(cfg *config.FFBConfig) *Engine {
	return &Engine{
		cfg:        cfg,
		active:     make(map[uint8]*ActiveEffect),
		lastUpdate: time.Now(),
	}
}

// TranslateEffect inserts/refreshes the active-effect table entry for the
// given descriptor and synthesises the IFORCE command(s) it maps to. When
// FFB is disabled it returns nil without touching the table.
func (e *Engine) TranslateEffect(effect Effect) []report.IforceCommand {
	if !e.cfg.Enabled {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.active[effect.ID] = &ActiveEffect{
		Effect:  effect,
		Started: time.Now(),
		Enabled: true,
	}

	switch effect.Kind {
	case KindConstant:
		return []report.IforceCommand{e.constantCommand(effect.ID, effect.Constant)}
	case KindPeriodic:
		return []report.IforceCommand{e.periodicCommand(effect.ID, effect.Periodic)}
	case KindCondition:
		return []report.IforceCommand{e.conditionCommand(effect.ID, effect.Condition)}
	case KindRamp:
		return []report.IforceCommand{e.rampCommand(effect.ID, effect.Ramp)}
	default:
		return nil
	}
}

// UpdateActiveEffects sweeps expired effects and emits periodic phase
// refreshes, rate-limited to the configured update_rate_hz. Called by the
// translation loop's periodic trigger.
func (e *Engine) UpdateActiveEffects() []report.IforceCommand {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	minInterval := time.Duration(1000/maxUint32(e.cfg.UpdateRateHz, 1)) * time.Millisecond
	if now.Sub(e.lastUpdate) < minInterval {
		return nil
	}
	elapsed := now.Sub(e.lastUpdate)

	// Expiry sweep: only Constant effects with duration > 0 expire here.
	for id, ae := range e.active {
		if ae.Effect.Kind == KindConstant && ae.Effect.Constant.Duration > 0 {
			if now.Sub(ae.Started) >= time.Duration(ae.Effect.Constant.Duration)*time.Millisecond {
				delete(e.active, id)
			}
		}
	}

	var commands []report.IforceCommand
	for id, ae := range e.active {
		if ae.Effect.Kind != KindPeriodic {
			continue
		}
		period := ae.Effect.Periodic.Period
		if period == 0 {
			continue
		}
		deltaPhase := uint16((elapsed.Milliseconds() * 360 / int64(period)) % 360)
		ae.Effect.Periodic.Phase = (ae.Effect.Periodic.Phase + deltaPhase) % 360
		commands = append(commands, e.periodicCommand(id, ae.Effect.Periodic))
	}

	e.lastUpdate = now
	return commands
}

// Close emits a stop command for every active effect followed by a single
// reset-all command, then clears the table, so the wheel doesn't keep
// driving a force after the translator exits.
func (e *Engine) Close() []report.IforceCommand {
	e.mu.Lock()
	defer e.mu.Unlock()

	commands := make([]report.IforceCommand, 0, len(e.active)+1)
	for id := range e.active {
		commands = append(commands, report.IforceCommand{CommandID: 0x45, Data: []byte{id}})
	}
	commands = append(commands, report.IforceCommand{CommandID: 0x46})
	e.active = make(map[uint8]*ActiveEffect)
	return commands
}

// RemoveEffect explicitly stops and removes a single active effect,
// emitting its stop command.
func (e *Engine) RemoveEffect(id uint8) []report.IforceCommand {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.active[id]; !ok {
		return nil
	}
	delete(e.active, id)
	return []report.IforceCommand{{CommandID: 0x45, Data: []byte{id}}}
}

func (e *Engine) constantCommand(id uint8, c Constant) report.IforceCommand {
	mag := e.scaleMagnitude(e.applyGain(c.Magnitude, e.cfg.ConstantGain))
	data := make([]byte, 5)
	data[0] = id
	binary.LittleEndian.PutUint16(data[1:3], uint16(mag))
	binary.LittleEndian.PutUint16(data[3:5], c.Duration)
	return report.IforceCommand{CommandID: 0x41, Data: data}
}

func (e *Engine) periodicCommand(id uint8, p Periodic) report.IforceCommand {
	mag := e.scaleMagnitude(e.applyGain(int16(p.Magnitude), e.cfg.PeriodicGain))
	data := make([]byte, 8)
	data[0] = id
	data[1] = waveformID(p.Waveform)
	binary.LittleEndian.PutUint16(data[2:4], uint16(mag))
	binary.LittleEndian.PutUint16(data[4:6], p.Period)
	binary.LittleEndian.PutUint16(data[6:8], p.Phase)
	return report.IforceCommand{CommandID: 0x42, Data: data}
}

// Condition coefficients are passed through gain-adjusted only, without
// the max_force scaling step: §9 notes IFORCE's coefficient ranges differ
// from PID's, so this preserves pass-through rather than re-encoding.
func (e *Engine) conditionCommand(id uint8, c Condition) report.IforceCommand {
	gain := e.conditionGain(c.Type)
	pos := e.applyGain(c.PositiveCoeff, gain)
	neg := e.applyGain(c.NegativeCoeff, gain)
	data := make([]byte, 6)
	data[0] = id
	data[1] = conditionID(c.Type)
	binary.LittleEndian.PutUint16(data[2:4], uint16(pos))
	binary.LittleEndian.PutUint16(data[4:6], uint16(neg))
	return report.IforceCommand{CommandID: 0x43, Data: data}
}

func (e *Engine) rampCommand(id uint8, r Ramp) report.IforceCommand {
	start := e.scaleMagnitude(e.applyGain(r.StartMagnitude, e.cfg.RampGain))
	end := e.scaleMagnitude(e.applyGain(r.EndMagnitude, e.cfg.RampGain))
	data := make([]byte, 7)
	data[0] = id
	binary.LittleEndian.PutUint16(data[1:3], uint16(start))
	binary.LittleEndian.PutUint16(data[3:5], uint16(end))
	binary.LittleEndian.PutUint16(data[5:7], r.Duration)
	return report.IforceCommand{CommandID: 0x44, Data: data}
}

func (e *Engine) conditionGain(t ConditionType) float32 {
	switch t {
	case ConditionSpring:
		return e.cfg.SpringGain
	case ConditionDamper:
		return e.cfg.DamperGain
	case ConditionInertia:
		return 1.0 // not specifically configurable
	case ConditionFriction:
		return e.cfg.FrictionGain
	default:
		return 1.0
	}
}

// applyGain composes a per-effect gain with the global gain and clamps to
// the signed 16-bit range. Order: per-effect gain -> global gain -> clamp.
func (e *Engine) applyGain(value int16, gain float32) int16 {
	adjusted := float64(value) * float64(gain) * float64(e.cfg.GlobalGain)
	return clampI16(adjusted)
}

// scaleMagnitude applies the force-limit ratio (max_force / reference) and
// clamps again, re-encoding as signed 16-bit.
func (e *Engine) scaleMagnitude(magnitude int16) int16 {
	ratio := float64(e.cfg.MaxForce) / referenceForceN
	scaled := float64(magnitude) * ratio
	return clampI16(scaled)
}

func clampI16(v float64) int16 {
	if v > 32767 {
		v = 32767
	}
	if v < -32767 {
		v = -32767
	}
	return int16(v)
}

func waveformID(w Waveform) uint8 {
	switch w {
	case WaveformSine:
		return 1
	case WaveformSquare:
		return 2
	case WaveformTriangle:
		return 3
	case WaveformSawtoothUp:
		return 4
	case WaveformSawtoothDown:
		return 5
	default:
		return 0
	}
}

func conditionID(t ConditionType) uint8 {
	switch t {
	case ConditionSpring:
		return 1
	case ConditionDamper:
		return 2
	case ConditionInertia:
		return 3
	case ConditionFriction:
		return 4
	default:
		return 0
	}
}

func maxUint32(v, floor uint32) uint32 {
	if v < floor {
		return floor
	}
	return v
}
