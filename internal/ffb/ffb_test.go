package ffb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/report"
)

func u16le(v uint16) (byte, byte) {
	return byte(v), byte(v >> 8)
}

// TestParseRejectsNonEffectReports covers the accept filter: wrong report
// id, empty payload, and out-of-range effect block index all yield a nil
// descriptor with no error.
func TestParseRejectsNonEffectReports(t *testing.T) {
	out, err := Parse(report.G29OutputReport{ReportID: 0x02, Data: []byte{1, 1, 0, 0, 0, 0}})
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = Parse(report.G29OutputReport{ReportID: 0x01, Data: nil})
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = Parse(report.G29OutputReport{ReportID: 0x01, Data: []byte{41, 1, 0, 0, 0, 0}})
	require.NoError(t, err)
	assert.Nil(t, out)
}

// TestParseConstant exercises the S4 scenario: a constant effect with
// magnitude +500 and a 1000ms duration.
func TestParseConstant(t *testing.T) {
	magLo, magHi := u16le(500)
	durLo, durHi := u16le(1000)
	data := []byte{1, 0x01, magLo, magHi, durLo, durHi}

	effect, err := Parse(report.G29OutputReport{ReportID: 0x01, Data: data})
	require.NoError(t, err)
	require.NotNil(t, effect)

	assert.Equal(t, uint8(1), effect.ID)
	assert.Equal(t, KindConstant, effect.Kind)
	assert.Equal(t, int16(500), effect.Constant.Magnitude)
	assert.Equal(t, uint16(1000), effect.Constant.Duration)
}

// TestParsePeriodicSine exercises the S5 scenario.
func TestParsePeriodicSine(t *testing.T) {
	magLo, magHi := u16le(100)
	perLo, perHi := u16le(50)
	phaseLo, phaseHi := u16le(180)
	data := []byte{2, 0x04, magLo, magHi, perLo, perHi, phaseLo, phaseHi}

	effect, err := Parse(report.G29OutputReport{ReportID: 0x01, Data: data})
	require.NoError(t, err)
	require.NotNil(t, effect)

	assert.Equal(t, KindPeriodic, effect.Kind)
	assert.Equal(t, WaveformSine, effect.Periodic.Waveform)
	assert.Equal(t, uint16(100), effect.Periodic.Magnitude)
	assert.Equal(t, uint16(50), effect.Periodic.Period)
	assert.Equal(t, uint16(180), effect.Periodic.Phase)
}

func TestParseRamp(t *testing.T) {
	startLo, startHi := u16le(uint16(int16(-100)))
	endLo, endHi := u16le(200)
	durLo, durHi := u16le(500)
	data := []byte{3, 0x02, startLo, startHi, endLo, endHi, durLo, durHi}

	effect, err := Parse(report.G29OutputReport{ReportID: 0x01, Data: data})
	require.NoError(t, err)
	require.NotNil(t, effect)
	assert.Equal(t, KindRamp, effect.Kind)
	assert.Equal(t, int16(-100), effect.Ramp.StartMagnitude)
	assert.Equal(t, int16(200), effect.Ramp.EndMagnitude)
	assert.Equal(t, uint16(500), effect.Ramp.Duration)
}

func TestParseShortPayloadErrors(t *testing.T) {
	_, err := Parse(report.G29OutputReport{ReportID: 0x01, Data: []byte{1, 0x01, 0, 0}})
	require.Error(t, err)
}

func TestParseUnsupportedType(t *testing.T) {
	_, err := Parse(report.G29OutputReport{ReportID: 0x01, Data: []byte{1, 0xFF, 0, 0, 0, 0}})
	require.Error(t, err)
}

func defaultFFBConfig() *config.FFBConfig {
	return &config.FFBConfig{
		Enabled:        true,
		GlobalGain:     1.0,
		SpringGain:     1.0,
		DamperGain:     1.0,
		FrictionGain:   1.0,
		ConstantGain:   1.0,
		PeriodicGain:   1.0,
		RampGain:       1.0,
		AutocenterGain: 0.2,
		MaxForce:       2.5,
		UpdateRateHz:   1000,
	}
}

// TestEngineTranslateConstant exercises S4's engine half: at unity gains
// and the reference max_force, the command is emitted unscaled.
func TestEngineTranslateConstant(t *testing.T) {
	e := New(defaultFFBConfig())
	cmds := e.TranslateEffect(Effect{
		ID:       1,
		Kind:     KindConstant,
		Constant: Constant{Magnitude: 500, Duration: 1000},
	})
	require.Len(t, cmds, 1)
	assert.Equal(t, uint8(0x41), cmds[0].CommandID)
	assert.Equal(t, []byte{1, 0xF4, 0x01, 0xE8, 0x03}, cmds[0].Data)
}

// TestEngineTranslatePeriodicSine exercises S5's engine half.
func TestEngineTranslatePeriodicSine(t *testing.T) {
	e := New(defaultFFBConfig())
	cmds := e.TranslateEffect(Effect{
		ID:   2,
		Kind: KindPeriodic,
		Periodic: Periodic{
			Magnitude: 100,
			Period:    50,
			Phase:     180,
			Waveform:  WaveformSine,
		},
	})
	require.Len(t, cmds, 1)
	assert.Equal(t, uint8(0x42), cmds[0].CommandID)
	assert.Equal(t, []byte{2, 1, 0x64, 0x00, 0x32, 0x00, 0xB4, 0x00}, cmds[0].Data)
}

// TestEngineGainComposition exercises S6: magnitude +10000, constant_gain
// 0.5, global_gain 0.5, max_force 5.0 -> scaled 5000 (0x1388).
func TestEngineGainComposition(t *testing.T) {
	cfg := defaultFFBConfig()
	cfg.ConstantGain = 0.5
	cfg.GlobalGain = 0.5
	cfg.MaxForce = 5.0

	e := New(cfg)
	cmds := e.TranslateEffect(Effect{
		ID:       1,
		Kind:     KindConstant,
		Constant: Constant{Magnitude: 10000, Duration: 0},
	})
	require.Len(t, cmds, 1)
	mag := cmds[0].Data[1:3]
	assert.Equal(t, []byte{0x88, 0x13}, mag)
}

func TestEngineDisabledProducesNothing(t *testing.T) {
	cfg := defaultFFBConfig()
	cfg.Enabled = false
	e := New(cfg)
	cmds := e.TranslateEffect(Effect{ID: 1, Kind: KindConstant, Constant: Constant{Magnitude: 100}})
	assert.Nil(t, cmds)
}

func TestEngineCloseEmitsStopAndReset(t *testing.T) {
	e := New(defaultFFBConfig())
	e.TranslateEffect(Effect{ID: 1, Kind: KindConstant, Constant: Constant{Magnitude: 100}})
	e.TranslateEffect(Effect{ID: 2, Kind: KindConstant, Constant: Constant{Magnitude: 200}})

	cmds := e.Close()
	require.Len(t, cmds, 3)
	for _, c := range cmds[:2] {
		assert.Equal(t, uint8(0x45), c.CommandID)
	}
	assert.Equal(t, uint8(0x46), cmds[2].CommandID)
}

func TestFrameChecksumClosesToZero(t *testing.T) {
	cmd := report.IforceCommand{CommandID: 0x41, Data: []byte{1, 0xF4, 0x01, 0xE8, 0x03}}
	frame := cmd.Frame()
	require.Equal(t, []byte{0x07, 0x41, 0x01, 0xF4, 0x01, 0xE8, 0x03}, frame[:len(frame)-1])

	var checksum byte
	for _, b := range frame {
		checksum ^= b
	}
	assert.Equal(t, byte(0), checksum)
}
