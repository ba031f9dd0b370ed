// Package config holds the translator's configuration model: it is loaded
// once at startup and passed by reference into every other component.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tmg29/tmg29/internal/errs"
)

// Config holds the full translator configuration.
type Config struct {
	mu sync.RWMutex

	Physical PhysicalConfig `yaml:"physical" json:"physical"`
	Virtual  VirtualConfig  `yaml:"virtual" json:"virtual"`
	Input    InputConfig    `yaml:"input" json:"input"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	FFB      FFBConfig      `yaml:"ffb" json:"ffb"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`

	path string
}

// PhysicalConfig identifies and controls access to the physical wheel.
type PhysicalConfig struct {
	VendorID       uint16 `yaml:"vendor_id" json:"vendorId"`
	ProductID      uint16 `yaml:"product_id" json:"productId"`
	SerialNumber   string `yaml:"serial_number" json:"serialNumber"`
	ExclusiveAccess bool  `yaml:"exclusive_access" json:"exclusiveAccess"`
}

// VirtualConfig describes the identity the virtual G29 device advertises.
type VirtualConfig struct {
	VendorID            uint16 `yaml:"vendor_id" json:"vendorId"`
	ProductID           uint16 `yaml:"product_id" json:"productId"`
	ProductString       string `yaml:"product_string" json:"productString"`
	ManufacturerString  string `yaml:"manufacturer_string" json:"manufacturerString"`
	SerialNumberString  string `yaml:"serial_number_string" json:"serialNumberString"`
}

// Curve is a pedal response curve.
type Curve string

const (
	CurveLinear Curve = "linear"
	CurveSquared Curve = "squared"
	CurveCubed  Curve = "cubed"
	CurveLUT    Curve = "lut"
)

// PedalCurve pairs a curve selection with its lookup table (used only when
// Type == CurveLUT).
type PedalCurve struct {
	Type  Curve     `yaml:"type" json:"type"`
	Table []float32 `yaml:"table,omitempty" json:"table,omitempty"`
}

// PedalCurves holds per-pedal curve selection.
type PedalCurves struct {
	Throttle PedalCurve `yaml:"throttle" json:"throttle"`
	Brake    PedalCurve `yaml:"brake" json:"brake"`
	Clutch   PedalCurve `yaml:"clutch" json:"clutch"`
}

// AxisScaling holds per-axis multipliers. Per spec.md §4.1 the multiplier
// applies to steering only; the pedal fields are retained for parity with
// the configuration file format but are not applied by the input
// translator (pedals are shaped purely by curve to preserve 10-bit range).
type AxisScaling struct {
	SteeringMultiplier float32 `yaml:"steering_multiplier" json:"steeringMultiplier"`
	ThrottleMultiplier float32 `yaml:"throttle_multiplier" json:"throttleMultiplier"`
	BrakeMultiplier    float32 `yaml:"brake_multiplier" json:"brakeMultiplier"`
	ClutchMultiplier   float32 `yaml:"clutch_multiplier" json:"clutchMultiplier"`
}

// InputConfig shapes the physical-to-virtual input translation.
type InputConfig struct {
	SteeringRange    uint16         `yaml:"steering_range" json:"steeringRange"`
	SteeringDeadzone float32        `yaml:"steering_deadzone" json:"steeringDeadzone"`
	PedalCurves      PedalCurves    `yaml:"pedal_curves" json:"pedalCurves"`
	ButtonMap        map[uint8]uint8 `yaml:"button_map" json:"buttonMap"`
	AxisScaling      AxisScaling    `yaml:"axis_scaling" json:"axisScaling"`
}

// OutputConfig controls LED/output feedback.
type OutputConfig struct {
	LEDEnabled bool    `yaml:"led_enabled" json:"ledEnabled"`
	Brightness float32 `yaml:"brightness" json:"brightness"`
}

// FFBConfig shapes force-feedback gain composition.
type FFBConfig struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	GlobalGain     float32 `yaml:"global_gain" json:"globalGain"`
	SpringGain     float32 `yaml:"spring_gain" json:"springGain"`
	DamperGain     float32 `yaml:"damper_gain" json:"damperGain"`
	FrictionGain   float32 `yaml:"friction_gain" json:"frictionGain"`
	ConstantGain   float32 `yaml:"constant_gain" json:"constantGain"`
	PeriodicGain   float32 `yaml:"periodic_gain" json:"periodicGain"`
	RampGain       float32 `yaml:"ramp_gain" json:"rampGain"`
	AutocenterGain float32 `yaml:"autocenter_gain" json:"autocenterGain"`
	MaxForce       float32 `yaml:"max_force" json:"maxForce"`
	UpdateRateHz   uint32  `yaml:"update_rate_hz" json:"updateRateHz"`
}

// LoggingConfig controls the CSV report/FFB recorder (internal/reportlog).
type LoggingConfig struct {
	Enabled        bool   `yaml:"enabled" json:"enabled"`
	Path           string `yaml:"path" json:"path"`
	IntervalMs     int    `yaml:"interval_ms" json:"intervalMs"`
	LogHIDReports  bool   `yaml:"log_hid_reports" json:"logHidReports"`
	LogFFBCommands bool   `yaml:"log_ffb_commands" json:"logFfbCommands"`
}

// DefaultConfig returns a config with sensible defaults, matching
// original_source's Config::default() field-for-field.
func DefaultConfig() *Config {
	buttonMap := make(map[uint8]uint8, 14)
	for i := uint8(0); i < 14; i++ {
		buttonMap[i] = i
	}

	return &Config{
		Physical: PhysicalConfig{
			VendorID:        0x044F, // Guillemot/Thrustmaster
			ProductID:       0x0004,
			ExclusiveAccess: true,
		},
		Virtual: VirtualConfig{
			VendorID:           0x046D, // Logitech
			ProductID:          0xC24F, // G29
			ProductString:      "G29 Driving Force Racing Wheel",
			ManufacturerString: "Logitech",
			SerialNumberString: "TM2G29001",
		},
		Input: InputConfig{
			SteeringRange:    900,
			SteeringDeadzone: 0.02,
			PedalCurves: PedalCurves{
				Throttle: PedalCurve{Type: CurveLinear},
				Brake:    PedalCurve{Type: CurveLinear},
				Clutch:   PedalCurve{Type: CurveLinear},
			},
			ButtonMap: buttonMap,
			AxisScaling: AxisScaling{
				SteeringMultiplier: 1.0,
				ThrottleMultiplier: 1.0,
				BrakeMultiplier:    1.0,
				ClutchMultiplier:   1.0,
			},
		},
		Output: OutputConfig{
			LEDEnabled: true,
			Brightness: 1.0,
		},
		FFB: FFBConfig{
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
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Path:       "/var/log/tmg29",
			IntervalMs: 100,
		},
	}
}

// LoadConfig reads config from a YAML file, then applies environment
// variable overrides. A missing file is not fatal (spec.md §6) and falls
// back to defaults; a YAML syntax error is fatal at startup (spec.md §7)
// and is returned as a ConfigError rather than silently swallowed.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[config] no config at %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.ConfigErrorf(fmt.Sprintf("parse %s", path), err)
	} else {
		log.Printf("[config] loaded from %s", path)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides reads TMG29_* environment variables and overrides
// config values, matching the teacher's env-override pattern.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TMG29_PHYSICAL_VID"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 16); err == nil {
			c.Physical.VendorID = uint16(n)
		}
	}
	if v := os.Getenv("TMG29_PHYSICAL_PID"); v != "" {
		if n, err := strconv.ParseUint(v, 0, 16); err == nil {
			c.Physical.ProductID = uint16(n)
		}
	}
	if v := os.Getenv("TMG29_STEERING_RANGE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			c.Input.SteeringRange = uint16(n)
		}
	}
	if v := os.Getenv("TMG29_FFB_ENABLED"); v != "" {
		c.FFB.Enabled = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
	if v := os.Getenv("TMG29_MAX_FORCE"); v != "" {
		if n, err := strconv.ParseFloat(v, 32); err == nil {
			c.FFB.MaxForce = float32(n)
		}
	}
	if v := os.Getenv("TMG29_LOG_PATH"); v != "" {
		c.Logging.Path = v
	}
	if v := os.Getenv("TMG29_LOG_ENABLED"); v != "" {
		c.Logging.Enabled = v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	}
}

// Save writes the config to its YAML file.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	path := c.path
	if path == "" {
		path = "config.yaml"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ToJSON renders the config as JSON, for the live monitor's status
// endpoint and diagnostic dumps.
func (c *Config) ToJSON() ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return json.MarshalIndent(c, "", "  ")
}

// SetPath overrides the file path used by Save.
func (c *Config) SetPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = path
}

// Path returns the file path this config was loaded from / will save to.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}
