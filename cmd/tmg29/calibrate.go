package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/device"
	"github.com/tmg29/tmg29/internal/errs"
	"github.com/tmg29/tmg29/internal/report"
)

func newCalibrateCmd(flags *globalFlags) *cobra.Command {
	var skipSteering, skipPedals, useDemo bool

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Interactively capture the steering extreme and pedal maxima (pedal minima are not captured)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runCalibration(cfg, skipSteering, skipPedals, useDemo)
		},
	}

	cmd.Flags().BoolVar(&skipSteering, "skip-steering", false, "skip steering-range capture")
	cmd.Flags().BoolVar(&skipPedals, "skip-pedals", false, "skip pedal-range capture")
	cmd.Flags().BoolVar(&useDemo, "demo", false, "use the simulated physical port instead of real hardware")
	return cmd
}

const calibrationCaptureWindow = 5 * time.Second

func runCalibration(cfg *config.Config, skipSteering, skipPedals, useDemo bool) error {
	var physical device.PhysicalWheelPort
	if useDemo {
		physical = device.NewDemoPhysicalPort()
	} else {
		hid, err := device.OpenHIDPhysicalPort(cfg)
		if err != nil {
			return err
		}
		physical = hid
	}
	defer physical.Close()

	reader := bufio.NewReader(os.Stdin)

	if !skipSteering {
		fmt.Println("steering calibration: turn the wheel fully lock-to-lock, then press Enter")
		reader.ReadString('\n')

		maxAbs, err := captureExtreme(physical, calibrationCaptureWindow, func(in report.ThrustmasterInputReport) float64 {
			return math.Abs(float64(in.Steering))
		})
		if err != nil {
			return err
		}
		if maxAbs == 0 {
			return errs.CalibrationErrorf("no steering movement observed")
		}
		multiplier := 32767.0 / maxAbs
		cfg.Input.AxisScaling.SteeringMultiplier = float32(multiplier)
		fmt.Printf("captured steering extreme=%.0f -> steering_multiplier=%.3f\n", maxAbs, multiplier)
	}

	if !skipPedals {
		fmt.Println("pedal calibration: fully press and release throttle, brake, and clutch, then press Enter")
		reader.ReadString('\n')

		maxThrottle, err := captureExtreme(physical, calibrationCaptureWindow, func(in report.ThrustmasterInputReport) float64 {
			return float64(in.Throttle)
		})
		if err != nil {
			return err
		}
		maxBrake, err := captureExtreme(physical, calibrationCaptureWindow, func(in report.ThrustmasterInputReport) float64 {
			return float64(in.Brake)
		})
		if err != nil {
			return err
		}
		maxClutch, err := captureExtreme(physical, calibrationCaptureWindow, func(in report.ThrustmasterInputReport) float64 {
			return float64(in.Clutch)
		})
		if err != nil {
			return err
		}
		fmt.Printf("captured pedal extremes: throttle=%.0f brake=%.0f clutch=%.0f (wire range is already 0-255; curves are unaffected)\n",
			maxThrottle, maxBrake, maxClutch)
	}

	if err := cfg.Save(); err != nil {
		return errs.ConfigErrorf("save calibrated config", err)
	}
	fmt.Println("calibration saved")
	return nil
}

// captureExtreme polls the physical port for window and returns the
// largest value metric observed across every input report read.
func captureExtreme(physical device.PhysicalWheelPort, window time.Duration, metric func(report.ThrustmasterInputReport) float64) (float64, error) {
	deadline := time.Now().Add(window)
	ticker := time.NewTicker(1 * time.Millisecond)
	defer ticker.Stop()

	var max float64
	for range ticker.C {
		if time.Now().After(deadline) {
			break
		}
		data, ok, err := physical.ReadInput()
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		in := report.ParseThrustmasterInputReport(data[:])
		if v := metric(in); v > max {
			max = v
		}
	}
	return max, nil
}
