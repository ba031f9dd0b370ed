package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/device"
	"github.com/tmg29/tmg29/internal/input"
	"github.com/tmg29/tmg29/internal/report"
)

func newTestCmd(flags *globalFlags) *cobra.Command {
	var durationSec int
	var useDemo bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Dry-run the input translation for N seconds without touching the virtual device",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runDryTest(cfg, time.Duration(durationSec)*time.Second, useDemo)
		},
	}

	cmd.Flags().IntVar(&durationSec, "duration", 10, "how long to run, in seconds")
	cmd.Flags().BoolVar(&useDemo, "demo", true, "use the simulated physical port instead of real hardware")
	return cmd
}

func runDryTest(cfg *config.Config, duration time.Duration, useDemo bool) error {
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

	translator := input.New(&cfg.Input)

	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(1 * time.Millisecond)
	defer ticker.Stop()

	var lastPrint time.Time
	for range ticker.C {
		if time.Now().After(deadline) {
			break
		}
		data, ok, err := physical.ReadInput()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		in := report.ParseThrustmasterInputReport(data[:])
		out := translator.Translate(in)

		if time.Since(lastPrint) < 100*time.Millisecond {
			continue
		}
		lastPrint = time.Now()
		fmt.Printf("steering=%5d throttle=%4d brake=%4d clutch=%4d buttons=%08x\n",
			out.Steering, out.Throttle, out.Brake, out.Clutch, out.Buttons)
	}
	return nil
}
