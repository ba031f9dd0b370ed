package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/device"
	"github.com/tmg29/tmg29/internal/errs"
	"github.com/tmg29/tmg29/internal/ffb"
)

func newFFBTestCmd(flags *globalFlags) *cobra.Command {
	var effectName string
	var durationSec int
	var useDemo bool

	cmd := &cobra.Command{
		Use:   "ffb-test",
		Short: "Emit a selected FFB effect pattern directly against the physical port",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runFFBTest(cfg, effectName, time.Duration(durationSec)*time.Second, useDemo)
		},
	}

	cmd.Flags().StringVar(&effectName, "effect", "constant", "effect pattern: constant|spring|damper|sine|square")
	cmd.Flags().IntVar(&durationSec, "duration", 5, "how long to run, in seconds")
	cmd.Flags().BoolVar(&useDemo, "demo", true, "use the simulated physical port instead of real hardware")
	return cmd
}

func runFFBTest(cfg *config.Config, effectName string, duration time.Duration, useDemo bool) error {
	effect, err := buildTestEffect(effectName)
	if err != nil {
		return err
	}

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

	if err := physical.Initialize(); err != nil {
		return err
	}

	engine := ffb.New(&cfg.FFB)

	deadline := time.Now().Add(duration)
	ticker := time.NewTicker(time.Duration(1000/maxUint32(cfg.FFB.UpdateRateHz, 1)) * time.Millisecond)
	defer ticker.Stop()

	cmds := engine.TranslateEffect(effect)
	for _, c := range cmds {
		if err := physical.SendFFBPacket(c); err != nil {
			return err
		}
	}
	fmt.Printf("emitting %s effect for %s\n", effectName, duration)

	for range ticker.C {
		if time.Now().After(deadline) {
			break
		}
		for _, c := range engine.UpdateActiveEffects() {
			if err := physical.SendFFBPacket(c); err != nil {
				return err
			}
		}
	}

	for _, c := range engine.Close() {
		if err := physical.SendFFBPacket(c); err != nil {
			return err
		}
	}
	return nil
}

func buildTestEffect(name string) (ffb.Effect, error) {
	switch name {
	case "constant":
		return ffb.Effect{ID: 1, Kind: ffb.KindConstant, Constant: ffb.Constant{Magnitude: 15000, Duration: 0}}, nil
	case "spring":
		return ffb.Effect{ID: 1, Kind: ffb.KindCondition, Condition: ffb.Condition{PositiveCoeff: 20000, NegativeCoeff: 20000, Type: ffb.ConditionSpring}}, nil
	case "damper":
		return ffb.Effect{ID: 1, Kind: ffb.KindCondition, Condition: ffb.Condition{PositiveCoeff: 10000, NegativeCoeff: 10000, Type: ffb.ConditionDamper}}, nil
	case "sine":
		return ffb.Effect{ID: 1, Kind: ffb.KindPeriodic, Periodic: ffb.Periodic{Magnitude: 15000, Period: 500, Phase: 0, Waveform: ffb.WaveformSine}}, nil
	case "square":
		return ffb.Effect{ID: 1, Kind: ffb.KindPeriodic, Periodic: ffb.Periodic{Magnitude: 15000, Period: 500, Phase: 0, Waveform: ffb.WaveformSquare}}, nil
	default:
		return ffb.Effect{}, errs.FFBErrorf(fmt.Sprintf("unknown effect pattern %q", name))
	}
}

func maxUint32(v, floor uint32) uint32 {
	if v < floor {
		return floor
	}
	return v
}
