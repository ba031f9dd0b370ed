package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/device"
	"github.com/tmg29/tmg29/internal/monitor"
	"github.com/tmg29/tmg29/internal/reportlog"
	"github.com/tmg29/tmg29/internal/report"
	"github.com/tmg29/tmg29/internal/translator"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	var demo bool
	var monitorAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the translation loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runTranslator(cfg, demo, monitorAddr)
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "use simulated ports instead of real hardware")
	cmd.Flags().StringVar(&monitorAddr, "monitor-addr", "", "serve a live websocket monitor on this address (e.g. :8090)")
	return cmd
}

func runTranslator(cfg *config.Config, demo bool, monitorAddr string) error {
	physical, virtual, err := openPorts(cfg, demo)
	if err != nil {
		return err
	}
	defer physical.Close()
	defer virtual.Close()

	var observers fanOutObserver

	rlog := reportlog.New(cfg.Logging)
	if cfg.Logging.Enabled {
		observers = append(observers, rlog)
		defer rlog.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if monitorAddr != "" {
		mon := monitor.New()
		observers = append(observers, mon)
		go func() {
			if err := mon.Run(ctx, monitorAddr); err != nil {
				log.Printf("[monitor] exited: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("[run] received %v, shutting down", sig)
		cancel()
	}()

	loop := translator.New(cfg, physical, virtual, observers.orNil())
	log.Println("[run] translation loop starting")
	err = loop.Run(ctx)
	log.Println("[run] translation loop stopped")
	return err
}

// fanOutObserver composes zero or more translator.Observer implementations
// (the CSV reportlog, the live monitor) into one, since translator.Loop
// only ever holds a single Observer.
type fanOutObserver []translator.Observer

func (f fanOutObserver) ObserveInput(r report.G29InputReport) {
	for _, o := range f {
		o.ObserveInput(r)
	}
}

func (f fanOutObserver) ObserveFFB(cmd report.IforceCommand) {
	for _, o := range f {
		o.ObserveFFB(cmd)
	}
}

// orNil returns nil when no sub-observer is configured, so the loop skips
// the observer call path entirely instead of fanning out to nothing.
func (f fanOutObserver) orNil() translator.Observer {
	if len(f) == 0 {
		return nil
	}
	return f
}

func openPorts(cfg *config.Config, demo bool) (device.PhysicalWheelPort, device.VirtualG29Port, error) {
	if demo {
		return device.NewDemoPhysicalPort(), device.NewMockVirtualG29Port(), nil
	}

	physical, err := device.OpenHIDPhysicalPort(cfg)
	if err != nil {
		return nil, nil, err
	}

	if runtime.GOOS == "linux" {
		virtual, err := device.NewUinputVirtualPort(cfg.Virtual.VendorID, cfg.Virtual.ProductID, cfg.Virtual.ProductString)
		if err != nil {
			physical.Close()
			return nil, nil, err
		}
		return physical, virtual, nil
	}

	// No real virtual-device backend is wired on this platform (see
	// spec.md §1 — ViGEm/user-HID backends are external collaborators);
	// fall back to the mock so `run` still exercises the core pipeline.
	return physical, device.NewMockVirtualG29Port(), nil
}
