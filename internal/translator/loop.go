// Package translator implements the translation loop: the concurrency
// harness that pumps reports between the physical wheel and the virtual
// G29 device, applying rate control and propagating cancellation.
package translator

import (
	"context"
	"log"
	"time"

	"github.com/tmg29/tmg29/internal/config"
	"github.com/tmg29/tmg29/internal/device"
	"github.com/tmg29/tmg29/internal/errs"
	"github.com/tmg29/tmg29/internal/ffb"
	"github.com/tmg29/tmg29/internal/input"
	"github.com/tmg29/tmg29/internal/report"
)

const inputTickInterval = 1 * time.Millisecond

// Observer receives every report/command the loop produces, for
// instrumentation (internal/monitor, internal/reportlog). It is called
// synchronously from the pumps, so it must not block. A nil Observer disables
// instrumentation entirely.
type Observer interface {
	ObserveInput(report.G29InputReport)
	ObserveFFB(report.IforceCommand)
}

// Loop is the single orchestrator driving the two cooperating flows
// (input pump, output pump) against the Physical Wheel Port and the
// Virtual G29 Port.
type Loop struct {
	physical device.PhysicalWheelPort
	virtual  device.VirtualG29Port

	translator *input.Translator
	engine     *ffb.Engine
	ffbCfg     *config.FFBConfig

	observer Observer
}

// New creates a Loop bound to the given ports and configuration.
func New(cfg *config.Config, physical device.PhysicalWheelPort, virtual device.VirtualG29Port, observer Observer) *Loop {
	return &Loop{
		physical:   physical,
		virtual:    virtual,
		translator: input.New(&cfg.Input),
		engine:     ffb.New(&cfg.FFB),
		ffbCfg:     &cfg.FFB,
		observer:   observer,
	}
}

// Run starts both flows and blocks until ctx is cancelled or a port-level
// hard failure aborts the loop. Both flows exit cleanly before Run
// returns. On exit, the FFB engine emits stop/reset commands for every
// active effect so the wheel doesn't keep driving a stale force.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.physical.Initialize(); err != nil {
		return errs.VirtualDeviceErrorf("initialise physical wheel", err)
	}

	// The first hard failure in either pump cancels the other one.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	done := make(chan struct{}, 2)

	go func() {
		errCh <- l.inputPump(ctx)
		done <- struct{}{}
	}()
	go func() {
		errCh <- l.outputPump(ctx)
		done <- struct{}{}
	}()

	var firstErr error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	<-done
	<-done

	l.teardownFFB()
	return firstErr
}

// inputPump awakens every inputTickInterval, polls the physical port, and
// on a report, translates and publishes it to the virtual device in
// arrival order. A null read means no data ready and is silently skipped.
func (l *Loop) inputPump(ctx context.Context) error {
	ticker := time.NewTicker(inputTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			data, ok, err := l.physical.ReadInput()
			if err != nil {
				return errs.IOErrorf("physical read failed", err)
			}
			if !ok {
				continue
			}

			in := report.ParseThrustmasterInputReport(data[:])
			out := l.translator.Translate(in)

			if err := l.virtual.SendInput(out); err != nil {
				return errs.VirtualDeviceErrorf("publish input report", err)
			}
			if l.observer != nil {
				l.observer.ObserveInput(out)
			}
		}
	}
}

// outputPump continuously polls for PID output reports and dispatches
// them through the FFB parser and engine, and runs the periodic
// update-active-effects trigger bounded by update_rate_hz.
func (l *Loop) outputPump(ctx context.Context) error {
	updateInterval := time.Duration(1000/maxUint32(l.ffbCfg.UpdateRateHz, 1)) * time.Millisecond
	updateTicker := time.NewTicker(updateInterval)
	defer updateTicker.Stop()

	pollTicker := time.NewTicker(1 * time.Millisecond)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-pollTicker.C:
			out, ok, err := l.virtual.ReadOutput()
			if err != nil {
				return errs.VirtualDeviceErrorf("read output report", err)
			}
			if !ok {
				continue
			}

			effect, perr := ffb.Parse(out)
			if perr != nil {
				log.Printf("[loop] dropping ffb report: %v", perr)
				continue
			}
			if effect == nil {
				continue
			}

			for _, cmd := range l.engine.TranslateEffect(*effect) {
				if err := l.physical.SendFFBPacket(cmd); err != nil {
					return errs.IOErrorf("send ffb packet failed", err)
				}
				if l.observer != nil {
					l.observer.ObserveFFB(cmd)
				}
			}

		case <-updateTicker.C:
			for _, cmd := range l.engine.UpdateActiveEffects() {
				if err := l.physical.SendFFBPacket(cmd); err != nil {
					return errs.IOErrorf("send ffb packet failed", err)
				}
				if l.observer != nil {
					l.observer.ObserveFFB(cmd)
				}
			}
		}
	}
}

// teardownFFB emits the engine's stop/reset commands on shutdown. A send
// failure here is logged, not propagated: the loop is already exiting.
func (l *Loop) teardownFFB() {
	for _, cmd := range l.engine.Close() {
		if err := l.physical.SendFFBPacket(cmd); err != nil {
			log.Printf("[loop] teardown ffb send failed: %v", err)
			continue
		}
		if l.observer != nil {
			l.observer.ObserveFFB(cmd)
		}
	}
}

func maxUint32(v, floor uint32) uint32 {
	if v < floor {
		return floor
	}
	return v
}
