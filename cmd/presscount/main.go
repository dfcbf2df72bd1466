// cmd/presscount: interrupt-driven button press counter.
package main

import (
	"context"
	"time"

	"keycalc-go/bus"
	"keycalc-go/internal/console"
	"keycalc-go/internal/platform"
	"keycalc-go/internal/setups"
	"keycalc-go/services/counter"
	"keycalc-go/services/heartbeat"
	"keycalc-go/services/monitor"
)

func main() {
	time.Sleep(2 * time.Second)
	cfg := setups.Selected
	ctx := context.Background()

	sink, err := console.Open(cfg.Console)
	if err != nil {
		halt("console: " + err.Error())
	}
	line, err := platform.OpenCounterLine(cfg.Counter)
	if err != nil {
		halt("counter: " + err.Error())
	}

	b := bus.NewBus(8)
	c := counter.New(line, b.NewConnection("counter"), counter.Options{
		Pin:      cfg.Counter.Pin,
		Debounce: time.Duration(cfg.Counter.DebounceMs) * time.Millisecond,
		Invert:   cfg.Counter.Invert,
	})
	if err := c.Start(ctx); err != nil {
		halt("counter start: " + err.Error())
	}
	if cfg.HasLED() {
		if led, err := platform.OpenLED(cfg.LEDPin); err == nil {
			_ = heartbeat.New(led, heartbeat.DefaultPeriod).Start(ctx, nil)
		}
	}
	println("[main] counting presses on GP", cfg.Counter.Pin)

	monitor.New(b.NewConnection("ui"), bus.T("counter", "+", "value"), sink, monitor.PressCount).Run(ctx)
}

func halt(msg string) {
	for {
		println("[main] fatal:", msg)
		time.Sleep(5 * time.Second)
	}
}
