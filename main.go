// Keypad calculator firmware: scans a 4x4 matrix keypad and runs a
// four-function calculation, reporting each state on the console.
//
// The loop also publishes keypad/key and retained calc/display on the bus,
// and the heartbeat listens on config/heartbeat. Nothing in this binary
// consumes or produces those; they are the hook for cmd/boardtest style
// monitors and external tooling bridged onto the bus.
package main

import (
	"context"
	"time"

	"keycalc-go/bus"
	"keycalc-go/internal/calc"
	"keycalc-go/internal/console"
	"keycalc-go/internal/platform"
	"keycalc-go/internal/setups"
	"keycalc-go/services/calculator"
	"keycalc-go/services/heartbeat"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	cfg := setups.Selected
	println("[main] boot", cfg.Name)

	sink, err := console.Open(cfg.Console)
	if err != nil {
		halt("console: " + err.Error())
	}
	scanner, err := platform.OpenKeypad(cfg.Keypad)
	if err != nil {
		halt("keypad: " + err.Error())
	}

	b := bus.NewBus(8)
	ctx := context.Background()
	if cfg.HasLED() {
		startHeartbeat(ctx, b, cfg.LEDPin)
	}

	svc := calculator.New(scanner, calc.New(), sink, b.NewConnection("app"), cfg.PollInterval())

	println("[main] polling every", cfg.PollMs, "ms")
	svc.Run(ctx)
}

// startHeartbeat blinks the status LED if the board has one. Failure is not fatal.
func startHeartbeat(ctx context.Context, b *bus.Bus, pin int) {
	led, err := platform.OpenLED(pin)
	if err != nil {
		println("[main] no heartbeat:", err.Error())
		return
	}
	_ = heartbeat.New(led, heartbeat.DefaultPeriod).Start(ctx, b.NewConnection("heartbeat"))
}

func halt(msg string) {
	for {
		println("[main] fatal:", msg)
		time.Sleep(5 * time.Second)
	}
}
