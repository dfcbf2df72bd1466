// cmd/boardtest: keypad wiring check. Prints every scanner change, releases
// included, and the row/column each key sits on.
package main

import (
	"context"
	"time"

	"keycalc-go/bus"
	"keycalc-go/internal/console"
	"keycalc-go/internal/keypad"
	"keycalc-go/internal/platform"
	"keycalc-go/internal/setups"
	"keycalc-go/services/monitor"
	"keycalc-go/types"
	"keycalc-go/x/timex"
)

func main() {
	time.Sleep(2 * time.Second)
	cfg := setups.Selected
	ctx := context.Background()

	sink, err := console.Open(cfg.Console)
	if err != nil {
		halt("console: " + err.Error())
	}
	sc, err := platform.OpenKeypad(cfg.Keypad)
	if err != nil {
		halt("keypad: " + err.Error())
	}
	println("[boardtest] matrix", sc.Rows(), "x", sc.Cols(), "on", cfg.Name)

	b := bus.NewBus(8)
	pub := b.NewConnection("boardtest")
	go monitor.New(b.NewConnection("ui"), bus.T("keypad", "#"), sink, nil).Run(ctx)

	km := keypad.KeymapFromRows(cfg.Keypad.Layout...)
	tick := time.NewTicker(cfg.PollInterval())
	defer tick.Stop()
	for range tick.C {
		sym, changed := sc.Scan()
		if !changed {
			continue
		}
		pub.Publish(pub.NewMessage(bus.T("keypad", "key"),
			types.KeyValue{Symbol: byte(sym), Pressed: sym != keypad.NoKey, TSms: timex.NowMs()}, false))
		if r, c, ok := km.Locate(sym); ok {
			println("[boardtest] row", r, "col", c)
		}
	}
}

func halt(msg string) {
	for {
		println("[boardtest] fatal:", msg)
		time.Sleep(5 * time.Second)
	}
}
