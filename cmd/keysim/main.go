//go:build !(rp2040 || rp2350)

// cmd/keysim: drives the calculator on the simulated host matrix. Each byte
// read from stdin taps the key with that label; unknown bytes are skipped.
//
//	echo "12+30=" | go run ./cmd/keysim
package main

import (
	"bufio"
	"os"

	"keycalc-go/internal/calc"
	"keycalc-go/internal/console"
	"keycalc-go/internal/keypad"
	"keycalc-go/internal/platform"
	"keycalc-go/internal/setups"
	"keycalc-go/services/calculator"
)

func main() {
	cfg := setups.Selected
	sc, err := platform.OpenKeypad(cfg.Keypad)
	if err != nil {
		println("[keysim]", err.Error())
		os.Exit(1)
	}
	sink, err := console.Open(cfg.Console)
	if err != nil {
		println("[keysim]", err.Error())
		os.Exit(1)
	}
	svc := calculator.New(sc, calc.New(), sink, nil, cfg.PollInterval())
	km := keypad.KeymapFromRows(cfg.Keypad.Layout...)
	m := platform.Host.Matrix

	in := bufio.NewReader(os.Stdin)
	for {
		ch, err := in.ReadByte()
		if err != nil {
			return
		}
		r, c, ok := km.Locate(keypad.Symbol(ch))
		if !ok {
			continue
		}
		// One poll with the key down and one with it up, as a real tap.
		m.Press(r, c)
		svc.Step()
		m.Release(r, c)
		svc.Step()
	}
}
