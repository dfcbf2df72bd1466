// Package calculator runs the keypad calculator polling loop.
package calculator

import (
	"context"
	"time"

	"keycalc-go/bus"
	"keycalc-go/errcode"
	"keycalc-go/internal/calc"
	"keycalc-go/internal/console"
	"keycalc-go/internal/keypad"
	"keycalc-go/types"
	"keycalc-go/x/timex"
)

// KeySource yields scanner changes; keypad.Scanner satisfies it.
type KeySource interface {
	Scan() (keypad.Symbol, bool)
}

// Calculator consumes key presses; calc.Engine satisfies it.
type Calculator interface {
	Apply(sym keypad.Symbol) calc.Display
}

var (
	topicKey     = bus.T("keypad", "key")
	topicDisplay = bus.T("calc", "display")
)

// Service owns the scanner and engine and is their only caller.
type Service struct {
	keys     KeySource
	calc     Calculator
	sink     console.Sink
	conn     *bus.Connection // optional
	interval time.Duration
}

func New(keys KeySource, c Calculator, sink console.Sink, conn *bus.Connection, interval time.Duration) *Service {
	if interval <= 0 {
		interval = types.DefaultPollMs * time.Millisecond
	}
	return &Service{keys: keys, calc: c, sink: sink, conn: conn, interval: interval}
}

// Run polls until ctx is cancelled. It never exits on its own.
func (s *Service) Run(ctx context.Context) {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	// Show the initial state once so the console is not blank.
	s.sink.EmitLine("0")

	for {
		s.Step()

		timer.Reset(s.interval)
		select {
		case <-ctx.Done():
			println("[calc] stopping")
			return
		case <-timer.C:
		}
	}
}

// Step performs one poll. It reports whether a key press reached the engine.
func (s *Service) Step() bool {
	sym, changed := s.keys.Scan()
	if !changed {
		return false
	}
	s.publish(topicKey, types.KeyValue{Symbol: byte(sym), Pressed: sym != keypad.NoKey, TSms: timex.NowMs()}, false)
	if sym == keypad.NoKey {
		return false
	}

	d := s.calc.Apply(sym)
	switch errcode.Of(d.Err) {
	case errcode.OK:
	case errcode.UnknownSymbol:
		// Not reachable with a well-formed keymap; drop the key quietly.
		println("[calc] ignoring unknown key", byte(sym))
		return true
	default:
		s.sink.EmitLine(calc.Describe(d.Err))
	}
	s.sink.EmitLine(d.Text)

	dv := types.DisplayValue{Text: d.Text, TSms: timex.NowMs()}
	if d.Err != nil {
		dv.Error = string(errcode.Of(d.Err))
	}
	s.publish(topicDisplay, dv, true)
	return true
}

func (s *Service) publish(t bus.Topic, payload any, retained bool) {
	if s.conn == nil {
		return
	}
	s.conn.Publish(s.conn.NewMessage(t, payload, retained))
}
