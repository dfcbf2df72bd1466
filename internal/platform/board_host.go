//go:build !(rp2040 || rp2350)

package platform

import (
	"keycalc-go/errcode"
	"keycalc-go/internal/gpio"
	"keycalc-go/internal/keypad"
	"keycalc-go/types"
)

// Host is the simulated hardware behind host builds. OpenKeypad installs a
// fresh Matrix sized to the layout; tests and the simulator press keys on it.
var Host = struct {
	Matrix *Matrix
	Pins   *HostPins
}{Pins: &HostPins{}}

// OpenKeypad builds a scanner over the simulated matrix, through a simulated
// PCF8574 when the config asks for an expander.
func OpenKeypad(cfg types.KeypadConfig) (*keypad.Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := NewMatrix(len(cfg.RowPins), len(cfg.ColPins))
	Host.Matrix = m

	km := keypad.KeymapFromRows(cfg.Layout...)
	if cfg.Expander != nil {
		sim := NewSimPCF8574(m, cfg.Expander.Addr, cfg.RowPins, cfg.ColPins)
		exp := NewPCF8574(sim, cfg.Expander.Addr)
		if err := exp.Configure(); err != nil {
			return nil, err
		}
		rows, cols := expanderLines(exp, cfg.RowPins, cfg.ColPins)
		return keypad.New(km, rows, cols)
	}
	rows, cols := m.Lines()
	return keypad.New(km, rows, cols)
}

// OpenLED returns the host fake pin standing in for the status LED.
func OpenLED(pin int) (gpio.Driver, error) {
	if pin < 0 {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "platform.OpenLED"}
	}
	return Host.Pins.Get(pin), nil
}

// OpenCounterLine returns the host fake pin for the counter button, idling high.
func OpenCounterLine(cfg types.CounterConfig) (gpio.IRQLine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := Host.Pins.Get(cfg.Pin)
	_ = p.SetMode(gpio.ModePulledUpInput)
	return p, nil
}
