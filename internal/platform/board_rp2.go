//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"keycalc-go/errcode"
	"keycalc-go/internal/gpio"
	"keycalc-go/internal/keypad"
	"keycalc-go/types"
)

// OpenKeypad configures the matrix lines named by cfg and returns a scanner.
// Columns are pulled-up inputs; rows start parked as pulled-up inputs.
func OpenKeypad(cfg types.KeypadConfig) (*keypad.Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	km := keypad.KeymapFromRows(cfg.Layout...)

	if x := cfg.Expander; x != nil {
		bus, err := openI2C(x)
		if err != nil {
			return nil, err
		}
		exp := NewPCF8574(bus, x.Addr)
		if err := exp.Configure(); err != nil {
			return nil, err
		}
		rows, cols := expanderLines(exp, cfg.RowPins, cfg.ColPins)
		return keypad.New(km, rows, cols)
	}

	rows := make([]gpio.Driver, len(cfg.RowPins))
	for i, n := range cfg.RowPins {
		rows[i] = &pinLine{p: machine.Pin(n), n: n}
	}
	cols := make([]gpio.Sampler, len(cfg.ColPins))
	for i, n := range cfg.ColPins {
		l := &pinLine{p: machine.Pin(n), n: n}
		_ = l.SetMode(gpio.ModePulledUpInput)
		cols[i] = l
	}
	return keypad.New(km, rows, cols)
}

// OpenCounterLine configures the counter button as a pulled-up input.
func OpenCounterLine(cfg types.CounterConfig) (gpio.IRQLine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := &pinLine{p: machine.Pin(cfg.Pin), n: cfg.Pin}
	_ = l.SetMode(gpio.ModePulledUpInput)
	return l, nil
}

// OpenLED configures pin as a push-pull output, initially off.
func OpenLED(pin int) (gpio.Driver, error) {
	if pin < 0 || pin > 28 {
		return nil, &errcode.E{C: errcode.UnknownPin, Op: "platform.OpenLED"}
	}
	l := &pinLine{p: machine.Pin(pin), n: pin}
	_ = l.SetMode(gpio.ModeDrivenLow)
	return l, nil
}

func openI2C(x *types.ExpanderConfig) (*machine.I2C, error) {
	var hw *machine.I2C
	switch x.Bus {
	case "i2c0":
		hw = machine.I2C0
	case "i2c1":
		hw = machine.I2C1
	default:
		return nil, &errcode.E{C: errcode.UnknownBus, Op: "platform.openI2C", Msg: x.Bus}
	}
	hz := x.Hz
	if hz == 0 {
		hz = 100 * machine.KHz
	}
	sda := machine.Pin(x.SDA)
	scl := machine.Pin(x.SCL)
	sda.Configure(machine.PinConfig{Mode: machine.PinI2C})
	scl.Configure(machine.PinConfig{Mode: machine.PinI2C})
	if err := hw.Configure(machine.I2CConfig{SDA: sda, SCL: scl, Frequency: hz}); err != nil {
		return nil, errcode.Wrap(errcode.IOError, "platform.openI2C", err)
	}
	return hw, nil
}

// ---- GPIO line on a machine.Pin ----

type pinLine struct {
	p machine.Pin
	n int
}

func (l *pinLine) SetMode(m gpio.Mode) error {
	switch m {
	case gpio.ModeDrivenLow:
		l.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		l.p.Low()
	case gpio.ModeDrivenHigh:
		l.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		l.p.High()
	default:
		l.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return nil
}

func (l *pinLine) Level() gpio.Level { return gpio.Level(l.p.Get()) }
func (l *pinLine) Number() int       { return l.n }

func (l *pinLine) SetIRQ(edge gpio.Edge, handler func()) error {
	return l.p.SetInterrupt(toPinChange(edge), func(machine.Pin) { handler() })
}

func (l *pinLine) ClearIRQ() error {
	var zero machine.PinChange
	return l.p.SetInterrupt(zero, nil)
}

func toPinChange(e gpio.Edge) machine.PinChange {
	switch e {
	case gpio.EdgeRising:
		return machine.PinRising
	case gpio.EdgeFalling:
		return machine.PinFalling
	case gpio.EdgeBoth:
		return machine.PinToggle
	default:
		var zero machine.PinChange
		return zero
	}
}
