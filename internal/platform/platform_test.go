//go:build !rp2040 && !rp2350

package platform

import (
	"testing"

	"keycalc-go/errcode"
	"keycalc-go/internal/gpio"
	"keycalc-go/types"
)

func board(expander bool) types.KeypadConfig {
	c := types.KeypadConfig{
		Layout:  []string{"123+", "456-", "789*", "C0=/"},
		RowPins: []int{0, 1, 2, 3},
		ColPins: []int{4, 5, 6, 7},
	}
	if expander {
		c.Expander = &types.ExpanderConfig{Bus: "i2c0", Addr: 0x27}
	}
	return c
}

func TestOpenKeypadDirect(t *testing.T) {
	s, err := OpenKeypad(board(false))
	if err != nil {
		t.Fatalf("OpenKeypad: %v", err)
	}
	Host.Matrix.Press(2, 2)
	if sym, ok := s.Poll(); !ok || sym != '9' {
		t.Fatalf("Poll = %q,%v", sym, ok)
	}
	if Host.Matrix.MaxDriven() != 1 {
		t.Fatalf("MaxDriven = %d", Host.Matrix.MaxDriven())
	}
}

func TestOpenKeypadThroughExpander(t *testing.T) {
	s, err := OpenKeypad(board(true))
	if err != nil {
		t.Fatalf("OpenKeypad: %v", err)
	}
	Host.Matrix.Press(3, 0)
	if sym, ok := s.Poll(); !ok || sym != 'C' {
		t.Fatalf("Poll = %q,%v", sym, ok)
	}
	Host.Matrix.ReleaseAll()
	if sym, changed := s.Scan(); !changed || sym != 0 {
		t.Fatalf("release = %q,%v", sym, changed)
	}
	if Host.Matrix.MaxDriven() != 1 {
		t.Fatalf("MaxDriven = %d", Host.Matrix.MaxDriven())
	}
}

func TestOpenKeypadRejectsBadConfig(t *testing.T) {
	c := board(false)
	c.RowPins = c.RowPins[:2]
	if _, err := OpenKeypad(c); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("err = %v", err)
	}
}

func TestPCF8574BusFailureReadsHigh(t *testing.T) {
	m := NewMatrix(1, 1)
	sim := NewSimPCF8574(m, 0, []int{0}, []int{1})
	exp := NewPCF8574(sim, 0)
	if err := exp.Configure(); err != nil {
		t.Fatal(err)
	}
	m.Press(0, 0)
	row, col := exp.Line(0), exp.Line(1)
	if err := row.SetMode(gpio.ModeDrivenLow); err != nil {
		t.Fatal(err)
	}
	if col.Level() != gpio.Low {
		t.Fatal("closed switch on a driven row should read low")
	}

	sim.Fail = true
	if col.Level() != gpio.High {
		t.Fatal("bus failure should read as not pressed")
	}
	if err := row.SetMode(gpio.ModePulledUpInput); errcode.Of(err) != errcode.IOError {
		t.Fatalf("SetMode err = %v", err)
	}
	if exp.Errors() != 2 {
		t.Fatalf("Errors = %d", exp.Errors())
	}
}

func TestFakePinEdges(t *testing.T) {
	p := NewFakePin(9)
	var falls int
	_ = p.SetIRQ(gpio.EdgeFalling, func() { falls++ })
	p.Set(gpio.Low)
	p.Set(gpio.High)
	p.Set(gpio.High)
	p.Set(gpio.Low)
	if falls != 2 {
		t.Fatalf("falling callbacks = %d", falls)
	}
	_ = p.ClearIRQ()
	p.Set(gpio.High)
	p.Set(gpio.Low)
	if falls != 2 {
		t.Fatal("callback fired after ClearIRQ")
	}
}

func TestOpenLED(t *testing.T) {
	led, err := OpenLED(25)
	if err != nil {
		t.Fatal(err)
	}
	_ = led.SetMode(gpio.ModeDrivenHigh)
	if p := Host.Pins.Get(25); p.Mode() != gpio.ModeDrivenHigh || p.Level() != gpio.High {
		t.Fatalf("pin 25 mode=%v level=%v", p.Mode(), p.Level())
	}
	if _, err := OpenLED(-1); errcode.Of(err) != errcode.UnknownPin {
		t.Fatalf("OpenLED(-1) err = %v", err)
	}
}
