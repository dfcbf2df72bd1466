package types

import (
	"testing"
	"time"

	"keycalc-go/errcode"
)

func validKeypad() KeypadConfig {
	return KeypadConfig{
		Layout:  []string{"123+", "456-", "789*", "C0=/"},
		RowPins: []int{0, 1, 2, 3},
		ColPins: []int{4, 5, 6, 7},
	}
}

func TestKeypadValidate(t *testing.T) {
	if err := validKeypad().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name string
		mut  func(*KeypadConfig)
		want errcode.Code
	}{
		{"short layout", func(c *KeypadConfig) { c.Layout = c.Layout[:3] }, errcode.InvalidParams},
		{"wide row", func(c *KeypadConfig) { c.Layout[1] = "456-X" }, errcode.InvalidParams},
		{"pin range", func(c *KeypadConfig) { c.ColPins[0] = 40 }, errcode.UnknownPin},
		{"shared pin", func(c *KeypadConfig) { c.ColPins[0] = 1 }, errcode.PinInUse},
		{"expander bit range", func(c *KeypadConfig) {
			c.Expander = &ExpanderConfig{Bus: "i2c0", Addr: 0x20}
			c.ColPins[3] = 8
		}, errcode.UnknownPin},
	}
	for _, tc := range cases {
		c := validKeypad()
		tc.mut(&c)
		if got := errcode.Of(c.Validate()); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestPollInterval(t *testing.T) {
	if got := (BoardConfig{}).PollInterval(); got != 50*time.Millisecond {
		t.Fatalf("default = %v", got)
	}
	if got := (BoardConfig{PollMs: 10}).PollInterval(); got != 10*time.Millisecond {
		t.Fatalf("PollMs=10 -> %v", got)
	}
}

func TestCounterValidate(t *testing.T) {
	if err := (CounterConfig{Pin: 15, DebounceMs: 20}).Validate(); err != nil {
		t.Fatal(err)
	}
	if errcode.Of((CounterConfig{Pin: -1}).Validate()) != errcode.UnknownPin {
		t.Fatal("negative pin accepted")
	}
	if errcode.Of((CounterConfig{Pin: 3, DebounceMs: -5}).Validate()) != errcode.InvalidParams {
		t.Fatal("negative debounce accepted")
	}
}

func TestHasLED(t *testing.T) {
	for _, tc := range []struct {
		pin  int
		want bool
	}{{25, true}, {0, true}, {-1, false}, {29, false}} {
		if got := (BoardConfig{LEDPin: tc.pin}).HasLED(); got != tc.want {
			t.Errorf("LEDPin=%d: HasLED=%v, want %v", tc.pin, got, tc.want)
		}
	}
}
