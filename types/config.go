package types

import (
	"time"

	"keycalc-go/errcode"
	"keycalc-go/x/mathx"
)

// Board configuration, fixed at build time by the selected setup.

type BoardConfig struct {
	Name    string
	Keypad  KeypadConfig
	Console ConsoleConfig
	Counter CounterConfig
	PollMs  int // inter-poll sleep for the keypad loop
	LEDPin  int // heartbeat LED; negative disables it
}

type KeypadConfig struct {
	Layout  []string // one string per row, one byte per key
	RowPins []int    // GPIO numbers, or expander bits when Expander is set
	ColPins []int
	// Expander, when set, places the matrix on an I²C PCF8574.
	Expander *ExpanderConfig
}

type ExpanderConfig struct {
	Bus  string // "i2c0" or "i2c1"
	SDA  int
	SCL  int
	Hz   uint32
	Addr uint16
}

type ConsoleConfig struct {
	UART string // "uart0", "uart1"; empty selects the default output
	TX   int
	RX   int
	Baud uint32
}

type CounterConfig struct {
	Pin        int
	DebounceMs int
	Invert     bool // pressed == low
}

const (
	DefaultPollMs = 50
	maxGPIO       = 29 // RP2 user GPIOs are GP0..GP28
)

// PollInterval returns the configured poll period, defaulting to 50 ms.
func (c BoardConfig) PollInterval() time.Duration {
	if c.PollMs <= 0 {
		return DefaultPollMs * time.Millisecond
	}
	return time.Duration(c.PollMs) * time.Millisecond
}

// Validate checks the keypad geometry and pin ranges.
func (c KeypadConfig) Validate() error {
	if len(c.Layout) == 0 || len(c.Layout) != len(c.RowPins) {
		return &errcode.E{C: errcode.InvalidParams, Op: "keypad", Msg: "layout rows do not match row pins"}
	}
	for _, row := range c.Layout {
		if len(row) != len(c.ColPins) {
			return &errcode.E{C: errcode.InvalidParams, Op: "keypad", Msg: "layout columns do not match column pins"}
		}
	}
	hi := maxGPIO - 1
	if c.Expander != nil {
		hi = 7
	}
	seen := map[int]bool{}
	for _, pins := range [][]int{c.RowPins, c.ColPins} {
		for _, p := range pins {
			if !mathx.Between(p, 0, hi) {
				return &errcode.E{C: errcode.UnknownPin, Op: "keypad"}
			}
			if seen[p] {
				return &errcode.E{C: errcode.PinInUse, Op: "keypad"}
			}
			seen[p] = true
		}
	}
	return nil
}

// HasLED reports whether a heartbeat LED is wired.
func (c BoardConfig) HasLED() bool { return mathx.Between(c.LEDPin, 0, maxGPIO-1) }

func (c CounterConfig) Validate() error {
	if !mathx.Between(c.Pin, 0, maxGPIO-1) {
		return &errcode.E{C: errcode.UnknownPin, Op: "counter"}
	}
	if c.DebounceMs < 0 {
		return &errcode.E{C: errcode.InvalidParams, Op: "counter", Msg: "negative debounce"}
	}
	return nil
}
