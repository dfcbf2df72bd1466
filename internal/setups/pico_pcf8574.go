//go:build (rp2040 || rp2350) && keypad_pcf8574

package setups

import "keycalc-go/types"

// Selected puts the keypad behind a PCF8574 backpack on i2c0 (P0..P3 rows,
// P4..P7 columns) and reports on the USB console.
var Selected = types.BoardConfig{
	Name: "pico-pcf8574",
	Keypad: types.KeypadConfig{
		Layout:   keypadLayout,
		RowPins:  []int{0, 1, 2, 3},
		ColPins:  []int{4, 5, 6, 7},
		Expander: &types.ExpanderConfig{Bus: "i2c0", SDA: 4, SCL: 5, Hz: 100_000, Addr: 0x20},
	},
	Counter: types.CounterConfig{Pin: 15, DebounceMs: 20, Invert: true},
	PollMs:  types.DefaultPollMs,
	LEDPin:  25,
}
