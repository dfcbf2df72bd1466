//go:build (rp2040 || rp2350) && !keypad_pcf8574

package setups

import "keycalc-go/types"

// Selected wires the keypad straight to GP0..GP7 and reports on uart0.
var Selected = types.BoardConfig{
	Name: "pico",
	Keypad: types.KeypadConfig{
		Layout:  keypadLayout,
		RowPins: []int{0, 1, 2, 3},
		ColPins: []int{4, 5, 6, 7},
	},
	Console: types.ConsoleConfig{UART: "uart0", TX: 16, RX: 17, Baud: 115_200},
	Counter: types.CounterConfig{Pin: 15, DebounceMs: 20, Invert: true},
	PollMs:  types.DefaultPollMs,
	LEDPin:  25,
}
