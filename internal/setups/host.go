//go:build !(rp2040 || rp2350)

package setups

import "keycalc-go/types"

// Selected mirrors the Pico wiring so host simulation matches the board.
var Selected = types.BoardConfig{
	Name: "host",
	Keypad: types.KeypadConfig{
		Layout:  keypadLayout,
		RowPins: []int{0, 1, 2, 3},
		ColPins: []int{4, 5, 6, 7},
	},
	Counter: types.CounterConfig{Pin: 15, DebounceMs: 20, Invert: true},
	PollMs:  types.DefaultPollMs,
	LEDPin:  25,
}
