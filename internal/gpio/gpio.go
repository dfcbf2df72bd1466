// Package gpio defines the narrow digital-line capabilities the keypad and
// counter consume. Platform packages supply the implementations.
package gpio

// Mode is the electrical mode a line can be switched into.
type Mode uint8

const (
	ModePulledUpInput Mode = iota
	ModeDrivenLow
	ModeDrivenHigh
)

func (m Mode) String() string {
	switch m {
	case ModeDrivenLow:
		return "driven_low"
	case ModeDrivenHigh:
		return "driven_high"
	default:
		return "pulled_up_input"
	}
}

// Level is a sampled logic level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Driver is a line whose mode can be switched (keypad rows).
type Driver interface {
	SetMode(m Mode) error
}

// Sampler is a read-only line (keypad columns).
type Sampler interface {
	Level() Level
}

// Line is a fully capable bidirectional line.
type Line interface {
	Driver
	Sampler
	Number() int
}

// Edge selects which transitions raise an interrupt.
type Edge uint8

const (
	EdgeNone Edge = iota
	EdgeRising
	EdgeFalling
	EdgeBoth
)

// IRQLine is a sampled line that can call back on edges.
// The handler runs in interrupt context on MCU builds and must not block.
type IRQLine interface {
	Sampler
	SetIRQ(edge Edge, handler func()) error
	ClearIRQ() error
}
