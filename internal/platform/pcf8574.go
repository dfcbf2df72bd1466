package platform

import (
	"sync"
	"sync/atomic"

	"tinygo.org/x/drivers"

	"keycalc-go/errcode"
	"keycalc-go/internal/gpio"
)

// DefaultPCF8574Address is the address with A2..A0 tied low.
const DefaultPCF8574Address = 0x20

// PCF8574 drives an 8-bit quasi-bidirectional I²C port expander.
//
// Each pin is either a strong low (bit 0) or a weak pull-up that can be read
// as an input (bit 1), which is exactly what a key matrix line needs.
type PCF8574 struct {
	bus     drivers.I2C
	Address uint16

	mu   sync.Mutex
	out  byte
	wbuf [1]byte
	rbuf [1]byte

	errs uint32
}

// NewPCF8574 only creates the handle; call Configure before use.
func NewPCF8574(bus drivers.I2C, addr uint16) *PCF8574 {
	if addr == 0 {
		addr = DefaultPCF8574Address
	}
	return &PCF8574{bus: bus, Address: addr, out: 0xFF}
}

// Configure releases every pin to its pulled-up input state.
func (d *PCF8574) Configure() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.out = 0xFF
	return d.writeLocked()
}

// Read samples all eight pins.
func (d *PCF8574) Read() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.bus.Tx(d.Address, nil, d.rbuf[:]); err != nil {
		atomic.AddUint32(&d.errs, 1)
		return 0xFF, errcode.Wrap(errcode.IOError, "pcf8574.read", err)
	}
	return d.rbuf[0], nil
}

// Errors reports how many bus transactions have failed.
func (d *PCF8574) Errors() uint32 { return atomic.LoadUint32(&d.errs) }

// Line returns a handle for one pin (0..7).
func (d *PCF8574) Line(bit int) gpio.Line { return &expanderLine{d: d, bit: uint8(bit & 7)} }

func (d *PCF8574) setBit(bit uint8, high bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if high {
		d.out |= 1 << bit
	} else {
		d.out &^= 1 << bit
	}
	return d.writeLocked()
}

func (d *PCF8574) writeLocked() error {
	d.wbuf[0] = d.out
	if err := d.bus.Tx(d.Address, d.wbuf[:], nil); err != nil {
		atomic.AddUint32(&d.errs, 1)
		return errcode.Wrap(errcode.IOError, "pcf8574.write", err)
	}
	return nil
}

type expanderLine struct {
	d   *PCF8574
	bit uint8
}

func (l *expanderLine) SetMode(m gpio.Mode) error {
	// Driven high and pulled-up input are the same latch state on this part.
	return l.d.setBit(l.bit, m != gpio.ModeDrivenLow)
}

// Level reads high on bus failure so a flaky bus never looks like a key press.
func (l *expanderLine) Level() gpio.Level {
	v, err := l.d.Read()
	if err != nil {
		return gpio.High
	}
	return v&(1<<l.bit) != 0
}

func (l *expanderLine) Number() int { return int(l.bit) }

// expanderLines builds matrix lines on an expander from bit numbers.
func expanderLines(d *PCF8574, rowBits, colBits []int) ([]gpio.Driver, []gpio.Sampler) {
	rows := make([]gpio.Driver, len(rowBits))
	for i, b := range rowBits {
		rows[i] = d.Line(b)
	}
	cols := make([]gpio.Sampler, len(colBits))
	for i, b := range colBits {
		cols[i] = d.Line(b)
	}
	return rows, cols
}
