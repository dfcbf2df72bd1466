package platform

import (
	"sync"

	"keycalc-go/errcode"
	"keycalc-go/internal/gpio"
)

// SimPCF8574 is a drivers.I2C that behaves like a PCF8574 whose pins are wired
// to a simulated Matrix. Used by host builds and tests.
type SimPCF8574 struct {
	mu      sync.Mutex
	Addr    uint16
	m       *Matrix
	rowBits []int
	colBits []int
	rows    []gpio.Driver
	cols    []gpio.Sampler
	latch   byte
	Fail    bool // when set every transaction NACKs
}

func NewSimPCF8574(m *Matrix, addr uint16, rowBits, colBits []int) *SimPCF8574 {
	if addr == 0 {
		addr = DefaultPCF8574Address
	}
	rows, cols := m.Lines()
	return &SimPCF8574{Addr: addr, m: m, rowBits: rowBits, colBits: colBits, rows: rows, cols: cols, latch: 0xFF}
}

func (s *SimPCF8574) Tx(addr uint16, w, r []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail || addr != s.Addr {
		return errcode.Timeout
	}
	if len(w) > 0 {
		s.latch = w[len(w)-1]
		for i, b := range s.rowBits {
			mode := gpio.ModePulledUpInput
			if s.latch&(1<<b) == 0 {
				mode = gpio.ModeDrivenLow
			}
			_ = s.rows[i].SetMode(mode)
		}
	}
	if len(r) > 0 {
		v := s.latch
		for i, b := range s.colBits {
			if s.cols[i].Level() == gpio.Low {
				v &^= 1 << b
			}
		}
		for i := range r {
			r[i] = v
		}
	}
	return nil
}
