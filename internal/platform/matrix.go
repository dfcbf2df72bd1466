package platform

import (
	"sync"

	"keycalc-go/internal/gpio"
)

// Matrix simulates the electrical behaviour of a passive key matrix: a column
// reads low iff some closed switch on it sits on a row that is driven low.
// Columns are otherwise pulled high.
type Matrix struct {
	mu        sync.Mutex
	modes     []gpio.Mode
	cols      int
	closed    map[[2]int]bool
	maxDriven int
}

func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		modes:  make([]gpio.Mode, rows),
		cols:   cols,
		closed: make(map[[2]int]bool),
	}
}

func (m *Matrix) Press(r, c int) {
	m.mu.Lock()
	m.closed[[2]int{r, c}] = true
	m.mu.Unlock()
}

func (m *Matrix) Release(r, c int) {
	m.mu.Lock()
	delete(m.closed, [2]int{r, c})
	m.mu.Unlock()
}

func (m *Matrix) ReleaseAll() {
	m.mu.Lock()
	m.closed = make(map[[2]int]bool)
	m.mu.Unlock()
}

// MaxDriven reports the largest number of rows ever seen driven low together.
func (m *Matrix) MaxDriven() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxDriven
}

// Lines returns fresh row and column handles in index order.
func (m *Matrix) Lines() ([]gpio.Driver, []gpio.Sampler) {
	rows := make([]gpio.Driver, len(m.modes))
	for r := range rows {
		rows[r] = &matrixRow{m: m, r: r}
	}
	cols := make([]gpio.Sampler, m.cols)
	for c := range cols {
		cols[c] = &matrixCol{m: m, c: c}
	}
	return rows, cols
}

func (m *Matrix) setMode(r int, mode gpio.Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[r] = mode
	n := 0
	for _, md := range m.modes {
		if md == gpio.ModeDrivenLow {
			n++
		}
	}
	if n > m.maxDriven {
		m.maxDriven = n
	}
}

func (m *Matrix) level(c int) gpio.Level {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r, md := range m.modes {
		if md == gpio.ModeDrivenLow && m.closed[[2]int{r, c}] {
			return gpio.Low
		}
	}
	return gpio.High
}

type matrixRow struct {
	m *Matrix
	r int
}

func (l *matrixRow) SetMode(mode gpio.Mode) error { l.m.setMode(l.r, mode); return nil }

func (l *matrixRow) Level() gpio.Level {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	return l.m.modes[l.r] != gpio.ModeDrivenLow
}

func (l *matrixRow) Number() int { return l.r }

type matrixCol struct {
	m *Matrix
	c int
}

func (l *matrixCol) Level() gpio.Level { return l.m.level(l.c) }
