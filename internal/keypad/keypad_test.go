package keypad

import (
	"errors"
	"testing"

	"keycalc-go/errcode"
	"keycalc-go/internal/gpio"
)

// fakeMatrix wires rows to columns through a set of closed switches.
type fakeMatrix struct {
	modes   []gpio.Mode
	closed  map[[2]int]bool
	maxLow  int // most rows seen driven low at once
	failRow int // row whose drive fails, -1 for none
}

func newFakeMatrix(rows int) *fakeMatrix {
	m := &fakeMatrix{modes: make([]gpio.Mode, rows), closed: map[[2]int]bool{}, failRow: -1}
	for i := range m.modes {
		m.modes[i] = gpio.ModeDrivenHigh // deliberately wrong until New parks them
	}
	return m
}

func (m *fakeMatrix) press(r, c int)   { m.closed[[2]int{r, c}] = true }
func (m *fakeMatrix) release(r, c int) { delete(m.closed, [2]int{r, c}) }

type fakeRow struct {
	m *fakeMatrix
	r int
}

func (f fakeRow) SetMode(mode gpio.Mode) error {
	if f.r == f.m.failRow && mode == gpio.ModeDrivenLow {
		return errors.New("stuck")
	}
	f.m.modes[f.r] = mode
	low := 0
	for _, md := range f.m.modes {
		if md == gpio.ModeDrivenLow {
			low++
		}
	}
	if low > f.m.maxLow {
		f.m.maxLow = low
	}
	return nil
}

type fakeCol struct {
	m *fakeMatrix
	c int
}

func (f fakeCol) Level() gpio.Level {
	for r, md := range f.m.modes {
		if md == gpio.ModeDrivenLow && f.m.closed[[2]int{r, f.c}] {
			return gpio.Low
		}
	}
	return gpio.High
}

func newScanner(t *testing.T) (*Scanner, *fakeMatrix) {
	t.Helper()
	m := newFakeMatrix(4)
	rows := make([]gpio.Driver, 4)
	cols := make([]gpio.Sampler, 4)
	for i := 0; i < 4; i++ {
		rows[i] = fakeRow{m: m, r: i}
		cols[i] = fakeCol{m: m, c: i}
	}
	s, err := New(Standard4x4, rows, cols)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, m
}

func TestNewParksRows(t *testing.T) {
	_, m := newScanner(t)
	for r, md := range m.modes {
		if md != gpio.ModePulledUpInput {
			t.Fatalf("row %d mode %v after New", r, md)
		}
	}
}

func TestNewRejectsBadGeometry(t *testing.T) {
	m := newFakeMatrix(2)
	rows := []gpio.Driver{fakeRow{m, 0}, fakeRow{m, 1}}
	cols := []gpio.Sampler{fakeCol{m, 0}, fakeCol{m, 1}}
	for name, km := range map[string]Keymap{
		"rows":  KeymapFromRows("12"),
		"cols":  KeymapFromRows("12", "345"),
		"empty": {{'1', NoKey}, {'3', '4'}},
	} {
		if _, err := New(km, rows, cols); errcode.Of(err) != errcode.InvalidParams {
			t.Fatalf("%s: err = %v, want invalid_params", name, err)
		}
	}
}

func TestSinglePressSingleEvent(t *testing.T) {
	s, m := newScanner(t)
	if _, changed := s.Scan(); changed {
		t.Fatal("idle matrix reported a change")
	}

	m.press(1, 1) // '5'
	events := 0
	for i := 0; i < 10; i++ {
		sym, changed := s.Scan()
		if changed {
			events++
			if i != 0 || sym != '5' {
				t.Fatalf("scan %d: got %q changed=%v", i, sym, changed)
			}
		}
	}
	if events != 1 {
		t.Fatalf("held key produced %d events, want 1", events)
	}

	m.release(1, 1)
	sym, changed := s.Scan()
	if !changed || sym != NoKey {
		t.Fatalf("release: got %q changed=%v", sym, changed)
	}
	for i := 0; i < 5; i++ {
		if _, changed := s.Scan(); changed {
			t.Fatal("released matrix kept reporting")
		}
	}
	if m.maxLow != 1 {
		t.Fatalf("saw %d rows driven low at once", m.maxLow)
	}
}

func TestDirectSwitchBetweenKeys(t *testing.T) {
	s, m := newScanner(t)
	m.press(0, 0)
	if sym, _ := s.Scan(); sym != '1' {
		t.Fatalf("first key %q", sym)
	}
	m.release(0, 0)
	m.press(3, 3)
	if sym, changed := s.Scan(); !changed || sym != '/' {
		t.Fatalf("switch: got %q changed=%v", sym, changed)
	}
}

func TestFirstHitWins(t *testing.T) {
	s, m := newScanner(t)
	m.press(2, 3) // '*'
	m.press(2, 1) // '8'
	m.press(3, 0) // 'C'
	if sym, _ := s.Scan(); sym != '8' {
		t.Fatalf("got %q, want '8' (row-major first hit)", sym)
	}
	if m.maxLow != 1 {
		t.Fatalf("saw %d rows driven low at once", m.maxLow)
	}
	for r, md := range m.modes {
		if md != gpio.ModePulledUpInput {
			t.Fatalf("row %d left in %v after match", r, md)
		}
	}
}

func TestPollReportsPressesOnly(t *testing.T) {
	s, m := newScanner(t)
	m.press(3, 2)
	if sym, ok := s.Poll(); !ok || sym != '=' {
		t.Fatalf("Poll press = %q,%v", sym, ok)
	}
	m.release(3, 2)
	if _, ok := s.Poll(); ok {
		t.Fatal("Poll reported a release")
	}
	if s.Last() != NoKey {
		t.Fatalf("Last = %q after release", s.Last())
	}
}

func TestFailedRowIsNotPressed(t *testing.T) {
	s, m := newScanner(t)
	m.failRow = 0
	m.press(0, 0)
	if _, changed := s.Scan(); changed {
		t.Fatal("key on a failed row was reported")
	}
	m.press(1, 2)
	if sym, _ := s.Scan(); sym != '6' {
		t.Fatalf("got %q, want '6'", sym)
	}
}

func TestKeymapLocate(t *testing.T) {
	r, c, ok := Standard4x4.Locate('0')
	if !ok || r != 3 || c != 1 {
		t.Fatalf("Locate('0') = %d,%d,%v", r, c, ok)
	}
	if _, _, ok := Standard4x4.Locate('#'); ok {
		t.Fatal("Locate found a key that is not on the keypad")
	}
}
