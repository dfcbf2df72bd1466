// Package keypad scans a row/column matrix keypad and reports key changes.
//
// Rows are driven low one at a time while every other row idles as a pulled-up
// input; a column reading low identifies the closed intersection. Events are
// debounced by change: a held key is reported once, a release is reported as
// NoKey, and nothing is reported while the matrix is unchanged.
//
// Simultaneous presses resolve to the first hit in scan order (row-major).
package keypad

import (
	"keycalc-go/errcode"
	"keycalc-go/internal/gpio"
	"keycalc-go/x/strconvx"
)

// Symbol is the printable key label from the keymap. The zero value means no key.
type Symbol byte

const NoKey Symbol = 0

func (s Symbol) String() string {
	if s == NoKey {
		return ""
	}
	return string(rune(s))
}

// Keymap is a fixed R×C grid of symbols indexed [row][col].
type Keymap [][]Symbol

// KeymapFromRows builds a Keymap from one string per row, one byte per key.
func KeymapFromRows(rows ...string) Keymap {
	km := make(Keymap, len(rows))
	for r, s := range rows {
		km[r] = make([]Symbol, len(s))
		for c := 0; c < len(s); c++ {
			km[r][c] = Symbol(s[c])
		}
	}
	return km
}

// Locate returns the row and column of the first cell labelled sym.
func (km Keymap) Locate(sym Symbol) (row, col int, ok bool) {
	for r := range km {
		for c, s := range km[r] {
			if s == sym {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// Standard4x4 is the layout of the common membrane keypad used on the demo board.
var Standard4x4 = KeymapFromRows(
	"123+",
	"456-",
	"789*",
	"C0=/",
)

// Scanner owns the row and column lines for its whole lifetime.
// It is not safe for concurrent use.
type Scanner struct {
	keymap Keymap
	rows   []gpio.Driver
	cols   []gpio.Sampler
	last   Symbol

	// rows whose drive has failed at least once; logged on first failure only
	faulted []bool
}

// New validates the geometry, parks every row as a pulled-up input and
// returns a ready scanner.
func New(keymap Keymap, rows []gpio.Driver, cols []gpio.Sampler) (*Scanner, error) {
	if len(rows) == 0 || len(cols) == 0 || len(keymap) != len(rows) {
		return nil, &errcode.E{C: errcode.InvalidParams, Op: "keypad.New", Msg: "keymap rows do not match row lines"}
	}
	for r := range keymap {
		if len(keymap[r]) != len(cols) {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: "keypad.New", Msg: "keymap columns do not match column lines"}
		}
		for _, s := range keymap[r] {
			if s == NoKey {
				return nil, &errcode.E{C: errcode.InvalidParams, Op: "keypad.New", Msg: "keymap has an empty cell"}
			}
		}
	}
	for i, row := range rows {
		if row == nil {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: "keypad.New", Msg: "nil row line"}
		}
		if err := row.SetMode(gpio.ModePulledUpInput); err != nil {
			return nil, errcode.Wrap(errcode.IOError, "keypad.New row "+strconvx.Itoa(i), err)
		}
	}
	for _, col := range cols {
		if col == nil {
			return nil, &errcode.E{C: errcode.InvalidParams, Op: "keypad.New", Msg: "nil column line"}
		}
	}
	return &Scanner{
		keymap:  keymap,
		rows:    rows,
		cols:    cols,
		faulted: make([]bool, len(rows)),
	}, nil
}

// Rows and Cols report the matrix geometry.
func (s *Scanner) Rows() int { return len(s.rows) }
func (s *Scanner) Cols() int { return len(s.cols) }

// Last returns the most recently reported symbol (NoKey after a release).
func (s *Scanner) Last() Symbol { return s.last }

// Scan performs one pass over the matrix. changed is false when the result
// matches the previous pass; otherwise sym is the new key, or NoKey on release.
func (s *Scanner) Scan() (sym Symbol, changed bool) {
	cand := s.sample()
	if cand == s.last {
		return NoKey, false
	}
	s.last = cand
	return cand, true
}

// Poll is Scan filtered to presses: it returns a symbol only when a new key
// has gone down.
func (s *Scanner) Poll() (Symbol, bool) {
	sym, changed := s.Scan()
	if !changed || sym == NoKey {
		return NoKey, false
	}
	return sym, true
}

func (s *Scanner) sample() Symbol {
	for r, row := range s.rows {
		if err := row.SetMode(gpio.ModeDrivenLow); err != nil {
			s.fault(r, err)
			// Best effort: make sure a half-switched row is not left driven.
			_ = row.SetMode(gpio.ModePulledUpInput)
			continue
		}
		hit := NoKey
		for c, col := range s.cols {
			if col.Level() == gpio.Low {
				hit = s.keymap[r][c]
				break
			}
		}
		// Always restore before the next row so two rows are never driven together.
		if err := row.SetMode(gpio.ModePulledUpInput); err != nil {
			s.fault(r, err)
		}
		if hit != NoKey {
			return hit
		}
	}
	return NoKey
}

func (s *Scanner) fault(r int, err error) {
	if s.faulted[r] {
		return
	}
	s.faulted[r] = true
	println("[keypad] row", r, "mode switch failed:", err.Error())
}
