// Package calc implements the running four-function calculation fed by keypad
// symbols: an accumulator, one pending operator and the operand being typed.
package calc

import (
	"math"

	"keycalc-go/errcode"
	"keycalc-go/internal/keypad"
	"keycalc-go/x/mathx"
	"keycalc-go/x/strconvx"
)

// Operator is a pending arithmetic operation. The zero value means none.
type Operator byte

const (
	OpNone Operator = 0
	OpAdd  Operator = '+'
	OpSub  Operator = '-'
	OpMul  Operator = '*'
	OpDiv  Operator = '/'
)

func (o Operator) String() string {
	if o == OpNone {
		return ""
	}
	return string(rune(o))
}

// Control symbols.
const (
	SymClear  keypad.Symbol = 'C'
	SymEquals keypad.Symbol = '='
)

// Display is the result of one Apply: the rendered state and, when the key
// could not be honoured in full, the reason.
type Display struct {
	Text string
	Err  error // nil, errcode.DivideByZero, errcode.Overflow or errcode.UnknownSymbol
}

// Engine holds the calculation state. Not safe for concurrent use.
//
// Invariant: the operand is only populated while an operator is pending.
type Engine struct {
	acc, arg       int32
	hasAcc, hasArg bool
	op             Operator

	buf [48]byte // render scratch
}

func New() *Engine { return &Engine{} }

// Accumulator returns the left operand / running result.
func (e *Engine) Accumulator() (int32, bool) { return e.acc, e.hasAcc }

// Operand returns the right operand being typed.
func (e *Engine) Operand() (int32, bool) { return e.arg, e.hasArg }

// Pending returns the operator awaiting its operand, or OpNone.
func (e *Engine) Pending() Operator { return e.op }

// Reset empties all three slots.
func (e *Engine) Reset() {
	e.acc, e.hasAcc = 0, false
	e.arg, e.hasArg = 0, false
	e.op = OpNone
}

// Apply feeds one key and returns the state after it.
func (e *Engine) Apply(sym keypad.Symbol) Display {
	var err error
	switch {
	case sym >= '0' && sym <= '9':
		err = e.digit(int64(sym - '0'))
	case sym == SymClear:
		e.Reset()
	case sym == SymEquals:
		err = e.operator(OpNone)
	default:
		op, ok := operatorOf(sym)
		if !ok {
			err = errcode.UnknownSymbol
			break
		}
		err = e.operator(op)
	}
	return Display{Text: e.Render(), Err: err}
}

func operatorOf(sym keypad.Symbol) (Operator, bool) {
	switch Operator(sym) {
	case OpAdd, OpSub, OpMul, OpDiv:
		return Operator(sym), true
	}
	return OpNone, false
}

// digit appends d to the slot being typed. A digit that would leave the int32
// range is rejected and the slot keeps its value.
func (e *Engine) digit(d int64) error {
	target, has := &e.acc, &e.hasAcc
	if e.op != OpNone {
		target, has = &e.arg, &e.hasArg
	}
	if !*has {
		*target, *has = int32(d), true
		return nil
	}
	next := int64(*target)*10 + d
	if !mathx.Between(next, math.MinInt32, math.MaxInt32) {
		return errcode.Overflow
	}
	*target = int32(next)
	return nil
}

// operator handles an operator key; next == OpNone means equals.
// Without a complete expression nothing is computed and equals is a no-op.
func (e *Engine) operator(next Operator) error {
	var err error
	computed := false
	if e.hasAcc && e.hasArg && e.op != OpNone {
		res, cerr := compute(e.acc, e.op, e.arg)
		if cerr == errcode.DivideByZero {
			// Ignore the key entirely.
			return cerr
		}
		err = cerr
		e.acc = res
		e.arg, e.hasArg = 0, false
		computed = true
	}
	switch {
	case next != OpNone:
		e.op = next
	case computed:
		e.op = OpNone
	}
	return err
}

// compute applies op in 64 bits and saturates into int32.
func compute(a int32, op Operator, b int32) (int32, error) {
	x, y := int64(a), int64(b)
	var r int64
	switch op {
	case OpAdd:
		r = x + y
	case OpSub:
		r = x - y
	case OpMul:
		r = x * y
	case OpDiv:
		if y == 0 {
			return a, errcode.DivideByZero
		}
		r = x / y
	default:
		return a, errcode.UnknownSymbol
	}
	n, sat := mathx.Narrow(r, math.MinInt32, math.MaxInt32)
	if sat {
		return int32(n), errcode.Overflow
	}
	return int32(n), nil
}

// Render formats the state as "a", "a op" or "a op b". A missing accumulator
// renders as 0.
func (e *Engine) Render() string {
	out := strconvx.AppendInt(e.buf[:0], int64(e.acc), 10)
	if e.op != OpNone {
		out = append(out, ' ', byte(e.op))
		if e.hasArg {
			out = append(out, ' ')
			out = strconvx.AppendInt(out, int64(e.arg), 10)
		}
	}
	return string(out)
}

// Describe turns an Apply error into the line reported on the console.
func Describe(err error) string {
	switch errcode.Of(err) {
	case errcode.OK:
		return ""
	case errcode.DivideByZero:
		return "error: divide by zero"
	case errcode.Overflow:
		return "error: overflow"
	case errcode.UnknownSymbol:
		return "error: unknown key"
	default:
		return "error: " + err.Error()
	}
}
