package calculator

import (
	"context"
	"reflect"
	"testing"
	"time"

	"keycalc-go/bus"
	"keycalc-go/internal/calc"
	"keycalc-go/internal/console"
	"keycalc-go/internal/keypad"
	"keycalc-go/internal/platform"
	"keycalc-go/types"
)

type rig struct {
	m    *platform.Matrix
	svc  *Service
	rec  *console.Recorder
	eng  *calc.Engine
	conn *bus.Connection
}

func newRig(t *testing.T) *rig {
	t.Helper()
	m := platform.NewMatrix(4, 4)
	rows, cols := m.Lines()
	sc, err := keypad.New(keypad.Standard4x4, rows, cols)
	if err != nil {
		t.Fatalf("keypad.New: %v", err)
	}
	rec := &console.Recorder{}
	eng := calc.New()
	conn := bus.NewBus(32).NewConnection("app")
	return &rig{m: m, svc: New(sc, eng, rec, conn, time.Millisecond), rec: rec, eng: eng, conn: conn}
}

// tap presses and releases the key labelled sym, stepping the loop on each edge.
func (r *rig) tap(t *testing.T, sym byte) {
	t.Helper()
	row, col, ok := keypad.Standard4x4.Locate(keypad.Symbol(sym))
	if !ok {
		t.Fatalf("no key %q on keypad", sym)
	}
	r.m.Press(row, col)
	if !r.svc.Step() {
		t.Fatalf("press %q not accepted", sym)
	}
	r.svc.Step() // held: no new event
	r.m.Release(row, col)
	if r.svc.Step() {
		t.Fatalf("release of %q reached the engine", sym)
	}
}

func TestLoopReportsEachAcceptedKey(t *testing.T) {
	r := newRig(t)
	for _, k := range []byte("7+3=") {
		r.tap(t, k)
	}
	want := []string{"7", "7 +", "7 + 3", "10"}
	if got := r.rec.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	if r.m.MaxDriven() != 1 {
		t.Fatalf("MaxDriven = %d", r.m.MaxDriven())
	}
}

func TestLoopReportsDivideByZero(t *testing.T) {
	r := newRig(t)
	for _, k := range []byte("5/0=") {
		r.tap(t, k)
	}
	want := []string{"5", "5 /", "5 / 0", "error: divide by zero", "5 / 0"}
	if got := r.rec.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	if a, _ := r.eng.Accumulator(); a != 5 {
		t.Fatalf("accumulator = %d", a)
	}
}

func TestDisplayPublishedRetained(t *testing.T) {
	r := newRig(t)
	keys := r.conn.Subscribe(bus.T("keypad", "key"))
	for _, k := range []byte("42") {
		r.tap(t, k)
	}

	sub := r.conn.Subscribe(bus.T("calc", "display"))
	select {
	case m := <-sub.Channel():
		v := m.Payload.(types.DisplayValue)
		if v.Text != "42" || v.Error != "" {
			t.Fatalf("display = %+v", v)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("no retained display")
	}

	// press + release per tap
	var got []types.KeyValue
	for len(got) < 4 {
		select {
		case m := <-keys.Channel():
			got = append(got, m.Payload.(types.KeyValue))
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("got %d key events", len(got))
		}
	}
	if got[0].Symbol != '4' || !got[0].Pressed || got[1].Pressed || got[2].Symbol != '2' {
		t.Fatalf("key events = %+v", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newRig(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.svc.Run(ctx)
		close(done)
	}()

	r.m.Press(0, 2) // '3'
	deadline := time.Now().Add(time.Second)
	for len(r.rec.Lines()) < 2 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if got := r.rec.Lines(); len(got) < 2 || got[0] != "0" || got[1] != "3" {
		t.Fatalf("lines = %q", got)
	}
}

func TestUnknownSymbolIsDropped(t *testing.T) {
	m := platform.NewMatrix(1, 1)
	rows, cols := m.Lines()
	sc, err := keypad.New(keypad.KeymapFromRows("#"), rows, cols)
	if err != nil {
		t.Fatal(err)
	}
	rec := &console.Recorder{}
	svc := New(sc, calc.New(), rec, nil, 0)
	m.Press(0, 0)
	svc.Step()
	if len(rec.Lines()) != 0 {
		t.Fatalf("unknown key produced output %q", rec.Lines())
	}
}
