// Package counter counts button presses signalled by a GPIO interrupt.
//
// The interrupt handler only samples the line and does a non-blocking send on
// a bounded queue; a single worker goroutine owns the debounce state and the
// count, and publishes it on the bus. Readers use Count, an atomic load.
package counter

import (
	"context"
	"sync/atomic"
	"time"

	"keycalc-go/bus"
	"keycalc-go/internal/gpio"
	"keycalc-go/types"
	"keycalc-go/x/timex"
)

type Options struct {
	Name     string // topic element under counter/
	Pin      int    // informational, published on counter/<name>/info
	Debounce time.Duration
	Invert   bool // pressed == low
	QueueLen int
}

type Counter struct {
	line gpio.IRQLine
	conn *bus.Connection
	opt  Options

	// Written by the ISR; must never block.
	isrQ chan gpio.Level

	presses uint32
	drops   uint32

	// Worker-owned.
	lastPressed bool
	lastEvent   time.Time
}

// New prepares a counter. conn may be nil when nothing needs to observe it.
func New(line gpio.IRQLine, conn *bus.Connection, opt Options) *Counter {
	if opt.QueueLen <= 0 {
		opt.QueueLen = 16
	}
	if opt.Name == "" {
		opt.Name = "button"
	}
	return &Counter{
		line: line,
		conn: conn,
		opt:  opt,
		isrQ: make(chan gpio.Level, opt.QueueLen),
	}
}

// Start arms the interrupt on both edges and runs the worker until ctx ends.
func (c *Counter) Start(ctx context.Context) error {
	c.lastPressed = c.pressed(c.line.Level())
	if err := c.line.SetIRQ(gpio.EdgeBoth, c.isr); err != nil {
		return err
	}
	if c.conn != nil {
		c.conn.Publish(c.conn.NewMessage(bus.T("counter", c.opt.Name, "info"), types.ButtonInfo{Pin: c.opt.Pin}, true))
	}
	c.publish()
	go c.run(ctx)
	return nil
}

func (c *Counter) isr() {
	select {
	case c.isrQ <- c.line.Level():
	default:
		atomic.AddUint32(&c.drops, 1)
	}
}

func (c *Counter) run(ctx context.Context) {
	defer func() { _ = c.line.ClearIRQ() }()
	for {
		select {
		case <-ctx.Done():
			println("[counter] stopping")
			return
		case lvl := <-c.isrQ:
			if c.handle(lvl, time.Now()) {
				c.publish()
			}
		}
	}
}

// handle applies debounce and counts released→pressed transitions.
// Every edge updates the tracked level, so a release that lands inside the
// window still arms the next press. Only edges outside the window count or
// restart it.
func (c *Counter) handle(lvl gpio.Level, now time.Time) bool {
	p := c.pressed(lvl)
	if p == c.lastPressed {
		return false
	}
	c.lastPressed = p
	if !c.lastEvent.IsZero() && now.Sub(c.lastEvent) < c.opt.Debounce {
		return false
	}
	c.lastEvent = now
	if !p {
		return false
	}
	atomic.AddUint32(&c.presses, 1)
	return true
}

func (c *Counter) pressed(l gpio.Level) bool {
	if c.opt.Invert {
		return l == gpio.Low
	}
	return l == gpio.High
}

func (c *Counter) publish() {
	if c.conn == nil {
		return
	}
	c.conn.Publish(c.conn.NewMessage(
		bus.T("counter", c.opt.Name, "value"),
		types.CountValue{Presses: c.Count(), Drops: c.Drops(), TSms: timex.NowMs()},
		true,
	))
}

// Count returns the number of presses seen so far.
func (c *Counter) Count() uint32 { return atomic.LoadUint32(&c.presses) }

// Drops returns how many interrupts were lost to a full queue.
func (c *Counter) Drops() uint32 { return atomic.LoadUint32(&c.drops) }
