//go:build !(rp2040 || rp2350)

package platform

import (
	"sync"

	"keycalc-go/internal/gpio"
)

// FakePin is a host GPIO with a settable external level and edge callbacks.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   gpio.Level
	mode    gpio.Mode
	irqEdge gpio.Edge
	irqFunc func()
}

func NewFakePin(n int) *FakePin { return &FakePin{number: n, level: gpio.High} }

func (p *FakePin) SetMode(m gpio.Mode) error {
	p.mu.Lock()
	p.mode = m
	p.mu.Unlock()
	switch m {
	case gpio.ModeDrivenLow:
		p.Set(gpio.Low)
	case gpio.ModeDrivenHigh:
		p.Set(gpio.High)
	}
	return nil
}

// Set changes the pin level as if driven from outside and fires a matching
// edge callback synchronously, like an ISR.
func (p *FakePin) Set(level gpio.Level) {
	p.mu.Lock()
	old := p.level
	p.level = level
	want := irqWanted(p.irqEdge, old, level)
	irq := p.irqFunc
	p.mu.Unlock()
	if want && irq != nil {
		irq()
	}
}

func (p *FakePin) Level() gpio.Level {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.level
}

func (p *FakePin) Mode() gpio.Mode {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

func (p *FakePin) Number() int { return p.number }

func (p *FakePin) SetIRQ(edge gpio.Edge, handler func()) error {
	p.mu.Lock()
	p.irqEdge = edge
	p.irqFunc = handler
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ClearIRQ() error {
	p.mu.Lock()
	p.irqEdge = gpio.EdgeNone
	p.irqFunc = nil
	p.mu.Unlock()
	return nil
}

func irqWanted(cfg gpio.Edge, old, new gpio.Level) bool {
	rising := old == gpio.Low && new == gpio.High
	falling := old == gpio.High && new == gpio.Low
	switch cfg {
	case gpio.EdgeRising:
		return rising
	case gpio.EdgeFalling:
		return falling
	case gpio.EdgeBoth:
		return rising || falling
	}
	return false
}

// HostPins returns stable *FakePin instances per number.
type HostPins struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPins) Get(n int) *FakePin {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = NewFakePin(n)
		f.pins[n] = p
	}
	return p
}
