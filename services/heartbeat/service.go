// Package heartbeat blinks a status LED so a running board is visibly alive.
package heartbeat

import (
	"context"
	"sync/atomic"
	"time"

	"keycalc-go/bus"
	"keycalc-go/internal/gpio"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

const DefaultPeriod = 500 * time.Millisecond

type Service struct {
	led     gpio.Driver
	period  time.Duration
	on      bool
	toggles uint32
}

func New(led gpio.Driver, period time.Duration) *Service {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Service{led: led, period: period}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	var cfg <-chan *bus.Message
	if conn != nil {
		sub := conn.Subscribe(topicConfigHeartbeat)
		defer conn.Unsubscribe(sub)
		cfg = sub.Channel()
	}

	tick := time.NewTicker(s.period)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			_ = s.led.SetMode(gpio.ModeDrivenLow)
			println("[heartbeat] stopping")
			return
		case <-tick.C:
			s.toggle()
		case msg, ok := <-cfg:
			if !ok {
				cfg = nil
				continue
			}
			// Payload is the new half-period in milliseconds.
			if ms, ok := msg.Payload.(int); ok && ms > 0 {
				s.period = time.Duration(ms) * time.Millisecond
				tick.Reset(s.period)
				println("[heartbeat] period set to", ms, "ms")
			}
		}
	}
}

func (s *Service) toggle() {
	s.on = !s.on
	mode := gpio.ModeDrivenLow
	if s.on {
		mode = gpio.ModeDrivenHigh
	}
	if err := s.led.SetMode(mode); err != nil {
		println("[heartbeat] led:", err.Error())
	}
	atomic.AddUint32(&s.toggles, 1)
}

// Toggles reports how many times the LED has flipped.
func (s *Service) Toggles() uint32 { return atomic.LoadUint32(&s.toggles) }

// Start the heartbeat service. conn may be nil.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	_ = s.led.SetMode(gpio.ModeDrivenLow)
	go s.serviceLoop(ctx, conn)
	return nil
}
