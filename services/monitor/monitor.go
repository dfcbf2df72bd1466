// Package monitor echoes bus traffic to a console sink.
package monitor

import (
	"context"

	"keycalc-go/bus"
	"keycalc-go/internal/console"
	"keycalc-go/types"
	"keycalc-go/x/strconvx"
)

// Format renders one message as a console line; ok=false skips it.
type Format func(m *bus.Message) (line string, ok bool)

type Monitor struct {
	conn   *bus.Connection
	filter bus.Topic
	sink   console.Sink
	format Format
}

// New watches filter (wildcards allowed). A nil format uses Describe.
func New(conn *bus.Connection, filter bus.Topic, sink console.Sink, format Format) *Monitor {
	if format == nil {
		format = Describe
	}
	return &Monitor{conn: conn, filter: filter, sink: sink, format: format}
}

// Run subscribes and forwards until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	sub := m.conn.Subscribe(m.filter)
	defer m.conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			if line, ok := m.format(msg); ok {
				m.sink.EmitLine(line)
			}
		}
	}
}

// Describe is the default "topic payload" rendering.
func Describe(m *bus.Message) (string, bool) {
	b := m.Topic.Append(make([]byte, 0, 48))
	b = append(b, ' ')
	switch v := m.Payload.(type) {
	case types.KeyValue:
		if v.Pressed {
			b = append(b, "down "...)
			b = append(b, v.Symbol)
		} else {
			b = append(b, "up"...)
		}
	case types.DisplayValue:
		b = append(b, v.Text...)
		if v.Error != "" {
			b = append(b, " ("...)
			b = append(b, v.Error...)
			b = append(b, ')')
		}
	case types.CountValue:
		b = append(b, "presses="...)
		b = strconvx.AppendInt(b, int64(v.Presses), 10)
		b = append(b, " drops="...)
		b = strconvx.AppendInt(b, int64(v.Drops), 10)
	case types.ButtonInfo:
		b = append(b, "pin="...)
		b = strconvx.AppendInt(b, int64(v.Pin), 10)
	case string:
		b = append(b, v...)
	default:
		b = append(b, '?')
	}
	return string(b), true
}

// PressCount renders counter values the way the button demo reports them.
func PressCount(m *bus.Message) (string, bool) {
	v, ok := m.Payload.(types.CountValue)
	if !ok {
		return "", false
	}
	b := append(make([]byte, 0, 32), "Button Pressed "...)
	b = strconvx.AppendInt(b, int64(v.Presses), 10)
	b = append(b, " times."...)
	return string(b), true
}
