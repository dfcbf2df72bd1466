// bus.go
package bus

import (
	"sync"

	"keycalc-go/x/strconvx"
)

// -----------------------------------------------------------------------------
// Topics
// -----------------------------------------------------------------------------

// Topic is a sequence of tokens. Tokens are strings or ints.
// In subscriptions "+" matches exactly one token and "#" any remainder.
type Topic []any

const (
	wildOne = "+"
	wildAll = "#"
)

// T builds a Topic from tokens.
func T(tokens ...any) Topic { return Topic(tokens) }

func (t Topic) Len() int       { return len(t) }
func (t Topic) At(i int) any   { return t[i] }
func (t Topic) String() string { return string(t.Append(nil)) }

// Append writes the slash-joined topic to dst.
func (t Topic) Append(dst []byte) []byte {
	for i, tok := range t {
		if i > 0 {
			dst = append(dst, '/')
		}
		switch v := tok.(type) {
		case string:
			dst = append(dst, v...)
		case int:
			dst = strconvx.AppendInt(dst, int64(v), 10)
		default:
			dst = append(dst, '?')
		}
	}
	return dst
}

func (t Topic) wild() bool {
	for _, tok := range t {
		if tok == wildOne || tok == wildAll {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection // owning connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

// -----------------------------------------------------------------------------
// Trie node
// -----------------------------------------------------------------------------

// Subscriptions are stored under their pattern path, retained messages under
// their literal topic path, in the same trie.
type node struct {
	children map[any]*node
	subs     []*Subscription
	retained *Message
}

func (n *node) child(tok any, create bool) *node {
	if c, ok := n.children[tok]; ok || !create {
		return c
	}
	if n.children == nil {
		n.children = make(map[any]*node)
	}
	c := &node{}
	n.children[tok] = c
	return c
}

func (n *node) collectSubs(t Topic, i int, out []*Subscription) []*Subscription {
	if c := n.children[wildAll]; c != nil {
		out = append(out, c.subs...)
	}
	if i == len(t) {
		return append(out, n.subs...)
	}
	if c := n.children[t[i]]; c != nil {
		out = c.collectSubs(t, i+1, out)
	}
	if c := n.children[wildOne]; c != nil {
		out = c.collectSubs(t, i+1, out)
	}
	return out
}

func (n *node) collectRetained(p Topic, i int, out []*Message) []*Message {
	if i == len(p) {
		if n.retained != nil {
			out = append(out, n.retained)
		}
		return out
	}
	switch p[i] {
	case wildAll:
		return n.allRetained(out)
	case wildOne:
		for k, c := range n.children {
			if k == wildOne || k == wildAll {
				continue
			}
			out = c.collectRetained(p, i+1, out)
		}
		return out
	}
	if c := n.children[p[i]]; c != nil {
		out = c.collectRetained(p, i+1, out)
	}
	return out
}

func (n *node) allRetained(out []*Message) []*Message {
	if n.retained != nil {
		out = append(out, n.retained)
	}
	for _, c := range n.children {
		out = c.allRetained(out)
	}
	return out
}

func (n *node) empty() bool {
	return len(n.subs) == 0 && len(n.children) == 0 && n.retained == nil
}

// -----------------------------------------------------------------------------
// Bus
// -----------------------------------------------------------------------------

type Bus struct {
	mu   sync.Mutex
	root *node
	qLen int
}

// NewBus creates a new bus with the given subscription queue length.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{
		root: &node{},
		qLen: queueLen,
	}
}

// NewMessage is a convenience constructor.
func (b *Bus) NewMessage(topic Topic, payload any, retained bool) *Message {
	return &Message{Topic: topic, Payload: payload, Retained: retained}
}

func (b *Bus) addSubscription(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	for _, tok := range sub.topic {
		n = n.child(tok, true)
	}
	n.subs = append(n.subs, sub)

	for _, m := range b.root.collectRetained(sub.topic, 0, nil) {
		deliver(sub, m)
	}
}

// Publish delivers a message to all matching subscribers. A retained message
// replaces the previous one on its topic; a retained nil payload clears it.
// Topics containing wildcards are not publishable and are dropped.
func (b *Bus) Publish(msg *Message) {
	if msg == nil || msg.Topic.wild() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.Retained {
		n := b.root
		for _, tok := range msg.Topic {
			n = n.child(tok, true)
		}
		if msg.Payload == nil {
			n.retained = nil
		} else {
			n.retained = msg
		}
	}
	for _, sub := range b.root.collectSubs(msg.Topic, 0, nil) {
		deliver(sub, msg)
	}
}

// deliver never blocks: when the queue is full the oldest message is dropped.
func deliver(sub *Subscription, msg *Message) {
	select {
	case sub.ch <- msg:
		return
	default:
	}
	select {
	case <-sub.ch:
	default:
	}
	select {
	case sub.ch <- msg:
	default:
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.root
	stack := make([]*node, 0, len(sub.topic))
	for _, tok := range sub.topic {
		c := n.child(tok, false)
		if c == nil {
			return
		}
		stack = append(stack, n)
		n = c
	}

	for i, s := range n.subs {
		if s == sub {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			break
		}
	}

	// Prune empty nodes.
	for i := len(sub.topic) - 1; i >= 0; i-- {
		parent := stack[i]
		key := sub.topic[i]
		if !parent.children[key].empty() {
			break
		}
		delete(parent.children, key)
	}
}

// -----------------------------------------------------------------------------
// Connection
// -----------------------------------------------------------------------------

type Connection struct {
	bus  *Bus
	subs []*Subscription
	mu   sync.Mutex
	id   string
}

// NewConnection creates a new connection bound to this bus.
func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) NewMessage(topic Topic, payload any, retained bool) *Message {
	return c.bus.NewMessage(topic, payload, retained)
}

// Publish sends a message via the bus.
func (c *Connection) Publish(msg *Message) {
	c.bus.Publish(msg)
}

// Subscribe registers a subscription owned by this connection.
func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan *Message, c.bus.qLen),
		conn:  c,
	}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	c.bus.addSubscription(sub)
	return sub
}

// Unsubscribe removes a subscription owned by this connection and closes its channel.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	found := false
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return
	}
	c.bus.unsubscribe(sub)
	close(sub.ch)
}

// Disconnect closes all subscriptions.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	for _, sub := range subs {
		c.bus.unsubscribe(sub)
		close(sub.ch)
	}
}
