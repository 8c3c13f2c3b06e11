// Package virtual provides an in-process CAN bus used by tests and by
// the bughunt examples, modeled after the teacher's pkg/can/virtual
// (there a TCP-broker bus; here a simple fan-out that calls each
// listener's Handle directly and synchronously, since the test corpus
// doesn't need a separate broker process).
package virtual

import (
	"sync"

	"github.com/almafe/femc/pkg/canbus"
)

// Broker fans out Frames published by any attached Bus to every other
// attached Bus, simulating a shared CAN segment in-process.
type Broker struct {
	mu   sync.Mutex
	subs []*Bus
}

// NewBroker returns an empty virtual CAN segment.
func NewBroker() *Broker {
	return &Broker{}
}

// NewBus attaches a new endpoint to the broker.
func (b *Broker) NewBus() *Bus {
	bus := &Bus{broker: b}
	b.mu.Lock()
	b.subs = append(b.subs, bus)
	b.mu.Unlock()
	return bus
}

func (b *Broker) publish(from *Bus, frame canbus.Frame) {
	b.mu.Lock()
	subs := append([]*Bus(nil), b.subs...)
	b.mu.Unlock()
	for _, s := range subs {
		if s == from {
			continue
		}
		s.deliver(frame)
	}
}

// Bus is a single endpoint on a virtual CAN segment.
type Bus struct {
	broker   *Broker
	mu       sync.Mutex
	listener canbus.FrameListener
}

func (b *Bus) Connect() error {
	return nil
}

func (b *Bus) Disconnect() error {
	return nil
}

func (b *Bus) Send(frame canbus.Frame) error {
	b.broker.publish(b, frame)
	return nil
}

func (b *Bus) Subscribe(listener canbus.FrameListener) error {
	b.mu.Lock()
	b.listener = listener
	b.mu.Unlock()
	return nil
}

func (b *Bus) deliver(frame canbus.Frame) {
	b.mu.Lock()
	listener := b.listener
	b.mu.Unlock()
	if listener != nil {
		listener.Handle(frame)
	}
}

var _ canbus.Bus = (*Bus)(nil)
