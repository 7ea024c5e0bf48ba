package telemetry

import (
	"sync"
	"sync/atomic"
)

// Emitter accepts events from the orchestrator. Emit must never block.
type Emitter interface {
	Emit(Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(Event) {}

// Sink receives events in emission order on the dispatcher goroutine.
type Sink interface {
	HandleEvent(Event)
}

// Dispatcher fans events out to sinks from a single consumer goroutine.
// Emit drops events when the buffer is full rather than blocking the
// session.
type Dispatcher struct {
	events  chan Event
	done    chan struct{}
	sinks   []Sink
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
}

func NewDispatcher(buffer int, sinks ...Sink) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}

	d := &Dispatcher{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		sinks:  sinks,
	}

	go d.loop()

	return d
}

func (d *Dispatcher) loop() {
	defer close(d.done)

	for event := range d.events {
		for _, sink := range d.sinks {
			sink.HandleEvent(event)
		}
	}
}

func (d *Dispatcher) Emit(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	select {
	case d.events <- event:
	default:
		d.dropped.Add(1)
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops accepting events and waits for the already-buffered ones to
// reach the sinks.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.events)
	d.mu.Unlock()

	<-d.done
}
