package tui

import (
	"sync"
	"sync/atomic"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// EventSink buffers game events for the Bubble Tea loop.
// Send never blocks: when the buffer is full the oldest event is dropped.
type EventSink struct {
	events   chan t2048.Event
	done     chan struct{}
	doneOnce sync.Once
	dropped  atomic.Int64
}

// NewEventSink creates a sink holding up to size events.
func NewEventSink(size int) *EventSink {
	if size < 1 {
		size = 64 // Default buffer size
	}
	return &EventSink{
		events: make(chan t2048.Event, size),
		done:   make(chan struct{}),
	}
}

// Send queues an event. It has the shape of a t2048.Listener.
func (s *EventSink) Send(evt t2048.Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.events:
			s.dropped.Add(1)
		default:
		}
		select {
		case s.events <- evt:
		default:
			s.dropped.Add(1)
		}
	}
}

// Events returns the channel to receive events from.
func (s *EventSink) Events() <-chan t2048.Event {
	return s.events
}

// Drain returns every queued event without blocking.
func (s *EventSink) Drain() []t2048.Event {
	var out []t2048.Event
	for {
		select {
		case evt := <-s.events:
			out = append(out, evt)
		default:
			return out
		}
	}
}

// Dropped reports how many events were discarded because the buffer was full.
func (s *EventSink) Dropped() int64 {
	return s.dropped.Load()
}

// Done returns a channel closed by Close.
func (s *EventSink) Done() <-chan struct{} {
	return s.done
}

// Close stops accepting events. Safe to call multiple times.
func (s *EventSink) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
