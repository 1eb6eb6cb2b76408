// Package event provides the in-process event bus carrying profile
// status, output, and error notifications between the core and the
// shell.
package event

import (
	"sync"

	"github.com/google/uuid"
)

// Event types published by the client core.
const (
	TypeUpdate       = "update"
	TypeOutput       = "output"
	TypeAuthError    = "auth_error"
	TypeTimeoutError = "timeout_error"
)

const listenerBuffer = 16

var listeners = struct {
	sync.RWMutex
	s map[*Listener]struct{}
}{
	s: make(map[*Listener]struct{}),
}

// Event is a single notification. Data is type-specific; for profile
// events it is the profile id.
type Event struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publish tags the event with a unique id and delivers it to every
// registered listener. Delivery never blocks the publisher; a listener
// with a full buffer misses the event.
func (e *Event) Publish() {
	e.ID = uuid.NewString()

	listeners.RLock()
	defer listeners.RUnlock()

	for list := range listeners.s {
		select {
		case list.stream <- e:
		default:
		}
	}
}

// Listener receives published events until closed.
type Listener struct {
	stream chan *Event
	once   sync.Once
}

// NewListener registers a listener with the bus.
func NewListener() *Listener {
	list := &Listener{
		stream: make(chan *Event, listenerBuffer),
	}

	listeners.Lock()
	listeners.s[list] = struct{}{}
	listeners.Unlock()

	return list
}

// Listen returns the listener's event stream.
func (l *Listener) Listen() <-chan *Event {
	return l.stream
}

// Close unregisters the listener and closes its stream.
func (l *Listener) Close() {
	listeners.Lock()
	delete(listeners.s, l)
	listeners.Unlock()

	l.once.Do(func() {
		close(l.stream)
	})
}
