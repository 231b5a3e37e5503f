// Package event is the change notifier for geometries: a typed publish/subscribe
// registry keyed by a closed set of event kinds.
package event

import (
	"log/slog"

	applog "geoshape/internal/log"
)

// Kind identifies what changed on a geometry.
type Kind uint8

const (
	// PositionChange fires when the position is set; size is untouched.
	PositionChange Kind = iota + 1
	// ShapeChange fires when any size parameter is set.
	ShapeChange
)

func (k Kind) String() string {
	switch k {
	case PositionChange:
		return "positionchange"
	case ShapeChange:
		return "shapechange"
	default:
		return "unknown"
	}
}

// Event carries only the kind and the source geometry's ID; listeners re-read state.
type Event struct {
	Kind   Kind
	Source string
}

type Listener func(Event)

// Subscription identifies one registered listener for Off.
type Subscription struct {
	kind Kind
	id   uint64
}

type entry struct {
	id uint64
	fn Listener
}

// Registry dispatches events synchronously in registration order. It is meant for
// single-threaded use on the UI goroutine and holds no locks.
//
// An Emit that happens while a listener is running is dropped: a listener that mutates
// its own geometry changes the state but does not trigger a second round of listeners.
type Registry struct {
	next        uint64
	listeners   map[Kind][]entry
	dispatching bool
}

// On registers fn for kind and returns a handle to remove it.
func (r *Registry) On(kind Kind, fn Listener) Subscription {
	if r.listeners == nil {
		r.listeners = make(map[Kind][]entry)
	}
	r.next++
	r.listeners[kind] = append(r.listeners[kind], entry{id: r.next, fn: fn})
	return Subscription{kind: kind, id: r.next}
}

// Off removes a subscription; unknown or repeated subscriptions are ignored.
func (r *Registry) Off(s Subscription) {
	ls := r.listeners[s.kind]
	for i, e := range ls {
		if e.id == s.id {
			// copy so an in-flight Emit keeps iterating its own snapshot
			r.listeners[s.kind] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Clear removes every listener.
func (r *Registry) Clear() { r.listeners = nil }

// Len reports how many listeners are registered for kind.
func (r *Registry) Len(kind Kind) int { return len(r.listeners[kind]) }

// Emit calls each listener of ev.Kind in order and reports whether dispatch happened.
func (r *Registry) Emit(ev Event) bool {
	if r.dispatching {
		applog.WithComponent("event").Debug("suppressed nested event",
			slog.String("kind", ev.Kind.String()), slog.String("source", ev.Source))
		return false
	}
	ls := r.listeners[ev.Kind]
	if len(ls) == 0 {
		return true
	}
	r.dispatching = true
	defer func() { r.dispatching = false }()
	for _, e := range ls {
		e.fn(ev)
	}
	return true
}
