package render

import (
	"errors"
	"fmt"
	"log/slog"

	"geoshape/internal/event"
	applog "geoshape/internal/log"
)

var ErrBindingClosed = errors.New("render binding closed")

// Bindable is a drawable geometry that reports its own changes.
type Bindable interface {
	Drawable
	On(kind event.Kind, fn event.Listener) event.Subscription
	Off(s event.Subscription)
}

// Binding ties one geometry to one strategy and context. It notes geometry events and
// leaves the timing of syncs to its owner, which usually syncs once per frame.
type Binding struct {
	g       Bindable
	s       Strategy
	ctx     Context
	subs    []event.Subscription
	pending bool
	closed  bool
	log     *slog.Logger
}

// NewBinding creates g's artifact in ctx. If g has remove hooks the binding closes itself
// when g is removed.
func NewBinding(g Bindable, s Strategy, ctx Context) (*Binding, error) {
	if !s.Accepts(ctx) {
		return nil, fmt.Errorf("%w: %s strategy given %T", ErrBackendMismatch, s.Name(), ctx)
	}
	b := &Binding{
		g:   g,
		s:   s,
		ctx: ctx,
		log: applog.WithComponent("render").With(slog.String("id", g.ID())),
	}
	mark := func(event.Event) { b.pending = true }
	b.subs = append(b.subs, g.On(event.PositionChange, mark), g.On(event.ShapeChange, mark))
	if r, ok := g.(interface{ OnRemove(func()) }); ok {
		r.OnRemove(func() { _ = b.Close() })
	}
	if err := b.Sync(); err != nil {
		b.unsubscribe()
		return nil, err
	}
	return b, nil
}

func (b *Binding) Strategy() Strategy { return b.s }
func (b *Binding) Context() Context   { return b.ctx }

// Pending reports whether the geometry changed since the last sync.
func (b *Binding) Pending() bool { return b.pending }

// Sync pushes the geometry's current state to the backend.
func (b *Binding) Sync() error {
	if b.closed {
		return ErrBindingClosed
	}
	if err := b.s.Sync(b.g, b.ctx); err != nil {
		return err
	}
	b.pending = false
	return nil
}

// SyncIfPending syncs only when an event arrived since the last sync.
func (b *Binding) SyncIfPending() (bool, error) {
	if !b.pending {
		return false, nil
	}
	return true, b.Sync()
}

// Bind moves the artifact to another strategy and context: the current artifact is
// released exactly once, then the new one is created. A mismatched pair leaves the
// binding as it was.
func (b *Binding) Bind(s Strategy, ctx Context) error {
	if b.closed {
		return ErrBindingClosed
	}
	if !s.Accepts(ctx) {
		return fmt.Errorf("%w: %s strategy given %T", ErrBackendMismatch, s.Name(), ctx)
	}
	if err := b.s.Release(b.g, b.ctx); err != nil {
		return err
	}
	b.log.Debug("rebinding", slog.String("from", b.s.Name()), slog.String("to", s.Name()))
	b.s, b.ctx = s, ctx
	return b.Sync()
}

// Close releases the artifact and stops listening. Later calls are no-ops.
func (b *Binding) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.unsubscribe()
	return b.s.Release(b.g, b.ctx)
}

func (b *Binding) unsubscribe() {
	for _, s := range b.subs {
		b.g.Off(s)
	}
	b.subs = nil
}
