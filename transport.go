package maddns

import (
	"context"
	"sync"

	ma "github.com/multiformats/go-multiaddr"
)

// ListenerID identifies one active listener registered with the inner
// transport.
type ListenerID uint64

// TransportEvent is emitted by Poll: either a new inbound connection on one
// of the registered listeners, or (depending on the inner transport) other
// listener lifecycle information it chooses to surface.
type TransportEvent[O any] struct {
	Listener ListenerID
	Addr     ma.Multiaddr
	Conn     O
}

// DialFuture represents an in-flight dial attempt obtained synchronously
// from InnerTransport.Dial. Await suspends until the attempt completes;
// it must be called without holding any transport-wide lock.
type DialFuture[O any] interface {
	Await(ctx context.Context) (O, error)
}

// FutureFunc adapts a plain function into a DialFuture, for inner transports
// whose dial attempt is naturally expressed as a closure.
type FutureFunc[O any] func(ctx context.Context) (O, error)

// Await implements DialFuture.
func (f FutureFunc[O]) Await(ctx context.Context) (O, error) { return f(ctx) }

// InnerTransport is the collaborator Transport wraps: a transport (TCP,
// QUIC, ...) that only ever sees fully-resolved addresses.
//
// Dial must distinguish a refusal of the address itself from any other
// failure: return a *MultiaddrNotSupportedError when addr's protocol stack
// is not one this transport handles at all, so the driver does not count the
// attempt against its dial budget.
type InnerTransport[O any] interface {
	Listen(id ListenerID, addr ma.Multiaddr) error
	RemoveListener(id ListenerID) bool
	Dial(addr ma.Multiaddr) (DialFuture[O], error)
	Poll(ctx context.Context) (TransportEvent[O], error)
}

// Transport wraps an InnerTransport with DNS-aware dialing: Listen,
// RemoveListener, and Poll pass straight through (lifting inner errors into
// TransportError); Dial runs the bounded resolve-and-dial driver of §4.4.
//
// The inner transport is shared across every Dial/Listen/RemoveListener/Poll
// call through mu, held only for the synchronous portion of each operation —
// never across a DialFuture's Await.
type Transport[O any] struct {
	mu       sync.Mutex
	inner    InnerTransport[O]
	resolver NameResolver
	logger   Logger
}

// TransportOption configures a Transport.
type TransportOption[O any] func(*Transport[O])

// WithTransportLogger sets the Transport's logger.
func WithTransportLogger[O any](l Logger) TransportOption[O] {
	return func(t *Transport[O]) { t.logger = l }
}

// NewTransport wraps inner with DNS resolution backed by resolver.
func NewTransport[O any](inner InnerTransport[O], resolver NameResolver, opts ...TransportOption[O]) *Transport[O] {
	t := &Transport[O]{
		inner:    inner,
		resolver: resolver,
		logger:   noopLogger{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewSystemTransport wraps inner with an Engine backed by the host's own
// resolver configuration. See NewSystemEngine.
func NewSystemTransport[O any](inner InnerTransport[O], opts ...TransportOption[O]) (*Transport[O], error) {
	engine, err := NewSystemEngine()
	if err != nil {
		return nil, err
	}
	return NewTransport[O](inner, engine, opts...), nil
}

// Listen registers a listener with the inner transport.
func (t *Transport[O]) Listen(id ListenerID, addr ma.Multiaddr) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.inner.Listen(id, addr); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

// RemoveListener removes a previously registered listener.
func (t *Transport[O]) RemoveListener(id ListenerID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.inner.RemoveListener(id)
}

// Poll services the inner transport's listeners for the next event.
func (t *Transport[O]) Poll(ctx context.Context) (TransportEvent[O], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ev, err := t.inner.Poll(ctx)
	if err != nil {
		return ev, &TransportError{Err: err}
	}
	return ev, nil
}

// Dial resolves any name-bearing components in addr and dials the resulting
// candidate(s) through the inner transport, per §4.4, returning the first
// successful inner output, an aggregated DialError, or a ResolveError
// wrapping ErrNoMatchingRecords.
func (t *Transport[O]) Dial(ctx context.Context, addr ma.Multiaddr) (O, error) {
	return dialRun(ctx, t.resolver, t, t.logger, addr)
}

// dialOnce obtains a DialFuture from the inner transport under lock, then
// awaits it outside the lock. accepted reports whether the inner transport
// returned a future at all (and therefore whether the attempt counts toward
// dialAttempts); it is false for any synchronous Dial error, including
// MultiaddrNotSupportedError.
func (t *Transport[O]) dialOnce(ctx context.Context, addr ma.Multiaddr) (out O, err error, accepted bool) {
	t.mu.Lock()
	future, dialErr := t.inner.Dial(addr)
	t.mu.Unlock()

	if dialErr != nil {
		return out, dialErr, false
	}

	out, err = future.Await(ctx)
	return out, err, true
}
