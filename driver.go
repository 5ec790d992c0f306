package maddns

import (
	"context"
	"errors"

	ma "github.com/multiformats/go-multiaddr"
)

// maxDNSLookups and maxDialAttempts are the two safety caps the driver
// enforces per Dial call, beyond the per-Addrs-outcome maxTXTRecords cap in
// resolve.go.
const (
	maxDNSLookups   = 32
	maxDialAttempts = 16
)

// driverState holds the work set, counters, and accumulated errors for
// exactly one Transport.Dial call. It is allocated fresh by dialRun and never
// shared across goroutines or reused across calls.
type driverState struct {
	workset      []ma.Multiaddr // LIFO stack
	dnsLookups   int
	dialAttempts int
	errs         []error
}

func (d *driverState) push(addr ma.Multiaddr) {
	d.workset = append(d.workset, addr)
}

func (d *driverState) pop() (ma.Multiaddr, bool) {
	n := len(d.workset)
	if n == 0 {
		return nil, false
	}
	addr := d.workset[n-1]
	d.workset = d.workset[:n-1]
	return addr, true
}

// dialRun runs the bounded resolve-and-dial loop of §4.4 (depth-first, since
// the work set is a LIFO stack)
// against one fully-formed input address, using dialer to perform each
// fully-resolved dial attempt (so the inner-transport lock is acquired only
// for the synchronous half of each attempt, per §5).
func dialRun[O any](ctx context.Context, resolver NameResolver, dialer *Transport[O], logger Logger, addr ma.Multiaddr) (O, error) {
	state := &driverState{}
	state.push(addr)

	var zero O

	for {
		current, ok := state.pop()
		if !ok {
			break
		}

		if i, hasName := firstNameComponent(current); hasName {
			dispatchResolve(ctx, resolver, logger, state, current, i)
			continue
		}

		out, dialErr, accepted := dialer.dialOnce(ctx, current)
		if !accepted {
			var notSupported *MultiaddrNotSupportedError
			if errors.As(dialErr, &notSupported) {
				state.errs = append(state.errs, notSupported)
			} else {
				state.errs = append(state.errs, &TransportError{Err: dialErr})
			}
		} else {
			state.dialAttempts++
			if dialErr == nil {
				return out, nil
			}
			state.errs = append(state.errs, &TransportError{Err: dialErr})
		}

		if len(state.workset) == 0 || state.dialAttempts == maxDialAttempts {
			break
		}
	}

	if len(state.errs) > 0 {
		return zero, newDialError(state.errs)
	}
	return zero, &ResolveError{Err: ErrNoMatchingRecords}
}

// dispatchResolve handles the "A contains a name-bearing component" branch of
// §4.4: it resolves the component at index i within current and pushes the
// replacement address(es) back onto the work set.
func dispatchResolve(ctx context.Context, resolver NameResolver, logger Logger, state *driverState, current ma.Multiaddr, i int) {
	if state.dnsLookups == maxDNSLookups {
		state.errs = append(state.errs, ErrTooManyLookups)
		logger.Debug("dropping address: too many DNS lookups", Field{"addr", current.String()})
		return
	}
	state.dnsLookups++

	prefix, component, suffix := splitAt(current, i)

	res, err := resolveComponent(ctx, resolver, logger, component)
	if err != nil {
		state.errs = append(state.errs, &ResolveError{Err: err})
		return
	}

	switch res.kind {
	case resolutionOne:
		state.push(replaceComponent(prefix, res.one, suffix))

	case resolutionMany:
		for _, p := range res.many {
			state.push(replaceComponent(prefix, p, suffix))
		}

	case resolutionAddrs:
		accepted := 0
		for _, b := range res.addrs {
			if !addrEndsWith(b, suffix) {
				logger.Debug("dnsaddr record does not match requested suffix, skipping", Field{"addr", b.String()})
				continue
			}
			if accepted == maxTXTRecords {
				logger.Debug("dnsaddr record surplus dropped past cap", Field{"addr", b.String()})
				continue
			}
			accepted++
			// b already carries suffix at its tail; do not append it again.
			state.push(replaceComponent(prefix, b, nil))
		}
	}
}
