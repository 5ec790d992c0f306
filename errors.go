package maddns

import (
	"errors"
	"fmt"
	"strings"

	ma "github.com/multiformats/go-multiaddr"
)

// ErrTooManyLookups is recorded when a dial call has already performed
// maxDNSLookups resolver calls and encounters another name-bearing address;
// the address is discarded rather than resolved.
var ErrTooManyLookups = errors.New("too many DNS lookups")

// ErrNoMatchingRecords is returned by Transport.Dial, wrapped in a
// ResolveError, when the driver
// terminates without success and without ever recording an error — e.g. a
// dnsaddr lookup that returned records, none of which matched the requested
// suffix.
var ErrNoMatchingRecords = errors.New("no matching records found")

// ResolveError wraps a failure from the NameResolver.
type ResolveError struct {
	Err error
}

func (e *ResolveError) Error() string { return fmt.Sprintf("resolve error: %s", e.Err) }
func (e *ResolveError) Unwrap() error { return e.Err }

// TransportError wraps a failure returned by the inner transport, either
// synchronously from Dial or asynchronously from a DialFuture's Await.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport error: %s", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// MultiaddrNotSupportedError records that the inner transport synchronously
// refused a fully-resolved address. It does not count toward dialAttempts.
type MultiaddrNotSupportedError struct {
	Addr ma.Multiaddr
}

func (e *MultiaddrNotSupportedError) Error() string {
	return fmt.Sprintf("multiaddr not supported: %s", e.Addr)
}

// DialError aggregates every error recorded during one Transport.Dial call.
// It always holds at least one sub-error.
type DialError struct {
	errs []error
}

func (e *DialError) Error() string {
	var b strings.Builder
	b.WriteString("multiple dial errors occurred:")
	for _, sub := range e.errs {
		b.WriteString("\n - ")
		b.WriteString(sub.Error())
	}
	return b.String()
}

// Unwrap returns only the last recorded sub-error, matching the error-source
// chain behavior of the rust-libp2p transport this design follows. Use Errs
// for the complete list.
func (e *DialError) Unwrap() error {
	if len(e.errs) == 0 {
		return nil
	}
	return e.errs[len(e.errs)-1]
}

// Errs returns every sub-error recorded during the dial call, in the order
// they occurred (LIFO pop order of the work set, not necessarily the order
// name components appeared in the original address).
func (e *DialError) Errs() []error {
	return append([]error(nil), e.errs...)
}

// newDialError builds a DialError from a non-empty error list. Panics if
// errs is empty: callers must check ErrNoMatchingRecords separately.
func newDialError(errs []error) *DialError {
	if len(errs) == 0 {
		panic("maddns: newDialError called with no errors")
	}
	return &DialError{errs: errs}
}
