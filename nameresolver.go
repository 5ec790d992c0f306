package maddns

import (
	"context"
	"errors"
	"net"
)

// errNoRecordsFound is returned by a NameResolver implementation when a query
// nominally succeeds but yields zero records. A present result must always
// have at least one entry; callers (the protocol resolver in particular) rely
// on this to unwrap the first element of a lookup unconditionally.
var errNoRecordsFound = errors.New("no records found")

// TXTRecord is one DNS TXT resource record, exposing its ordered raw
// character-string blobs. A single TXT record may carry more than one
// character-string; only the first is meaningful to the dnsaddr convention
// (see parseDnsaddrTXT), but all are preserved here.
type TXTRecord struct {
	Strings []string
}

// NameResolver is the DNS lookup surface the dial-and-resolve driver depends
// on. Engine implements it on top of its multi-strategy query engine; tests
// substitute a stub.
//
// Implementations must report a successful query that yields zero records as
// an error (wrapping or equal to errNoRecordsFound, or any other non-nil
// error), never as a nil error paired with an empty slice.
type NameResolver interface {
	// LookupIP resolves name to its IPv4 and/or IPv6 addresses.
	LookupIP(ctx context.Context, name string) ([]net.IP, error)

	// LookupIPv4 resolves name to its IPv4 addresses only.
	LookupIPv4(ctx context.Context, name string) ([]net.IP, error)

	// LookupIPv6 resolves name to its IPv6 addresses only.
	LookupIPv6(ctx context.Context, name string) ([]net.IP, error)

	// LookupTXT resolves the TXT records for name.
	LookupTXT(ctx context.Context, name string) ([]TXTRecord, error)
}
