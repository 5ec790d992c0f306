package maddns

import (
	"context"
	"fmt"
	"net"
	"time"
)

// resolver is the internal interface that all DNS resolver implementations must satisfy.
//
// This abstraction allows strategies to work with any resolver implementation
// (UDP, TCP, DNS-over-HTTPS, etc.) without knowing the transport details.
type resolver interface {
	// ResolveType performs a DNS query for a specific record type.
	// Returns records on success, or an error if the query fails.
	ResolveType(ctx context.Context, host string, qtype RecordType) ([]Record, error)

	// Name returns the identifier of this resolver (typically the server address).
	// Used for logging and in Compare strategy to identify which resolver returned what.
	Name() string
}

// Engine is the main entry point for multiplexed DNS resolution.
//
// It coordinates multiple underlying DNS resolvers using a configurable strategy,
// enabling improved reliability, performance, or security compared to single-resolver
// approaches. Engine also implements NameResolver, which lets it back a Transport's
// name resolution directly.
type Engine struct {
	// resolvers is the list of DNS servers to query (e.g., UDP resolvers for 8.8.8.8, 1.1.1.1)
	resolvers []resolver

	// strategy determines how to coordinate queries (Race, Fallback, Consensus, Compare)
	strategy Strategy

	// timeout is the per-query timeout applied to individual DNS queries
	timeout time.Duration

	// logger is the structured logging interface (no-op by default)
	logger Logger

	// poolSize is the max connections to pool per resolver (defaults to 4)
	poolSize int

	// dialer is reused for TCP/UDP connections
	dialer *net.Dialer

	// cache stores DNS lookup results with TTL-based expiration
	cache *dnsCache
}

// Logger provides structured logging throughout the resolution process.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, err error, fields ...Field)
}

// Field represents a structured logging field (key-value pair).
// Used to attach context to log messages.
type Field struct {
	Key   string
	Value interface{}
}

// noopLogger is the default logger that silently discards all log messages.
// This allows the library to have zero logging overhead when not needed.
type noopLogger struct{}

func (noopLogger) Debug(msg string, fields ...Field)            {}
func (noopLogger) Info(msg string, fields ...Field)             {}
func (noopLogger) Error(msg string, err error, fields ...Field) {}

// New creates a new Engine with the given options.
//
// Default configuration:
//
//   - Strategy: Race (lowest latency)
//   - Timeout: 2 seconds per query
//   - Logger: no-op (no logging)
//   - Pool size: 4 connections per resolver
//   - Query types: [A, AAAA] (IPv4 and IPv6)
//   - Resolvers: none (must be set via WithResolvers)
//   - Cache: disabled (can be enabled via WithCache)
//
// Example:
//
//	dialer := New(
//	    WithResolvers("8.8.8.8", "1.1.1.1"),
//	    WithStrategy(Consensus{MinAgreement: 2}),
//	    WithTimeout(5 * time.Second),
//	    WithCache(1000, 1*time.Second, 5*time.Minute),
//	)
func New(opts ...Option) *Engine {
	r := &Engine{
		strategy: Race{},
		timeout:  2 * time.Second,
		logger:   noopLogger{},
		poolSize: 4,
		dialer:   &net.Dialer{},
		cache:    newDNSCache(0, 0, 0), // disabled by default
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// queryRecords performs DNS resolution for the given record types using the
// configured strategy, concurrently across types.
//
// A query type that fails does not fail the whole lookup: for example, a host
// might have A records but no AAAA records, which some DNS servers report as
// an error rather than an empty result. The aggregate fails whenever the
// requested types return zero records between them: with the last per-type
// error if any type failed, otherwise with errNoRecordsFound — per
// NameResolver's "zero results is an error" contract, queryRecords never
// returns a nil error alongside an empty slice. Records are collected in the
// order the per-type queries complete, not in the order of qtypes.
func (r *Engine) queryRecords(ctx context.Context, host string, qtypes []RecordType) ([]Record, error) {
	type result struct {
		records []Record
		err     error
		qtype   RecordType
	}

	// Buffered channel prevents goroutines from blocking if we return early.
	// Size matches query count so all goroutines can always send their result.
	results := make(chan result, len(qtypes))

	// Query all record types concurrently. For example, if querying both A and AAAA,
	// we don't want to wait for A to complete before starting AAAA. This can
	// significantly reduce total query time when using strategies like Fallback
	// that may need to try multiple resolvers sequentially per type.
	for _, qtype := range qtypes {
		go func(qt RecordType) {
			records, err := r.strategy.ResolveType(ctx, host, qt, r.resolvers, r.logger)
			results <- result{
				records: records,
				err:     err,
				qtype:   qt,
			}
		}(qtype)
	}

	// Collect all results, even if some queries fail.
	// Pre-allocate assuming ~4 records per type (heuristic for typical responses).
	allRecords := make([]Record, 0, len(qtypes)*4)
	var lastErr error
	for i := 0; i < len(qtypes); i++ {
		res := <-results
		if res.err != nil {
			lastErr = res.err
			r.logger.Debug("query type failed",
				Field{"type", res.qtype.String()},
				Field{"error", res.err.Error()})
			continue
		}
		allRecords = append(allRecords, res.records...)
	}

	if len(allRecords) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, errNoRecordsFound
	}

	return allRecords, nil
}

// lookupIPs extracts IP addresses from DNS A and AAAA records, consulting the
// Engine's own cache first. This is the path used by DialContext and by the
// benchmarks; NameResolver's Lookup* methods bypass the cache since it is not
// type-aware (a cached combined A+AAAA result cannot safely answer an
// IPv4-only or IPv6-only query).
func (r *Engine) lookupIPs(ctx context.Context, host string) ([]net.IP, error) {
	// Fast path: check IP cache first (avoids string parsing)
	if cached := r.cache.getIPs(host); cached != nil {
		r.logger.Debug("IP cache hit",
			Field{"host", host},
			Field{"ips", len(cached)})
		return cached, nil
	}

	r.logger.Debug("IP cache miss",
		Field{"host", host})

	// Cache miss - perform DNS lookup
	records, err := r.queryRecords(ctx, host, []RecordType{TypeA, TypeAAAA})
	if err != nil {
		return nil, err
	}

	ips, minTTL := ipsFromRecords(records)
	if len(ips) == 0 {
		return nil, fmt.Errorf("no IP addresses found for %s", host)
	}

	// Cache the IPs for future lookups (bypasses string parsing overhead)
	r.cache.setIPs(host, ips, time.Duration(minTTL)*time.Second)

	return ips, nil
}

// ipsFromRecords extracts parsed IP addresses and the minimum TTL seen among
// A/AAAA records.
func ipsFromRecords(records []Record) ([]net.IP, uint32) {
	ips := make([]net.IP, 0, len(records))
	minTTL := uint32(300) // Default 5 minutes if no TTL found

	for _, record := range records {
		if record.Type == TypeA || record.Type == TypeAAAA {
			if ip := net.ParseIP(record.Value); ip != nil {
				ips = append(ips, ip)
				if record.TTL < minTTL {
					minTTL = record.TTL
				}
			}
		}
	}

	return ips, minTTL
}

// LookupIP resolves host to its IPv4 and/or IPv6 addresses. It implements
// NameResolver.
func (r *Engine) LookupIP(ctx context.Context, host string) ([]net.IP, error) {
	return r.lookupIPsFiltered(ctx, host, []RecordType{TypeA, TypeAAAA})
}

// LookupIPv4 resolves host to its IPv4 addresses only. It implements NameResolver.
func (r *Engine) LookupIPv4(ctx context.Context, host string) ([]net.IP, error) {
	return r.lookupIPsFiltered(ctx, host, []RecordType{TypeA})
}

// LookupIPv6 resolves host to its IPv6 addresses only. It implements NameResolver.
func (r *Engine) LookupIPv6(ctx context.Context, host string) ([]net.IP, error) {
	return r.lookupIPsFiltered(ctx, host, []RecordType{TypeAAAA})
}

func (r *Engine) lookupIPsFiltered(ctx context.Context, host string, qtypes []RecordType) ([]net.IP, error) {
	records, err := r.queryRecords(ctx, host, qtypes)
	if err != nil {
		return nil, err
	}

	ips, _ := ipsFromRecords(records)
	if len(ips) == 0 {
		return nil, errNoRecordsFound
	}

	return ips, nil
}

// LookupTXT resolves the TXT records for host, preserving the ordered
// character-string blobs of each record. It implements NameResolver.
func (r *Engine) LookupTXT(ctx context.Context, host string) ([]TXTRecord, error) {
	records, err := r.queryRecords(ctx, host, []RecordType{TypeTXT})
	if err != nil {
		return nil, err
	}

	out := make([]TXTRecord, 0, len(records))
	for _, record := range records {
		out = append(out, TXTRecord{Strings: record.TXTStrings})
	}

	return out, nil
}

// DialContext implements the net.Dialer.DialContext signature, making it a drop-in replacement
// for any Go code that accepts a custom dialer.
//
// Use with HTTP clients, gRPC connections, or any custom connection pool that needs DNS resolution:
//
//	// HTTP Client
//	client := &http.Client{
//	    Transport: &http.Transport{
//	        DialContext: dialer.DialContext,
//	    },
//	}
//
//	// gRPC
//	conn, err := grpc.Dial("api.example.com:443",
//	    grpc.WithContextDialer(dialer.DialContext),
//	)
//
//	// Custom usage
//	conn, err := dialer.DialContext(ctx, "tcp", "api.github.com:443")
func (r *Engine) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	// Split addr into host and port
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}

	// If host is already an IP address, use it directly without DNS lookup.
	if ip := net.ParseIP(host); ip != nil {
		return r.dialer.DialContext(ctx, network, addr)
	}

	// Perform DNS lookup using the configured strategy
	ips, err := r.lookupIPs(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("DNS lookup failed for %s: %w", host, err)
	}

	// Filter IPs based on network type
	var filteredIPs []net.IP
	switch network {
	case "tcp4", "udp4":
		// Only use IPv4 addresses
		for _, ip := range ips {
			if ip.To4() != nil {
				filteredIPs = append(filteredIPs, ip)
			}
		}
	case "tcp6", "udp6":
		// Only use IPv6 addresses
		for _, ip := range ips {
			if ip.To4() == nil && ip.To16() != nil {
				filteredIPs = append(filteredIPs, ip)
			}
		}
	default:
		// For "tcp" and "udp", use all IPs. Try IPv4 first for compatibility.
		filteredIPs = make([]net.IP, 0, len(ips))
		// Add IPv4 addresses first
		for _, ip := range ips {
			if ip.To4() != nil {
				filteredIPs = append(filteredIPs, ip)
			}
		}
		// Then add IPv6 addresses
		for _, ip := range ips {
			if ip.To4() == nil && ip.To16() != nil {
				filteredIPs = append(filteredIPs, ip)
			}
		}
	}

	if len(filteredIPs) == 0 {
		return nil, fmt.Errorf("no suitable IP addresses found for %s (network: %s)", host, network)
	}

	var lastErr error
	for _, ip := range filteredIPs {
		ipAddr := net.JoinHostPort(ip.String(), portStr)
		conn, err := r.dialer.DialContext(ctx, network, ipAddr)
		if err == nil {
			return conn, nil
		}

		lastErr = err
		r.logger.Debug("connection failed, trying next IP",
			Field{"ip", ip.String()},
			Field{"error", err.Error()})
	}

	return nil, fmt.Errorf("failed to connect to %s: %w", host, lastErr)
}
