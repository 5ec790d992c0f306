package maddns

import (
	ma "github.com/multiformats/go-multiaddr"
)

// Protocol codes for the four name-bearing components this package resolves.
// Looked up by name (rather than hardcoded as constants) the same way the
// reference go-multiaddr-dns package does, so a future go-multiaddr release
// that renumbers protocol codes cannot silently desync us.
var (
	protoDNS     = ma.ProtocolWithName("dns").Code
	protoDNS4    = ma.ProtocolWithName("dns4").Code
	protoDNS6    = ma.ProtocolWithName("dns6").Code
	protoDNSAddr = ma.ProtocolWithName("dnsaddr").Code
)

// isNameBearing reports whether code is one of the four name-bearing
// protocol codes: dns, dns4, dns6, dnsaddr.
func isNameBearing(code int) bool {
	switch code {
	case protoDNS, protoDNS4, protoDNS6, protoDNSAddr:
		return true
	default:
		return false
	}
}

// firstNameComponent scans addr's components left to right and returns the
// index of the first name-bearing one. ok is false when addr is already
// fully resolved.
func firstNameComponent(addr ma.Multiaddr) (index int, ok bool) {
	for i, p := range addr.Protocols() {
		if isNameBearing(p.Code) {
			return i, true
		}
	}
	return 0, false
}

// splitAt splits addr into its component multiaddrs, along with the
// prefix (components before i) and suffix (components after i) joined back
// into single multiaddrs.
func splitAt(addr ma.Multiaddr, i int) (prefix, component, suffix ma.Multiaddr) {
	parts := ma.Split(addr)
	prefix = ma.Join(parts[:i]...)
	component = parts[i]
	if i+1 < len(parts) {
		suffix = ma.Join(parts[i+1:]...)
	}
	return prefix, component, suffix
}

// replaceComponent returns prefix ++ replacement ++ suffix as one multiaddr.
// Either prefix or suffix may be nil (an empty multiaddr joins to nothing).
func replaceComponent(prefix, replacement, suffix ma.Multiaddr) ma.Multiaddr {
	parts := make([]ma.Multiaddr, 0, 3)
	if prefix != nil {
		parts = append(parts, prefix)
	}
	parts = append(parts, replacement)
	if suffix != nil {
		parts = append(parts, suffix)
	}
	return ma.Join(parts...)
}

// addrEndsWith reports whether addr's trailing components equal suffix
// component-by-component. An empty suffix always matches (every address ends
// with the empty suffix), which is what lets unsuffixed dnsaddr lookups
// accept every TXT-advertised record.
func addrEndsWith(addr ma.Multiaddr, suffix ma.Multiaddr) bool {
	if suffix == nil {
		return true
	}

	suffixParts := ma.Split(suffix)
	if len(suffixParts) == 0 {
		return true
	}

	addrParts := ma.Split(addr)
	if len(addrParts) < len(suffixParts) {
		return false
	}

	tail := ma.Join(addrParts[len(addrParts)-len(suffixParts):]...)
	return tail.Equal(suffix)
}
