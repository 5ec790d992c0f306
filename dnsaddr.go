package maddns

import (
	"fmt"
	"strings"
	"unicode/utf8"

	ma "github.com/multiformats/go-multiaddr"
)

// dnsaddrPrefix is the required literal prefix of a dnsaddr TXT record's
// first character-string, per the dnsaddr convention.
const dnsaddrPrefix = "dnsaddr="

// parseDnsaddrTXT parses one TXT record's first character-string blob into a
// multiaddr, per §4.3:
//  1. UTF-8 decode; invalid bytes are an error.
//  2. Require the literal "dnsaddr=" prefix.
//  3. Parse the remainder as a multiaddr.
func parseDnsaddrTXT(raw []byte) (ma.Multiaddr, error) {
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("dnsaddr TXT record is not valid UTF-8")
	}

	s := string(raw)
	rest, ok := strings.CutPrefix(s, dnsaddrPrefix)
	if !ok {
		return nil, fmt.Errorf("dnsaddr TXT record missing %q prefix: %q", dnsaddrPrefix, s)
	}

	addr, err := ma.NewMultiaddr(rest)
	if err != nil {
		return nil, fmt.Errorf("dnsaddr TXT record %q is not a valid multiaddr: %w", rest, err)
	}

	return addr, nil
}
