package maddns

import (
	"context"
	"fmt"
	"net"

	ma "github.com/multiformats/go-multiaddr"
)

// resolution is the tagged union produced by resolving one name-bearing
// component. Exactly one of the three fields is meaningful, selected by kind.
type resolution struct {
	kind  resolutionKind
	one   ma.Multiaddr   // kind == resolutionOne
	many  []ma.Multiaddr // kind == resolutionMany
	addrs []ma.Multiaddr // kind == resolutionAddrs
}

type resolutionKind int

const (
	resolutionOne resolutionKind = iota
	resolutionMany
	resolutionAddrs
)

// maxTXTRecords bounds how many TXT-derived addresses the driver will accept
// from a single Addrs outcome; resolveComponent itself never drops records —
// the driver owns capping and logging the surplus, since it alone knows the
// dial-wide budget.
const maxTXTRecords = 16

// resolveComponent resolves the component at addr's first name-bearing
// position using resolver, classifying the result per §4.2. component is the
// isolated single-protocol multiaddr at that position (see splitAt). logger
// is passed through to resolveDnsaddr, the only case that can skip records.
func resolveComponent(ctx context.Context, resolver NameResolver, logger Logger, component ma.Multiaddr) (resolution, error) {
	protos := component.Protocols()
	if len(protos) != 1 {
		return resolution{}, fmt.Errorf("maddns: expected a single-protocol component, got %d", len(protos))
	}

	code := protos[0].Code
	switch code {
	case protoDNS:
		name, err := component.ValueForProtocol(protoDNS)
		if err != nil {
			return resolution{}, err
		}
		return resolveIPs(resolver.LookupIP(ctx, name))
	case protoDNS4:
		name, err := component.ValueForProtocol(protoDNS4)
		if err != nil {
			return resolution{}, err
		}
		return resolveIPs(resolver.LookupIPv4(ctx, name))
	case protoDNS6:
		name, err := component.ValueForProtocol(protoDNS6)
		if err != nil {
			return resolution{}, err
		}
		return resolveIPs(resolver.LookupIPv6(ctx, name))
	case protoDNSAddr:
		name, err := component.ValueForProtocol(protoDNSAddr)
		if err != nil {
			return resolution{}, err
		}
		return resolveDnsaddr(ctx, resolver, logger, name)
	default:
		// Defensive identity case: the driver never actually calls this for a
		// component that isn't name-bearing.
		return resolution{kind: resolutionOne, one: component}, nil
	}
}

// resolveIPs classifies a resolver's IP list as One or Many, wrapping each
// returned IP as an ip4 or ip6 multiaddr component. ips and err come straight
// from a NameResolver call; NameResolver's contract guarantees len(ips) >= 1
// whenever err is nil.
func resolveIPs(ips []net.IP, err error) (resolution, error) {
	if err != nil {
		return resolution{}, err
	}

	components := make([]ma.Multiaddr, 0, len(ips))
	for _, ip := range ips {
		var text string
		if ip4 := ip.To4(); ip4 != nil {
			text = fmt.Sprintf("/ip4/%s", ip4.String())
		} else {
			text = fmt.Sprintf("/ip6/%s", ip.String())
		}
		m, err := ma.NewMultiaddr(text)
		if err != nil {
			return resolution{}, err
		}
		components = append(components, m)
	}

	if len(components) == 1 {
		return resolution{kind: resolutionOne, one: components[0]}, nil
	}
	return resolution{kind: resolutionMany, many: components}, nil
}

// resolveDnsaddr performs the TXT lookup and TXT-record parsing of §4.2/§4.3
// for a Dnsaddr component, returning an Addrs outcome. Parse failures are
// logged at Debug and skipped; they do not abort the lookup.
func resolveDnsaddr(ctx context.Context, resolver NameResolver, logger Logger, name string) (resolution, error) {
	records, err := resolver.LookupTXT(ctx, "_dnsaddr."+name)
	if err != nil {
		return resolution{}, err
	}

	addrs := make([]ma.Multiaddr, 0, len(records))
	for _, record := range records {
		if len(record.Strings) == 0 {
			logger.Debug("dnsaddr TXT record has no character-strings, skipping", Field{"name", name})
			continue
		}
		parsed, err := parseDnsaddrTXT([]byte(record.Strings[0]))
		if err != nil {
			logger.Debug("dnsaddr TXT record failed to parse, skipping", Field{"name", name}, Field{"error", err.Error()})
			continue
		}
		addrs = append(addrs, parsed)
	}

	return resolution{kind: resolutionAddrs, addrs: addrs}, nil
}
