package maddns

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
)

// systemResolverAddr reads the first nameserver entry out of the host's
// /etc/resolv.conf, returning it with a ":53" port appended if the file
// doesn't specify one.
func systemResolverAddr() (string, error) {
	file, err := os.Open("/etc/resolv.conf")
	if err != nil {
		return "", fmt.Errorf("reading system resolver configuration: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		if strings.HasPrefix(line, "nameserver") {
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				nameserver := fields[1]
				if _, _, err := net.SplitHostPort(nameserver); err != nil {
					nameserver = net.JoinHostPort(nameserver, "53")
				}
				return nameserver, nil
			}
		}
	}

	return "", fmt.Errorf("no nameserver entry found in /etc/resolv.conf")
}

// NewSystemEngine builds an Engine that queries the host's own configured DNS
// resolver(s), the way rust-libp2p's Transport::system reads the platform
// resolver configuration instead of requiring an explicit server list.
//
// It deliberately returns an error rather than silently substituting a
// hardcoded public resolver when system configuration can't be read: doing
// the latter would change the trust root for every subsequent DNS lookup
// without the caller's knowledge.
func NewSystemEngine(opts ...Option) (*Engine, error) {
	addr, err := systemResolverAddr()
	if err != nil {
		return nil, err
	}

	all := append([]Option{WithResolvers(addr)}, opts...)
	return New(all...), nil
}
