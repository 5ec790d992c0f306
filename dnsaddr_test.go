package maddns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDnsaddrTXT_Valid(t *testing.T) {
	addr, err := parseDnsaddrTXT([]byte("dnsaddr=/ip4/1.2.3.4/tcp/4001"))
	require.NoError(t, err)
	assert.Equal(t, "/ip4/1.2.3.4/tcp/4001", addr.String())
}

func TestParseDnsaddrTXT_MissingPrefix(t *testing.T) {
	_, err := parseDnsaddrTXT([]byte("/ip4/1.2.3.4/tcp/4001"))
	assert.Error(t, err)
}

func TestParseDnsaddrTXT_InvalidMultiaddr(t *testing.T) {
	_, err := parseDnsaddrTXT([]byte("dnsaddr=not-a-multiaddr"))
	assert.Error(t, err)
}

func TestParseDnsaddrTXT_InvalidUTF8(t *testing.T) {
	_, err := parseDnsaddrTXT([]byte{0xff, 0xfe, 0xfd})
	assert.Error(t, err)
}

// A mix of valid and invalid records: the caller (resolveDnsaddr) must
// skip the invalid ones without failing the whole lookup (§8, property 8).
func TestResolveDnsaddr_SkipsInvalidRecords(t *testing.T) {
	resolver := newStubResolver()
	resolver.txt["_dnsaddr.mixed.example"] = []TXTRecord{
		{Strings: []string{"dnsaddr=/ip4/1.2.3.4/tcp/4001"}},
		{Strings: []string{"not-a-dnsaddr-record"}},
		{Strings: []string{"dnsaddr=garbage"}},
		{Strings: []string{"dnsaddr=/ip4/5.6.7.8/tcp/4001"}},
	}

	logger := &mockLogger{}
	res, err := resolveDnsaddr(t.Context(), resolver, logger, "mixed.example")
	require.NoError(t, err)
	require.Equal(t, resolutionAddrs, res.kind)
	require.Len(t, res.addrs, 2)
	assert.Equal(t, "/ip4/1.2.3.4/tcp/4001", res.addrs[0].String())
	assert.Equal(t, "/ip4/5.6.7.8/tcp/4001", res.addrs[1].String())

	// Both invalid records ("not-a-dnsaddr-record", "dnsaddr=garbage") are
	// logged at Debug rather than silently dropped.
	assert.Len(t, logger.logs, 2)
	for _, l := range logger.logs {
		assert.Contains(t, l, "DEBUG:")
	}
}
