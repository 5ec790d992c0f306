package maddns

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine builds an Engine wired directly to mock, bypassing
// WithResolvers (which only ever constructs real UDP resolvers).
func newTestEngine(mock *mockResolver) *Engine {
	e := New(WithStrategy(Race{}))
	e.resolvers = []resolver{mock}
	return e
}

func TestEngine_LookupIPv4(t *testing.T) {
	mock := &mockResolver{
		name: "mock",
		response: []Record{
			{Type: TypeA, Value: "1.2.3.4", TTL: 300},
			{Type: TypeA, Value: "5.6.7.8", TTL: 300},
		},
	}
	e := newTestEngine(mock)

	ips, err := e.LookupIPv4(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, ips, 2)
	assert.Equal(t, "1.2.3.4", ips[0].String())
	assert.Equal(t, "5.6.7.8", ips[1].String())
}

func TestEngine_LookupIPv4_ZeroResultsIsError(t *testing.T) {
	mock := &mockResolver{name: "mock", response: nil, err: errNoRecordsFound}
	e := newTestEngine(mock)

	_, err := e.LookupIPv4(context.Background(), "example.invalid")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoRecordsFound)
}

func TestEngine_LookupIPv6(t *testing.T) {
	mock := &mockResolver{
		name:     "mock",
		response: []Record{{Type: TypeAAAA, Value: "::1", TTL: 300}},
	}
	e := newTestEngine(mock)

	ips, err := e.LookupIPv6(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, ips, 1)
	assert.Equal(t, "::1", ips[0].String())
}

// LookupTXT is the whole dnsaddr data path's entry point: it must preserve
// each TXT record's character-strings individually (TXTStrings), not the
// joined Value used by the Race/Consensus/Compare strategies.
func TestEngine_LookupTXT_PreservesOrderAndMultiplicity(t *testing.T) {
	mock := &mockResolver{
		name: "mock",
		response: []Record{
			{Type: TypeTXT, Value: "dnsaddr=/ip4/1.2.3.4/tcp/4001", TXTStrings: []string{"dnsaddr=/ip4/1.2.3.4/tcp/4001"}},
			{Type: TypeTXT, Value: "dnsaddr=/ip4/5.6.7.8/tcp/4001", TXTStrings: []string{"dnsaddr=/ip4/5.6.7.8/tcp/4001"}},
		},
	}
	e := newTestEngine(mock)

	records, err := e.LookupTXT(context.Background(), "_dnsaddr.example.com")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"dnsaddr=/ip4/1.2.3.4/tcp/4001"}, records[0].Strings)
	assert.Equal(t, []string{"dnsaddr=/ip4/5.6.7.8/tcp/4001"}, records[1].Strings)
}

func TestEngine_LookupTXT_ZeroResultsIsError(t *testing.T) {
	mock := &mockResolver{name: "mock", response: nil}
	e := newTestEngine(mock)

	_, err := e.LookupTXT(context.Background(), "_dnsaddr.example.invalid")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoRecordsFound)
}
