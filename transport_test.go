package maddns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	ma "github.com/multiformats/go-multiaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// passthroughInner is a minimal InnerTransport[int] whose Listen/RemoveListener/
// Poll results are scripted directly, to exercise Transport's lock-then-wrap
// behavior in isolation from the resolve-and-dial driver.
type passthroughInner struct {
	listenErr   error
	removeOK    bool
	pollEvent   TransportEvent[int]
	pollErr     error
	listenCalls int
}

func (p *passthroughInner) Listen(id ListenerID, addr ma.Multiaddr) error {
	p.listenCalls++
	return p.listenErr
}
func (p *passthroughInner) RemoveListener(id ListenerID) bool { return p.removeOK }
func (p *passthroughInner) Poll(ctx context.Context) (TransportEvent[int], error) {
	return p.pollEvent, p.pollErr
}
func (p *passthroughInner) Dial(addr ma.Multiaddr) (DialFuture[int], error) {
	return nil, errors.New("not used in this test")
}

func TestTransport_ListenPassesThrough(t *testing.T) {
	inner := &passthroughInner{}
	transport := NewTransport[int](inner, newStubResolver())

	err := transport.Listen(1, mustAddr(t, "/ip4/0.0.0.0/tcp/0"))
	assert.NoError(t, err)
	assert.Equal(t, 1, inner.listenCalls)
}

func TestTransport_ListenWrapsError(t *testing.T) {
	inner := &passthroughInner{listenErr: errors.New("bind failed")}
	transport := NewTransport[int](inner, newStubResolver())

	err := transport.Listen(1, mustAddr(t, "/ip4/0.0.0.0/tcp/0"))
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, transportErr.Error(), "bind failed")
}

func TestTransport_RemoveListenerPassesThrough(t *testing.T) {
	inner := &passthroughInner{removeOK: true}
	transport := NewTransport[int](inner, newStubResolver())
	assert.True(t, transport.RemoveListener(1))
}

func TestTransport_PollWrapsError(t *testing.T) {
	inner := &passthroughInner{pollErr: errors.New("listener closed")}
	transport := NewTransport[int](inner, newStubResolver())

	_, err := transport.Poll(context.Background())
	require.Error(t, err)
	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestTransport_PollPassesThroughEvent(t *testing.T) {
	want := TransportEvent[int]{Listener: 7, Conn: 42}
	inner := &passthroughInner{pollEvent: want}
	transport := NewTransport[int](inner, newStubResolver())

	ev, err := transport.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, ev)
}

// tcpInnerTransport is an InnerTransport[net.Conn] that dials fully-resolved
// /ip4|ip6/.../tcp/... addresses with a plain net.Dialer, the way a real TCP
// inner transport would sit underneath Transport.
type tcpInnerTransport struct {
	dialer net.Dialer
}

func (tcpInnerTransport) Listen(id ListenerID, addr ma.Multiaddr) error { return nil }
func (tcpInnerTransport) RemoveListener(id ListenerID) bool            { return true }
func (tcpInnerTransport) Poll(ctx context.Context) (TransportEvent[net.Conn], error) {
	return TransportEvent[net.Conn]{}, nil
}

func (t tcpInnerTransport) Dial(addr ma.Multiaddr) (DialFuture[net.Conn], error) {
	host, port, err := hostPortFromMultiaddr(addr)
	if err != nil {
		return nil, &MultiaddrNotSupportedError{Addr: addr}
	}
	network := net.JoinHostPort(host, port)
	return FutureFunc[net.Conn](func(ctx context.Context) (net.Conn, error) {
		return t.dialer.DialContext(ctx, "tcp", network)
	}), nil
}

func hostPortFromMultiaddr(addr ma.Multiaddr) (host, port string, err error) {
	if h, err := addr.ValueForProtocol(ma.P_IP4); err == nil {
		host = h
	} else if h, err := addr.ValueForProtocol(ma.P_IP6); err == nil {
		host = h
	} else {
		return "", "", fmt.Errorf("no ip4/ip6 component")
	}
	port, err = addr.ValueForProtocol(ma.P_TCP)
	if err != nil {
		return "", "", err
	}
	return host, port, nil
}

// End-to-end: Transport[net.Conn] wrapping a TCP inner transport, resolving a
// /dns4 address through a stub NameResolver (no real network DNS lookup),
// then using the result as a gRPC transport-level dialer. Continues the
// existing gRPC custom-dialer coverage in engine_test.go, now routed through
// the Transport facade instead of the raw Engine.
func TestTransport_GRPCDialScenario(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	server := grpc.NewServer()
	go server.Serve(listener)
	defer server.Stop()

	tcpAddr := listener.Addr().(*net.TCPAddr)

	resolver := newStubResolver()
	resolver.ipv4["grpc.example"] = []string{tcpAddr.IP.String()}

	transport := NewTransport[net.Conn](tcpInnerTransport{}, resolver)

	dialAddr := fmt.Sprintf("/dns4/grpc.example/tcp/%d", tcpAddr.Port)

	conn, err := grpc.NewClient(
		listener.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return transport.Dial(ctx, mustAddr(t, dialAddr))
		}),
	)
	require.NoError(t, err)
	defer conn.Close()

	err = conn.Invoke(context.Background(), "/test.Service/Method", nil, nil)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unimplemented, st.Code())
}
