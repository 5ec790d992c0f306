// Copyright 2025 Bruno Schaatsbergen. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package maddns resolves multiaddresses that carry DNS names
// (/dns, /dns4, /dns6, /dnsaddr) and dials the result through an inner
// transport, the way a libp2p DNS transport wraps a TCP or QUIC transport.
//
// Engine is a multiplexed DNS resolver: it queries multiple DNS servers using
// a configurable strategy (Race, Fallback, Consensus, or Compare) and also
// implements NameResolver, the lookup surface Transport depends on.
//
// # Usage
//
// Wrap an inner transport with DNS-aware dialing:
//
//	engine := maddns.New(
//	    maddns.WithResolvers("8.8.8.8:53", "1.1.1.1:53"),
//	    maddns.WithStrategy(maddns.Race{}),
//	)
//
//	transport := maddns.NewTransport[net.Conn](innerTransport, engine)
//	conn, err := transport.Dial(ctx, addr)
//
// Engine on its own remains usable as a drop-in net.Dialer.DialContext
// replacement for HTTP clients, gRPC connections, or any custom dialer:
//
//	client := &http.Client{
//	    Transport: &http.Transport{
//	        DialContext: engine.DialContext,
//	    },
//	}
package maddns
