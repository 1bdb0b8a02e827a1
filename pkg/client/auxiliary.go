package client

import (
	"context"
	"net"
)

// DialFunc establishes the raw transport connection to the gateway. Callers
// may share one dial function across independently built clients, for example
// to pool sockets through a common dialer; the core never takes ownership of
// whatever resources back it.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// ProxyFunc establishes a connection to the gateway through an intermediary.
// When set it is used in place of direct dialing. Traversal mechanics are the
// caller's concern; the value is passed through untouched.
type ProxyFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// MetricsListener receives connection-lifecycle events from the client.
// Implementations must not block.
type MetricsListener interface {
	// ConnectionAdded is called when a gateway connection is established.
	ConnectionAdded()

	// ConnectionRemoved is called when a gateway connection is closed.
	ConnectionRemoved()

	// ConnectionCreationFailed is called when a connection attempt fails.
	ConnectionCreationFailed(err error)
}

// FrameLogger receives frame-level diagnostics from the connection layer.
// Frame logging is extremely verbose and intended for debugging only.
type FrameLogger interface {
	// LogFrame records one transport frame. inbound distinguishes frames
	// received from frames sent.
	LogFrame(inbound bool, frameType string, streamID uint32, payloadLength int)
}

// AuxiliaryConfig bundles the opaque pass-through collaborator handles. None
// of them are validated by the configuration core.
type AuxiliaryConfig struct {
	Dial        DialFunc
	Proxy       ProxyFunc
	Metrics     MetricsListener
	FrameLogger FrameLogger
}
