package client

import "time"

// DefaultIdlePingInterval is the idle time after which a connection sends a
// PING frame to the gateway to keep the channel verified.
const DefaultIdlePingInterval = 1 * time.Minute

// DefaultConcurrentConnections is the number of gateway connections a client
// maintains unless configured otherwise.
const DefaultConcurrentConnections = 1

// ConnectionPolicy carries the connection-management parameters handed to the
// connection layer. The core does not bound these values; a zero timeout
// means the connection layer's own default applies.
type ConnectionPolicy struct {
	// ConnectTimeout is the maximum time to wait for a connection attempt.
	ConnectTimeout time.Duration

	// IdlePingInterval is the idle time after which a PING frame is sent.
	IdlePingInterval time.Duration

	// GracefulShutdownTimeout is how long to wait for in-flight requests
	// when closing a connection.
	GracefulShutdownTimeout time.Duration

	// ConcurrentConnections is the maximum number of gateway connections
	// the client maintains.
	ConcurrentConnections int
}
