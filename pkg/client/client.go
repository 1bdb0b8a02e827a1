package client

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"time"

	"golang.org/x/net/http2"

	"github.com/pushnet/pushgate/pkg/auth"
	"github.com/pushnet/pushgate/pkg/cert"
)

// Client is a push-notification client produced by ClientBuilder. It holds
// the validated configuration and its own reference to the assembled security
// context; the connection layer consumes the transport handle to open and
// multiplex gateway connections.
type Client struct {
	addr   string
	policy ConnectionPolicy
	aux    AuxiliaryConfig

	security *cert.SecurityContext

	signingKey      *auth.SigningKey
	tokenExpiration time.Duration

	transport *http2.Transport

	closeOnce sync.Once
}

func newClient(addr string, choice credentialChoice, security *cert.SecurityContext, policy ConnectionPolicy, aux AuxiliaryConfig) *Client {
	c := &Client{
		addr:     addr,
		policy:   policy,
		aux:      aux,
		security: security.Retain(),
	}

	if choice.kind == credentialSigningKey {
		c.signingKey = choice.signingKey
		c.tokenExpiration = choice.tokenExpiration
	}

	c.transport = c.newTransport()
	return c
}

// newTransport builds the HTTP/2 transport handle from the security context,
// the connection policy, and the pass-through dial handles.
func (c *Client) newTransport() *http2.Transport {
	t := &http2.Transport{
		TLSClientConfig: c.security.TLSConfig(),
		ReadIdleTimeout: c.policy.IdlePingInterval,
	}

	rawDial := c.aux.Dial
	if c.aux.Proxy != nil {
		rawDial = DialFunc(c.aux.Proxy)
	}
	if rawDial != nil {
		connectTimeout := c.policy.ConnectTimeout
		t.DialTLSContext = func(ctx context.Context, network, addr string, cfg *tls.Config) (net.Conn, error) {
			if connectTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, connectTimeout)
				defer cancel()
			}
			conn, err := rawDial(ctx, network, addr)
			if err != nil {
				if c.aux.Metrics != nil {
					c.aux.Metrics.ConnectionCreationFailed(err)
				}
				return nil, err
			}
			tlsConn := tls.Client(conn, cfg)
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				if c.aux.Metrics != nil {
					c.aux.Metrics.ConnectionCreationFailed(err)
				}
				return nil, err
			}
			if c.aux.Metrics != nil {
				c.aux.Metrics.ConnectionAdded()
			}
			return tlsConn, nil
		}
	}

	return t
}

// Address returns the gateway address in host:port form, unresolved.
func (c *Client) Address() string {
	return c.addr
}

// ConnectionPolicy returns the connection-management parameters the client
// was built with.
func (c *Client) ConnectionPolicy() ConnectionPolicy {
	return c.policy
}

// SecurityContext returns the client's security context. The client keeps
// its reference until Close; callers that need the context beyond the
// client's lifetime must retain their own.
func (c *Client) SecurityContext() *cert.SecurityContext {
	return c.security
}

// UsesTokenAuthentication reports whether the client authenticates with
// per-request tokens rather than channel-level TLS credentials.
func (c *Client) UsesTokenAuthentication() bool {
	return c.signingKey != nil
}

// SigningKey returns the signing key for token-based clients, or nil.
func (c *Client) SigningKey() *auth.SigningKey {
	return c.signingKey
}

// TokenExpiration returns the token-regeneration interval. Zero for clients
// using TLS-based authentication.
func (c *Client) TokenExpiration() time.Duration {
	return c.tokenExpiration
}

// Transport returns the HTTP/2 transport handle the connection layer uses to
// reach the gateway.
func (c *Client) Transport() *http2.Transport {
	return c.transport
}

// Metrics returns the configured metrics listener, or nil.
func (c *Client) Metrics() MetricsListener {
	return c.aux.Metrics
}

// FrameLogger returns the configured frame logger, or nil.
func (c *Client) FrameLogger() FrameLogger {
	return c.aux.FrameLogger
}

// Close releases the client's resources: idle gateway connections are closed
// and the client's security-context reference is released. Close is
// idempotent. The graceful-shutdown timeout applies to the connection layer's
// handling of in-flight requests, not to Close itself.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.transport.CloseIdleConnections()
		c.security.Release()
	})
	return nil
}

func (c *Client) authName() string {
	if c.signingKey != nil {
		return "token"
	}
	return "tls"
}
