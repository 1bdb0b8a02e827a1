// Package client assembles validated connection configuration for push
// clients and constructs the clients themselves.
//
// Example usage:
//
//	// Token-based authentication
//	key, err := auth.LoadSigningKeyFromFile("token-key.p8", "KEYID", "TEAMID")
//	c, err := client.NewClientBuilder().
//	    WithServer(client.ProductionGatewayHost).
//	    WithSigningKey(key).
//	    Build()
//
//	// Certificate-based authentication from a PKCS#12 container
//	c, err := client.NewClientBuilder().
//	    WithServerPort(client.ProductionGatewayHost, client.AlternatePort).
//	    WithCredentialsFromP12File("client.p12", p12Password).
//	    Build()
//
// Builders are not safe for concurrent use. A builder may be reused: each
// Build call produces an independent client with its own security context.
package client

import (
	"crypto"
	"crypto/x509"
	"io"
	"time"

	"github.com/pushnet/pushgate/pkg/auth"
	"github.com/pushnet/pushgate/pkg/cert"
)

const (
	// ProductionGatewayHost is the hostname of the production push gateway.
	ProductionGatewayHost = "api.push.pushgate.net"

	// SandboxGatewayHost is the hostname of the development gateway.
	SandboxGatewayHost = "api.sandbox.push.pushgate.net"

	// DefaultPort is the standard HTTPS port the gateway listens on.
	DefaultPort = 443

	// AlternatePort is also accepted by the gateway; useful where firewall
	// policy blocks other HTTPS traffic on 443.
	AlternatePort = 2197
)

// ClientBuilder accumulates connection configuration through chainable
// setters and validates it when Build is called. Setters never validate;
// every check is deferred to Build.
type ClientBuilder struct {
	host string
	port int

	// TLS-credential family. Either a deferred PKCS#12 source or a
	// certificate/key pair supplied directly. Stream-sourced container data
	// is retained as bytes so the builder stays reusable across builds; a
	// failed stream read is held in p12Err and surfaced at Build.
	p12Path     string
	p12Data     []byte
	p12Err      error
	p12Password string
	certificate *x509.Certificate
	privateKey  crypto.PrivateKey
	keyPassword string

	// Signing-key family.
	signingKey      *auth.SigningKey
	tokenExpiration time.Duration

	trust    cert.TrustSource
	trustErr error

	policy ConnectionPolicy
	aux    AuxiliaryConfig

	engineObserver    cert.EngineObserver
	engineObserverSet bool
}

// NewClientBuilder returns a builder with gateway defaults: the standard
// secure port, one concurrent connection, a one-minute idle-ping interval,
// and the default token expiration.
func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		port:            DefaultPort,
		tokenExpiration: auth.DefaultTokenExpiration,
		policy: ConnectionPolicy{
			IdlePingInterval:      DefaultIdlePingInterval,
			ConcurrentConnections: DefaultConcurrentConnections,
		},
	}
}

// WithServer sets the gateway hostname, using the standard secure port.
func (b *ClientBuilder) WithServer(host string) *ClientBuilder {
	return b.WithServerPort(host, DefaultPort)
}

// WithServerPort sets the gateway hostname and port. No DNS resolution
// happens here; the address stays unresolved until the connection layer
// dials it.
func (b *ClientBuilder) WithServerPort(host string, port int) *ClientBuilder {
	b.host = host
	b.port = port
	return b
}

// WithCredentialsFromP12File configures TLS-based authentication from a
// PKCS#12 file. The file is not touched until Build; structural validation
// always runs first. The password may be blank but must be supplied.
func (b *ClientBuilder) WithCredentialsFromP12File(path, password string) *ClientBuilder {
	b.p12Path = path
	b.p12Data = nil
	b.p12Err = nil
	b.p12Password = password
	b.certificate = nil
	b.privateKey = nil
	return b
}

// WithCredentialsFromP12 configures TLS-based authentication from PKCS#12
// data read from r. The stream is drained immediately and its contents
// retained, so the builder can be reused and r can be closed by the caller as
// soon as this returns. A read failure is reported by Build, never here.
func (b *ClientBuilder) WithCredentialsFromP12(r io.Reader, password string) *ClientBuilder {
	data, err := io.ReadAll(r)
	b.p12Path = ""
	b.p12Data = data
	b.p12Err = nil
	if err != nil {
		b.p12Data = nil
		b.p12Err = &cert.MaterialError{Source: "stream", Reason: "cannot read key container stream", Err: err}
	}
	b.p12Password = password
	b.certificate = nil
	b.privateKey = nil
	return b
}

// WithCredentials configures TLS-based authentication from an
// already-parsed certificate and private key. keyPassword is retained for
// parity with container-based loading; parsed Go keys need no password.
func (b *ClientBuilder) WithCredentials(certificate *x509.Certificate, key crypto.PrivateKey, keyPassword string) *ClientBuilder {
	b.certificate = certificate
	b.privateKey = key
	b.keyPassword = keyPassword
	b.p12Path = ""
	b.p12Data = nil
	b.p12Err = nil
	return b
}

// WithSigningKey configures token-based authentication. Clients may not have
// both a signing key and TLS credentials; Build rejects that state.
func (b *ClientBuilder) WithSigningKey(key *auth.SigningKey) *ClientBuilder {
	b.signingKey = key
	return b
}

// WithTokenExpiration sets the duration after which authentication tokens
// are regenerated. Meaningful only for token-based authentication. The value
// is passed through unvalidated.
func (b *ClientBuilder) WithTokenExpiration(d time.Duration) *ClientBuilder {
	b.tokenExpiration = d
	return b
}

// WithTrustVerifier installs a caller-supplied peer verifier as the trust
// source, clearing any other trust-source setting.
func (b *ClientBuilder) WithTrustVerifier(v cert.PeerVerifier) *ClientBuilder {
	b.trust = cert.TrustSource{Verifier: v}
	b.trustErr = nil
	return b
}

// WithTrustedCertificatesFromPEMFile sets a PEM file of trusted gateway
// certificates as the trust source, clearing any other trust-source setting.
// Useful for certificate pinning or pointing at a mock gateway in tests.
func (b *ClientBuilder) WithTrustedCertificatesFromPEMFile(path string) *ClientBuilder {
	b.trust = cert.TrustSource{PEMFile: path}
	b.trustErr = nil
	return b
}

// WithTrustedCertificatesFromPEM sets PEM data read from r as the trust
// source, clearing any other trust-source setting. The stream is drained
// immediately and its contents retained, so the builder can be reused; a
// read failure is reported by Build, never here.
func (b *ClientBuilder) WithTrustedCertificatesFromPEM(r io.Reader) *ClientBuilder {
	data, err := io.ReadAll(r)
	if err != nil {
		b.trust = cert.TrustSource{}
		b.trustErr = &cert.MaterialError{Source: "stream", Reason: "cannot read trusted certificate stream", Err: err}
		return b
	}
	b.trust = cert.TrustSource{PEM: data}
	b.trustErr = nil
	return b
}

// WithTrustedCertificates sets an explicit certificate list as the trust
// source, clearing any other trust-source setting.
func (b *ClientBuilder) WithTrustedCertificates(certs ...*x509.Certificate) *ClientBuilder {
	b.trust = cert.TrustSource{Certificates: certs}
	b.trustErr = nil
	return b
}

// WithConnectionTimeout sets the maximum time to wait for a connection
// attempt to the gateway.
func (b *ClientBuilder) WithConnectionTimeout(d time.Duration) *ClientBuilder {
	b.policy.ConnectTimeout = d
	return b
}

// WithIdlePingInterval sets the idle time after which connections send a
// PING frame to the gateway.
func (b *ClientBuilder) WithIdlePingInterval(d time.Duration) *ClientBuilder {
	b.policy.IdlePingInterval = d
	return b
}

// WithGracefulShutdownTimeout sets how long to wait for in-flight requests
// when closing a connection.
func (b *ClientBuilder) WithGracefulShutdownTimeout(d time.Duration) *ClientBuilder {
	b.policy.GracefulShutdownTimeout = d
	return b
}

// WithConcurrentConnections sets the maximum number of concurrent gateway
// connections. The value is passed through unvalidated.
func (b *ClientBuilder) WithConcurrentConnections(n int) *ClientBuilder {
	b.policy.ConcurrentConnections = n
	return b
}

// WithDialer sets an externally owned dial function shared with the
// connection layer. Lifecycle management of whatever backs it stays with the
// caller.
func (b *ClientBuilder) WithDialer(dial DialFunc) *ClientBuilder {
	b.aux.Dial = dial
	return b
}

// WithProxy sets the proxy traversal handle. Nil means direct connections.
func (b *ClientBuilder) WithProxy(proxy ProxyFunc) *ClientBuilder {
	b.aux.Proxy = proxy
	return b
}

// WithMetricsListener sets the listener for connection-lifecycle events, or
// nil for no metrics reporting.
func (b *ClientBuilder) WithMetricsListener(l MetricsListener) *ClientBuilder {
	b.aux.Metrics = l
	return b
}

// WithFrameLogger sets the frame-level diagnostic logger, or nil to disable
// frame logging.
func (b *ClientBuilder) WithFrameLogger(l FrameLogger) *ClientBuilder {
	b.aux.FrameLogger = l
	return b
}

// WithEngineObserver replaces the default engine-selection observer. The
// default logs the selection; a nil observer suppresses it.
func (b *ClientBuilder) WithEngineObserver(obs cert.EngineObserver) *ClientBuilder {
	b.engineObserver = obs
	b.engineObserverSet = true
	return b
}
