package client

import (
	"net"
	"strconv"

	"github.com/golang/glog"

	"github.com/pushnet/pushgate/pkg/cert"
)

// Build validates the accumulated configuration and constructs a new Client.
//
// Validation runs in a fixed order and stops at the first failure: the
// gateway address must be set, then exactly one credential family must be
// configured, then credential material is loaded, the trust source resolved,
// the cipher engine selected, and the security context assembled. Structural
// failures (ConfigError) are always raised before any file access.
//
// The builder holds only a transient reference to the assembled security
// context and releases it on every exit path; the returned client retains its
// own reference. No partial client is ever returned.
func (b *ClientBuilder) Build() (*Client, error) {
	if b.host == "" {
		return nil, &ConfigError{Kind: MissingAddress, Message: "no gateway address specified"}
	}

	choice, err := resolveCredential(b)
	if err != nil {
		return nil, err
	}

	var identity *cert.Identity
	if choice.kind == credentialTLS {
		identity, err = choice.loadIdentity()
		if err != nil {
			return nil, err
		}
	}

	if b.trustErr != nil {
		return nil, b.trustErr
	}
	trust, err := b.trust.Resolve()
	if err != nil {
		return nil, err
	}

	engine := cert.SelectEngine(b.selectEngineObserver())

	security, err := cert.Assemble(cert.AssembleInput{
		Identity:   identity,
		Trust:      trust,
		Engine:     engine,
		ServerName: b.host,
	})
	if err != nil {
		return nil, err
	}
	// Transient reference: released whether construction succeeds or not.
	defer security.Release()

	c := newClient(net.JoinHostPort(b.host, strconv.Itoa(b.port)), choice, security, b.policy, b.aux)

	glog.V(1).Infof("Built push client for %s (auth=%s, engine=%s)", c.Address(), c.authName(), engine)
	return c, nil
}

// selectEngineObserver returns the caller-supplied observer, or the default
// glog observer when none was set. An explicitly set nil observer suppresses
// the notification.
func (b *ClientBuilder) selectEngineObserver() cert.EngineObserver {
	if b.engineObserverSet {
		return b.engineObserver
	}
	return func(engine cert.Engine, detail string) {
		glog.Infof("Selected %s TLS engine: %s", engine, detail)
	}
}
