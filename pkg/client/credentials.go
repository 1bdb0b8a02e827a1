package client

import (
	"bytes"
	"time"

	"github.com/pushnet/pushgate/pkg/auth"
	"github.com/pushnet/pushgate/pkg/cert"
)

type credentialKind int

const (
	credentialUnset credentialKind = iota
	credentialTLS
	credentialSigningKey
)

// credentialChoice is the single exclusive authentication choice resolved
// from the builder's two credential families.
type credentialChoice struct {
	kind credentialKind

	// TLS variant: either a deferred container source or a direct pair.
	p12Path     string
	p12Data     []byte
	p12Err      error
	p12Password string
	identity    *cert.Identity

	// Signing-key variant.
	signingKey      *auth.SigningKey
	tokenExpiration time.Duration
}

// resolveCredential classifies the builder's credential state into exactly
// one choice. It performs no I/O: deferred container sources are carried
// forward unopened and loaded only after structural validation passes.
func resolveCredential(b *ClientBuilder) (credentialChoice, error) {
	tlsSet := b.p12Path != "" || b.p12Data != nil || b.p12Err != nil || b.certificate != nil || b.privateKey != nil
	tokenSet := b.signingKey != nil

	switch {
	case !tlsSet && !tokenSet:
		return credentialChoice{}, &ConfigError{
			Kind: MissingCredential,
			Message: "no credentials specified; either TLS credentials (a certificate/private key) " +
				"or a signing key must be provided before building a client",
		}

	case tlsSet && tokenSet:
		return credentialChoice{}, &ConfigError{
			Kind:    ConflictingCredential,
			Message: "clients may not have both a signing key and TLS credentials",
		}

	case tokenSet:
		return credentialChoice{
			kind:            credentialSigningKey,
			signingKey:      b.signingKey,
			tokenExpiration: b.tokenExpiration,
		}, nil

	default:
		choice := credentialChoice{
			kind:        credentialTLS,
			p12Path:     b.p12Path,
			p12Data:     b.p12Data,
			p12Err:      b.p12Err,
			p12Password: b.p12Password,
		}
		if b.certificate != nil || b.privateKey != nil {
			choice.identity = &cert.Identity{Certificate: b.certificate, PrivateKey: b.privateKey}
		}
		return choice, nil
	}
}

// loadIdentity materializes the TLS variant's client identity, opening the
// deferred container source if one was configured. Only called after
// structural validation has passed. A stream-read failure recorded at setter
// time is reported here, at the same stage any other material failure would
// surface.
func (c credentialChoice) loadIdentity() (*cert.Identity, error) {
	switch {
	case c.identity != nil:
		return c.identity, nil
	case c.p12Err != nil:
		return nil, c.p12Err
	case c.p12Path != "":
		return cert.LoadIdentityFromFile(c.p12Path, c.p12Password)
	default:
		return cert.LoadIdentity(bytes.NewReader(c.p12Data), c.p12Password)
	}
}
