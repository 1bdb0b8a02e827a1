package cert

import (
	"crypto"
	"crypto/tls"

	"github.com/golang/glog"
)

// AssembleInput carries the resolved inputs for security-context assembly.
type AssembleInput struct {
	// Identity is the client's certificate/private-key pair, or nil when the
	// client authenticates with per-request tokens instead of channel
	// identity.
	Identity *Identity

	// Trust is the resolved trust material. A nil Trust behaves like the
	// platform default.
	Trust *ResolvedTrust

	// Engine fixes the cipher policy.
	Engine Engine

	// ServerName is sent as SNI and used for hostname verification.
	ServerName string
}

// Assemble combines the resolved credential, trust material, and engine
// choice into a reference-counted security context. The caller owns the
// returned reference. Material the engine cannot accept (unsupported key
// types, certificate/key mismatches) surfaces as ContextError.
func Assemble(in AssembleInput) (*SecurityContext, error) {
	cfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"h2"},
		CipherSuites: CipherSuites(in.Engine),
		ServerName:   in.ServerName,
	}

	if in.Identity != nil {
		tlsCert, err := in.Identity.toTLSCertificate()
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{tlsCert}
	}

	if in.Trust != nil {
		if in.Trust.Verifier != nil {
			// The caller-supplied verifier assumes full responsibility for
			// chain validation, so the engine's own verification is skipped.
			cfg.InsecureSkipVerify = true
			cfg.VerifyPeerCertificate = in.Trust.Verifier
		} else if in.Trust.RootCAs != nil {
			cfg.RootCAs = in.Trust.RootCAs
		}
	}

	glog.V(2).Infof("Assembled security context: engine=%s, ciphers=%d, clientIdentity=%t",
		in.Engine, len(cfg.CipherSuites), in.Identity != nil)

	return newSecurityContext(cfg, in.Engine), nil
}

// toTLSCertificate converts the identity into the engine's certificate form,
// verifying that the private key is usable and belongs to the certificate.
func (id *Identity) toTLSCertificate() (tls.Certificate, error) {
	if id.Certificate == nil || id.PrivateKey == nil {
		return tls.Certificate{}, &ContextError{Reason: "client identity is incomplete"}
	}

	signer, ok := id.PrivateKey.(crypto.Signer)
	if !ok {
		return tls.Certificate{}, &ContextError{Reason: "unsupported private-key type"}
	}

	type publicKeyEqualer interface {
		Equal(crypto.PublicKey) bool
	}
	pub, ok := signer.Public().(publicKeyEqualer)
	if !ok {
		return tls.Certificate{}, &ContextError{Reason: "unsupported public-key type"}
	}
	if !pub.Equal(id.Certificate.PublicKey) {
		return tls.Certificate{}, &ContextError{Reason: "private key does not match certificate"}
	}

	return tls.Certificate{
		Certificate: [][]byte{id.Certificate.Raw},
		PrivateKey:  id.PrivateKey,
		Leaf:        id.Certificate,
	}, nil
}
