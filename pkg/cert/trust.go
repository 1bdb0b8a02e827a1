package cert

import (
	"crypto/x509"
	"os"

	"github.com/golang/glog"
)

// PeerVerifier validates the gateway's raw certificate chain in place of
// pool-based verification. It receives the raw certificates presented during
// the handshake and takes full responsibility for accepting or rejecting them.
type PeerVerifier func(rawCerts [][]byte, verifiedChains [][]*x509.Certificate) error

// TrustSource selects the material used to decide which server certificates
// are acceptable during the TLS handshake. At most one field should be set;
// the builder's setters enforce this by clearing the other fields. When more
// than one field is populated anyway, Resolve applies a fixed precedence:
// Verifier, then PEMFile, then PEM, then Certificates, then the platform's
// default roots.
type TrustSource struct {
	Verifier     PeerVerifier
	PEMFile      string
	PEM          []byte
	Certificates []*x509.Certificate
}

// ResolvedTrust is trust material in the form the TLS engine consumes.
// A nil RootCAs means the platform's default roots; a non-nil Verifier
// replaces pool-based verification entirely.
type ResolvedTrust struct {
	RootCAs  *x509.CertPool
	Verifier PeerVerifier
}

// Resolve reduces the trust source to engine-consumable material, reading
// the PEM file if one is configured. Resolve never consumes anything the
// source cannot yield again, so the same source value can be resolved any
// number of times. Multiple populated fields are not an error; only the
// highest-precedence one is used.
func (s TrustSource) Resolve() (*ResolvedTrust, error) {
	switch {
	case s.Verifier != nil:
		glog.V(2).Info("Trust source: caller-supplied peer verifier")
		return &ResolvedTrust{Verifier: s.Verifier}, nil

	case s.PEMFile != "":
		pemData, err := os.ReadFile(s.PEMFile)
		if err != nil {
			return nil, &MaterialError{Source: s.PEMFile, Reason: "cannot read trusted certificate file", Err: err}
		}
		pool, err := poolFromPEM(pemData, s.PEMFile)
		if err != nil {
			return nil, err
		}
		glog.V(2).Infof("Trust source: PEM file %s", s.PEMFile)
		return &ResolvedTrust{RootCAs: pool}, nil

	case len(s.PEM) > 0:
		pool, err := poolFromPEM(s.PEM, "stream")
		if err != nil {
			return nil, err
		}
		glog.V(2).Info("Trust source: PEM data")
		return &ResolvedTrust{RootCAs: pool}, nil

	case len(s.Certificates) > 0:
		pool := x509.NewCertPool()
		for _, c := range s.Certificates {
			pool.AddCert(c)
		}
		glog.V(2).Infof("Trust source: explicit certificate list (%d certificates)", len(s.Certificates))
		return &ResolvedTrust{RootCAs: pool}, nil

	default:
		glog.V(2).Info("Trust source: platform default roots")
		return &ResolvedTrust{}, nil
	}
}

func poolFromPEM(pemData []byte, source string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, &MaterialError{Source: source, Reason: "no usable certificates in trusted certificate material"}
	}
	return pool, nil
}
