// Package cert loads and validates the security material a push client needs
// before it opens a connection: client identities from PKCS#12 containers,
// trusted server certificates from a configurable source, and the assembled,
// reference-counted TLS configuration handed to the connection layer.
package cert

import (
	"crypto"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"io"
	"os"

	"github.com/golang/glog"
	"golang.org/x/crypto/pkcs12"
)

// Identity is a client certificate/private-key pair used for TLS-based
// authentication to the push gateway.
type Identity struct {
	Certificate *x509.Certificate
	PrivateKey  crypto.PrivateKey
}

// PublicKeyFingerprint returns the lowercase hex SHA-256 digest of the
// certificate's SubjectPublicKeyInfo.
func (id *Identity) PublicKeyFingerprint() string {
	sum := sha256.Sum256(id.Certificate.RawSubjectPublicKeyInfo)
	return hex.EncodeToString(sum[:])
}

// LoadIdentityFromFile opens a PKCS#12 file and extracts its first
// private-key entry. The file is always closed, whether or not loading
// succeeds. The password may be blank but must be supplied.
func LoadIdentityFromFile(path, password string) (*Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &MaterialError{Source: path, Reason: "cannot open key container", Err: err}
	}
	defer f.Close()

	id, err := LoadIdentity(f, password)
	if err != nil {
		var merr *MaterialError
		if errors.As(err, &merr) {
			merr.Source = path
		}
		return nil, err
	}

	glog.V(1).Infof("Loaded client identity from %s (subject=%q)", path, id.Certificate.Subject)
	return id, nil
}

// LoadIdentity reads PKCS#12 data from r and extracts its first private-key
// entry together with the matching certificate. Decryption failures, missing
// key entries, and certificate entries that are not X.509 certificates all
// surface as MaterialError.
func LoadIdentity(r io.Reader, password string) (*Identity, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &MaterialError{Source: "stream", Reason: "cannot read key container", Err: err}
	}

	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return nil, &MaterialError{Source: "stream", Reason: "cannot decrypt key container", Err: err}
	}

	return identityFromPEM(blocks)
}

// identityFromPEM locates the first private-key block among the decrypted
// container entries and pairs it with its certificate. Certificates are
// matched by localKeyId attribute when present, falling back to the first
// certificate entry.
func identityFromPEM(blocks []*pem.Block) (*Identity, error) {
	var keyBlock *pem.Block
	for _, block := range blocks {
		if block.Type == "PRIVATE KEY" {
			keyBlock = block
			break
		}
	}
	if keyBlock == nil {
		return nil, &MaterialError{Source: "stream", Reason: "key container has no private-key entry"}
	}

	certBlock := matchingCertBlock(blocks, keyBlock.Headers["localKeyId"])
	if certBlock == nil {
		return nil, &MaterialError{Source: "stream", Reason: "key container has no certificate for its private-key entry"}
	}

	certificate, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		// The container decrypted, but the entry is not an X.509 certificate.
		return nil, &MaterialError{Source: "stream", Reason: "key container entry is not an X.509 certificate", Err: err}
	}

	key, err := parsePrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, &MaterialError{Source: "stream", Reason: "cannot parse private-key entry", Err: err}
	}

	return &Identity{Certificate: certificate, PrivateKey: key}, nil
}

// matchingCertBlock returns the certificate block whose localKeyId matches
// the key's, or the first certificate block when no id matches.
func matchingCertBlock(blocks []*pem.Block, localKeyID string) *pem.Block {
	var first *pem.Block
	for _, block := range blocks {
		if block.Type != "CERTIFICATE" {
			continue
		}
		if first == nil {
			first = block
		}
		if localKeyID != "" && block.Headers["localKeyId"] == localKeyID {
			return block
		}
	}
	return first
}

// parsePrivateKey parses the key bytes produced by container decryption.
// Containers carry RSA keys in PKCS#1 form and EC keys in SEC 1 form; PKCS#8
// is tried last for anything else.
func parsePrivateKey(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	return key, nil
}
