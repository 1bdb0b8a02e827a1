// Package auth carries the signing-key material for token-based
// authentication to the push gateway. Minting tokens from the key is an
// external capability behind the TokenSigner interface; this package only
// loads and validates the key itself.
package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"io"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/pushnet/pushgate/pkg/cert"
)

// DefaultTokenExpiration is the duration after which authentication tokens
// derived from a signing key should be regenerated. The gateway treats tokens
// as expired after 60 minutes; regenerating at 50 leaves headroom.
const DefaultTokenExpiration = 50 * time.Minute

// SigningKey is a private key used to derive time-limited authentication
// tokens, together with the issuer metadata the gateway expects.
type SigningKey struct {
	// KeyID identifies the key to the gateway.
	KeyID string

	// TeamID identifies the account that owns the key.
	TeamID string

	// Key is the P-256 ECDSA private key.
	Key *ecdsa.PrivateKey
}

// LoadSigningKeyFromFile loads a PKCS#8 PEM signing key from disk. The file
// is always closed, whether or not loading succeeds.
func LoadSigningKeyFromFile(path, keyID, teamID string) (*SigningKey, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &cert.MaterialError{Source: path, Reason: "cannot open signing key", Err: err}
	}
	defer f.Close()

	key, err := LoadSigningKey(f, keyID, teamID)
	if err != nil {
		var merr *cert.MaterialError
		if errors.As(err, &merr) {
			merr.Source = path
		}
		return nil, err
	}

	glog.V(1).Infof("Loaded signing key from %s (keyID=%s)", path, keyID)
	return key, nil
}

// LoadSigningKey reads a PKCS#8 PEM signing key from r.
func LoadSigningKey(r io.Reader, keyID, teamID string) (*SigningKey, error) {
	pemData, err := io.ReadAll(r)
	if err != nil {
		return nil, &cert.MaterialError{Source: "stream", Reason: "cannot read signing key", Err: err}
	}
	return ParseSigningKey(pemData, keyID, teamID)
}

// ParseSigningKey parses PKCS#8 PEM key material. The key must be an ECDSA
// key on the P-256 curve; anything else is rejected as unusable material.
func ParseSigningKey(pemData []byte, keyID, teamID string) (*SigningKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, &cert.MaterialError{Source: "stream", Reason: "signing key is not PEM-encoded"}
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, &cert.MaterialError{Source: "stream", Reason: "cannot parse signing key", Err: err}
	}

	ecKey, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, &cert.MaterialError{Source: "stream", Reason: "signing key is not an ECDSA key"}
	}
	if ecKey.Curve != elliptic.P256() {
		return nil, &cert.MaterialError{Source: "stream", Reason: "signing key is not on the P-256 curve"}
	}

	return &SigningKey{KeyID: keyID, TeamID: teamID, Key: ecKey}, nil
}
