package cert

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"testing"

	"github.com/pushnet/pushgate/internal/testcert"
)

func marshalTestKey(id *Identity) ([]byte, error) {
	switch k := id.PrivateKey.(type) {
	case *rsa.PrivateKey:
		return x509.MarshalPKCS1PrivateKey(k), nil
	case *ecdsa.PrivateKey:
		return x509.MarshalECPrivateKey(k)
	default:
		return nil, fmt.Errorf("unsupported key type %T", k)
	}
}

func newTestIdentity(t *testing.T) (*x509.Certificate, *ecdsa.PrivateKey, error) {
	t.Helper()
	return testcert.NewIdentity("test.pushgate.net")
}
