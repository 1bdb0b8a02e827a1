package auth

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushnet/pushgate/pkg/cert"
)

func TestLoadSigningKeyFromFile(t *testing.T) {
	key, err := LoadSigningKeyFromFile("testdata/token-signing-key.p8", "TESTKEYID", "TESTTEAMID")
	require.NoError(t, err)

	assert.Equal(t, "TESTKEYID", key.KeyID)
	assert.Equal(t, "TESTTEAMID", key.TeamID)
	require.NotNil(t, key.Key)
	assert.Equal(t, elliptic.P256(), key.Key.Curve)
}

func TestLoadSigningKeyRejectsRSA(t *testing.T) {
	key, err := LoadSigningKeyFromFile("testdata/rsa-key.p8", "TESTKEYID", "TESTTEAMID")
	assert.Nil(t, key)

	var merr *cert.MaterialError
	require.ErrorAs(t, err, &merr)
	assert.Contains(t, merr.Reason, "not an ECDSA key")
}

func TestLoadSigningKeyRejectsWrongCurve(t *testing.T) {
	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKCS8PrivateKey(p384)
	require.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	key, err := ParseSigningKey(pemData, "k", "t")
	assert.Nil(t, key)

	var merr *cert.MaterialError
	require.ErrorAs(t, err, &merr)
	assert.Contains(t, merr.Reason, "P-256")
}

func TestLoadSigningKeyRejectsNonPEM(t *testing.T) {
	key, err := LoadSigningKey(bytes.NewReader([]byte("not pem data")), "k", "t")
	assert.Nil(t, key)

	var merr *cert.MaterialError
	require.ErrorAs(t, err, &merr)
}

func TestLoadSigningKeyMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.p8")
	key, err := LoadSigningKeyFromFile(path, "k", "t")
	assert.Nil(t, key)

	var merr *cert.MaterialError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, path, merr.Source)
}

func TestLoadSigningKeyAnnotatesSource(t *testing.T) {
	// A parse failure through the file path must still carry the file name.
	path := filepath.Join(t.TempDir(), "bad.p8")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	key, err := LoadSigningKeyFromFile(path, "k", "t")
	assert.Nil(t, key)

	var merr *cert.MaterialError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, path, merr.Source)
}
