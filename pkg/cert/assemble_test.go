package cert

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleTokenAuthContext(t *testing.T) {
	sc, err := Assemble(AssembleInput{
		Engine:     EngineGeneric,
		ServerName: "api.push.test",
	})
	require.NoError(t, err)
	defer sc.Release()

	cfg := sc.TLSConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Equal(t, []string{"h2"}, cfg.NextProtos)
	assert.Equal(t, "api.push.test", cfg.ServerName)
	assert.Empty(t, cfg.Certificates, "token auth contributes nothing to channel identity")
	assert.NotEmpty(t, cfg.CipherSuites)
}

func TestAssembleWithClientIdentity(t *testing.T) {
	certificate, key, err := newTestIdentity(t)
	require.NoError(t, err)

	sc, err := Assemble(AssembleInput{
		Identity:   &Identity{Certificate: certificate, PrivateKey: key},
		Engine:     EngineHardwareAES,
		ServerName: "api.push.test",
	})
	require.NoError(t, err)
	defer sc.Release()

	cfg := sc.TLSConfig()
	require.Len(t, cfg.Certificates, 1)
	assert.Equal(t, certificate, cfg.Certificates[0].Leaf)
	assert.Equal(t, EngineHardwareAES, sc.Engine())
}

func TestAssembleWithTrustPool(t *testing.T) {
	ca, _, err := newTestIdentity(t)
	require.NoError(t, err)

	pool := x509.NewCertPool()
	pool.AddCert(ca)

	sc, err := Assemble(AssembleInput{
		Trust:      &ResolvedTrust{RootCAs: pool},
		Engine:     EngineGeneric,
		ServerName: "api.push.test",
	})
	require.NoError(t, err)
	defer sc.Release()

	cfg := sc.TLSConfig()
	assert.NotNil(t, cfg.RootCAs)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestAssembleWithVerifier(t *testing.T) {
	verifier := PeerVerifier(func(rawCerts [][]byte, chains [][]*x509.Certificate) error { return nil })

	sc, err := Assemble(AssembleInput{
		Trust:      &ResolvedTrust{Verifier: verifier},
		Engine:     EngineGeneric,
		ServerName: "api.push.test",
	})
	require.NoError(t, err)
	defer sc.Release()

	cfg := sc.TLSConfig()
	assert.True(t, cfg.InsecureSkipVerify, "verifier replaces pool-based verification")
	assert.NotNil(t, cfg.VerifyPeerCertificate)
}

func TestAssembleRejectsMismatchedKey(t *testing.T) {
	certificate, _, err := newTestIdentity(t)
	require.NoError(t, err)

	otherKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	sc, err := Assemble(AssembleInput{
		Identity: &Identity{Certificate: certificate, PrivateKey: otherKey},
		Engine:   EngineGeneric,
	})
	assert.Nil(t, sc)

	var cerr *ContextError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Reason, "does not match")
}

func TestAssembleRejectsUnusableKey(t *testing.T) {
	certificate, _, err := newTestIdentity(t)
	require.NoError(t, err)

	sc, err := Assemble(AssembleInput{
		Identity: &Identity{Certificate: certificate, PrivateKey: "not a key"},
		Engine:   EngineGeneric,
	})
	assert.Nil(t, sc)

	var cerr *ContextError
	require.ErrorAs(t, err, &cerr)
}

func TestAssembleRejectsIncompleteIdentity(t *testing.T) {
	certificate, _, err := newTestIdentity(t)
	require.NoError(t, err)

	sc, err := Assemble(AssembleInput{
		Identity: &Identity{Certificate: certificate},
		Engine:   EngineGeneric,
	})
	assert.Nil(t, sc)

	var cerr *ContextError
	require.ErrorAs(t, err, &cerr)
}
