package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pushnet/pushgate/pkg/client"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadAndApplyTokenAuth(t *testing.T) {
	path := writeConfig(t, `
server:
  host: api.push.example
credentials:
  signing_key_file: ../../auth/testdata/token-signing-key.p8
  key_id: TESTKEYID
  team_id: TESTTEAMID
  token_expiration: 30m
policy:
  connect_timeout: 15s
  concurrent_connections: 2
`)

	f, err := Load(path)
	require.NoError(t, err)

	b := client.NewClientBuilder()
	require.NoError(t, f.ApplyTo(b))

	c, err := b.Build()
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "api.push.example:443", c.Address())
	assert.True(t, c.UsesTokenAuthentication())
	assert.Equal(t, "TESTKEYID", c.SigningKey().KeyID)
	assert.Equal(t, 30*time.Minute, c.TokenExpiration())
	assert.Equal(t, 15*time.Second, c.ConnectionPolicy().ConnectTimeout)
	assert.Equal(t, 2, c.ConnectionPolicy().ConcurrentConnections)
	// Unset fields keep builder defaults.
	assert.Equal(t, time.Minute, c.ConnectionPolicy().IdlePingInterval)
}

func TestLoadAndApplyP12(t *testing.T) {
	path := writeConfig(t, `
server:
  host: api.push.example
  port: 2197
credentials:
  p12_file: ../../cert/testdata/client.p12
  p12_password: pushgate-test
trust:
  pem_file: ../../cert/testdata/ca.pem
`)

	f, err := Load(path)
	require.NoError(t, err)

	b := client.NewClientBuilder()
	require.NoError(t, f.ApplyTo(b))

	c, err := b.Build()
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, "api.push.example:2197", c.Address())
	assert.False(t, c.UsesTokenAuthentication())
	assert.NotNil(t, c.SecurityContext().TLSConfig().RootCAs)
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Nil(t, f)
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	f, err := Load(path)
	assert.Nil(t, f)
	assert.Error(t, err)
}

func TestApplySigningKeyLoadFailure(t *testing.T) {
	path := writeConfig(t, `
server:
  host: api.push.example
credentials:
  signing_key_file: /does/not/exist.p8
`)

	f, err := Load(path)
	require.NoError(t, err)

	err = f.ApplyTo(client.NewClientBuilder())
	assert.Error(t, err)
}

func TestMaterialPaths(t *testing.T) {
	f := &File{}
	assert.Empty(t, f.MaterialPaths())

	f.Credentials.P12File = "client.p12"
	f.Trust.PEMFile = "ca.pem"
	assert.Equal(t, []string{"client.p12", "ca.pem"}, f.MaterialPaths())
}
