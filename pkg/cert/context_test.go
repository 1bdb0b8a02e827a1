package cert

import (
	"crypto/tls"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext() *SecurityContext {
	return newSecurityContext(&tls.Config{ServerName: "gateway.test"}, EngineGeneric)
}

func TestSecurityContextRefCounting(t *testing.T) {
	sc := newTestContext()
	assert.Equal(t, int32(1), sc.Refs())

	sc.Retain()
	assert.Equal(t, int32(2), sc.Refs())

	sc.Release()
	assert.Equal(t, int32(1), sc.Refs())
	assert.NotNil(t, sc.TLSConfig())

	sc.Release()
	assert.Equal(t, int32(0), sc.Refs())
	assert.Nil(t, sc.TLSConfig(), "configuration must be dropped at refcount zero")
}

func TestSecurityContextOverRelease(t *testing.T) {
	sc := newTestContext()
	sc.Release()

	assert.Panics(t, func() { sc.Release() })
	assert.Panics(t, func() { sc.Retain() })
}

func TestSecurityContextTLSConfigIsClone(t *testing.T) {
	sc := newTestContext()
	defer sc.Release()

	a := sc.TLSConfig()
	b := sc.TLSConfig()
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotSame(t, a, b)

	a.ServerName = "mutated.test"
	assert.Equal(t, "gateway.test", b.ServerName)
	assert.Equal(t, "gateway.test", sc.TLSConfig().ServerName)
}

func TestSecurityContextEngine(t *testing.T) {
	sc := newSecurityContext(&tls.Config{}, EngineHardwareAES)
	defer sc.Release()
	assert.Equal(t, EngineHardwareAES, sc.Engine())
}
