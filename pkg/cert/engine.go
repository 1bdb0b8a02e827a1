package cert

import (
	"crypto/tls"

	"golang.org/x/sys/cpu"
)

// Engine identifies the cipher-engine profile an assembled security context
// is bound to. The profile decides cipher-suite ordering; both profiles offer
// only the curated ECDHE+AEAD suites an HTTP/2 transport accepts.
type Engine int

const (
	// EngineGeneric is the fallback profile used when no hardware AES
	// acceleration is detected. ChaCha20-Poly1305 suites are preferred.
	EngineGeneric Engine = iota

	// EngineHardwareAES is selected when the CPU accelerates AES-GCM.
	// AES-GCM suites are preferred.
	EngineHardwareAES
)

func (e Engine) String() string {
	switch e {
	case EngineHardwareAES:
		return "hardware-aes"
	default:
		return "generic"
	}
}

// EngineObserver receives the informational engine-selection notification.
// Selection itself is a pure decision; any logging happens in the observer.
type EngineObserver func(engine Engine, detail string)

// SelectEngine queries the runtime environment for AES acceleration and
// returns the engine profile to bind assembled contexts to. The decision is
// deterministic for a given host. A nil observer suppresses the notification.
func SelectEngine(observer EngineObserver) Engine {
	engine := EngineGeneric
	detail := "no hardware AES-GCM support detected; preferring ChaCha20-Poly1305 cipher suites"
	if hasAESAcceleration() {
		engine = EngineHardwareAES
		detail = "hardware AES-GCM support detected; preferring AES-GCM cipher suites"
	}
	if observer != nil {
		observer(engine, detail)
	}
	return engine
}

func hasAESAcceleration() bool {
	return (cpu.X86.HasAES && cpu.X86.HasPCLMULQDQ) ||
		cpu.ARM64.HasAES ||
		cpu.S390X.HasAESGCM
}

// aeadSuites is the curated cipher policy for multiplexed-stream transport:
// ECDHE key exchange with AEAD ciphers only. CBC and RC4 suites are excluded
// outright; HTTP/2 deployments reject them.
var (
	aesSuites = []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	}
	chachaSuites = []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	}
)

// CipherSuites returns the cipher policy for the engine, ordered by the
// engine's preference and filtered against the suites this runtime actually
// implements.
func CipherSuites(e Engine) []uint16 {
	var ordered []uint16
	if e == EngineHardwareAES {
		ordered = append(append(ordered, aesSuites...), chachaSuites...)
	} else {
		ordered = append(append(ordered, chachaSuites...), aesSuites...)
	}
	return filterSupported(ordered)
}

func filterSupported(ids []uint16) []uint16 {
	supported := make(map[uint16]bool)
	for _, s := range tls.CipherSuites() {
		supported[s.ID] = true
	}

	out := make([]uint16, 0, len(ids))
	for _, id := range ids {
		if supported[id] {
			out = append(out, id)
		}
	}
	return out
}
