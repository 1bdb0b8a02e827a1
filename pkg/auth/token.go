package auth

import "time"

// TokenSigner mints authentication tokens from a signing key. The
// configuration core carries the key and expiration policy but never signs
// anything itself; connection layers supply an implementation.
type TokenSigner interface {
	// Token returns a token for the key that is valid from issuedAt until
	// issuedAt plus the configured expiration.
	Token(issuedAt time.Time) (string, error)
}
