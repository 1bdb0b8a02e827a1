package client

import (
	"errors"
	"fmt"
)

// ConfigErrorKind classifies structural configuration failures that are
// detected from builder state alone, before any file access.
type ConfigErrorKind string

const (
	// MissingAddress means no gateway address was configured.
	MissingAddress ConfigErrorKind = "missing_address"

	// MissingCredential means neither TLS credentials nor a signing key
	// were configured.
	MissingCredential ConfigErrorKind = "missing_credential"

	// ConflictingCredential means both TLS credentials and a signing key
	// were configured.
	ConflictingCredential ConfigErrorKind = "conflicting_credential"
)

// ConfigError reports a structural problem with the builder's state. It is
// always raised before any I/O and is reproducible from the same state.
type ConfigError struct {
	Kind    ConfigErrorKind
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("client configuration (%s): %s", e.Kind, e.Message)
}

// IsConfigKind reports whether err is a ConfigError of the given kind.
func IsConfigKind(err error, kind ConfigErrorKind) bool {
	var cerr *ConfigError
	return errors.As(err, &cerr) && cerr.Kind == kind
}
