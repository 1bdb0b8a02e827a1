package cert

import "fmt"

// MaterialError reports a failure to load or parse security material: an
// unreadable or undecryptable key container, a container without a private-key
// entry, a certificate entry that is not an X.509 certificate, or trust
// material that cannot be read or parsed.
type MaterialError struct {
	// Source identifies where the material came from (a file path, or
	// "stream" for in-memory input).
	Source string
	Reason string
	Err    error
}

func (e *MaterialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("security material %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("security material %s: %s", e.Source, e.Reason)
}

func (e *MaterialError) Unwrap() error {
	return e.Err
}

// ContextError reports that the TLS engine rejected otherwise well-formed
// material while assembling a security context (unsupported key type,
// certificate/key mismatch, malformed chain).
type ContextError struct {
	Reason string
	Err    error
}

func (e *ContextError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("security context: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("security context: %s", e.Reason)
}

func (e *ContextError) Unwrap() error {
	return e.Err
}
