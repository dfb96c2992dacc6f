// Package werr defines the typed error taxonomy raised by the did:webvh
// core. Every failure the validator, the witness verifier, or a mutator
// raises is a *werr.Error carrying one of the Kind values below; there is no
// "problem details" wrapper inside the core, only at a host's boundary.
package werr

import (
	"errors"
	"fmt"
)

// Kind categorizes a failure for callers that need to map it onto a wider
// taxonomy (e.g. a DID-resolution problem-details response).
type Kind string

const (
	// KindFormat covers malformed multibase/multihash/varint, bad JSON
	// lines, or a version-number prefix that doesn't match.
	KindFormat Kind = "format"

	// KindIntegrity covers recomputed-hash mismatches, SCID mismatches, and
	// broken hash chains.
	KindIntegrity Kind = "integrity"

	// KindAuthorization covers a proof whose signer is not in updateKeys,
	// or a witness proof from an undeclared witness.
	KindAuthorization Kind = "authorization"

	// KindPolicy covers portability violations, pre-rotation violations,
	// updates after deactivation, and ambiguous selectors.
	KindPolicy Kind = "policy"

	// KindCrypto covers verifier failures, missing key prefixes, and
	// unsupported cryptosuites.
	KindCrypto Kind = "crypto"

	// KindWitness covers unmet thresholds and duplicate witness admission.
	KindWitness Kind = "witness"

	// KindConfig covers a missing verifier, missing update keys, or a
	// missing log.
	KindConfig Kind = "config"

	// KindNotFound covers an absent or empty log file at the resolved URL.
	KindNotFound Kind = "not_found"
)

// Error is the concrete error type raised from every gate in the core.
type Error struct {
	// Op names the operation or gate that failed, e.g. "resolver.hashChain".
	Op string

	// Kind is the failure category from the §7 taxonomy.
	Kind Kind

	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap implements the errors.Unwrap convention.
func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an *Error with a plain message.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Op: op, Kind: kind, Err: errors.New(msg)}
}

// Wrap builds an *Error around an existing cause.
func Wrap(op string, kind Kind, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Is reports whether err is a *werr.Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
