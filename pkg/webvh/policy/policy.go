// Package policy defines the resolver's assertion-bypass switches (§6.4).
// Every switch defaults to false (full verification); flipping one is a
// deliberate, test-only relaxation of a single invariant, never a
// process-wide setting. Policy is always passed by value — there is no
// package-level default policy a caller could accidentally inherit.
package policy

// Policy carries the §6.4 IGNORE_* bypass flags. The zero value enforces
// every assertion.
type Policy struct {
	// IgnoreAssertionKeyIsAuthorized skips checking that the key used to sign
	// an update was authorized by the prior version's key set.
	IgnoreAssertionKeyIsAuthorized bool `envconfig:"IGNORE_ASSERTION_KEY_IS_AUTHORIZED"`

	// IgnoreAssertionNewKeysAreValid skips checking an entry's new updateKeys
	// against the previous entry's nextKeyHashes commitments.
	IgnoreAssertionNewKeysAreValid bool `envconfig:"IGNORE_ASSERTION_NEW_KEYS_ARE_VALID"`

	// IgnoreAssertionDocumentStateIsValid skips verifying the entry's Data
	// Integrity proof signature(s) over the log entry.
	IgnoreAssertionDocumentStateIsValid bool `envconfig:"IGNORE_ASSERTION_DOCUMENT_STATE_IS_VALID"`

	// IgnoreAssertionHashChainIsValid skips checking that an entry's stored
	// versionId equals "<n>-" plus the hash of the entry with its own
	// versionId replaced by the placeholder.
	IgnoreAssertionHashChainIsValid bool `envconfig:"IGNORE_ASSERTION_HASH_CHAIN_IS_VALID"`

	// IgnoreAssertionSCIDIsFromHash skips checking that the SCID in entry 1
	// was actually derived from the placeholder-substituted entry hash.
	IgnoreAssertionSCIDIsFromHash bool `envconfig:"IGNORE_ASSERTION_SCID_IS_FROM_HASH"`

	// IgnoreWitnessIsAuthorized skips witness threshold enforcement on
	// terminal entries entirely.
	IgnoreWitnessIsAuthorized bool `envconfig:"IGNORE_WITNESS_IS_AUTHORIZED"`
}

// Strict is the zero-value Policy, named for readability at call sites that
// want to be explicit about enforcing every assertion.
var Strict = Policy{}
