package didutil

// PlaceholderSCID is substituted for every textual occurrence of the real
// SCID inside the first log entry before its pre-SCID hash is computed.
const PlaceholderSCID = "{SCID}"

// PlaceholderVersionID is substituted for the entry's own versionId before
// its hash is (re)computed, on every entry.
const PlaceholderVersionID = "{versionId}"

// CreateSCID derives the self-certifying identifier from the first entry's
// hash. At protocol v1.0 this is the identity function: the SCID *is* the
// first-entry hash value, already itself a base58btc-multihash string.
func CreateSCID(firstEntryHash string) string {
	return firstEntryHash
}
