package encoding

import "crypto/sha256"

// Hash returns the raw SHA-2-256 digest of b. The core only ever hashes with
// SHA-2-256; other algorithms are accepted on the multihash *decode* side
// only, for interoperability with logs produced elsewhere.
func Hash(b []byte) [32]byte {
	return sha256.Sum256(b)
}
