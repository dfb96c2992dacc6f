package resolver

import (
	"crypto/ed25519"
	"strings"

	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
)

// authorizedKey matches a proof's verificationMethod against the set of
// multibase updateKeys authorized to sign this entry, ignoring the
// verificationMethod's own fragment (§4.5 step 2: "did:key matching
// (ignoring fragment)"). Update-signing proofs use did:key ids built
// directly from the raw updateKeys strings, distinct from the document's own
// verification-method ids.
func authorizedKey(verificationMethod string, updateKeys []string) (ed25519.PublicKey, bool) {
	base := verificationMethod
	if idx := strings.Index(base, "#"); idx >= 0 {
		base = base[:idx]
	}
	for _, key := range updateKeys {
		if base != "did:key:"+key {
			continue
		}
		pub, err := proof.DecodeMultikeyEd25519(key)
		if err != nil {
			continue
		}
		return pub, true
	}
	return nil, false
}
