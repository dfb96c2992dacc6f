// Package witness implements §4.6: validating the witness parameter shape
// and counting distinct, authorized, verifying witness proofs toward a
// threshold for a given log version.
package witness

import (
	"context"
	"fmt"
	"strings"

	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// Entry is one declared witness: a did:key id and an optional weight used
// only by the v0.5 weighted-sum counting rule.
type Entry struct {
	ID     string `json:"id"`
	Weight *int   `json:"weight,omitempty"`
}

// weight returns the declared weight, defaulting to 1.
func (e Entry) weight() int {
	if e.Weight == nil {
		return 1
	}
	return *e.Weight
}

// Params is the `witness` log parameter: a threshold and the set of
// authorized witnesses.
type Params struct {
	Threshold int     `json:"threshold"`
	Witnesses []Entry `json:"witnesses"`
}

// Validate checks the shape invariants from §4.6: witnesses non-empty, every
// id begins with did:key:, ids unique, and 1 <= threshold <= len(witnesses).
func (p Params) Validate() error {
	if len(p.Witnesses) == 0 {
		return werr.New("witness.Validate", werr.KindPolicy, "witnesses must be non-empty")
	}
	seen := make(map[string]bool, len(p.Witnesses))
	for _, w := range p.Witnesses {
		if !strings.HasPrefix(w.ID, "did:key:") {
			return werr.New("witness.Validate", werr.KindPolicy, fmt.Sprintf("witness id %q must begin with did:key:", w.ID))
		}
		if seen[w.ID] {
			return werr.New("witness.Validate", werr.KindPolicy, fmt.Sprintf("duplicate witness id %q", w.ID))
		}
		seen[w.ID] = true
	}
	if p.Threshold < 1 || p.Threshold > len(p.Witnesses) {
		return werr.New("witness.Validate", werr.KindPolicy,
			fmt.Sprintf("threshold %d must be between 1 and %d", p.Threshold, len(p.Witnesses)))
	}
	return nil
}

// ProofSetEntry is one `{versionId, proof[]}` object from the did-witness.json
// sibling file.
type ProofSetEntry struct {
	VersionID string       `json:"versionId"`
	Proof     []proof.Proof `json:"proof"`
}

// Strategy accumulates one more authorized, verifying witness's
// contribution into a running total. CountDistinct adds 1 per witness;
// CountWeighted adds that witness's declared weight (§9(a)).
type Strategy func(running int, w Entry) int

// CountDistinct implements the v1.0 rule: one distinct witness == one
// approval, ignoring weight.
func CountDistinct(running int, _ Entry) int { return running + 1 }

// CountWeighted implements the v0.5 rule: sum declared weights.
func CountWeighted(running int, w Entry) int { return running + w.weight() }

// Count verifies witness proofs for targetVersionID against params, using
// strategy to accumulate approvals, and returns the running total. It does
// not itself compare against the threshold — see Verify.
func Count(ctx context.Context, targetVersionID string, params Params, sets []ProofSetEntry, verifier proof.Verifier, strategy Strategy) (int, error) {
	byID := make(map[string]Entry, len(params.Witnesses))
	for _, w := range params.Witnesses {
		byID[w.ID] = w
	}

	counted := make(map[string]bool, len(params.Witnesses))
	approvals := 0

	for _, set := range sets {
		if set.VersionID != targetVersionID {
			continue
		}
		for _, p := range set.Proof {
			if p.Cryptosuite != "eddsa-jcs-2022" {
				return 0, werr.New("witness.Count", werr.KindWitness, fmt.Sprintf("invalid witness proof cryptosuite %q", p.Cryptosuite))
			}

			witnessID, ok := matchWitness(p.VerificationMethod, byID)
			if !ok {
				return 0, werr.New("witness.Count", werr.KindWitness,
					fmt.Sprintf("verificationMethod %q does not match any declared witness", p.VerificationMethod))
			}

			if counted[witnessID] {
				continue
			}

			pub, err := proof.ResolveDIDKey(p.VerificationMethod)
			if err != nil {
				return 0, werr.Wrap("witness.Count", werr.KindWitness, err)
			}

			doc := map[string]string{"versionId": targetVersionID}
			ok, err = proof.Verify(ctx, doc, p, pub, verifier)
			if err != nil {
				return 0, err
			}
			if !ok {
				continue
			}

			counted[witnessID] = true
			approvals = strategy(approvals, byID[witnessID])
		}
	}

	return approvals, nil
}

// Verify counts approvals and fails with a KindWitness error if the
// threshold is not met.
func Verify(ctx context.Context, targetVersionID string, params Params, sets []ProofSetEntry, verifier proof.Verifier, strategy Strategy) error {
	if err := params.Validate(); err != nil {
		return err
	}
	approvals, err := Count(ctx, targetVersionID, params, sets, verifier, strategy)
	if err != nil {
		return err
	}
	if approvals < params.Threshold {
		return werr.New("witness.Verify", werr.KindWitness,
			fmt.Sprintf("witness threshold not met: have %d, need %d", approvals, params.Threshold))
	}
	return nil
}

// matchWitness finds the declared witness whose id is a prefix of
// verificationMethod, tying the proof to that witness.
func matchWitness(verificationMethod string, byID map[string]Entry) (string, bool) {
	for id := range byID {
		if strings.HasPrefix(verificationMethod, id) {
			return id, true
		}
	}
	return "", false
}
