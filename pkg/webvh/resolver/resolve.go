package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dc4eu/didwebvh/pkg/webvh/didutil"
	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/dc4eu/didwebvh/pkg/webvh/encoding"
	"github.com/dc4eu/didwebvh/pkg/webvh/policy"
	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"github.com/dc4eu/didwebvh/pkg/webvh/witness"
)

// Resolve replays log per §4.5, enforcing version numbering, hash chaining,
// SCID derivation, proof verification, pre-rotation and portability policy,
// and (on the terminal entry) witness quorum, returning the document
// selected by opts. It is pure: given the same log, opts, and deps.Verifier
// behavior, it always produces the same result, per §5.
func Resolve(ctx context.Context, log []LogEntry, opts Options, deps Deps) (did string, doc *document.Document, meta Meta, err error) {
	l := deps.log()

	if len(log) == 0 {
		return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindNotFound, "log is empty")
	}
	if deps.Verifier == nil {
		return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindConfig, "Verifier implementation is required")
	}
	if err := opts.validate(); err != nil {
		return "", nil, Meta{}, err
	}

	strategy, err := witnessStrategyForMethod(log[0].Parameters.Method)
	if err != nil {
		return "", nil, Meta{}, err
	}

	var (
		m    Meta
		host string
	)

	for i, entry := range log {
		n := i + 1
		l.Debug("replaying entry", "n", n, "versionId", entry.VersionID)

		if err := checkVersionNumberPrefix(entry.VersionID, n); err != nil {
			return "", nil, Meta{}, err
		}

		var authorizedKeys []string

		if i == 0 {
			host, err = didutil.LastSegment(entry.State.ID)
			if err != nil {
				return "", nil, Meta{}, werr.Wrap("resolver.Resolve", werr.KindFormat, err)
			}
			if entry.Parameters.Method == "" {
				return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindConfig, "entry 1 parameters.method is required")
			}
			if entry.Parameters.SCID == "" {
				return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindConfig, "entry 1 parameters.scid is required")
			}
			if len(entry.Parameters.UpdateKeys) == 0 {
				return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindConfig, "entry 1 parameters.updateKeys is required")
			}

			if !deps.Policy.IgnoreAssertionSCIDIsFromHash {
				if err := checkSCIDDerivation(entry); err != nil {
					return "", nil, Meta{}, err
				}
			}
			if !deps.Policy.IgnoreAssertionHashChainIsValid {
				if err := checkEntryHash(entry, 1); err != nil {
					return "", nil, Meta{}, err
				}
			}

			authorizedKeys = entry.Parameters.UpdateKeys
		} else {
			if entry.Parameters.SCID != "" {
				return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindPolicy, "scid may only be set on entry 1")
			}
			if entry.Parameters.Portable != nil {
				return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindPolicy, "portable may only be set on entry 1")
			}
			if m.Deactivated {
				return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindPolicy, "log continues after deactivation")
			}

			newHost, err := didutil.LastSegment(entry.State.ID)
			if err != nil {
				return "", nil, Meta{}, werr.Wrap("resolver.Resolve", werr.KindFormat, err)
			}
			if !m.Portable && newHost != host {
				return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindPolicy,
					fmt.Sprintf("portability violation: did host changed from %q to %q on a non-portable DID", host, newHost))
			}

			if m.Prerotation {
				authorizedKeys = entry.Parameters.UpdateKeys
				if !deps.Policy.IgnoreAssertionNewKeysAreValid {
					if err := checkPreRotation(entry.Parameters.UpdateKeys, m.NextKeyHashes); err != nil {
						return "", nil, Meta{}, err
					}
				}
			} else {
				authorizedKeys = m.UpdateKeys
			}

			if !deps.Policy.IgnoreAssertionHashChainIsValid {
				if err := checkEntryHash(entry, n); err != nil {
					return "", nil, Meta{}, err
				}
			}
		}

		if err := verifyEntryProofs(ctx, entry, authorizedKeys, deps.Verifier, deps.Policy); err != nil {
			return "", nil, Meta{}, err
		}

		if i == 0 {
			m.applyEntry1(entry)
		} else {
			m.applyTransitions(entry)
		}
		m.PreviousLogEntryHash = versionIDHash(entry.VersionID)

		baseURL, err := didutil.BaseURL(entry.State.ID)
		if err != nil {
			return "", nil, Meta{}, werr.Wrap("resolver.Resolve", werr.KindFormat, err)
		}
		finalDoc := document.WithDefaultServices(&entry.State, baseURL)

		isLast := i == len(log)-1

		var nextVersionTime *time.Time
		if !isLast {
			t, err := time.Parse(time.RFC3339, log[i+1].VersionTime)
			if err != nil {
				return "", nil, Meta{}, werr.Wrap("resolver.Resolve", werr.KindFormat, err)
			}
			nextVersionTime = &t
		}

		matched, err := opts.matches(n, entry, finalDoc, isLast, nextVersionTime)
		if err != nil {
			return "", nil, Meta{}, err
		}

		if isLast && m.Witness != nil && !deps.Policy.IgnoreWitnessIsAuthorized {
			if err := checkWitnessQuorum(ctx, entry.State.ID, m.VersionID, *m.Witness, opts, deps, strategy); err != nil {
				return "", nil, Meta{}, err
			}
		}

		if matched {
			l.Info("resolved", "did", entry.State.ID, "versionId", entry.VersionID)
			return entry.State.ID, finalDoc, m, nil
		}
	}

	return "", nil, Meta{}, werr.New("resolver.Resolve", werr.KindNotFound, "no entry matched the requested selector")
}

func checkVersionNumberPrefix(versionID string, want int) error {
	prefix, _, ok := strings.Cut(versionID, "-")
	if !ok {
		return werr.New("resolver.checkVersionNumberPrefix", werr.KindFormat, fmt.Sprintf("malformed versionId %q", versionID))
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return werr.Wrap("resolver.checkVersionNumberPrefix", werr.KindFormat, err)
	}
	if n != want {
		return werr.New("resolver.checkVersionNumberPrefix", werr.KindFormat,
			fmt.Sprintf("versionId %q: expected version number %d, got %d", versionID, want, n))
	}
	return nil
}

func versionIDHash(versionID string) string {
	_, hash, ok := strings.Cut(versionID, "-")
	if !ok {
		return ""
	}
	return hash
}

// checkSCIDDerivation verifies §4.5 step 2's SCID-derivation assertion:
// the declared scid equals the hash of the entry with every textual
// occurrence of the scid (and the versionId) replaced by their placeholders.
func checkSCIDDerivation(entry LogEntry) error {
	scid := entry.Parameters.SCID
	preHash, err := scidPreHash(entry, scid)
	if err != nil {
		return err
	}
	if preHash != scid {
		return werr.New("resolver.checkSCIDDerivation", werr.KindIntegrity,
			fmt.Sprintf("scid %q does not match its derivation hash %q", scid, preHash))
	}
	return nil
}

// checkEntryHash verifies §4.5's hash-chain gate: the stored versionId's
// hash half equals entryHash(entry), the hash of the entry with its own
// versionId placeholder'd (scid, on later entries, is left untouched — only
// entry 1 ever replaces it).
func checkEntryHash(entry LogEntry, n int) error {
	hash, err := entryHash(entry)
	if err != nil {
		return err
	}
	want := fmt.Sprintf("%d-%s", n, hash)
	if want != entry.VersionID {
		return werr.New("resolver.checkEntryHash", werr.KindIntegrity,
			fmt.Sprintf("hash chain broken: computed versionId %q, stored %q", want, entry.VersionID))
	}
	return nil
}

// checkPreRotation verifies §4.5's pre-rotation compliance gate: every
// updateKeys entry on this entry must hash to one of the previous entry's
// nextKeyHashes commitments.
func checkPreRotation(updateKeys, committed []string) error {
	allowed := make(map[string]bool, len(committed))
	for _, h := range committed {
		allowed[h] = true
	}
	for _, key := range updateKeys {
		h, err := encoding.DeriveNextKeyHash(key)
		if err != nil {
			return err
		}
		if !allowed[h] {
			return werr.New("resolver.checkPreRotation", werr.KindPolicy,
				fmt.Sprintf("update key %q does not match a committed next-key-hash", key))
		}
	}
	return nil
}

// verifyEntryProofs checks every proof on entry: its signer must be an
// authorized update key (unless Policy.IgnoreAssertionKeyIsAuthorized), and
// its signature must verify over the entry with proof stripped (unless
// Policy.IgnoreAssertionDocumentStateIsValid), sequentially, per §5
// ("proofs within an entry are verified sequentially").
func verifyEntryProofs(ctx context.Context, entry LogEntry, authorizedKeys []string, verifier proof.Verifier, pol policy.Policy) error {
	if len(entry.Proof) == 0 {
		return werr.New("resolver.verifyEntryProofs", werr.KindAuthorization, "entry has no proofs")
	}
	for _, p := range entry.Proof {
		pub, ok := authorizedKey(p.VerificationMethod, authorizedKeys)
		if !ok {
			if !pol.IgnoreAssertionKeyIsAuthorized {
				return werr.New("resolver.verifyEntryProofs", werr.KindAuthorization,
					fmt.Sprintf("verificationMethod %q is not an authorized update key", p.VerificationMethod))
			}
			resolved, err := proof.ResolveDIDKey(p.VerificationMethod)
			if err != nil {
				return werr.Wrap("resolver.verifyEntryProofs", werr.KindAuthorization, err)
			}
			pub = resolved
		}

		if pol.IgnoreAssertionDocumentStateIsValid {
			continue
		}

		ok, err := proof.Verify(ctx, entry.forProof(), p, pub, verifier)
		if err != nil {
			return err
		}
		if !ok {
			return werr.New("resolver.verifyEntryProofs", werr.KindCrypto,
				fmt.Sprintf("proof from %q failed to verify", p.VerificationMethod))
		}
	}
	return nil
}

// checkWitnessQuorum resolves the witness-proof set (pre-fetched via
// opts.WitnessProofs, or fetched live via deps.FetchWitnessProofs) and
// verifies quorum for the terminal entry's versionId, per §4.6.
func checkWitnessQuorum(ctx context.Context, did, versionID string, params witness.Params, opts Options, deps Deps, strategy witness.Strategy) error {
	sets := opts.WitnessProofs
	if sets == nil && deps.FetchWitnessProofs != nil {
		fetched, err := deps.FetchWitnessProofs(ctx, did)
		if err != nil {
			return werr.Wrap("resolver.checkWitnessQuorum", werr.KindWitness, err)
		}
		sets = fetched
	}
	return witness.Verify(ctx, versionID, params, sets, deps.Verifier, strategy)
}
