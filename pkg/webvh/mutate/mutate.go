// Package mutate implements the three DID log mutators (§4.7): create,
// update, and deactivate. Each builds the next resolver.LogEntry, signs it
// through an injected proof.Signer, and self-verifies the result by running
// it back through resolver.Resolve — the same engine a remote caller would
// use — before returning it, so a mutator can never hand back an entry that
// would fail its own resolution.
package mutate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dc4eu/didwebvh/pkg/logger"
	"github.com/dc4eu/didwebvh/pkg/webvh/didutil"
	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/dc4eu/didwebvh/pkg/webvh/policy"
	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/resolver"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// DefaultMethod is the protocol version tag entry 1 declares when the
// caller doesn't specify one.
const DefaultMethod = "did:webvh:1.0"

// Deps bundles the collaborators every mutator needs: a Signer to produce
// the entry's proof, a Verifier (and Policy) to self-verify the result via
// resolver.Resolve, and an optional logger.
type Deps struct {
	Signer   proof.Signer
	Verifier proof.Verifier
	Policy   policy.Policy
	Log      *logger.Log
}

func (d Deps) log() *logger.Log {
	if d.Log == nil {
		return logger.NewNop()
	}
	return d.Log
}

func (d Deps) resolverDeps() resolver.Deps {
	return resolver.Deps{Verifier: d.Verifier, Policy: d.Policy, Log: d.Log}
}

// buildDID joins the scid (or its placeholder) with the host-and-path
// segments into a full did:webvh identifier string.
func buildDID(scid string, hostAndPath []string) string {
	return didutil.Prefix + scid + ":" + strings.Join(hostAndPath, ":")
}

// signEntry builds the Data Integrity proof over entry (whose VersionID
// must already be final) and appends it, with the given proof purpose.
func signEntry(ctx context.Context, entry resolver.LogEntry, created time.Time, purpose proof.Purpose, deps Deps) (resolver.LogEntry, error) {
	if deps.Signer == nil {
		return entry, werr.New("mutate.signEntry", werr.KindConfig, "Signer implementation is required")
	}
	template := proof.NewTemplate(deps.Signer.VerificationMethodID(), purpose, created)
	built, err := proof.Build(ctx, entryForProof(entry), template, deps.Signer)
	if err != nil {
		return entry, err
	}
	entry.Proof = []proof.Proof{built}
	return entry, nil
}

// entryWithoutProof is the entry shape hashed for the data half of a
// signing/verifying proof message: identical fields to resolver.LogEntry
// but with the "proof" key entirely absent (not merely null), matching the
// shape resolver.LogEntry.forProof produces on the verification side.
type entryWithoutProof struct {
	VersionID   string              `json:"versionId"`
	VersionTime string              `json:"versionTime"`
	Parameters  resolver.Parameters `json:"parameters"`
	State       document.Document   `json:"state"`
}

// entryForProof mirrors resolver.LogEntry.forProof (unexported there): the
// entry shape hashed for the data half of a signing proof, with proof
// itself absent and versionId left at its final value.
func entryForProof(entry resolver.LogEntry) any {
	return entryWithoutProof{
		VersionID:   entry.VersionID,
		VersionTime: entry.VersionTime,
		Parameters:  entry.Parameters,
		State:       entry.State,
	}
}

// versionID computes "<n>-<hash>" for entry with its own versionId
// placeholder'd, matching resolver's hash-chain derivation exactly (§3.1),
// via the exported resolver.EntryHash.
func versionID(n int, entry resolver.LogEntry) (string, error) {
	hash, err := resolver.EntryHash(entry)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%s", n, hash), nil
}

// selfVerify runs the would-be final log through resolver.Resolve with the
// default (latest) selector, guaranteeing the mutator never hands back a log
// that cannot resolve itself.
func selfVerify(ctx context.Context, log []resolver.LogEntry, deps Deps) (string, *document.Document, resolver.Meta, error) {
	did, doc, meta, err := resolver.Resolve(ctx, log, resolver.Options{}, deps.resolverDeps())
	if err != nil {
		return "", nil, resolver.Meta{}, werr.Wrap("mutate.selfVerify", werr.KindIntegrity, err)
	}
	return did, doc, meta, nil
}
