package resolver_test

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/dc4eu/didwebvh/pkg/webvh/encoding"
	"github.com/dc4eu/didwebvh/pkg/webvh/mutate"
	"github.com/dc4eu/didwebvh/pkg/webvh/policy"
	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/resolver"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"github.com/dc4eu/didwebvh/pkg/webvh/witness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testKey struct {
	mb   string
	priv ed25519.PrivateKey
}

func newTestKey(t *testing.T) testKey {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	mb, err := proof.EncodeMultikeyEd25519(pub)
	require.NoError(t, err)
	return testKey{mb: mb, priv: priv}
}

func (k testKey) signer() proof.Signer {
	return proof.NewSoftwareEd25519Signer("did:key:"+k.mb, k.priv)
}

func resolverDeps() resolver.Deps {
	return resolver.Deps{Verifier: proof.NewSoftwareEd25519Verifier()}
}

// TestScenarioSingleEntryResolves covers S1: a freshly created one-entry
// log resolves to its own genesis document.
func TestScenarioSingleEntryResolves(t *testing.T) {
	k1 := newTestKey(t)
	_, want, _, log, err := mutate.Create(context.Background(), mutate.CreateOptions{
		HostAndPath: []string{"example.com"},
		UpdateKeys:  []string{k1.mb},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)

	did, doc, meta, err := resolver.Resolve(context.Background(), log, resolver.Options{}, resolverDeps())
	require.NoError(t, err)
	assert.Equal(t, want.ID, did)
	assert.Equal(t, want.ID, doc.ID)
	assert.Equal(t, 1, countEntries(meta.VersionID))
}

// TestScenarioUpdateChainsHash covers S2: a second entry built from the
// first resolves to the updated state and the hash chain links correctly.
func TestScenarioUpdateChainsHash(t *testing.T) {
	k1 := newTestKey(t)
	_, _, _, log := mustCreate(t, k1)

	_, _, meta, log, err := mutate.Update(context.Background(), log, mutate.UpdateOptions{
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		Document:    document.AssembleOptions{AlsoKnownAs: []string{"https://alias.example.com"}},
		VersionTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)
	assert.Equal(t, 2, countEntries(meta.VersionID))

	_, doc, _, err := resolver.Resolve(context.Background(), log, resolver.Options{}, resolverDeps())
	require.NoError(t, err)
	assert.Contains(t, doc.AlsoKnownAs, "https://alias.example.com")
}

// TestScenarioPreRotationRejectsUncommittedKey covers S3: an update signed
// and declared with a key that was never committed via nextKeyHashes fails
// hash-chain-independent pre-rotation validation.
func TestScenarioPreRotationRejectsUncommittedKey(t *testing.T) {
	k1 := newTestKey(t)
	k2 := newTestKey(t)
	kRogue := newTestKey(t)

	nextHash, err := encoding.DeriveNextKeyHash(k2.mb)
	require.NoError(t, err)

	_, _, _, log, err := mutate.Create(context.Background(), mutate.CreateOptions{
		HostAndPath:   []string{"example.com"},
		UpdateKeys:    []string{k1.mb},
		NextKeyHashes: []string{nextHash},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)

	_, _, _, _, err = mutate.Update(context.Background(), log, mutate.UpdateOptions{
		Deltas: resolver.Parameters{UpdateKeys: []string{kRogue.mb}},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: kRogue.mb},
		},
		VersionTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.Error(t, err)
}

// TestScenarioNonPortableProhibitsHostChange covers S4.
func TestScenarioNonPortableProhibitsHostChange(t *testing.T) {
	k1 := newTestKey(t)
	_, _, _, log := mustCreate(t, k1)

	_, _, _, _, err := mutate.Update(context.Background(), log, mutate.UpdateOptions{
		HostAndPath: []string{"other.example.com"},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		VersionTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.Error(t, err)
	assert.True(t, werr.Is(err, werr.KindIntegrity) || werr.Is(err, werr.KindPolicy))
}

// TestScenarioWitnessQuorumGatesResolution covers S5: a log whose terminal
// entry declares an active witness parameter fails to resolve without a
// satisfying witness proof set, and succeeds once quorum is met.
func TestScenarioWitnessQuorumGatesResolution(t *testing.T) {
	k1 := newTestKey(t)
	w1 := newTestKey(t)
	w1ID := "did:key:" + w1.mb

	_, _, _, log, err := mutate.Create(context.Background(), mutate.CreateOptions{
		HostAndPath: []string{"example.com"},
		UpdateKeys:  []string{k1.mb},
		Witness: &witness.Params{
			Threshold: 1,
			Witnesses: []witness.Entry{{ID: w1ID}},
		},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)

	_, _, _, err = resolver.Resolve(context.Background(), log, resolver.Options{}, resolverDeps())
	require.Error(t, err)
	assert.True(t, werr.Is(err, werr.KindWitness))

	witnessTemplate := proof.NewTemplate(w1ID, proof.PurposeAuthentication, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	witnessProof, err := proof.Build(context.Background(), map[string]string{"versionId": log[0].VersionID}, witnessTemplate, proof.NewSoftwareEd25519Signer(w1ID, w1.priv))
	require.NoError(t, err)

	_, _, _, err = resolver.Resolve(context.Background(), log, resolver.Options{
		WitnessProofs: []witness.ProofSetEntry{
			{VersionID: log[0].VersionID, Proof: []proof.Proof{witnessProof}},
		},
	}, resolverDeps())
	require.NoError(t, err)
}

// TestScenarioDeactivationLatchesLog covers S6: once deactivated, a further
// appended entry makes the whole log fail to resolve.
func TestScenarioDeactivationLatchesLog(t *testing.T) {
	k1 := newTestKey(t)
	_, _, _, log := mustCreate(t, k1)

	_, _, meta, log, err := mutate.Deactivate(context.Background(), log, mutate.DeactivateOptions{
		VersionTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)
	assert.True(t, meta.Deactivated)

	_, _, _, err = resolver.Resolve(context.Background(), log, resolver.Options{}, resolverDeps())
	require.NoError(t, err)

	rogueEntry := log[len(log)-1]
	rogueEntry.VersionID = "3-bogus"
	brokenLog := append(append([]resolver.LogEntry(nil), log...), rogueEntry)
	_, _, _, err = resolver.Resolve(context.Background(), brokenLog, resolver.Options{}, resolverDeps())
	require.Error(t, err)
	assert.True(t, werr.Is(err, werr.KindPolicy))
}

func TestResolveRejectsEmptyLog(t *testing.T) {
	_, _, _, err := resolver.Resolve(context.Background(), nil, resolver.Options{}, resolverDeps())
	require.Error(t, err)
	assert.True(t, werr.Is(err, werr.KindNotFound))
}

func TestResolveRequiresVerifier(t *testing.T) {
	k1 := newTestKey(t)
	_, _, _, log := mustCreate(t, k1)
	_, _, _, err := resolver.Resolve(context.Background(), log, resolver.Options{}, resolver.Deps{})
	require.Error(t, err)
	assert.True(t, werr.Is(err, werr.KindConfig))
}

func TestResolveByVersionNumberReturnsHistoricalState(t *testing.T) {
	k1 := newTestKey(t)
	did1, doc1, _, log := mustCreate(t, k1)
	_, _, _, log, err := mutate.Update(context.Background(), log, mutate.UpdateOptions{
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		Document:    document.AssembleOptions{AlsoKnownAs: []string{"https://alias.example.com"}},
		VersionTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)

	did, doc, _, err := resolver.Resolve(context.Background(), log, resolver.Options{VersionNumber: 1}, resolverDeps())
	require.NoError(t, err)
	assert.Equal(t, did1, did)
	assert.Equal(t, doc1.ID, doc.ID)
	assert.NotContains(t, doc.AlsoKnownAs, "https://alias.example.com")
}

func TestResolveHashChainTamperDetected(t *testing.T) {
	k1 := newTestKey(t)
	_, _, _, log := mustCreate(t, k1)
	log[0].VersionTime = time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

	_, _, _, err := resolver.Resolve(context.Background(), log, resolver.Options{}, resolverDeps())
	require.Error(t, err)
	assert.True(t, werr.Is(err, werr.KindIntegrity))
}

func mustCreate(t *testing.T, k1 testKey) (string, *document.Document, resolver.Meta, []resolver.LogEntry) {
	t.Helper()
	did, doc, meta, log, err := mutate.Create(context.Background(), mutate.CreateOptions{
		HostAndPath: []string{"example.com"},
		UpdateKeys:  []string{k1.mb},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)
	return did, doc, meta, log
}

func countEntries(versionID string) int {
	n := 0
	for i := 0; i < len(versionID) && versionID[i] != '-'; i++ {
		n = n*10 + int(versionID[i]-'0')
	}
	return n
}

// TestResolvePolicyBypassAllowsUncommittedPreRotationKey confirms that
// IgnoreAssertionNewKeysAreValid is honored, and that it is not the
// default — policy.Strict (the zero value) rejects the same log, signed
// by a key that was declared but never committed via nextKeyHashes.
func TestResolvePolicyBypassAllowsUncommittedPreRotationKey(t *testing.T) {
	k1 := newTestKey(t)
	k2 := newTestKey(t)
	kRogue := newTestKey(t)

	committedHash, err := encoding.DeriveNextKeyHash(k2.mb)
	require.NoError(t, err)

	_, _, _, log, err := mutate.Create(context.Background(), mutate.CreateOptions{
		HostAndPath:   []string{"example.com"},
		UpdateKeys:    []string{k1.mb},
		NextKeyHashes: []string{committedHash},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: k1.mb},
		},
		Created: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: k1.signer(), Verifier: proof.NewSoftwareEd25519Verifier()})
	require.NoError(t, err)

	_, _, _, log, err = mutate.Update(context.Background(), log, mutate.UpdateOptions{
		Deltas: resolver.Parameters{UpdateKeys: []string{kRogue.mb}},
		VerificationMethods: []document.VerificationMethod{
			{Type: "Multikey", PublicKeyMultibase: kRogue.mb},
		},
		VersionTime: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, mutate.Deps{Signer: kRogue.signer(), Verifier: proof.NewSoftwareEd25519Verifier(), Policy: policy.Policy{IgnoreAssertionNewKeysAreValid: true}})
	require.NoError(t, err)

	_, _, _, err = resolver.Resolve(context.Background(), log, resolver.Options{}, resolver.Deps{
		Verifier: proof.NewSoftwareEd25519Verifier(),
		Policy:   policy.Strict,
	})
	require.Error(t, err)
	assert.True(t, werr.Is(err, werr.KindPolicy))

	_, _, _, err = resolver.Resolve(context.Background(), log, resolver.Options{}, resolver.Deps{
		Verifier: proof.NewSoftwareEd25519Verifier(),
		Policy:   policy.Policy{IgnoreAssertionNewKeysAreValid: true},
	})
	require.NoError(t, err)
}
