package document_test

import (
	"testing"

	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleAssignsDefaultFragmentID(t *testing.T) {
	did := "did:webvh:abc:example.com"
	doc, err := document.Assemble(did, []document.VerificationMethod{
		{Type: "Multikey", PublicKeyMultibase: "z6MkABCDEFGH12345678"},
	}, document.AssembleOptions{})
	require.NoError(t, err)

	require.Len(t, doc.VerificationMethod, 1)
	assert.Equal(t, did+"#12345678", doc.VerificationMethod[0].ID)
}

func TestAssembleDefaultsPurposeToAuthentication(t *testing.T) {
	did := "did:webvh:abc:example.com"
	doc, err := document.Assemble(did, []document.VerificationMethod{
		{Type: "Multikey", PublicKeyMultibase: "z6MkKEY"},
	}, document.AssembleOptions{})
	require.NoError(t, err)

	assert.Contains(t, doc.Authentication, did+"#z6MkKEY")
	assert.Empty(t, doc.AssertionMethod)
}

func TestAssemblePlacesByPurpose(t *testing.T) {
	did := "did:webvh:abc:example.com"
	doc, err := document.Assemble(did, []document.VerificationMethod{
		{Type: "Multikey", PublicKeyMultibase: "z6MkAUTH", Purpose: document.Authentication},
		{Type: "Multikey", PublicKeyMultibase: "z6MkASSERT", Purpose: document.AssertionMethod},
	}, document.AssembleOptions{})
	require.NoError(t, err)

	assert.Contains(t, doc.Authentication, did+"#z6MkAUTH")
	assert.Contains(t, doc.AssertionMethod, did+"#MkASSERT")
}

func TestAssembleOverrideReplacesDerived(t *testing.T) {
	did := "did:webvh:abc:example.com"
	doc, err := document.Assemble(did, []document.VerificationMethod{
		{Type: "Multikey", PublicKeyMultibase: "z6MkAUTH", Purpose: document.Authentication},
	}, document.AssembleOptions{
		Authentication: []any{"did:webvh:abc:example.com#external-key"},
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"did:webvh:abc:example.com#external-key"}, doc.Authentication)
}

func TestAssembleStripsSecretKeyMaterial(t *testing.T) {
	did := "did:webvh:abc:example.com"
	doc, err := document.Assemble(did, []document.VerificationMethod{
		{Type: "Multikey", PublicKeyMultibase: "z6MkKEY", SecretKeyMultibase: "z2fsecret"},
	}, document.AssembleOptions{})
	require.NoError(t, err)

	assert.Empty(t, doc.VerificationMethod[0].SecretKeyMultibase)
}

func TestAssembleRejectsMissingPublicKey(t *testing.T) {
	_, err := document.Assemble("did:webvh:abc:example.com", []document.VerificationMethod{
		{Type: "Multikey"},
	}, document.AssembleOptions{})
	assert.Error(t, err)
}

func TestWithDefaultServicesAddsFilesAndWhois(t *testing.T) {
	did := "did:webvh:abc:example.com"
	doc, err := document.Assemble(did, []document.VerificationMethod{
		{Type: "Multikey", PublicKeyMultibase: "z6MkKEY"},
	}, document.AssembleOptions{})
	require.NoError(t, err)

	withServices := document.WithDefaultServices(doc, "https://example.com")
	require.Len(t, withServices.Service, 2)
	assert.Equal(t, did+"#files", withServices.Service[0].ID)
	assert.Equal(t, "https://example.com", withServices.Service[0].ServiceEndpoint)
	assert.Equal(t, did+"#whois", withServices.Service[1].ID)
	assert.Equal(t, "https://example.com/whois.vp", withServices.Service[1].ServiceEndpoint)
}

func TestWithDefaultServicesIsIdempotent(t *testing.T) {
	did := "did:webvh:abc:example.com"
	doc, err := document.Assemble(did, nil, document.AssembleOptions{})
	require.NoError(t, err)
	doc.Service = []document.Service{{ID: did + "#files", Type: "LinkedResource", ServiceEndpoint: "https://custom"}}

	withServices := document.WithDefaultServices(doc, "https://example.com")
	require.Len(t, withServices.Service, 2)
	assert.Equal(t, "https://custom", withServices.Service[0].ServiceEndpoint)
}
