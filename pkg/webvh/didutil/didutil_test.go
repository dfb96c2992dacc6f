package didutil_test

import (
	"testing"

	"github.com/dc4eu/didwebvh/pkg/webvh/didutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiresPrefix(t *testing.T) {
	_, err := didutil.Parse("did:web:example.com")
	assert.Error(t, err)
}

func TestParseRequiresHostSegment(t *testing.T) {
	_, err := didutil.Parse("did:webvh:abc")
	assert.Error(t, err)
}

func TestParseSplitsSCIDAndSegments(t *testing.T) {
	d, err := didutil.Parse("did:webvh:abc123:example.com:path:to:doc")
	require.NoError(t, err)
	assert.Equal(t, "abc123", d.SCID)
	assert.Equal(t, []string{"example.com", "path", "to", "doc"}, d.Segments)
}

func TestBaseURLHostOnly(t *testing.T) {
	base, err := didutil.BaseURL("did:webvh:abc123:example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", base)
}

func TestBaseURLWithPath(t *testing.T) {
	base, err := didutil.BaseURL("did:webvh:abc123:example.com:path:to:doc")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/path/to/doc", base)
}

func TestBaseURLLocalhostUsesHTTP(t *testing.T) {
	base, err := didutil.BaseURL("did:webvh:abc123:localhost%3A8080")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", base)
}

func TestBaseURLDecodesEncodedPort(t *testing.T) {
	base, err := didutil.BaseURL("did:webvh:abc123:example.com%3A9000")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:9000", base)
}

func TestFileURLHostOnlyUsesWellKnown(t *testing.T) {
	u, err := didutil.FileURL("did:webvh:abc123:example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/.well-known/did.jsonl", u)
}

func TestFileURLWithPathUsesDidJsonl(t *testing.T) {
	u, err := didutil.FileURL("did:webvh:abc123:example.com:issuer")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/issuer/did.jsonl", u)
}

func TestWitnessURLIsSiblingOfLogFile(t *testing.T) {
	u, err := didutil.WitnessURL("did:webvh:abc123:example.com")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/.well-known/did-witness.json", u)
}

func TestCreateSCIDIsIdentity(t *testing.T) {
	assert.Equal(t, "zQm123", didutil.CreateSCID("zQm123"))
}
