// Package didutil implements the did:webvh identifier syntax: parsing,
// percent/IDN-aware base-URL and log-URL derivation, and the small set of
// hash-derived values (SCID, next-key-hash commitments) the resolver and
// mutators depend on.
package didutil

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// Prefix is the did:webvh method prefix.
const Prefix = "did:webvh:"

// DID is a parsed did:webvh identifier: did:webvh:<SCID>:<segments...>.
type DID struct {
	// SCID is the self-certifying identifier, the placeholder "{SCID}"
	// during entry-1 draft construction.
	SCID string

	// Segments are the colon-separated host-and-path segments following
	// the SCID, still percent-encoded exactly as they appear in the DID
	// string.
	Segments []string
}

// String reassembles the DID identifier.
func (d DID) String() string {
	return Prefix + d.SCID + ":" + strings.Join(d.Segments, ":")
}

// Parse validates and decomposes a did:webvh identifier. It requires the
// did:webvh: prefix and at least one segment after the SCID (host, plus
// zero or more path segments).
func Parse(did string) (DID, error) {
	if !strings.HasPrefix(did, Prefix) {
		return DID{}, werr.New("didutil.Parse", werr.KindFormat, fmt.Sprintf("missing %q prefix", Prefix))
	}
	parts := strings.Split(did, ":")
	// ["did", "webvh", scid, host, ...path]
	if len(parts) < 4 {
		return DID{}, werr.New("didutil.Parse", werr.KindFormat, "did:webvh requires a scid and at least one host segment")
	}
	scid := parts[2]
	if scid == "" {
		return DID{}, werr.New("didutil.Parse", werr.KindFormat, "empty scid")
	}
	segments := parts[3:]
	for _, seg := range segments {
		if seg == "" {
			return DID{}, werr.New("didutil.Parse", werr.KindFormat, "empty did:webvh segment")
		}
	}
	return DID{SCID: scid, Segments: segments}, nil
}

// LastSegment returns the last colon-separated segment of a did:webvh
// identifier, the value §4.5's portability gate compares across log entries.
func LastSegment(did string) (string, error) {
	d, err := Parse(did)
	if err != nil {
		return "", err
	}
	return d.Segments[len(d.Segments)-1], nil
}

// percentDecodeSegment decodes %XX escapes (notably %3A for a literal colon
// inside a host, e.g. a port separator) within a single colon-delimited
// segment.
func percentDecodeSegment(seg string) (string, error) {
	decoded, err := url.PathUnescape(seg)
	if err != nil {
		return "", werr.Wrap("didutil.percentDecodeSegment", werr.KindFormat, err)
	}
	return decoded, nil
}
