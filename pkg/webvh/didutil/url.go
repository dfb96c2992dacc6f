package didutil

import (
	"fmt"
	"strings"

	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"golang.org/x/net/idna"
)

// BaseURL derives the web location a did:webvh identifier resolves against:
// percent-decode the host-and-path segments, IDN-normalize the host label to
// ASCII (punycode), and choose http for localhost, https otherwise.
func BaseURL(did string) (string, error) {
	d, err := Parse(did)
	if err != nil {
		return "", err
	}

	hostSeg, err := percentDecodeSegment(d.Segments[0])
	if err != nil {
		return "", err
	}

	host, port, hasPort := strings.Cut(hostSeg, ":")
	asciiHost, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", werr.Wrap("didutil.BaseURL", werr.KindFormat, fmt.Errorf("idna: %w", err))
	}

	scheme := "https"
	if asciiHost == "localhost" {
		scheme = "http"
	}

	hostport := asciiHost
	if hasPort {
		hostport = asciiHost + ":" + port
	}

	var pathSegs []string
	for _, seg := range d.Segments[1:] {
		decoded, err := percentDecodeSegment(seg)
		if err != nil {
			return "", err
		}
		pathSegs = append(pathSegs, decoded)
	}

	base := scheme + "://" + hostport
	if len(pathSegs) > 0 {
		base += "/" + strings.Join(pathSegs, "/")
	}
	return base, nil
}

// FileURL returns the did.jsonl log URL for a did:webvh identifier: a
// host-only DID (no path segments) resolves under /.well-known/, a DID with
// a path resolves the log alongside that path.
func FileURL(did string) (string, error) {
	d, err := Parse(did)
	if err != nil {
		return "", err
	}
	base, err := BaseURL(did)
	if err != nil {
		return "", err
	}
	if len(d.Segments) == 1 {
		return base + "/.well-known/did.jsonl", nil
	}
	return base + "/did.jsonl", nil
}

// WitnessURL returns the did-witness.json URL, the sibling of the log file.
func WitnessURL(did string) (string, error) {
	logURL, err := FileURL(did)
	if err != nil {
		return "", err
	}
	dir := logURL[:strings.LastIndex(logURL, "/")]
	return dir + "/did-witness.json", nil
}
