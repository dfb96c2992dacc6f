package encoding

import (
	"encoding/json"
	"fmt"

	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"github.com/gowebpki/jcs"
)

// JCS canonicalizes v per RFC 8785 (the JSON Canonicalization Scheme).
// Every hash-of-JSON in this module goes through this function; nothing may
// substitute a different canonicalizer, since versionId/scid placeholder
// substitution depends on stable, reproducible bytes.
func JCS(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, werr.Wrap("encoding.JCS", werr.KindFormat, fmt.Errorf("marshal: %w", err))
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, werr.Wrap("encoding.JCS", werr.KindFormat, fmt.Errorf("transform: %w", err))
	}
	return canonical, nil
}

// JCSBytes re-canonicalizes an already-marshaled JSON document. Used when the
// caller has textually substituted placeholders into raw JSON (versionId,
// scid) and must not re-marshal through Go structs, which would lose the
// substitution's exact byte positions.
func JCSBytes(raw []byte) ([]byte, error) {
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, werr.Wrap("encoding.JCSBytes", werr.KindFormat, err)
	}
	return canonical, nil
}
