package encoding

import (
	"fmt"

	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	mh "github.com/multiformats/go-multihash"
	"github.com/multiformats/go-varint"
)

// supportedDecodeAlgorithms lists the multihash codes this module will
// accept when decoding a log or witness file produced elsewhere. Encoding
// always uses SHA-2-256 (mh.SHA2_256); decoding is more permissive per §4.1.
var supportedDecodeAlgorithms = map[uint64]string{
	mh.SHA2_256: "sha2-256",
	mh.SHA2_384: "sha2-384",
	mh.SHA3_256: "sha3-256",
	mh.SHA3_384: "sha3-384",
}

// EncodeMultihashSHA256 frames a 32-byte SHA-2-256 digest as a multihash:
// varint(0x12) || varint(32) || digest.
func EncodeMultihashSHA256(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, werr.New("encoding.EncodeMultihashSHA256", werr.KindFormat,
			fmt.Sprintf("expected 32-byte digest, got %d", len(digest)))
	}
	out := varint.ToUvarint(mh.SHA2_256)
	out = append(out, varint.ToUvarint(uint64(len(digest)))...)
	out = append(out, digest...)
	return out, nil
}

// DecodeMultihash parses a multihash framed value, validating that the
// declared digest length equals the actual remaining bytes and that the
// algorithm is one of the four the spec accepts on decode.
func DecodeMultihash(b []byte) (code uint64, digest []byte, err error) {
	code, n, err := varint.FromUvarint(b)
	if err != nil {
		return 0, nil, werr.Wrap("encoding.DecodeMultihash", werr.KindFormat, fmt.Errorf("algorithm varint: %w", err))
	}
	if _, ok := supportedDecodeAlgorithms[code]; !ok {
		return 0, nil, werr.New("encoding.DecodeMultihash", werr.KindFormat,
			fmt.Sprintf("unsupported multihash algorithm 0x%x", code))
	}
	rest := b[n:]
	length, n2, err := varint.FromUvarint(rest)
	if err != nil {
		return 0, nil, werr.Wrap("encoding.DecodeMultihash", werr.KindFormat, fmt.Errorf("length varint: %w", err))
	}
	rest = rest[n2:]
	if uint64(len(rest)) != length {
		return 0, nil, werr.New("encoding.DecodeMultihash", werr.KindFormat,
			fmt.Sprintf("declared digest length %d does not match actual %d", length, len(rest)))
	}
	return code, rest, nil
}
