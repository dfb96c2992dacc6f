package encoding

import (
	"fmt"

	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	mb "github.com/multiformats/go-multibase"
)

// EncodeBase58BTC multibase-encodes b with the 'z' (base58btc) prefix, the
// encoding used throughout did:webvh for keys, hashes, and signatures.
func EncodeBase58BTC(b []byte) (string, error) {
	s, err := mb.Encode(mb.Base58BTC, b)
	if err != nil {
		return "", werr.Wrap("encoding.EncodeBase58BTC", werr.KindFormat, err)
	}
	return s, nil
}

// EncodeBase64URL multibase-encodes b with the 'u' (base64url, no padding)
// prefix.
func EncodeBase64URL(b []byte) (string, error) {
	s, err := mb.Encode(mb.Base64url, b)
	if err != nil {
		return "", werr.Wrap("encoding.EncodeBase64URL", werr.KindFormat, err)
	}
	return s, nil
}

// DecodeMultibase decodes a multibase string, returning the base encoding
// used and the raw bytes.
func DecodeMultibase(s string) (mb.Encoding, []byte, error) {
	if s == "" {
		return 0, nil, werr.New("encoding.DecodeMultibase", werr.KindFormat, "empty multibase string")
	}
	enc, data, err := mb.Decode(s)
	if err != nil {
		return 0, nil, werr.Wrap("encoding.DecodeMultibase", werr.KindFormat, fmt.Errorf("%q: %w", s, err))
	}
	return enc, data, nil
}

// DecodeBase58BTC decodes a multibase string, requiring the 'z' prefix.
func DecodeBase58BTC(s string) ([]byte, error) {
	enc, data, err := DecodeMultibase(s)
	if err != nil {
		return nil, err
	}
	if enc != mb.Base58BTC {
		return nil, werr.New("encoding.DecodeBase58BTC", werr.KindFormat,
			fmt.Sprintf("expected base58btc ('z') prefix, got encoding %v", enc))
	}
	return data, nil
}
