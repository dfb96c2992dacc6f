package encoding

// DeriveHashBytes computes base58btc(multihash-sha256(b)) over arbitrary
// bytes. Callers hashing a JSON value should canonicalize with JCS first
// (see DeriveHash); callers hashing a raw key string pass its bytes as-is.
func DeriveHashBytes(canonical []byte) (string, error) {
	digest := Hash(canonical)
	framed, err := EncodeMultihashSHA256(digest[:])
	if err != nil {
		return "", err
	}
	return EncodeBase58BTC(framed)
}

// DeriveHash JCS-canonicalizes v, then computes base58btc(multihash-sha256(jcs(v))).
func DeriveHash(v any) (string, error) {
	canonical, err := JCS(v)
	if err != nil {
		return "", err
	}
	return DeriveHashBytes(canonical)
}

// DeriveNextKeyHash computes base58btc(multihash-sha256(utf8(key))), the
// pre-rotation commitment for a multibase-encoded public key string.
func DeriveNextKeyHash(key string) (string, error) {
	return DeriveHashBytes([]byte(key))
}
