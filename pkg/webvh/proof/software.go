package proof

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"strings"
	"time"

	"github.com/dc4eu/didwebvh/pkg/webvh/encoding"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// Ed25519 multicodec prefixes, per §4.1's key-encoding convention.
var (
	ed25519PublicPrefix  = []byte{0xED, 0x01}
	ed25519SecretPrefix  = []byte{0x80, 0x26}
)

// EncodeMultikeyEd25519 multibase-encodes an Ed25519 public key as
// base58btc(0xED 0x01 || publicKey).
func EncodeMultikeyEd25519(pub ed25519.PublicKey) (string, error) {
	buf := append(append([]byte{}, ed25519PublicPrefix...), pub...)
	return encoding.EncodeBase58BTC(buf)
}

// DecodeMultikeyEd25519 decodes a multibase-encoded Ed25519 public key,
// validating the 0xED 0x01 multicodec prefix. Mirrors the teacher's
// pkg/keyresolver decodeMultikeyEd25519, generalized to the Multikey
// convention the core uses throughout.
func DecodeMultikeyEd25519(s string) (ed25519.PublicKey, error) {
	decoded, err := encoding.DecodeBase58BTC(s)
	if err != nil {
		return nil, err
	}
	if len(decoded) != 2+ed25519.PublicKeySize {
		return nil, werr.New("proof.DecodeMultikeyEd25519", werr.KindCrypto,
			fmt.Sprintf("expected %d-byte multikey, got %d", 2+ed25519.PublicKeySize, len(decoded)))
	}
	if decoded[0] != ed25519PublicPrefix[0] || decoded[1] != ed25519PublicPrefix[1] {
		return nil, werr.New("proof.DecodeMultikeyEd25519", werr.KindCrypto,
			fmt.Sprintf("not an Ed25519 multikey: multicodec 0x%02x%02x", decoded[0], decoded[1]))
	}
	return ed25519.PublicKey(decoded[2:]), nil
}

// EncodeMultikeySecretEd25519 multibase-encodes an Ed25519 secret key as
// base58btc(0x80 0x26 || secretKey).
func EncodeMultikeySecretEd25519(priv ed25519.PrivateKey) (string, error) {
	buf := append(append([]byte{}, ed25519SecretPrefix...), priv...)
	return encoding.EncodeBase58BTC(buf)
}

// DecodeMultikeySecretEd25519 decodes a multibase-encoded Ed25519 secret key.
func DecodeMultikeySecretEd25519(s string) (ed25519.PrivateKey, error) {
	decoded, err := encoding.DecodeBase58BTC(s)
	if err != nil {
		return nil, err
	}
	if len(decoded) != 2+ed25519.PrivateKeySize {
		return nil, werr.New("proof.DecodeMultikeySecretEd25519", werr.KindCrypto,
			fmt.Sprintf("expected %d-byte multikey, got %d", 2+ed25519.PrivateKeySize, len(decoded)))
	}
	if decoded[0] != ed25519SecretPrefix[0] || decoded[1] != ed25519SecretPrefix[1] {
		return nil, werr.New("proof.DecodeMultikeySecretEd25519", werr.KindCrypto, "not an Ed25519 secret multikey")
	}
	return ed25519.PrivateKey(decoded[2:]), nil
}

// ResolveDIDKey extracts the raw Ed25519 public key embedded in a did:key
// verification method id ("did:key:<mb>" or "did:key:<mb>#<mb>"), used both
// for update-key authorization and witness resolution: neither dereferences
// an external document, since the key is self-describing.
func ResolveDIDKey(didKeyID string) (ed25519.PublicKey, error) {
	if !strings.HasPrefix(didKeyID, "did:key:") {
		return nil, werr.New("proof.ResolveDIDKey", werr.KindFormat, fmt.Sprintf("%q is not a did:key id", didKeyID))
	}
	mb := strings.TrimPrefix(didKeyID, "did:key:")
	if idx := strings.Index(mb, "#"); idx >= 0 {
		mb = mb[:idx]
	}
	return DecodeMultikeyEd25519(mb)
}

// SoftwareEd25519 implements both Signer and Verifier over an in-memory
// Ed25519 keypair. Modeled on the teacher's pkg/signing.SoftwareSigner,
// reduced to the single cryptosuite (eddsa-jcs-2022) this module's mutators
// target.
type SoftwareEd25519 struct {
	verificationMethodID string
	public                ed25519.PublicKey
	private               ed25519.PrivateKey
}

// NewSoftwareEd25519Signer creates a Signer bound to a verification method
// id and a private key.
func NewSoftwareEd25519Signer(verificationMethodID string, private ed25519.PrivateKey) *SoftwareEd25519 {
	return &SoftwareEd25519{
		verificationMethodID: verificationMethodID,
		private:              private,
	}
}

// NewSoftwareEd25519Verifier creates a Verifier that holds no key of its
// own; Verify checks against the publicKey argument the caller passes.
func NewSoftwareEd25519Verifier() *SoftwareEd25519 {
	return &SoftwareEd25519{}
}

// Sign implements Signer.
func (s *SoftwareEd25519) Sign(_ context.Context, message []byte, template Proof) (string, error) {
	if s.private == nil {
		return "", werr.New("proof.SoftwareEd25519.Sign", werr.KindConfig, "no private key configured")
	}
	if template.Cryptosuite != "" && template.Cryptosuite != "eddsa-jcs-2022" {
		return "", werr.New("proof.SoftwareEd25519.Sign", werr.KindCrypto,
			fmt.Sprintf("unsupported cryptosuite %q", template.Cryptosuite))
	}
	sig := ed25519.Sign(s.private, message)
	return encoding.EncodeBase58BTC(sig)
}

// VerificationMethodID implements Signer.
func (s *SoftwareEd25519) VerificationMethodID() string {
	return s.verificationMethodID
}

// Verify implements Verifier.
func (s *SoftwareEd25519) Verify(_ context.Context, signature, message, publicKey []byte) (bool, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return false, werr.New("proof.SoftwareEd25519.Verify", werr.KindCrypto,
			fmt.Sprintf("expected %d-byte Ed25519 public key, got %d", ed25519.PublicKeySize, len(publicKey)))
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature), nil
}

// NewTemplate builds a bare proof template (no proofValue) with Created
// defaulting to now, ready for Build.
func NewTemplate(verificationMethodID string, purpose Purpose, created time.Time) Proof {
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return Proof{
		Type:               TypeDataIntegrity,
		Cryptosuite:        "eddsa-jcs-2022",
		VerificationMethod: verificationMethodID,
		Created:            created.UTC().Format(time.RFC3339),
		ProofPurpose:       purpose,
	}
}
