// Package proof defines the Data Integrity proof shape (§6.5), the
// Signer/Verifier capabilities the core delegates cryptography to (§4.4),
// and a proof-construction helper shared by mutators and the resolver.
package proof

import (
	"context"

	"github.com/dc4eu/didwebvh/pkg/webvh/encoding"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// TypeDataIntegrity is the sole proof type this module produces or accepts.
const TypeDataIntegrity = "DataIntegrityProof"

// Purpose names a proofPurpose value.
type Purpose string

const (
	PurposeAuthentication  Purpose = "authentication"
	PurposeAssertionMethod Purpose = "assertionMethod"
)

// Proof is a Data Integrity proof, per §6.5.
type Proof struct {
	Type                string  `json:"type"`
	Cryptosuite         string  `json:"cryptosuite"`
	VerificationMethod  string  `json:"verificationMethod"`
	Created             string  `json:"created"`
	ProofPurpose        Purpose `json:"proofPurpose"`
	ProofValue          string  `json:"proofValue,omitempty"`
}

// template returns the proof with ProofValue cleared, the form that gets
// JCS-canonicalized and hashed on both the signing and verifying sides.
func (p Proof) template() Proof {
	p.ProofValue = ""
	return p
}

// Signer produces proofValue for a prepared message. The core, not the
// signer, is responsible for canonicalizing the document and the proof
// template and concatenating their hashes (proofHash || docHash); the signer
// only ever sees that final message plus enough of the template to pick a
// key.
type Signer interface {
	// Sign signs message and returns the multibase-encoded signature to
	// store as proofValue.
	Sign(ctx context.Context, message []byte, template Proof) (proofValue string, err error)

	// VerificationMethodID returns the id this signer signs with, used to
	// populate Proof.VerificationMethod.
	VerificationMethodID() string
}

// Verifier is a stateless signature-verification capability. The core
// extracts the public key from a resolved verification method and composes
// message identically to how Signer.Sign received it.
type Verifier interface {
	Verify(ctx context.Context, signature, message, publicKey []byte) (bool, error)
}

// Build constructs a complete Proof over doc (any JSON-marshalable value,
// already excluding any existing "proof" field) using signer, stamping
// template.Created/VerificationMethod/ProofPurpose/Cryptosuite/Type as given.
func Build(ctx context.Context, doc any, template Proof, signer Signer) (Proof, error) {
	message, err := message(doc, template)
	if err != nil {
		return Proof{}, err
	}

	proofValue, err := signer.Sign(ctx, message, template)
	if err != nil {
		return Proof{}, werr.Wrap("proof.Build", werr.KindCrypto, err)
	}

	out := template
	out.ProofValue = proofValue
	return out, nil
}

// Verify checks p against doc (excluding "proof") using the given verifier
// and raw public key bytes.
func Verify(ctx context.Context, doc any, p Proof, publicKey []byte, verifier Verifier) (bool, error) {
	sig, err := encoding.DecodeBase58BTC(p.ProofValue)
	if err != nil {
		return false, err
	}

	message, err := message(doc, p.template())
	if err != nil {
		return false, err
	}

	ok, err := verifier.Verify(ctx, sig, message, publicKey)
	if err != nil {
		return false, werr.Wrap("proof.Verify", werr.KindCrypto, err)
	}
	return ok, nil
}

// message canonicalizes doc and the proof template, hashes each, and
// concatenates proofHash || docHash, the exact input both signing and
// verifying operate on.
func message(doc any, template Proof) ([]byte, error) {
	docCanonical, err := encoding.JCS(doc)
	if err != nil {
		return nil, err
	}
	proofCanonical, err := encoding.JCS(template)
	if err != nil {
		return nil, err
	}

	docHash := encoding.Hash(docCanonical)
	proofHash := encoding.Hash(proofCanonical)

	out := make([]byte, 0, 64)
	out = append(out, proofHash[:]...)
	out = append(out, docHash[:]...)
	return out, nil
}
