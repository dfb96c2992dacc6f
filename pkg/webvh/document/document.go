// Package document assembles and normalizes W3C DID documents for did:webvh:
// verification-method placement, the five relationship arrays, and the
// default #files/#whois service endpoints materialized on resolution.
package document

import (
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// Relationship names a verification-relationship array.
type Relationship string

const (
	Authentication       Relationship = "authentication"
	AssertionMethod      Relationship = "assertionMethod"
	KeyAgreement         Relationship = "keyAgreement"
	CapabilityInvocation Relationship = "capabilityInvocation"
	CapabilityDelegation Relationship = "capabilityDelegation"
)

// Context is the default DID document @context.
var Context = []string{
	"https://www.w3.org/ns/did/v1",
	"https://w3id.org/security/multikey/v1",
}

// VerificationMethod is a public-key descriptor. Purpose is caller-side
// metadata driving relationship-array placement; it is never itself
// serialized onto the document (json:"-").
type VerificationMethod struct {
	ID                 string       `json:"id,omitempty"`
	Type               string       `json:"type"`
	Controller         string       `json:"controller,omitempty"`
	PublicKeyMultibase string       `json:"publicKeyMultibase"`
	SecretKeyMultibase string       `json:"secretKeyMultibase,omitempty"`
	Purpose            Relationship `json:"-"`
}

// Public returns a copy of vm with secret key material stripped, the form
// that may be embedded into a document or log entry.
func (vm VerificationMethod) Public() VerificationMethod {
	vm.SecretKeyMultibase = ""
	return vm
}

// Service is a DID document service endpoint.
type Service struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Document is a W3C DID document, field order matching §3.1.
type Document struct {
	Context              []string              `json:"@context"`
	ID                   string                `json:"id"`
	Controller           string                `json:"controller,omitempty"`
	AlsoKnownAs          []string              `json:"alsoKnownAs,omitempty"`
	Authentication       []any                 `json:"authentication,omitempty"`
	AssertionMethod      []any                 `json:"assertionMethod,omitempty"`
	KeyAgreement         []any                 `json:"keyAgreement,omitempty"`
	CapabilityInvocation []any                 `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []any                 `json:"capabilityDelegation,omitempty"`
	VerificationMethod   []VerificationMethod  `json:"verificationMethod,omitempty"`
	Service              []Service             `json:"service,omitempty"`
}

// AssembleOptions overrides the relationship arrays and alsoKnownAs that
// Assemble would otherwise derive from each VM's Purpose.
type AssembleOptions struct {
	AlsoKnownAs          []string
	Authentication       []any
	AssertionMethod      []any
	KeyAgreement         []any
	CapabilityInvocation []any
	CapabilityDelegation []any
}

// Assemble builds a Document from a controller DID and a list of
// verification methods, per §4.3:
//   - a VM with no ID gets one assigned: "<did>#<last-8-chars-of-publicKeyMultibase>"
//   - each VM's Purpose places its fragment into the matching relationship
//     array; a VM with no Purpose defaults to authentication
//   - explicit overrides in opts replace the derived array wholesale
func Assemble(did string, vms []VerificationMethod, opts AssembleOptions) (*Document, error) {
	doc := &Document{
		Context:    append([]string(nil), Context...),
		ID:         did,
		Controller: did,
	}

	byRelationship := map[Relationship][]any{}

	resolved := make([]VerificationMethod, 0, len(vms))
	for _, vm := range vms {
		if vm.PublicKeyMultibase == "" {
			return nil, werr.New("document.Assemble", werr.KindFormat, "verification method missing publicKeyMultibase")
		}
		if vm.ID == "" {
			vm.ID = did + "#" + lastN(vm.PublicKeyMultibase, 8)
		}
		if vm.Controller == "" {
			vm.Controller = did
		}
		purpose := vm.Purpose
		if purpose == "" {
			purpose = Authentication
		}
		byRelationship[purpose] = append(byRelationship[purpose], vm.ID)
		resolved = append(resolved, vm.Public())
	}
	doc.VerificationMethod = resolved

	doc.Authentication = orOverride(opts.Authentication, byRelationship[Authentication])
	doc.AssertionMethod = orOverride(opts.AssertionMethod, byRelationship[AssertionMethod])
	doc.KeyAgreement = orOverride(opts.KeyAgreement, byRelationship[KeyAgreement])
	doc.CapabilityInvocation = orOverride(opts.CapabilityInvocation, byRelationship[CapabilityInvocation])
	doc.CapabilityDelegation = orOverride(opts.CapabilityDelegation, byRelationship[CapabilityDelegation])
	doc.AlsoKnownAs = opts.AlsoKnownAs

	return doc, nil
}

// orOverride returns override if the caller supplied one, else derived.
func orOverride(override, derived []any) []any {
	if override != nil {
		return override
	}
	return derived
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// WithDefaultServices returns a copy of doc with the #files and #whois
// service endpoints added, if not already present. Called unconditionally
// during resolution finalization (§4.5 step 4).
func WithDefaultServices(doc *Document, baseURL string) *Document {
	out := *doc
	out.Service = append([]Service(nil), doc.Service...)

	has := func(id string) bool {
		for _, s := range out.Service {
			if s.ID == id {
				return true
			}
		}
		return false
	}

	filesID := out.ID + "#files"
	if !has(filesID) {
		out.Service = append(out.Service, Service{
			ID:              filesID,
			Type:            "LinkedResource",
			ServiceEndpoint: baseURL,
		})
	}

	whoisID := out.ID + "#whois"
	if !has(whoisID) {
		out.Service = append(out.Service, Service{
			ID:              whoisID,
			Type:            "LinkedVerifiablePresentation",
			ServiceEndpoint: baseURL + "/whois.vp",
		})
	}

	return &out
}
