package mutate

import (
	"context"
	"time"

	"github.com/dc4eu/didwebvh/pkg/webvh/didutil"
	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/resolver"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// DeactivateOptions parameterizes the terminal entry of a did:webvh log
// (§4.7). UpdateKeys, if set, performs the one rotation a deactivating
// entry is still permitted: signing with the outgoing key set while
// declaring the set that (vacuously) authorizes this final entry. No other
// parameter may change.
type DeactivateOptions struct {
	UpdateKeys  []string
	VersionTime time.Time
}

// Deactivate appends a terminal entry with parameters.deactivated=true,
// latching the DID permanently per §4.5's deactivated state machine.
func Deactivate(ctx context.Context, log []resolver.LogEntry, opts DeactivateOptions, deps Deps) (did string, doc *document.Document, meta resolver.Meta, newLog []resolver.LogEntry, err error) {
	_, _, currentMeta, err := resolver.Resolve(ctx, log, resolver.Options{}, deps.resolverDeps())
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	if currentMeta.Deactivated {
		return "", nil, resolver.Meta{}, nil, werr.New("mutate.Deactivate", werr.KindPolicy, "DID is already deactivated")
	}

	last := log[len(log)-1]
	versionTime := opts.VersionTime
	if versionTime.IsZero() {
		versionTime = time.Now().UTC()
	}

	deactivated := true
	params := resolver.Parameters{
		Method:      last.Parameters.Method,
		Deactivated: &deactivated,
	}
	if opts.UpdateKeys != nil {
		params.UpdateKeys = opts.UpdateKeys
	}

	parsed, err := didutil.Parse(last.State.ID)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	did = buildDID(currentMeta.SCID, parsed.Segments)
	state, err := document.Assemble(did, nil, document.AssembleOptions{})
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	// A deactivated document retains its last verification methods and
	// relationship arrays rather than an empty one; copy the prior state's
	// key material forward unchanged.
	state.VerificationMethod = last.State.VerificationMethod
	state.Authentication = last.State.Authentication
	state.AssertionMethod = last.State.AssertionMethod
	state.KeyAgreement = last.State.KeyAgreement
	state.CapabilityInvocation = last.State.CapabilityInvocation
	state.CapabilityDelegation = last.State.CapabilityDelegation

	entry := resolver.LogEntry{
		VersionID:   didutil.PlaceholderVersionID,
		VersionTime: versionTime.Format(time.RFC3339),
		Parameters:  params,
		State:       *state,
	}

	vid, err := versionID(len(log)+1, entry)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	entry.VersionID = vid

	entry, err = signEntry(ctx, entry, versionTime, proof.PurposeAuthentication, deps)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}

	newLog = append(append([]resolver.LogEntry(nil), log...), entry)
	did, doc, meta, err = selfVerify(ctx, newLog, deps)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	deps.log().Debug("deactivated did", "did", did)
	return did, doc, meta, newLog, nil
}

