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

// UpdateOptions parameterizes the next entry appended to an existing log
// (§4.7). Deltas carries the parameter changes this entry declares —
// UpdateKeys/NextKeyHashes nil means "unchanged since the prior entry",
// non-nil (including empty) means "replace"; Witness/Watchers follow the
// same WitnessSet/WatchersSet presence convention as resolver.Parameters
// itself, so passing Deltas.WitnessSet=true with Deltas.Witness=nil clears
// an active witness configuration. Deltas.SCID and Deltas.Portable are
// rejected: both are settable only on entry 1.
type UpdateOptions struct {
	Deltas resolver.Parameters

	// VerificationMethods rebuilds the document state for this entry.
	VerificationMethods []document.VerificationMethod
	Document             document.AssembleOptions

	// HostAndPath overrides the DID's host-and-path segments; nil keeps
	// the current ones (only a portable DID may change them).
	HostAndPath []string

	// VersionTime is this entry's versionTime; defaults to time.Now().UTC().
	VersionTime time.Time
}

// Update replays log to find the current state, builds the next entry from
// opts, signs it, appends it, and self-verifies the extended log.
func Update(ctx context.Context, log []resolver.LogEntry, opts UpdateOptions, deps Deps) (did string, doc *document.Document, meta resolver.Meta, newLog []resolver.LogEntry, err error) {
	if opts.Deltas.SCID != "" {
		return "", nil, resolver.Meta{}, nil, werr.New("mutate.Update", werr.KindPolicy, "scid may only be set on entry 1")
	}
	if opts.Deltas.Portable != nil {
		return "", nil, resolver.Meta{}, nil, werr.New("mutate.Update", werr.KindPolicy, "portable may only be set on entry 1")
	}

	_, _, currentMeta, err := resolver.Resolve(ctx, log, resolver.Options{}, deps.resolverDeps())
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	if currentMeta.Deactivated {
		return "", nil, resolver.Meta{}, nil, werr.New("mutate.Update", werr.KindPolicy, "DID is deactivated")
	}

	last := log[len(log)-1]
	hostAndPath := opts.HostAndPath
	if hostAndPath == nil {
		parsed, err := didutil.Parse(last.State.ID)
		if err != nil {
			return "", nil, resolver.Meta{}, nil, err
		}
		hostAndPath = parsed.Segments
	}

	versionTime := opts.VersionTime
	if versionTime.IsZero() {
		versionTime = time.Now().UTC()
	}

	params := opts.Deltas
	params.Method = last.Parameters.Method

	did = buildDID(currentMeta.SCID, hostAndPath)
	state, err := document.Assemble(did, opts.VerificationMethods, opts.Document)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}

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
	deps.log().Debug("updated did", "did", did, "versionId", entry.VersionID)
	return did, doc, meta, newLog, nil
}
