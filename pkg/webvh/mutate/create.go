package mutate

import (
	"context"
	"time"

	"github.com/dc4eu/didwebvh/pkg/webvh/didutil"
	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/resolver"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"github.com/dc4eu/didwebvh/pkg/webvh/witness"
)

// CreateOptions parameterizes entry 1 of a new did:webvh log (§4.7).
type CreateOptions struct {
	// HostAndPath is the DID's host-and-path segments, e.g.
	// []string{"example.com"} or []string{"example.com", "issuer"}.
	HostAndPath []string

	// Method is the protocol version tag; defaults to DefaultMethod.
	Method string

	// UpdateKeys authorizes the initial update-signing keys. Required.
	UpdateKeys []string

	// NextKeyHashes seeds pre-rotation; empty disables it.
	NextKeyHashes []string

	// Portable, if true, allows the DID's host to change in later entries.
	Portable bool

	// Witness, if non-nil, is validated and activated from entry 1.
	Witness *witness.Params

	// Watchers lists watcher URLs, or nil for none.
	Watchers []string

	// VerificationMethods are embedded into the genesis document.
	VerificationMethods []document.VerificationMethod

	// Document overrides the derived relationship arrays/alsoKnownAs.
	Document document.AssembleOptions

	// Created is entry 1's versionTime; defaults to time.Now().UTC().
	Created time.Time
}

// Create builds, signs, and self-verifies a new did:webvh log's genesis
// entry, returning the resolved document alongside the one-entry log.
func Create(ctx context.Context, opts CreateOptions, deps Deps) (did string, doc *document.Document, meta resolver.Meta, log []resolver.LogEntry, err error) {
	if len(opts.HostAndPath) == 0 {
		return "", nil, resolver.Meta{}, nil, werr.New("mutate.Create", werr.KindConfig, "hostAndPath is required")
	}
	if len(opts.UpdateKeys) == 0 {
		return "", nil, resolver.Meta{}, nil, werr.New("mutate.Create", werr.KindConfig, "updateKeys is required")
	}
	if opts.Witness != nil {
		if err := opts.Witness.Validate(); err != nil {
			return "", nil, resolver.Meta{}, nil, err
		}
	}

	method := opts.Method
	if method == "" {
		method = DefaultMethod
	}
	created := opts.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	params := resolver.Parameters{
		Method:        method,
		SCID:          didutil.PlaceholderSCID,
		UpdateKeys:    opts.UpdateKeys,
		NextKeyHashes: opts.NextKeyHashes,
		Portable:      &opts.Portable,
	}
	if opts.Witness != nil {
		params.Witness = opts.Witness
		params.WitnessSet = true
	}
	if opts.Watchers != nil {
		params.Watchers = opts.Watchers
		params.WatchersSet = true
	}

	draftDID := buildDID(didutil.PlaceholderSCID, opts.HostAndPath)
	draftDoc, err := document.Assemble(draftDID, opts.VerificationMethods, opts.Document)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}

	draft := resolver.LogEntry{
		VersionID:   didutil.PlaceholderVersionID,
		VersionTime: created.Format(time.RFC3339),
		Parameters:  params,
		State:       *draftDoc,
	}

	preHash, err := resolver.EntryHash(draft)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	scid := didutil.CreateSCID(preHash)

	finalDID := buildDID(scid, opts.HostAndPath)
	finalDoc, err := document.Assemble(finalDID, opts.VerificationMethods, opts.Document)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	params.SCID = scid

	entry := resolver.LogEntry{
		VersionID:   didutil.PlaceholderVersionID,
		VersionTime: created.Format(time.RFC3339),
		Parameters:  params,
		State:       *finalDoc,
	}

	vid, err := versionID(1, entry)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	entry.VersionID = vid

	entry, err = signEntry(ctx, entry, created, proof.PurposeAuthentication, deps)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}

	did, doc, meta, err = selfVerify(ctx, []resolver.LogEntry{entry}, deps)
	if err != nil {
		return "", nil, resolver.Meta{}, nil, err
	}
	deps.log().Debug("created did", "did", did, "scid", scid)
	return did, doc, meta, []resolver.LogEntry{entry}, nil
}
