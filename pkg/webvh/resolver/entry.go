package resolver

import (
	"bytes"
	"encoding/json"

	"github.com/dc4eu/didwebvh/pkg/webvh/didutil"
	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/dc4eu/didwebvh/pkg/webvh/encoding"
	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
)

// LogEntry is one line of did.jsonl (§3.1).
type LogEntry struct {
	VersionID   string        `json:"versionId"`
	VersionTime string        `json:"versionTime"`
	Parameters  Parameters    `json:"parameters"`
	State       document.Document `json:"state"`
	Proof       []proof.Proof `json:"proof"`
}

// entryForHash is the entry shape hashed for both the versionId/SCID
// derivation and the proof message's data half: identical fields, proof
// always absent (it never existed yet when the hash that becomes part of
// versionId was first computed).
type entryForHash struct {
	VersionID   string            `json:"versionId"`
	VersionTime string            `json:"versionTime"`
	Parameters  Parameters        `json:"parameters"`
	State       document.Document `json:"state"`
}

func (e LogEntry) forHash() entryForHash {
	return entryForHash{
		VersionID:   didutil.PlaceholderVersionID,
		VersionTime: e.VersionTime,
		Parameters:  e.Parameters,
		State:       e.State,
	}
}

// forProof is the shape hashed for the data half of a signing/verifying
// proof message: identical to forHash but keeping the entry's real
// versionId, since by the time an entry is signed its versionId has already
// been finalized.
func (e LogEntry) forProof() entryForHash {
	return entryForHash{
		VersionID:   e.VersionID,
		VersionTime: e.VersionTime,
		Parameters:  e.Parameters,
		State:       e.State,
	}
}

// entryHash computes base58btc(multihash-sha256(jcs(forHash))), the value
// embedded in versionId ("<n>-<entryHash>"). The data half of a proof
// message is not this value: proof.Verify hashes forProof, which keeps the
// real versionId, with plain SHA-256.
func entryHash(e LogEntry) (string, error) {
	return encoding.DeriveHash(e.forHash())
}

// EntryHash exports entryHash for mutators (§4.7), which need to derive an
// entry's hash before it has a final versionId or SCID: for entry 1's draft
// (scid and versionId both still placeholders), this is exactly the
// pre-SCID hash §4.2's createSCID takes as input.
func EntryHash(e LogEntry) (string, error) {
	return entryHash(e)
}

// scidPreHash computes the entry-1 "pre-SCID" hash: the forHash shape with
// every textual occurrence of scid replaced by the SCID placeholder. Must
// operate on raw JSON bytes, not a Go value, since scid can appear anywhere
// inside state (id, controller, verification method ids...).
func scidPreHash(e LogEntry, scid string) (string, error) {
	raw, err := json.Marshal(e.forHash())
	if err != nil {
		return "", werr.Wrap("resolver.scidPreHash", werr.KindFormat, err)
	}
	raw = bytes.ReplaceAll(raw, []byte(scid), []byte(didutil.PlaceholderSCID))
	canonical, err := encoding.JCSBytes(raw)
	if err != nil {
		return "", err
	}
	return encoding.DeriveHashBytes(canonical)
}
