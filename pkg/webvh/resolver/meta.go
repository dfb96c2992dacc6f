package resolver

import "github.com/dc4eu/didwebvh/pkg/webvh/witness"

// Meta is the accumulated resolution metadata (§3.1), a fold over the entry
// sequence replayed so far.
type Meta struct {
	VersionID            string
	Created              string
	Updated              string
	SCID                 string
	UpdateKeys           []string
	NextKeyHashes        []string
	Prerotation          bool
	Portable             bool
	Deactivated          bool
	Witness              *witness.Params
	Watchers             []string
	PreviousLogEntryHash string
}

// applyEntry1 seeds meta from the genesis entry.
func (m *Meta) applyEntry1(entry LogEntry) {
	m.SCID = entry.Parameters.SCID
	m.UpdateKeys = entry.Parameters.UpdateKeys
	m.NextKeyHashes = entry.Parameters.NextKeyHashes
	m.Prerotation = len(entry.Parameters.NextKeyHashes) > 0
	if entry.Parameters.Portable != nil {
		m.Portable = *entry.Parameters.Portable
	}
	if entry.Parameters.WitnessSet {
		m.Witness = entry.Parameters.Witness
	}
	if entry.Parameters.WatchersSet {
		m.Watchers = entry.Parameters.Watchers
	}
	m.Created = entry.VersionTime
	m.Updated = entry.VersionTime
	m.VersionID = entry.VersionID
}

// applyTransitions applies entry n>1's parameter deltas, in the order §4.5
// step 3 specifies: updateKeys, deactivated latch, nextKeyHashes, witness,
// watchers.
func (m *Meta) applyTransitions(entry LogEntry) {
	if entry.Parameters.UpdateKeys != nil {
		m.UpdateKeys = entry.Parameters.UpdateKeys
	}
	if entry.Parameters.Deactivated != nil && *entry.Parameters.Deactivated {
		m.Deactivated = true
	}
	if entry.Parameters.NextKeyHashes != nil {
		m.NextKeyHashes = entry.Parameters.NextKeyHashes
		m.Prerotation = len(entry.Parameters.NextKeyHashes) > 0
	}
	if entry.Parameters.WitnessSet {
		m.Witness = entry.Parameters.Witness
	}
	if entry.Parameters.WatchersSet {
		m.Watchers = entry.Parameters.Watchers
	}
	m.Updated = entry.VersionTime
	m.VersionID = entry.VersionID
}
