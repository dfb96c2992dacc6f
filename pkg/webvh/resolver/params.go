package resolver

import (
	"bytes"
	"encoding/json"

	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"github.com/dc4eu/didwebvh/pkg/webvh/witness"
)

// Parameters is one log entry's transition parameters (§3.1). Witness and
// Watchers distinguish "absent" (field not present, meaning "unchanged")
// from "present and null" (meaning "clear"), which a plain struct field
// cannot represent — WitnessSet/WatchersSet record which case applied.
type Parameters struct {
	Method        string
	SCID          string
	UpdateKeys    []string
	NextKeyHashes []string
	Portable      *bool
	Deactivated   *bool

	Witness    *witness.Params
	WitnessSet bool

	Watchers    []string
	WatchersSet bool
}

// wireParameters is the literal JSON shape, used only to drive marshaling
// and to detect key presence via json.RawMessage.
type wireParameters struct {
	Method        string          `json:"method,omitempty"`
	SCID          string          `json:"scid,omitempty"`
	UpdateKeys    []string        `json:"updateKeys,omitempty"`
	NextKeyHashes []string        `json:"nextKeyHashes,omitempty"`
	Portable      *bool           `json:"portable,omitempty"`
	Witness       json.RawMessage `json:"witness,omitempty"`
	Watchers      json.RawMessage `json:"watchers,omitempty"`
	Deactivated   *bool           `json:"deactivated,omitempty"`
}

var jsonNull = []byte("null")

// UnmarshalJSON decodes wire parameters, capturing whether witness/watchers
// were present at all (and, if present, whether they were null) before
// resolving them into typed fields.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return werr.Wrap("resolver.Parameters.UnmarshalJSON", werr.KindFormat, err)
	}

	var wire wireParameters
	if err := json.Unmarshal(data, &wire); err != nil {
		return werr.Wrap("resolver.Parameters.UnmarshalJSON", werr.KindFormat, err)
	}

	p.Method = wire.Method
	p.SCID = wire.SCID
	p.UpdateKeys = wire.UpdateKeys
	p.NextKeyHashes = wire.NextKeyHashes
	p.Portable = wire.Portable
	p.Deactivated = wire.Deactivated

	if _, present := raw["witness"]; present {
		p.WitnessSet = true
		if !bytes.Equal(bytes.TrimSpace(wire.Witness), jsonNull) {
			var w witness.Params
			if err := json.Unmarshal(wire.Witness, &w); err != nil {
				return werr.Wrap("resolver.Parameters.UnmarshalJSON", werr.KindFormat, err)
			}
			p.Witness = &w
		}
	}

	if _, present := raw["watchers"]; present {
		p.WatchersSet = true
		if !bytes.Equal(bytes.TrimSpace(wire.Watchers), jsonNull) {
			var w []string
			if err := json.Unmarshal(wire.Watchers, &w); err != nil {
				return werr.Wrap("resolver.Parameters.UnmarshalJSON", werr.KindFormat, err)
			}
			p.Watchers = w
		}
	}

	return nil
}

// MarshalJSON re-emits witness/watchers as an explicit null when WitnessSet
// or WatchersSet is true but the value is nil, and omits the key entirely
// otherwise.
func (p Parameters) MarshalJSON() ([]byte, error) {
	wire := wireParameters{
		Method:        p.Method,
		SCID:          p.SCID,
		UpdateKeys:    p.UpdateKeys,
		NextKeyHashes: p.NextKeyHashes,
		Portable:      p.Portable,
		Deactivated:   p.Deactivated,
	}

	if p.WitnessSet {
		if p.Witness == nil {
			wire.Witness = json.RawMessage(jsonNull)
		} else {
			b, err := json.Marshal(p.Witness)
			if err != nil {
				return nil, werr.Wrap("resolver.Parameters.MarshalJSON", werr.KindFormat, err)
			}
			wire.Witness = b
		}
	}

	if p.WatchersSet {
		if p.Watchers == nil {
			wire.Watchers = json.RawMessage(jsonNull)
		} else {
			b, err := json.Marshal(p.Watchers)
			if err != nil {
				return nil, werr.Wrap("resolver.Parameters.MarshalJSON", werr.KindFormat, err)
			}
			wire.Watchers = b
		}
	}

	return json.Marshal(wire)
}
