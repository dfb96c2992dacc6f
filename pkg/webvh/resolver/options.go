package resolver

import (
	"strings"
	"time"

	"github.com/dc4eu/didwebvh/pkg/webvh/document"
	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"github.com/dc4eu/didwebvh/pkg/webvh/witness"
)

// Options selects which revision of the document Resolve should return.
// At most one of VerificationMethod and (VersionNumber or VersionID) may be
// set; the zero Options resolves the latest version.
type Options struct {
	VersionNumber      int
	VersionID          string
	VersionTime        *time.Time
	VerificationMethod string

	// WitnessProofs is the pre-fetched did-witness.json content, for pure
	// mode (§9 "fetching vs pure mode"). Nil falls back to
	// Deps.FetchWitnessProofs, if set, and is otherwise treated as "no
	// witness proofs supplied" (only a problem if the log's terminal
	// witness parameter is active).
	WitnessProofs []witness.ProofSetEntry
}

func (o Options) validate() error {
	if o.VerificationMethod != "" && (o.VersionNumber != 0 || o.VersionID != "") {
		return werr.New("resolver.Options.validate", werr.KindPolicy,
			"verificationMethod may not be combined with versionNumber or versionId")
	}
	return nil
}

// matches reports whether entry n satisfies the selector. isLast indicates
// n is the final entry in the log (the default target when no selector is
// given). nextVersionTime is the following entry's versionTime, or nil if
// there is none, used to bound the versionTime window.
func (o Options) matches(n int, entry LogEntry, doc *document.Document, isLast bool, nextVersionTime *time.Time) (bool, error) {
	switch {
	case o.VerificationMethod != "":
		for _, id := range allVerificationMethodIDs(doc) {
			if id == o.VerificationMethod || strings.HasSuffix(id, "#"+o.VerificationMethod) {
				return true, nil
			}
		}
		return false, nil

	case o.VersionNumber != 0:
		return n == o.VersionNumber, nil

	case o.VersionID != "":
		return entry.VersionID == o.VersionID, nil

	case o.VersionTime != nil:
		t, err := time.Parse(time.RFC3339, entry.VersionTime)
		if err != nil {
			return false, werr.Wrap("resolver.Options.matches", werr.KindFormat, err)
		}
		if o.VersionTime.Before(t) {
			return false, nil
		}
		if nextVersionTime != nil && !o.VersionTime.Before(*nextVersionTime) {
			return false, nil
		}
		return true, nil

	default:
		return isLast, nil
	}
}

func allVerificationMethodIDs(doc *document.Document) []string {
	ids := make([]string, 0, len(doc.VerificationMethod))
	for _, vm := range doc.VerificationMethod {
		ids = append(ids, vm.ID)
	}
	return ids
}
