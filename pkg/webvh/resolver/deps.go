package resolver

import (
	"context"

	"github.com/dc4eu/didwebvh/pkg/logger"
	"github.com/dc4eu/didwebvh/pkg/webvh/policy"
	"github.com/dc4eu/didwebvh/pkg/webvh/proof"
	"github.com/dc4eu/didwebvh/pkg/webvh/witness"
)

// FetchLogFunc fetches the ordered did.jsonl lines for a DID's current log.
// It is a host collaborator (§1 "HTTP fetching... filesystem persistence"
// are external); the core never calls it itself. Callers that already hold
// the log in hand (pure mode, §9) call Resolve directly instead.
type FetchLogFunc func(ctx context.Context, did string) ([]LogEntry, error)

// FetchWitnessProofsFunc fetches the did-witness.json sibling file for a
// DID. Resolve calls this only when Options.WitnessProofs is nil and the
// log's terminal entry has an active witness parameter.
type FetchWitnessProofsFunc func(ctx context.Context, did string) ([]witness.ProofSetEntry, error)

// Deps bundles Resolve's injected collaborators. Verifier is mandatory —
// Resolve fails with a KindConfig error if it is nil (§4.4, "Injection is
// mandatory for resolution"). FetchWitnessProofs is optional; Policy
// defaults to policy.Strict; Log defaults to a no-op logger.
type Deps struct {
	Verifier           proof.Verifier
	FetchWitnessProofs FetchWitnessProofsFunc
	Policy             policy.Policy
	Log                *logger.Log
}

func (d Deps) log() *logger.Log {
	if d.Log == nil {
		return logger.NewNop()
	}
	return d.Log
}
