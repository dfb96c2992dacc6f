package resolver

import (
	"fmt"
	"strings"

	"github.com/dc4eu/didwebvh/pkg/webvh/werr"
	"github.com/dc4eu/didwebvh/pkg/webvh/witness"
)

// witnessStrategyForMethod dispatches the witness-counting rule by the
// protocol version declared in entry 1's `method` parameter (§9(a)): v1.0
// counts distinct witnesses, v0.5 sums declared weight. Dispatch happens
// once per resolution, as a value threaded through the call, never as
// shared mutable state.
func witnessStrategyForMethod(method string) (witness.Strategy, error) {
	switch {
	case strings.HasSuffix(method, ":1.0"):
		return witness.CountDistinct, nil
	case strings.HasSuffix(method, ":0.5"):
		return witness.CountWeighted, nil
	default:
		return nil, werr.New("resolver.witnessStrategyForMethod", werr.KindConfig,
			fmt.Sprintf("unsupported protocol version %q", method))
	}
}
