package quote

import (
	"fmt"
	"strings"

	"ghostbridge/pkg/types"
)

// UnsupportedRouteError is returned when no protocol at all connects the
// requested chain pair. The message lists which targets are reachable so
// the caller can self-correct.
type UnsupportedRouteError struct {
	SourceChain      types.Chain
	TargetChain      types.Chain
	AvailableTargets []types.Chain
}

func (e *UnsupportedRouteError) Error() string {
	targets := "none"
	if len(e.AvailableTargets) > 0 {
		targets = joinChains(e.AvailableTargets)
	}
	return fmt.Sprintf(
		"bridging from %s to %s is not currently supported; supported targets from %s: %s",
		e.SourceChain, e.TargetChain, e.SourceChain, targets)
}

// MismatchReason identifies which requirement a pinned protocol failed
type MismatchReason string

const (
	MismatchSource   MismatchReason = "source"
	MismatchTarget   MismatchReason = "target"
	MismatchShielded MismatchReason = "shielded"
)

// ProtocolMismatchError is returned when an explicitly requested protocol
// cannot serve the chain pair or the shielded requirement.
type ProtocolMismatchError struct {
	Protocol    types.Protocol
	DisplayName string
	Reason      MismatchReason
	Chain       types.Chain   // Offending chain, unset for shielded mismatches
	Supported   []types.Chain // The protocol's actual set for the failed side
}

func (e *ProtocolMismatchError) Error() string {
	switch e.Reason {
	case MismatchSource:
		return fmt.Sprintf("protocol %s does not support %s as source chain; supported sources: %s",
			e.DisplayName, e.Chain, joinChains(e.Supported))
	case MismatchTarget:
		return fmt.Sprintf("protocol %s does not support %s as target chain; supported targets: %s",
			e.DisplayName, e.Chain, joinChains(e.Supported))
	default:
		return fmt.Sprintf("protocol %s does not support shielded transfers; disable shielded mode or choose a different protocol",
			e.DisplayName)
	}
}

// NoProtocolError is returned when the pair is bridgeable in principle
// but no protocol satisfies the requested constraints.
type NoProtocolError struct {
	SourceChain types.Chain
	TargetChain types.Chain
	Shielded    bool
}

func (e *NoProtocolError) Error() string {
	msg := fmt.Sprintf("no compatible bridge protocol found for %s to %s", e.SourceChain, e.TargetChain)
	if e.Shielded {
		msg += " with shielded transfers"
	}
	return msg
}

func joinChains(chains []types.Chain) string {
	parts := make([]string, len(chains))
	for i, c := range chains {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
