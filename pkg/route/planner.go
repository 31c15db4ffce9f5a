package route

import (
	"fmt"

	"ghostbridge/pkg/registry"
	"ghostbridge/pkg/types"
)

const (
	shieldedProofDuration = 30 // Sapling proof preparation, seconds
	lockDuration          = 60 // Source-chain lock confirmation, seconds
)

// Plan synthesizes the ordered action sequence for bridging from source
// to target via the given protocol. Step numbers are assigned
// sequentially from 1 as steps are appended.
func Plan(source, target types.Chain, cfg *registry.ProtocolConfig, shielded bool) []types.RouteStep {
	var steps []types.RouteStep
	num := 1

	if shielded && source == types.ChainZcash {
		steps = append(steps, types.RouteStep{
			Step:              num,
			Protocol:          "Zcash",
			Action:            types.ActionVerify,
			Chain:             source,
			Description:       "Prepare shielded transaction with Sapling proof",
			EstimatedDuration: shieldedProofDuration,
		})
		num++
	}

	steps = append(steps, types.RouteStep{
		Step:              num,
		Protocol:          cfg.DisplayName,
		Action:            types.ActionLock,
		Chain:             source,
		Description:       fmt.Sprintf("Lock ZEC in %s bridge contract", cfg.DisplayName),
		EstimatedDuration: lockDuration,
	})
	num++

	// Wormhole and NEAR Intents run an intermediate attestation phase
	// before minting; the other protocols mint directly off the lock.
	switch cfg.Name {
	case types.ProtocolWormhole:
		steps = append(steps, types.RouteStep{
			Step:              num,
			Protocol:          "Wormhole Guardians",
			Action:            types.ActionVerify,
			Chain:             source,
			Description:       "Guardian network validates and signs VAA",
			EstimatedDuration: int(float64(cfg.AvgBridgeTime) * 0.6),
		})
		num++
	case types.ProtocolNearIntents:
		steps = append(steps, types.RouteStep{
			Step:              num,
			Protocol:          "NEAR Intents",
			Action:            types.ActionVerify,
			Chain:             types.ChainNear,
			Description:       "Intent solver network processes cross-chain intent",
			EstimatedDuration: int(float64(cfg.AvgBridgeTime) * 0.5),
		})
		num++
	}

	steps = append(steps, types.RouteStep{
		Step:              num,
		Protocol:          cfg.DisplayName,
		Action:            types.ActionMint,
		Chain:             target,
		Description:       fmt.Sprintf("Mint wZEC on %s", target.DisplayName()),
		EstimatedDuration: int(float64(cfg.AvgBridgeTime) * 0.3),
	})

	return steps
}
