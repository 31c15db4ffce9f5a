package registry

import (
	"errors"
	"fmt"
	"sort"

	"ghostbridge/pkg/types"
)

// ErrNotFound is returned when a protocol name is not in the registry
var ErrNotFound = errors.New("protocol not found")

// ProtocolConfig describes the static characteristics of a bridging protocol
type ProtocolConfig struct {
	Name                  types.Protocol      `json:"name"`
	DisplayName           string              `json:"display_name"`
	SupportedSourceChains []types.Chain       `json:"supported_source_chains"`
	SupportedTargetChains []types.Chain       `json:"supported_target_chains"`
	AvgBridgeTime         int                 `json:"avg_bridge_time"` // Seconds
	BaseFeePercent        float64             `json:"base_fee_percent"`
	SecurityLevel         types.SecurityLevel `json:"security_level"`
	SupportsShielded      bool                `json:"supports_shielded"`
}

// SupportsSource returns true if the protocol accepts the chain as a source
func (c *ProtocolConfig) SupportsSource(chain types.Chain) bool {
	return containsChain(c.SupportedSourceChains, chain)
}

// SupportsTarget returns true if the protocol accepts the chain as a target
func (c *ProtocolConfig) SupportsTarget(chain types.Chain) bool {
	return containsChain(c.SupportedTargetChains, chain)
}

func containsChain(chains []types.Chain, chain types.Chain) bool {
	for _, c := range chains {
		if c == chain {
			return true
		}
	}
	return false
}

// Registry is the immutable table of known bridging protocols. It is
// loaded once at startup and safe for concurrent reads without locking.
type Registry struct {
	configs map[types.Protocol]*ProtocolConfig
	order   []types.Protocol // Lexicographic, fixes iteration and tie-break order
}

// New builds the registry with the default protocol table
func New() *Registry {
	return newWithConfigs(defaultConfigs())
}

func newWithConfigs(configs []*ProtocolConfig) *Registry {
	r := &Registry{configs: make(map[types.Protocol]*ProtocolConfig, len(configs))}
	for _, cfg := range configs {
		r.configs[cfg.Name] = cfg
		r.order = append(r.order, cfg.Name)
	}
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	return r
}

// Protocols returns all protocol names in deterministic (lexicographic) order
func (r *Registry) Protocols() []types.Protocol {
	out := make([]types.Protocol, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the config for a protocol name
func (r *Registry) Get(name types.Protocol) (*ProtocolConfig, error) {
	cfg, ok := r.configs[name]
	if !ok {
		return nil, fmt.Errorf("protocol '%s': %w", name, ErrNotFound)
	}
	return cfg, nil
}

// IsPairSupported returns true if any protocol bridges source to target
func (r *Registry) IsPairSupported(source, target types.Chain) bool {
	for _, name := range r.order {
		cfg := r.configs[name]
		if cfg.SupportsSource(source) && cfg.SupportsTarget(target) {
			return true
		}
	}
	return false
}

// TargetsFrom returns every chain reachable as a target from the given
// source, as the union over all protocols
func (r *Registry) TargetsFrom(source types.Chain) []types.Chain {
	seen := make(map[types.Chain]bool)
	for _, name := range r.order {
		cfg := r.configs[name]
		if !cfg.SupportsSource(source) {
			continue
		}
		for _, t := range cfg.SupportedTargetChains {
			seen[t] = true
		}
	}
	return sortedChains(seen)
}

// SourcesTo returns every chain that can bridge into the given target
func (r *Registry) SourcesTo(target types.Chain) []types.Chain {
	seen := make(map[types.Chain]bool)
	for _, name := range r.order {
		cfg := r.configs[name]
		if !cfg.SupportsTarget(target) {
			continue
		}
		for _, s := range cfg.SupportedSourceChains {
			seen[s] = true
		}
	}
	return sortedChains(seen)
}

func sortedChains(set map[types.Chain]bool) []types.Chain {
	out := make([]types.Chain, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func defaultConfigs() []*ProtocolConfig {
	return []*ProtocolConfig{
		{
			Name:                  types.ProtocolWormhole,
			DisplayName:           "Wormhole",
			SupportedSourceChains: []types.Chain{types.ChainZcash, types.ChainEthereum},
			SupportedTargetChains: []types.Chain{types.ChainEthereum, types.ChainPolygon, types.ChainBinance, types.ChainAvalanche},
			AvgBridgeTime:         900,
			BaseFeePercent:        0.1,
			SecurityLevel:         types.SecurityMaximum,
			SupportsShielded:      true,
		},
		{
			Name:                  types.ProtocolNearIntents,
			DisplayName:           "NEAR Intents",
			SupportedSourceChains: []types.Chain{types.ChainZcash, types.ChainNear, types.ChainEthereum},
			SupportedTargetChains: []types.Chain{types.ChainNear, types.ChainEthereum},
			AvgBridgeTime:         180,
			BaseFeePercent:        0.05,
			SecurityLevel:         types.SecurityEnhanced,
			SupportsShielded:      true,
		},
		{
			Name:                  types.ProtocolPolygonBridge,
			DisplayName:           "Polygon Bridge",
			SupportedSourceChains: []types.Chain{types.ChainZcash, types.ChainEthereum, types.ChainPolygon},
			SupportedTargetChains: []types.Chain{types.ChainPolygon, types.ChainEthereum},
			AvgBridgeTime:         600,
			BaseFeePercent:        0.08,
			SecurityLevel:         types.SecurityStandard,
			SupportsShielded:      false,
		},
		{
			Name:                  types.ProtocolMultichain,
			DisplayName:           "Multichain",
			SupportedSourceChains: []types.Chain{types.ChainZcash, types.ChainBinance, types.ChainEthereum, types.ChainPolygon, types.ChainAvalanche},
			SupportedTargetChains: []types.Chain{types.ChainBinance, types.ChainEthereum, types.ChainPolygon, types.ChainAvalanche},
			AvgBridgeTime:         720,
			BaseFeePercent:        0.15,
			SecurityLevel:         types.SecurityStandard,
			SupportsShielded:      false,
		},
		{
			Name:                  types.ProtocolAvalancheBridge,
			DisplayName:           "Avalanche Bridge",
			SupportedSourceChains: []types.Chain{types.ChainZcash, types.ChainEthereum, types.ChainAvalanche},
			SupportedTargetChains: []types.Chain{types.ChainAvalanche, types.ChainEthereum},
			AvgBridgeTime:         480,
			BaseFeePercent:        0.1,
			SecurityLevel:         types.SecurityEnhanced,
			SupportsShielded:      false,
		},
		{
			Name:                  types.ProtocolStarknetBridge,
			DisplayName:           "Starknet Bridge",
			SupportedSourceChains: []types.Chain{types.ChainZcash, types.ChainEthereum, types.ChainStarknet},
			SupportedTargetChains: []types.Chain{types.ChainStarknet, types.ChainEthereum},
			AvgBridgeTime:         360,
			BaseFeePercent:        0.08,
			SecurityLevel:         types.SecurityMaximum,
			SupportsShielded:      true,
		},
		{
			Name:                  types.ProtocolMinaBridge,
			DisplayName:           "Mina Bridge",
			SupportedSourceChains: []types.Chain{types.ChainZcash, types.ChainEthereum, types.ChainMina},
			SupportedTargetChains: []types.Chain{types.ChainMina, types.ChainEthereum},
			AvgBridgeTime:         420,
			BaseFeePercent:        0.07,
			SecurityLevel:         types.SecurityMaximum,
			SupportsShielded:      true,
		},
	}
}
