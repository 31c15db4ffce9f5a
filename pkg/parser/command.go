package parser

import (
	"fmt"
	"regexp"
	"strings"

	"ghostbridge/pkg/types"
)

// BridgeRequest holds the parsed parts of a bridge command
type BridgeRequest struct {
	Amount      string
	SourceChain types.Chain
	TargetChain types.Chain
}

// ParseBridgeCommand parses a natural language bridge command
// Examples:
//   - "bridge 1 from zcash to near"
//   - "1.5 from zcash to ethereum"
//   - "0.25 from eth to polygon"
func ParseBridgeCommand(command string) (*BridgeRequest, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "BRIDGE" if present at the beginning
	command = strings.TrimPrefix(command, "BRIDGE ")

	// Pattern: <amount> FROM <source_chain> TO <target_chain>
	// Matches: "1 FROM ZCASH TO NEAR", "1.5 FROM ZCASH TO ETHEREUM"
	pattern := regexp.MustCompile(`^(\d+\.?\d*)\s+FROM\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

	matches := pattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid bridge command format. Expected: 'bridge <amount> from <chain> to <chain>' (e.g., 'bridge 1 from zcash to near')")
	}

	source, err := NormalizeChain(matches[2])
	if err != nil {
		return nil, err
	}
	target, err := NormalizeChain(matches[3])
	if err != nil {
		return nil, err
	}

	return &BridgeRequest{
		Amount:      matches[1],
		SourceChain: source,
		TargetChain: target,
	}, nil
}

// NormalizeChain resolves a chain name or common alias to a Chain
func NormalizeChain(name string) (types.Chain, error) {
	name = strings.TrimSpace(strings.ToLower(name))

	// Handle common aliases
	aliases := map[string]types.Chain{
		"zec":   types.ChainZcash,
		"eth":   types.ChainEthereum,
		"matic": types.ChainPolygon,
		"poly":  types.ChainPolygon,
		"bnb":   types.ChainBinance,
		"bsc":   types.ChainBinance,
		"avax":  types.ChainAvalanche,
		"strk":  types.ChainStarknet,
	}

	if chain, exists := aliases[name]; exists {
		return chain, nil
	}

	chain := types.Chain(name)
	if !chain.Valid() {
		return "", fmt.Errorf("unknown chain '%s'. Supported chains: %s", name, supportedChainList())
	}
	return chain, nil
}

func supportedChainList() string {
	all := types.AllChains()
	parts := make([]string, len(all))
	for i, c := range all {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
