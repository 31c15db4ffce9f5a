package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainValidity(t *testing.T) {
	for _, c := range AllChains() {
		require.True(t, c.Valid(), "chain %s", c)
		require.NotEmpty(t, c.DisplayName())
	}
	require.False(t, Chain("solana").Valid())
	require.False(t, Chain("").Valid())
}

func TestEVMChains(t *testing.T) {
	evm := map[Chain]bool{
		ChainEthereum:  true,
		ChainPolygon:   true,
		ChainBinance:   true,
		ChainAvalanche: true,
	}
	for _, c := range AllChains() {
		require.Equal(t, evm[c], c.IsEVM(), "chain %s", c)
	}
}

func TestExplorerURL(t *testing.T) {
	hash := "0xabc123"
	for _, c := range AllChains() {
		url := c.ExplorerURL(hash)
		require.True(t, strings.HasPrefix(url, "https://"), "chain %s", c)
		require.True(t, strings.HasSuffix(url, hash), "chain %s", c)
	}
	require.Equal(t, "https://etherscan.io/tx/0xabc123", ChainEthereum.ExplorerURL(hash))
}
