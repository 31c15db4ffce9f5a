package registry

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"ghostbridge/pkg/types"
)

func TestProtocolsDeterministicOrder(t *testing.T) {
	reg := New()

	names := reg.Protocols()
	require.Len(t, names, 7)
	require.True(t, sort.SliceIsSorted(names, func(i, j int) bool { return names[i] < names[j] }))

	// The order must be stable across instances
	require.Equal(t, names, New().Protocols())
}

func TestGetUnknownProtocol(t *testing.T) {
	reg := New()

	_, err := reg.Get("teleporter")
	require.ErrorIs(t, err, ErrNotFound)

	cfg, err := reg.Get(types.ProtocolWormhole)
	require.NoError(t, err)
	require.Equal(t, "Wormhole", cfg.DisplayName)
	require.Equal(t, 900, cfg.AvgBridgeTime)
}

func TestPairDerivationSymmetry(t *testing.T) {
	reg := New()

	// Brute-force the supported pairs straight from the configs and
	// check every derivation agrees with them.
	supported := make(map[[2]types.Chain]bool)
	for _, name := range reg.Protocols() {
		cfg, err := reg.Get(name)
		require.NoError(t, err)
		for _, s := range cfg.SupportedSourceChains {
			for _, tgt := range cfg.SupportedTargetChains {
				supported[[2]types.Chain{s, tgt}] = true
			}
		}
	}

	for _, s := range types.AllChains() {
		targets := reg.TargetsFrom(s)
		for _, tgt := range types.AllChains() {
			want := supported[[2]types.Chain{s, tgt}]
			require.Equal(t, want, reg.IsPairSupported(s, tgt), "pair %s -> %s", s, tgt)
			require.Equal(t, want, containsChain(targets, tgt), "TargetsFrom(%s) vs %s", s, tgt)
			require.Equal(t, want, containsChain(reg.SourcesTo(tgt), s), "SourcesTo(%s) vs %s", tgt, s)
		}
	}
}

func TestUnreachablePair(t *testing.T) {
	reg := New()

	// No protocol lists binance as a target reachable from mina
	require.False(t, reg.IsPairSupported(types.ChainMina, types.ChainBinance))
	require.Equal(t, []types.Chain{types.ChainEthereum, types.ChainMina}, reg.TargetsFrom(types.ChainMina))
}
