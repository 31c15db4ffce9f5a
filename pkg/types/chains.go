package types

// Chain identifies a blockchain network supported by the bridge
type Chain string

const (
	ChainZcash     Chain = "zcash"
	ChainEthereum  Chain = "ethereum"
	ChainNear      Chain = "near"
	ChainPolygon   Chain = "polygon"
	ChainBinance   Chain = "binance"
	ChainAvalanche Chain = "avalanche"
	ChainStarknet  Chain = "starknet"
	ChainMina      Chain = "mina"
)

// AllChains returns every chain the bridge knows about, in display order
func AllChains() []Chain {
	return []Chain{
		ChainZcash,
		ChainEthereum,
		ChainNear,
		ChainPolygon,
		ChainBinance,
		ChainAvalanche,
		ChainStarknet,
		ChainMina,
	}
}

// Valid returns true if the chain is one of the supported networks
func (c Chain) Valid() bool {
	switch c {
	case ChainZcash, ChainEthereum, ChainNear, ChainPolygon,
		ChainBinance, ChainAvalanche, ChainStarknet, ChainMina:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable name of the chain
func (c Chain) DisplayName() string {
	switch c {
	case ChainZcash:
		return "Zcash"
	case ChainEthereum:
		return "Ethereum"
	case ChainNear:
		return "NEAR"
	case ChainPolygon:
		return "Polygon"
	case ChainBinance:
		return "BNB Chain"
	case ChainAvalanche:
		return "Avalanche"
	case ChainStarknet:
		return "Starknet"
	case ChainMina:
		return "Mina"
	default:
		return string(c)
	}
}

// IsEVM returns true for chains with EVM-style 0x addresses
func (c Chain) IsEVM() bool {
	switch c {
	case ChainEthereum, ChainPolygon, ChainBinance, ChainAvalanche:
		return true
	default:
		return false
	}
}

// ExplorerURL returns the block explorer link for a transaction on this chain
func (c Chain) ExplorerURL(txHash string) string {
	base := ""
	switch c {
	case ChainZcash:
		base = "https://explorer.zcha.in/transactions/"
	case ChainEthereum:
		base = "https://etherscan.io/tx/"
	case ChainNear:
		base = "https://nearblocks.io/txns/"
	case ChainPolygon:
		base = "https://polygonscan.com/tx/"
	case ChainBinance:
		base = "https://bscscan.com/tx/"
	case ChainAvalanche:
		base = "https://snowtrace.io/tx/"
	case ChainStarknet:
		base = "https://starkscan.co/tx/"
	case ChainMina:
		base = "https://minaexplorer.com/transaction/"
	}
	return base + txHash
}
