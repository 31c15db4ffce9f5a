package types

import "time"

// Protocol identifies a bridging protocol
type Protocol string

const (
	ProtocolWormhole        Protocol = "wormhole"
	ProtocolNearIntents     Protocol = "near_intents"
	ProtocolPolygonBridge   Protocol = "polygon_bridge"
	ProtocolMultichain      Protocol = "multichain"
	ProtocolAvalancheBridge Protocol = "avalanche_bridge"
	ProtocolStarknetBridge  Protocol = "starknet_bridge"
	ProtocolMinaBridge      Protocol = "mina_bridge"
)

// SecurityLevel classifies the trust model of a protocol
type SecurityLevel string

const (
	SecurityStandard SecurityLevel = "standard"
	SecurityEnhanced SecurityLevel = "enhanced"
	SecurityMaximum  SecurityLevel = "maximum"
)

// Action is a single bridging operation within a route
type Action string

const (
	ActionLock   Action = "lock"
	ActionMint   Action = "mint"
	ActionBurn   Action = "burn"
	ActionUnlock Action = "unlock"
	ActionSwap   Action = "swap"
	ActionVerify Action = "verify"
)

// ExecutionStatus is the overall state of a bridge execution
type ExecutionStatus string

const (
	ExecutionPending         ExecutionStatus = "pending"          // Record created, nothing confirmed yet
	ExecutionSourceConfirmed ExecutionStatus = "source_confirmed" // Source-chain transaction confirmed
	ExecutionBridging        ExecutionStatus = "bridging"         // Cross-chain transfer in flight
	ExecutionTargetPending   ExecutionStatus = "target_pending"   // Awaiting target-chain confirmation
	ExecutionCompleted       ExecutionStatus = "completed"        // Funds minted on target chain
	ExecutionFailed          ExecutionStatus = "failed"           // Terminal failure, no retries
)

// Terminal returns true once no further status transitions can occur
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionCompleted || s == ExecutionFailed
}

// StepStatus is the state of a single route step within an execution
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// RouteStep is one atomic action in the ordered plan a quote commits to.
// Steps are numbered from 1 with no gaps and execute strictly in order.
type RouteStep struct {
	Step              int    `json:"step"`
	Protocol          string `json:"protocol"`
	Action            Action `json:"action"`
	Chain             Chain  `json:"chain"`
	Description       string `json:"description"`
	EstimatedDuration int    `json:"estimated_duration"` // Seconds
}

// FeeBreakdown itemizes the cost of a quote. Amounts are formatted
// strings denominated in the source token, except TotalFeeUSD.
type FeeBreakdown struct {
	BridgeFee   string `json:"bridge_fee"`
	GasFee      string `json:"gas_fee"`
	ProtocolFee string `json:"protocol_fee"`
	TotalFee    string `json:"total_fee"`
	TotalFeeUSD string `json:"total_fee_usd"`
}

// Quote is a priced, time-boxed offer to bridge via a specific protocol
// and route. Quotes are immutable once produced.
type Quote struct {
	ID                string        `json:"id"`
	Protocol          Protocol      `json:"protocol"`
	SourceChain       Chain         `json:"source_chain"`
	TargetChain       Chain         `json:"target_chain"`
	SourceToken       string        `json:"source_token"`
	TargetToken       string        `json:"target_token"`
	InputAmount       string        `json:"input_amount"`
	OutputAmount      string        `json:"output_amount"`
	Fees              FeeBreakdown  `json:"fees"`
	EstimatedTime     int           `json:"estimated_time"` // Seconds
	SlippageTolerance float64       `json:"slippage_tolerance"`
	Route             []RouteStep   `json:"route"`
	Shielded          bool          `json:"shielded"`
	ExpiresAt         time.Time     `json:"expires_at"`
	SecurityLevel     SecurityLevel `json:"security_level"`
}

// Expired reports whether the quote can no longer be executed
func (q *Quote) Expired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// TransactionInfo describes a confirmed on-chain transaction
type TransactionInfo struct {
	Hash          string `json:"hash"`
	BlockNumber   uint64 `json:"block_number"`
	Confirmations int    `json:"confirmations"`
	ExplorerURL   string `json:"explorer_url"`
}

// ExecutionStep mirrors one route step of the originating quote, 1:1 by index
type ExecutionStep struct {
	Step            int        `json:"step"`
	Status          StepStatus `json:"status"`
	TransactionHash string     `json:"transaction_hash,omitempty"`
	BlockNumber     uint64     `json:"block_number,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	Message         string     `json:"message"`
}

// Execution is the stateful attempt to carry out a quote's route. Chain
// and amount fields are copied from the quote so wallet history queries
// need no join back to it.
type Execution struct {
	ID                string           `json:"id"`
	QuoteID           string           `json:"quote_id"`
	WalletAddress     string           `json:"wallet_address"`
	SourceChain       Chain            `json:"source_chain"`
	TargetChain       Chain            `json:"target_chain"`
	InputAmount       string           `json:"input_amount"`
	OutputAmount      string           `json:"output_amount"`
	Protocol          Protocol         `json:"protocol"`
	Status            ExecutionStatus  `json:"status"`
	Steps             []ExecutionStep  `json:"steps"`
	SourceTransaction *TransactionInfo `json:"source_transaction,omitempty"`
	TargetTransaction *TransactionInfo `json:"target_transaction,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	Error             string           `json:"error,omitempty"`
}

// Terminal returns true once the execution has completed or failed
func (e *Execution) Terminal() bool {
	return e.Status.Terminal()
}
