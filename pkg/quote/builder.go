package quote

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ghostbridge/config"
	"ghostbridge/pkg/registry"
	"ghostbridge/pkg/route"
	"ghostbridge/pkg/types"
)

const (
	maxSlippagePercent = 50.0

	scoreBase          = 100.0
	scoreMaximumBonus  = 20.0
	scoreEnhancedBonus = 10.0
	scoreShieldedBonus = 15.0
	secondsPerTimeUnit = 60.0 // Bridge-time penalty is charged per minute
)

// Request describes a quote request. PreferredProtocol pins a specific
// protocol; when empty the best-scoring compatible protocol is chosen.
// SlippageTolerance of 0 falls back to the configured default.
type Request struct {
	SourceChain       types.Chain
	TargetChain       types.Chain
	Amount            string
	Shielded          bool
	PreferredProtocol types.Protocol
	SlippageTolerance float64
}

// Builder validates bridge requests, selects protocols, and produces
// priced, time-boxed quotes.
type Builder struct {
	registry *registry.Registry
	cfg      *config.Config
	now      func() time.Time
	newID    func() string
}

// NewBuilder creates a quote builder over the given registry and config
func NewBuilder(reg *registry.Registry, cfg *config.Config) *Builder {
	return &Builder{
		registry: reg,
		cfg:      cfg,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// SetClock overrides the time source, used by tests to pin expiry
func (b *Builder) SetClock(now func() time.Time) {
	b.now = now
}

// GetQuote validates the request and returns a single quote. The
// returned error is one of *UnsupportedRouteError,
// *ProtocolMismatchError, *NoProtocolError, or a plain validation error.
func (b *Builder) GetQuote(req *Request) (*types.Quote, error) {
	amount, err := b.validate(req)
	if err != nil {
		return nil, err
	}

	if !b.registry.IsPairSupported(req.SourceChain, req.TargetChain) {
		return nil, &UnsupportedRouteError{
			SourceChain:      req.SourceChain,
			TargetChain:      req.TargetChain,
			AvailableTargets: b.registry.TargetsFrom(req.SourceChain),
		}
	}

	var cfg *registry.ProtocolConfig
	if req.PreferredProtocol != "" {
		cfg, err = b.registry.Get(req.PreferredProtocol)
		if err != nil {
			return nil, err
		}
		if err := checkProtocol(cfg, req); err != nil {
			return nil, err
		}
	} else {
		cfg = b.SelectBestProtocol(req.SourceChain, req.TargetChain, req.Shielded)
		if cfg == nil {
			return nil, &NoProtocolError{
				SourceChain: req.SourceChain,
				TargetChain: req.TargetChain,
				Shielded:    req.Shielded,
			}
		}
	}

	return b.build(req, cfg, amount), nil
}

// GetQuotes computes one quote per compatible protocol and returns them
// sorted ascending by total fee. A protocol that individually fails to
// quote is logged and skipped, not propagated.
func (b *Builder) GetQuotes(req *Request) ([]*types.Quote, error) {
	if _, err := b.validate(req); err != nil {
		return nil, err
	}

	var quotes []*types.Quote
	for _, name := range b.registry.Protocols() {
		cfg, err := b.registry.Get(name)
		if err != nil {
			continue
		}
		if !cfg.SupportsSource(req.SourceChain) || !cfg.SupportsTarget(req.TargetChain) {
			continue
		}
		if req.Shielded && !cfg.SupportsShielded {
			continue
		}

		pinned := *req
		pinned.PreferredProtocol = name
		q, err := b.GetQuote(&pinned)
		if err != nil {
			fmt.Printf("[Quote] Failed to get quote from %s: %v\n", name, err)
			continue
		}
		quotes = append(quotes, q)
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return b.feeValue(quotes[i]).LessThan(b.feeValue(quotes[j]))
	})
	return quotes, nil
}

// SelectBestProtocol scores every protocol compatible with the request
// and returns the highest-scoring one, or nil when none qualifies. Ties
// break toward the lexicographically-smaller protocol name because the
// registry iterates in sorted order and only a strictly better score
// displaces the current best.
func (b *Builder) SelectBestProtocol(source, target types.Chain, shielded bool) *registry.ProtocolConfig {
	var best *registry.ProtocolConfig
	bestScore := 0.0

	for _, name := range b.registry.Protocols() {
		cfg, err := b.registry.Get(name)
		if err != nil {
			continue
		}
		if !cfg.SupportsSource(source) || !cfg.SupportsTarget(target) {
			continue
		}
		if shielded && !cfg.SupportsShielded {
			continue
		}

		score := scoreProtocol(cfg, shielded)
		if best == nil || score > bestScore {
			best = cfg
			bestScore = score
		}
	}

	return best
}

func scoreProtocol(cfg *registry.ProtocolConfig, shielded bool) float64 {
	score := scoreBase
	score -= cfg.BaseFeePercent * 100
	score -= float64(cfg.AvgBridgeTime) / secondsPerTimeUnit

	switch cfg.SecurityLevel {
	case types.SecurityMaximum:
		score += scoreMaximumBonus
	case types.SecurityEnhanced:
		score += scoreEnhancedBonus
	}

	if shielded && cfg.SupportsShielded {
		score += scoreShieldedBonus
	}

	return score
}

func (b *Builder) validate(req *Request) (decimal.Decimal, error) {
	if !req.SourceChain.Valid() {
		return decimal.Zero, fmt.Errorf("unknown source chain '%s'", req.SourceChain)
	}
	if !req.TargetChain.Valid() {
		return decimal.Zero, fmt.Errorf("unknown target chain '%s'", req.TargetChain)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount '%s': %w", req.Amount, err)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("amount must be greater than 0")
	}

	if req.SlippageTolerance < 0 || req.SlippageTolerance > maxSlippagePercent {
		return decimal.Zero, fmt.Errorf("slippage tolerance must be between 0 and %.0f", maxSlippagePercent)
	}

	return amount, nil
}

func checkProtocol(cfg *registry.ProtocolConfig, req *Request) error {
	if !cfg.SupportsSource(req.SourceChain) {
		return &ProtocolMismatchError{
			Protocol:    cfg.Name,
			DisplayName: cfg.DisplayName,
			Reason:      MismatchSource,
			Chain:       req.SourceChain,
			Supported:   cfg.SupportedSourceChains,
		}
	}
	if !cfg.SupportsTarget(req.TargetChain) {
		return &ProtocolMismatchError{
			Protocol:    cfg.Name,
			DisplayName: cfg.DisplayName,
			Reason:      MismatchTarget,
			Chain:       req.TargetChain,
			Supported:   cfg.SupportedTargetChains,
		}
	}
	if req.Shielded && !cfg.SupportsShielded {
		return &ProtocolMismatchError{
			Protocol:    cfg.Name,
			DisplayName: cfg.DisplayName,
			Reason:      MismatchShielded,
		}
	}
	return nil
}

func (b *Builder) build(req *Request, cfg *registry.ProtocolConfig, amount decimal.Decimal) *types.Quote {
	// bridgeFee and protocolFee come out of the bridged amount; gas is
	// paid natively on each chain and only shows up in the fee total.
	bridgeFee := amount.Mul(decimal.NewFromFloat(cfg.BaseFeePercent / 100))
	gasFee := decimal.NewFromFloat(b.cfg.GasRate(req.SourceChain) + b.cfg.GasRate(req.TargetChain))
	protocolFee := amount.Mul(decimal.NewFromFloat(b.cfg.ProtocolFeeRate))

	totalFee := bridgeFee.Add(gasFee).Add(protocolFee)
	outputAmount := amount.Sub(bridgeFee).Sub(protocolFee)
	totalFeeUSD := totalFee.Mul(decimal.NewFromFloat(b.cfg.USDPrice(b.cfg.SourceToken)))

	slippage := req.SlippageTolerance
	if slippage == 0 {
		slippage = b.cfg.DefaultSlippage
	}

	return &types.Quote{
		ID:           b.newID(),
		Protocol:     cfg.Name,
		SourceChain:  req.SourceChain,
		TargetChain:  req.TargetChain,
		SourceToken:  b.cfg.SourceToken,
		TargetToken:  b.cfg.TargetToken,
		InputAmount:  req.Amount,
		OutputAmount: outputAmount.StringFixed(8),
		Fees: types.FeeBreakdown{
			BridgeFee:   b.inToken(bridgeFee),
			GasFee:      b.inToken(gasFee),
			ProtocolFee: b.inToken(protocolFee),
			TotalFee:    b.inToken(totalFee),
			TotalFeeUSD: "$" + totalFeeUSD.StringFixed(2),
		},
		EstimatedTime:     cfg.AvgBridgeTime,
		SlippageTolerance: slippage,
		Route:             route.Plan(req.SourceChain, req.TargetChain, cfg, req.Shielded),
		Shielded:          req.Shielded,
		ExpiresAt:         b.now().Add(b.cfg.QuoteTTL),
		SecurityLevel:     cfg.SecurityLevel,
	}
}

func (b *Builder) inToken(v decimal.Decimal) string {
	return v.StringFixed(8) + " " + b.cfg.SourceToken
}

func (b *Builder) feeValue(q *types.Quote) decimal.Decimal {
	raw := strings.TrimSuffix(q.Fees.TotalFee, " "+b.cfg.SourceToken)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return v
}
