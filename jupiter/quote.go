package jupiter

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// SwapMode selects whether the quoted amount denotes the input or the
// output quantity. Defaults to ExactIn.
type SwapMode string

const (
	SwapModeExactIn  SwapMode = "ExactIn"
	SwapModeExactOut SwapMode = "ExactOut"
)

// ParseSwapMode converts the wire string to a SwapMode. Matching is
// case-sensitive and exact.
func ParseSwapMode(s string) (SwapMode, error) {
	switch s {
	case "ExactIn":
		return SwapModeExactIn, nil
	case "ExactOut":
		return SwapModeExactOut, nil
	default:
		return "", fmt.Errorf("%q is not a valid SwapMode", s)
	}
}

func (m SwapMode) String() string {
	return string(m)
}

func (m SwapMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *SwapMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("swapMode must be a string: %w", err)
	}
	mode, err := ParseSwapMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// SwapInfo is one hop of an executed route.
type SwapInfo struct {
	AmmKey     solana.PublicKey `json:"ammKey"`
	Label      string           `json:"label"`
	InputMint  solana.PublicKey `json:"inputMint"`
	OutputMint solana.PublicKey `json:"outputMint"`
	// An estimation of the input amount into the AMM
	InAmount Uint64String `json:"inAmount"`
	// An estimation of the output amount out of the AMM
	OutAmount Uint64String     `json:"outAmount"`
	FeeAmount Uint64String     `json:"feeAmount"`
	FeeMint   solana.PublicKey `json:"feeMint"`
}

// RoutePlanStep is a single hop of the route plan with its split share.
type RoutePlanStep struct {
	SwapInfo SwapInfo `json:"swapInfo"`
	Percent  uint8    `json:"percent"`
	Bps      uint16   `json:"bps,omitempty"`
}

// RoutePlanWithMetadata is the ordered hop sequence composing the trade.
type RoutePlanWithMetadata []RoutePlanStep

// ComputeUnitScore tunes route selection by compute-unit cost.
type ComputeUnitScore struct {
	MaxPenaltyBps *float64 `json:"maxPenaltyBps,omitempty"`
}

// QuoteRequest describes a desired swap. Pointer fields are optional;
// leaving them nil lets the API pick its defaults.
type QuoteRequest struct {
	InputMint  solana.PublicKey `json:"inputMint"`
	OutputMint solana.PublicKey `json:"outputMint"`
	// The amount to swap, in raw units (token decimals apply).
	Amount uint64 `json:"amount,string"`
	// ExactOut supports use cases that need an exact output amount, like
	// payments; slippage then applies to the input token.
	SwapMode *SwapMode `json:"swapMode,omitempty"`
	// Allowed slippage in basis points.
	SlippageBps uint16 `json:"slippageBps"`
	// When true the API suggests smart slippage info; slippageBps becomes
	// the suggested value. See MaxAutoSlippageBps and
	// AutoSlippageCollisionUsdValue.
	AutoSlippage        *bool   `json:"autoSlippage,omitempty"`
	MaxAutoSlippageBps  *uint16 `json:"maxAutoSlippageBps,omitempty"`
	ComputeAutoSlippage bool    `json:"computeAutoSlippage"`
	// Max USD value acceptable for auto slippage.
	AutoSlippageCollisionUsdValue *uint32 `json:"autoSlippageCollisionUsdValue,omitempty"`
	// Quote with a greater amount to find the route minimizing slippage.
	MinimizeSlippage *bool `json:"minimizeSlippage,omitempty"`
	// Platform fee in basis points.
	PlatformFeeBps *uint8 `json:"platformFeeBps,omitempty"`
	// Comma-delimited DEX label allow/deny lists.
	Dexes               *string `json:"dexes,omitempty"`
	ExcludedDexes       *string `json:"excludedDexes,omitempty"`
	OnlyDirectRoutes    *bool   `json:"onlyDirectRoutes,omitempty"`
	AsLegacyTransaction *bool   `json:"asLegacyTransaction,omitempty"`
	// Restrict intermediate tokens to a top set with stable liquidity.
	RestrictIntermediateTokens *bool `json:"restrictIntermediateTokens,omitempty"`
	// Cap on accounts involved; an estimation, not an exact count. May
	// dangerously limit routing and worsen pricing.
	MaxAccounts *uint64 `json:"maxAccounts,omitempty"`
	// Quote type switches the routing algorithm.
	QuoteType *string `json:"quoteType,omitempty"`
	// Extra args specific to the quote type, transmitted as sibling
	// parameters rather than inside the request.
	QuoteArgs                            map[string]string `json:"quoteArgs,omitempty"`
	PreferLiquidDexes                    *bool             `json:"preferLiquidDexes,omitempty"`
	ComputeUnitScore                     *ComputeUnitScore `json:"computeUnitScore,omitempty"`
	RoutingConstraints                   *string           `json:"routingConstraints,omitempty"`
	TokenCategoryBasedIntermediateTokens *bool             `json:"tokenCategoryBasedIntermediateTokens,omitempty"`
}

// InternalQuoteRequest is QuoteRequest without the passthrough extras
// (quote args, compute-unit score, routing constraints, token-category
// intermediates); the extras ride as sibling parameters instead.
type InternalQuoteRequest struct {
	InputMint                     solana.PublicKey `json:"inputMint"`
	OutputMint                    solana.PublicKey `json:"outputMint"`
	Amount                        uint64           `json:"amount,string"`
	SwapMode                      *SwapMode        `json:"swapMode,omitempty"`
	SlippageBps                   uint16           `json:"slippageBps"`
	AutoSlippage                  *bool            `json:"autoSlippage,omitempty"`
	MaxAutoSlippageBps            *uint16          `json:"maxAutoSlippageBps,omitempty"`
	ComputeAutoSlippage           bool             `json:"computeAutoSlippage"`
	AutoSlippageCollisionUsdValue *uint32          `json:"autoSlippageCollisionUsdValue,omitempty"`
	MinimizeSlippage              *bool            `json:"minimizeSlippage,omitempty"`
	PlatformFeeBps                *uint8           `json:"platformFeeBps,omitempty"`
	Dexes                         *string          `json:"dexes,omitempty"`
	ExcludedDexes                 *string          `json:"excludedDexes,omitempty"`
	OnlyDirectRoutes              *bool            `json:"onlyDirectRoutes,omitempty"`
	AsLegacyTransaction           *bool            `json:"asLegacyTransaction,omitempty"`
	RestrictIntermediateTokens    *bool            `json:"restrictIntermediateTokens,omitempty"`
	MaxAccounts                   *uint64          `json:"maxAccounts,omitempty"`
	QuoteType                     *string          `json:"quoteType,omitempty"`
	PreferLiquidDexes             *bool            `json:"preferLiquidDexes,omitempty"`
}

// Internal projects the request onto the wire shape used when extra args
// are sent as sibling parameters. Pure field copy, no validation.
func (r QuoteRequest) Internal() InternalQuoteRequest {
	return InternalQuoteRequest{
		InputMint:                     r.InputMint,
		OutputMint:                    r.OutputMint,
		Amount:                        r.Amount,
		SwapMode:                      r.SwapMode,
		SlippageBps:                   r.SlippageBps,
		AutoSlippage:                  r.AutoSlippage,
		MaxAutoSlippageBps:            r.MaxAutoSlippageBps,
		ComputeAutoSlippage:           r.ComputeAutoSlippage,
		AutoSlippageCollisionUsdValue: r.AutoSlippageCollisionUsdValue,
		MinimizeSlippage:              r.MinimizeSlippage,
		PlatformFeeBps:                r.PlatformFeeBps,
		Dexes:                         r.Dexes,
		ExcludedDexes:                 r.ExcludedDexes,
		OnlyDirectRoutes:              r.OnlyDirectRoutes,
		AsLegacyTransaction:           r.AsLegacyTransaction,
		RestrictIntermediateTokens:    r.RestrictIntermediateTokens,
		MaxAccounts:                   r.MaxAccounts,
		QuoteType:                     r.QuoteType,
		PreferLiquidDexes:             r.PreferLiquidDexes,
	}
}

type PlatformFee struct {
	Amount Uint64String `json:"amount"`
	FeeBps uint8        `json:"feeBps"`
}

// QuoteResponse is the server-computed quote. Immutable once decoded.
type QuoteResponse struct {
	InputMint  solana.PublicKey `json:"inputMint"`
	InAmount   Uint64String     `json:"inAmount"`
	OutputMint solana.PublicKey `json:"outputMint"`
	OutAmount  Uint64String     `json:"outAmount"`
	// Not used by build transaction; passthrough only.
	OtherAmountThreshold        Uint64String          `json:"otherAmountThreshold"`
	SwapMode                    SwapMode              `json:"swapMode"`
	SlippageBps                 uint16                `json:"slippageBps"`
	ComputedAutoSlippage        *uint16               `json:"computedAutoSlippage,omitempty"`
	UsesQuoteMinimizingSlippage *bool                 `json:"usesQuoteMinimizingSlippage,omitempty"`
	PlatformFee                 *PlatformFee          `json:"platformFee"`
	PriceImpactPct              decimal.Decimal       `json:"priceImpactPct"`
	RoutePlan                   RoutePlanWithMetadata `json:"routePlan"`
	ContextSlot                 uint64                `json:"contextSlot"`
	TimeTaken                   float64               `json:"timeTaken"`
}

// UnmarshalJSON rejects payloads without a swapMode; the field is
// required and has no implicit default.
func (r *QuoteResponse) UnmarshalJSON(data []byte) error {
	type plain QuoteResponse
	var res plain
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	if res.SwapMode == "" {
		return fmt.Errorf("quote response is missing swapMode")
	}
	*r = QuoteResponse(res)
	return nil
}
