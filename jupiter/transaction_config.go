package jupiter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ComputeUnitPriceMicroLamports is either an explicit micro-lamport rate
// or the "auto" sentinel. When Auto is set the rate is ignored.
type ComputeUnitPriceMicroLamports struct {
	MicroLamports uint64
	Auto          bool
}

func (c ComputeUnitPriceMicroLamports) MarshalJSON() ([]byte, error) {
	if c.Auto {
		return json.Marshal("auto")
	}
	return json.Marshal(c.MicroLamports)
}

// UnmarshalJSON probes the numeric shape before the string sentinel; the
// order is part of the wire contract.
func (c *ComputeUnitPriceMicroLamports) UnmarshalJSON(data []byte) error {
	// json.Unmarshal treats null as a no-op for uint64, which would let
	// null slip through the numeric probe as zero.
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("unrecognized compute unit price representation: null")
	}
	var n uint64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = ComputeUnitPriceMicroLamports{MicroLamports: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s == "auto" {
		*c = ComputeUnitPriceMicroLamports{Auto: true}
		return nil
	}
	return fmt.Errorf("unrecognized compute unit price representation: %s", data)
}

// PriorityLevel is the fee urgency tier used with
// PrioritizationFeeLamports.
type PriorityLevel string

const (
	PriorityLevelMedium   PriorityLevel = "medium"
	PriorityLevelHigh     PriorityLevel = "high"
	PriorityLevelVeryHigh PriorityLevel = "veryHigh"
)

func (l PriorityLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(l))
}

func (l *PriorityLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priorityLevel must be a string: %w", err)
	}
	switch PriorityLevel(s) {
	case PriorityLevelMedium, PriorityLevelHigh, PriorityLevelVeryHigh:
		*l = PriorityLevel(s)
		return nil
	default:
		return fmt.Errorf("%q is not a valid PriorityLevel", s)
	}
}

// PrioritizationFeeKind discriminates the PrioritizationFeeLamports
// variants. The zero value is Auto, which is also the API default.
type PrioritizationFeeKind int

const (
	PrioritizationFeeAuto PrioritizationFeeKind = iota
	PrioritizationFeeAutoMultiplier
	PrioritizationFeeJitoTip
	PrioritizationFeePriorityLevel
	PrioritizationFeeExactLamports
	PrioritizationFeeDisabled
)

// PriorityLevelWithMaxLamports caps the computed priority fee while
// targeting a fee urgency tier.
type PriorityLevelWithMaxLamports struct {
	PriorityLevel PriorityLevel `json:"priorityLevel"`
	MaxLamports   uint64        `json:"maxLamports"`
	Global        bool          `json:"global"`
}

// PrioritizationFeeLamports selects how the priority fee is determined.
// Only the field matching Kind is meaningful.
type PrioritizationFeeLamports struct {
	Kind            PrioritizationFeeKind
	AutoMultiplier  uint32
	JitoTipLamports uint64
	PriorityLevel   PriorityLevelWithMaxLamports
	Lamports        uint64
}

func (p PrioritizationFeeLamports) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PrioritizationFeeAutoMultiplier:
		return json.Marshal(struct {
			AutoMultiplier uint32 `json:"autoMultiplier"`
		}{p.AutoMultiplier})
	case PrioritizationFeeJitoTip:
		return json.Marshal(struct {
			JitoTipLamports uint64 `json:"jitoTipLamports"`
		}{p.JitoTipLamports})
	case PrioritizationFeePriorityLevel:
		return json.Marshal(struct {
			PriorityLevelWithMaxLamports PriorityLevelWithMaxLamports `json:"priorityLevelWithMaxLamports"`
		}{p.PriorityLevel})
	case PrioritizationFeeAuto:
		return json.Marshal("auto")
	case PrioritizationFeeExactLamports:
		return json.Marshal(p.Lamports)
	case PrioritizationFeeDisabled:
		return json.Marshal("disabled")
	default:
		return nil, fmt.Errorf("unknown prioritization fee kind %d", p.Kind)
	}
}

// UnmarshalJSON probes, in order: the autoMultiplier object, the
// jitoTipLamports object, the priorityLevelWithMaxLamports object, the
// "auto" sentinel, a bare lamport number, the "disabled" sentinel. The
// first structurally matching shape wins; swapping two probes changes
// observable behavior, so the order is a contract.
func (p *PrioritizationFeeLamports) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("unrecognized prioritization fee representation: empty")
	}
	// null no-ops through the string probe and would report an empty
	// string instead of the actual input.
	if bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("unrecognized prioritization fee representation: null")
	}

	if trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("invalid prioritization fee object: %w", err)
		}
		if raw, ok := obj["autoMultiplier"]; ok {
			var m uint32
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("invalid autoMultiplier: %w", err)
			}
			*p = PrioritizationFeeLamports{Kind: PrioritizationFeeAutoMultiplier, AutoMultiplier: m}
			return nil
		}
		if raw, ok := obj["jitoTipLamports"]; ok {
			var tip uint64
			if err := json.Unmarshal(raw, &tip); err != nil {
				return fmt.Errorf("invalid jitoTipLamports: %w", err)
			}
			*p = PrioritizationFeeLamports{Kind: PrioritizationFeeJitoTip, JitoTipLamports: tip}
			return nil
		}
		if raw, ok := obj["priorityLevelWithMaxLamports"]; ok {
			var lvl PriorityLevelWithMaxLamports
			if err := json.Unmarshal(raw, &lvl); err != nil {
				return fmt.Errorf("invalid priorityLevelWithMaxLamports: %w", err)
			}
			*p = PrioritizationFeeLamports{Kind: PrioritizationFeePriorityLevel, PriorityLevel: lvl}
			return nil
		}
		return fmt.Errorf("unrecognized prioritization fee representation: %s", trimmed)
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		switch s {
		case "auto":
			*p = PrioritizationFeeLamports{Kind: PrioritizationFeeAuto}
			return nil
		case "disabled":
			*p = PrioritizationFeeLamports{Kind: PrioritizationFeeDisabled}
			return nil
		}
		return fmt.Errorf("unrecognized prioritization fee representation: %q", s)
	}

	var n uint64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		*p = PrioritizationFeeLamports{Kind: PrioritizationFeeExactLamports, Lamports: n}
		return nil
	}

	return fmt.Errorf("unrecognized prioritization fee representation: %s", trimmed)
}

// DynamicSlippageSettings bounds the server-side dynamic slippage.
type DynamicSlippageSettings struct {
	MinBps *uint16 `json:"minBps"`
	MaxBps *uint16 `json:"maxBps"`
}

// TransactionConfig is the transaction-building policy sent alongside a
// quote. Fields missing from the wire payload take the documented
// defaults rather than staying absent.
type TransactionConfig struct {
	// Ignored when DestinationTokenAccount is set, since that account may
	// belong to a different user and cannot be closed on their behalf.
	WrapAndUnwrapSol bool `json:"wrapAndUnwrapSol"`
	// Allows the cheaper WSOL account scheme (transfer, assign with seed,
	// allocate with seed, init account 3) instead of creating an ATA.
	AllowOptimizedWrappedSolTokenAccount bool `json:"allowOptimizedWrappedSolTokenAccount"`
	// Fee token account for the output token. Only pass in when feeBps is
	// set and the account already exists.
	FeeAccount *solana.PublicKey `json:"feeAccount"`
	// Token account receiving the swap output. Defaults to the user's
	// ATA; when provided it is assumed initialized.
	DestinationTokenAccount *solana.PublicKey `json:"destinationTokenAccount"`
	// Read-only, non-signing account for external tracking.
	TrackingAccount *solana.PublicKey `json:"trackingAccount"`
	// Extra fee = compute units consumed * price. Mutually exclusive with
	// PrioritizationFeeLamports.
	ComputeUnitPriceMicroLamports *ComputeUnitPriceMicroLamports `json:"computeUnitPriceMicroLamports"`
	PrioritizationFeeLamports     *PrioritizationFeeLamports     `json:"prioritizationFeeLamports"`
	// Simulate the swap to size the compute unit limit; costs one extra
	// RPC call of latency.
	DynamicComputeUnitLimit bool `json:"dynamicComputeUnitLimit"`
	// Pair with a quote that used asLegacyTransaction or the transaction
	// might be too big.
	AsLegacyTransaction bool `json:"asLegacyTransaction"`
	// Shared program accounts: no intermediate token or open-orders
	// accounts need creating, at the cost of hotter accounts. Left unset,
	// the API decides.
	UseSharedAccounts *bool `json:"useSharedAccounts"`
	// Swap only the difference between the token ledger record and the
	// current token amount. Useful when a pre-swap instruction tops up
	// the input token.
	UseTokenLedger bool `json:"useTokenLedger"`
	// Assume user accounts do not exist instead of checking over RPC; all
	// setup instructions get populated.
	SkipUserAccountsRPCCalls bool `json:"skipUserAccountsRpcCalls"`
	// Keyed accounts let the API load AMMs missing from its market cache.
	KeyedUIAccounts    []KeyedUIAccount         `json:"keyedUiAccounts"`
	ProgramAuthorityID *uint8                   `json:"programAuthorityId"`
	DynamicSlippage    *DynamicSlippageSettings `json:"dynamicSlippage"`
	// Remaining slots before the blockhash expires.
	BlockhashSlotsToExpiry *uint8 `json:"blockhashSlotsToExpiry"`
	// Request the correct last valid block height, for the agave 2.0
	// transition (solana-labs/solana#24526).
	CorrectLastValidBlockHeight bool `json:"correctLastValidBlockHeight"`
}

// DefaultTransactionConfig returns the documented defaults: SOL wrapping
// on, everything else off or absent.
func DefaultTransactionConfig() TransactionConfig {
	return TransactionConfig{
		WrapAndUnwrapSol: true,
	}
}

// UnmarshalJSON overlays the payload on the defaults, so `{}` decodes to
// DefaultTransactionConfig rather than the zero value.
func (c *TransactionConfig) UnmarshalJSON(data []byte) error {
	type plain TransactionConfig
	cfg := plain(DefaultTransactionConfig())
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	*c = TransactionConfig(cfg)
	return nil
}

// UIAccount is the account state in the RPC UI encoding. Data is kept
// raw and round-trip preserving; its layout depends on the requested
// encoding.
type UIAccount struct {
	Lamports   uint64          `json:"lamports"`
	Data       json.RawMessage `json:"data"`
	Owner      string          `json:"owner"`
	Executable bool            `json:"executable"`
	RentEpoch  uint64          `json:"rentEpoch"`
	Space      *uint64         `json:"space,omitempty"`
}

// KeyedUIAccount pairs an account address with its state. The embedded
// UIAccount fields sit at the same nesting level as pubkey on the wire.
type KeyedUIAccount struct {
	Pubkey string `json:"pubkey"`
	UIAccount
	// Additional data an AMM requires; AMM dependent and decoded in the
	// AMM implementation.
	Params json.RawMessage `json:"params,omitempty"`
}

// Validate checks that the pubkey is a canonical 32-byte base58 string.
func (a KeyedUIAccount) Validate() error {
	raw, err := base58.Decode(a.Pubkey)
	if err != nil {
		return fmt.Errorf("invalid pubkey %q: %w", a.Pubkey, err)
	}
	if len(raw) != 32 {
		return fmt.Errorf("invalid pubkey %q: expected 32 bytes, got %d", a.Pubkey, len(raw))
	}
	return nil
}
