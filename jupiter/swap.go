package jupiter

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// SwapRequest is the payload for the transaction-build endpoint: the user
// wallet, a previously obtained quote, and the build policy. The
// TransactionConfig fields are flattened into the same JSON object.
type SwapRequest struct {
	UserPublicKey solana.PublicKey `json:"userPublicKey"`
	QuoteResponse QuoteResponse    `json:"quoteResponse"`
	TransactionConfig
}

// NewSwapRequest builds a swap request with the default transaction
// config.
func NewSwapRequest(user solana.PublicKey, quote QuoteResponse) SwapRequest {
	return SwapRequest{
		UserPublicKey:     user,
		QuoteResponse:     quote,
		TransactionConfig: DefaultTransactionConfig(),
	}
}

// UnmarshalJSON decodes the flattened payload. The embedded config would
// otherwise promote its own UnmarshalJSON and swallow the outer fields.
func (r *SwapRequest) UnmarshalJSON(data []byte) error {
	var head struct {
		UserPublicKey solana.PublicKey `json:"userPublicKey"`
		QuoteResponse QuoteResponse    `json:"quoteResponse"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var cfg TransactionConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	r.UserPublicKey = head.UserPublicKey
	r.QuoteResponse = head.QuoteResponse
	r.TransactionConfig = cfg
	return nil
}

// SwapResponse carries the unsigned, base64-encoded transaction built by
// the API.
type SwapResponse struct {
	SwapTransaction           string  `json:"swapTransaction"`
	LastValidBlockHeight      uint64  `json:"lastValidBlockHeight"`
	PrioritizationFeeLamports *uint64 `json:"prioritizationFeeLamports,omitempty"`
}

// DecodeTransaction deserializes the base64 transaction, ready for local
// signing and submission.
func (r *SwapResponse) DecodeTransaction() (*solana.Transaction, error) {
	raw, err := base64.StdEncoding.DecodeString(r.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("decode tx: %w", err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal tx: %w", err)
	}
	return tx, nil
}
