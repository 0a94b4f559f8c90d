package jupiter

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeUnitPrice_RoundTrip(t *testing.T) {
	price := ComputeUnitPriceMicroLamports{MicroLamports: 5000}
	data, err := json.Marshal(price)
	require.NoError(t, err)
	assert.Equal(t, `5000`, string(data))

	var back ComputeUnitPriceMicroLamports
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, price, back)

	auto := ComputeUnitPriceMicroLamports{Auto: true}
	data, err = json.Marshal(auto)
	require.NoError(t, err)
	assert.Equal(t, `"auto"`, string(data))

	back = ComputeUnitPriceMicroLamports{}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, auto, back)
}

func TestComputeUnitPrice_AutoIsCaseSensitive(t *testing.T) {
	var price ComputeUnitPriceMicroLamports
	err := json.Unmarshal([]byte(`"Auto"`), &price)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized compute unit price")

	assert.Error(t, json.Unmarshal([]byte(`"automatic"`), &price))
	assert.Error(t, json.Unmarshal([]byte(`true`), &price))
	assert.Error(t, json.Unmarshal([]byte(`-5`), &price))
}

func TestComputeUnitPrice_RejectsNull(t *testing.T) {
	// null must not slip through the numeric probe as zero micro-lamports
	var price ComputeUnitPriceMicroLamports
	err := json.Unmarshal([]byte(`null`), &price)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized compute unit price representation: null")
	assert.Equal(t, ComputeUnitPriceMicroLamports{}, price)
}

func TestPriorityLevel_Decode(t *testing.T) {
	cases := []struct {
		in   string
		want PriorityLevel
	}{
		{`"medium"`, PriorityLevelMedium},
		{`"high"`, PriorityLevelHigh},
		{`"veryHigh"`, PriorityLevelVeryHigh},
	}
	for _, tc := range cases {
		var lvl PriorityLevel
		require.NoError(t, json.Unmarshal([]byte(tc.in), &lvl))
		assert.Equal(t, tc.want, lvl)
	}

	var lvl PriorityLevel
	assert.Error(t, json.Unmarshal([]byte(`"VeryHigh"`), &lvl))
	assert.Error(t, json.Unmarshal([]byte(`"low"`), &lvl))
}

func TestPrioritizationFee_CanonicalShapes(t *testing.T) {
	cases := []struct {
		name string
		fee  PrioritizationFeeLamports
		wire string
	}{
		{
			name: "auto multiplier",
			fee:  PrioritizationFeeLamports{Kind: PrioritizationFeeAutoMultiplier, AutoMultiplier: 2},
			wire: `{"autoMultiplier":2}`,
		},
		{
			name: "jito tip",
			fee:  PrioritizationFeeLamports{Kind: PrioritizationFeeJitoTip, JitoTipLamports: 10000},
			wire: `{"jitoTipLamports":10000}`,
		},
		{
			name: "priority level",
			fee: PrioritizationFeeLamports{
				Kind: PrioritizationFeePriorityLevel,
				PriorityLevel: PriorityLevelWithMaxLamports{
					PriorityLevel: PriorityLevelVeryHigh,
					MaxLamports:   1000000,
					Global:        true,
				},
			},
			wire: `{"priorityLevelWithMaxLamports":{"priorityLevel":"veryHigh","maxLamports":1000000,"global":true}}`,
		},
		{
			name: "auto",
			fee:  PrioritizationFeeLamports{Kind: PrioritizationFeeAuto},
			wire: `"auto"`,
		},
		{
			name: "exact lamports",
			fee:  PrioritizationFeeLamports{Kind: PrioritizationFeeExactLamports, Lamports: 4242},
			wire: `4242`,
		},
		{
			name: "disabled",
			fee:  PrioritizationFeeLamports{Kind: PrioritizationFeeDisabled},
			wire: `"disabled"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.fee)
			require.NoError(t, err)
			assert.JSONEq(t, tc.wire, string(data))

			var back PrioritizationFeeLamports
			require.NoError(t, json.Unmarshal([]byte(tc.wire), &back))
			assert.Equal(t, tc.fee, back)
		})
	}
}

func TestPrioritizationFee_GlobalDefaultsFalse(t *testing.T) {
	wire := `{"priorityLevelWithMaxLamports":{"priorityLevel":"high","maxLamports":5000}}`
	var fee PrioritizationFeeLamports
	require.NoError(t, json.Unmarshal([]byte(wire), &fee))
	assert.Equal(t, PrioritizationFeePriorityLevel, fee.Kind)
	assert.Equal(t, PriorityLevelHigh, fee.PriorityLevel.PriorityLevel)
	assert.Equal(t, uint64(5000), fee.PriorityLevel.MaxLamports)
	assert.False(t, fee.PriorityLevel.Global)
}

func TestPrioritizationFee_ZeroValueIsAuto(t *testing.T) {
	var fee PrioritizationFeeLamports
	data, err := json.Marshal(fee)
	require.NoError(t, err)
	assert.Equal(t, `"auto"`, string(data))
}

func TestPrioritizationFee_UnrecognizedShapes(t *testing.T) {
	cases := []string{
		`"Auto"`,
		`"Disabled"`,
		`"enabled"`,
		`{"somethingElse":1}`,
		`-7`,
		`true`,
		`[1,2]`,
	}
	for _, wire := range cases {
		var fee PrioritizationFeeLamports
		err := json.Unmarshal([]byte(wire), &fee)
		assert.Error(t, err, "wire shape %s should not decode", wire)
	}
}

func TestPrioritizationFee_RejectsNullNamingInput(t *testing.T) {
	var fee PrioritizationFeeLamports
	err := json.Unmarshal([]byte(`null`), &fee)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized prioritization fee representation: null")
}

func TestTransactionConfig_DecodeEmptyObject(t *testing.T) {
	var cfg TransactionConfig
	require.NoError(t, json.Unmarshal([]byte(`{}`), &cfg))
	assert.Equal(t, DefaultTransactionConfig(), cfg)
	assert.True(t, cfg.WrapAndUnwrapSol)
	assert.False(t, cfg.AllowOptimizedWrappedSolTokenAccount)
	assert.False(t, cfg.DynamicComputeUnitLimit)
	assert.False(t, cfg.AsLegacyTransaction)
	assert.False(t, cfg.UseTokenLedger)
	assert.False(t, cfg.SkipUserAccountsRPCCalls)
	assert.False(t, cfg.CorrectLastValidBlockHeight)
	assert.Nil(t, cfg.FeeAccount)
	assert.Nil(t, cfg.UseSharedAccounts)
	assert.Nil(t, cfg.ComputeUnitPriceMicroLamports)
	assert.Nil(t, cfg.PrioritizationFeeLamports)
	assert.Nil(t, cfg.DynamicSlippage)
	assert.Nil(t, cfg.KeyedUIAccounts)
}

func TestTransactionConfig_DecodeOverridesDefaults(t *testing.T) {
	payload := `{
		"wrapAndUnwrapSol": false,
		"feeAccount": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		"computeUnitPriceMicroLamports": "auto",
		"prioritizationFeeLamports": {"jitoTipLamports": 7777},
		"dynamicComputeUnitLimit": true,
		"dynamicSlippage": {"minBps": 10, "maxBps": 200}
	}`
	var cfg TransactionConfig
	require.NoError(t, json.Unmarshal([]byte(payload), &cfg))

	assert.False(t, cfg.WrapAndUnwrapSol)
	require.NotNil(t, cfg.FeeAccount)
	assert.Equal(t, testUsdcMint, *cfg.FeeAccount)
	require.NotNil(t, cfg.ComputeUnitPriceMicroLamports)
	assert.True(t, cfg.ComputeUnitPriceMicroLamports.Auto)
	require.NotNil(t, cfg.PrioritizationFeeLamports)
	assert.Equal(t, PrioritizationFeeJitoTip, cfg.PrioritizationFeeLamports.Kind)
	assert.Equal(t, uint64(7777), cfg.PrioritizationFeeLamports.JitoTipLamports)
	assert.True(t, cfg.DynamicComputeUnitLimit)
	require.NotNil(t, cfg.DynamicSlippage)
	require.NotNil(t, cfg.DynamicSlippage.MinBps)
	assert.Equal(t, uint16(10), *cfg.DynamicSlippage.MinBps)
}

func TestTransactionConfig_MalformedFeeAccountAborts(t *testing.T) {
	payload := `{"feeAccount": "zzz-not-base58"}`
	var cfg TransactionConfig
	assert.Error(t, json.Unmarshal([]byte(payload), &cfg))
}

func TestTransactionConfig_EncodesAccountsAsStrings(t *testing.T) {
	fee := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	cfg := DefaultTransactionConfig()
	cfg.FeeAccount = &fee

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", wire["feeAccount"])
	assert.Equal(t, true, wire["wrapAndUnwrapSol"])
	assert.Nil(t, wire["destinationTokenAccount"])
}

func TestKeyedUIAccount_FlattenedRoundTrip(t *testing.T) {
	wire := `{
		"pubkey": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		"lamports": 2039280,
		"data": ["AAECAw==", "base64"],
		"owner": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"executable": false,
		"rentEpoch": 361
	}`

	var acc KeyedUIAccount
	require.NoError(t, json.Unmarshal([]byte(wire), &acc))
	assert.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", acc.Pubkey)
	assert.Equal(t, uint64(2039280), acc.Lamports)
	assert.Equal(t, "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", acc.Owner)
	assert.Nil(t, acc.Params)

	data, err := json.Marshal(acc)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	// account state fields sit next to pubkey, not nested
	assert.Contains(t, out, "pubkey")
	assert.Contains(t, out, "lamports")
	assert.Contains(t, out, "owner")
	assert.NotContains(t, out, "params")
	assert.NotContains(t, out, "uiAccount")
}

func TestKeyedUIAccount_IgnoresUnknownKeys(t *testing.T) {
	wire := `{
		"pubkey": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		"lamports": 1,
		"data": null,
		"owner": "11111111111111111111111111111111",
		"executable": false,
		"rentEpoch": 0,
		"someFutureField": {"nested": true}
	}`
	var acc KeyedUIAccount
	assert.NoError(t, json.Unmarshal([]byte(wire), &acc))
}

func TestKeyedUIAccount_Validate(t *testing.T) {
	acc := KeyedUIAccount{Pubkey: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"}
	assert.NoError(t, acc.Validate())

	acc.Pubkey = "0OIl"
	assert.Error(t, acc.Validate())

	acc.Pubkey = "abc"
	assert.Error(t, acc.Validate())
}

func TestDynamicSlippageSettings_OptionalBounds(t *testing.T) {
	var s DynamicSlippageSettings
	require.NoError(t, json.Unmarshal([]byte(`{"minBps": 5}`), &s))
	require.NotNil(t, s.MinBps)
	assert.Equal(t, uint16(5), *s.MinBps)
	assert.Nil(t, s.MaxBps)
}
