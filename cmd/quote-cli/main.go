package main

import (
	"context"
	"os"
	"time"

	"github.com/SailQuant/jupiter-swap-api-client/internal/config"
	"github.com/SailQuant/jupiter-swap-api-client/jupiter"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	solMint  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	usdcMint = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
)

// main fetches a SOL -> USDC quote and builds the swap transaction for
// the wallet in USER_PUBLIC_KEY, if provided.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := godotenv.Load(); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}

	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	client := jupiter.NewClient(cfg.BaseURL, cfg.APIKey)
	client.Logger = logger
	client.HTTP.Timeout = cfg.HTTPTimeout
	if cfg.RateLimitRPS > 0 {
		client.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	quote, err := client.Quote(ctx, jupiter.QuoteRequest{
		InputMint:   solMint,
		OutputMint:  usdcMint,
		Amount:      1_000_000_000, // 1 SOL
		SlippageBps: 50,
	})
	if err != nil {
		logger.WithError(err).Fatal("quote failed")
	}

	logger.WithFields(logrus.Fields{
		"inAmount":       quote.InAmount,
		"outAmount":      quote.OutAmount,
		"priceImpactPct": quote.PriceImpactPct.String(),
		"hops":           len(quote.RoutePlan),
	}).Info("quote received")

	for i, step := range quote.RoutePlan {
		logger.WithFields(logrus.Fields{
			"hop":     i,
			"amm":     step.SwapInfo.Label,
			"percent": step.Percent,
		}).Debug("route hop")
	}

	userKey := os.Getenv("USER_PUBLIC_KEY")
	if userKey == "" {
		logger.Info("USER_PUBLIC_KEY not set, skipping swap build")
		return
	}
	user, err := solana.PublicKeyFromBase58(userKey)
	if err != nil {
		logger.WithError(err).Fatal("invalid USER_PUBLIC_KEY")
	}

	swapReq := jupiter.NewSwapRequest(user, *quote)
	swapReq.DynamicComputeUnitLimit = true
	swapReq.PrioritizationFeeLamports = &jupiter.PrioritizationFeeLamports{
		Kind: jupiter.PrioritizationFeeAuto,
	}

	swap, err := client.Swap(ctx, swapReq)
	if err != nil {
		logger.WithError(err).Fatal("swap build failed")
	}

	tx, err := swap.DecodeTransaction()
	if err != nil {
		logger.WithError(err).Fatal("transaction decode failed")
	}

	logger.WithFields(logrus.Fields{
		"lastValidBlockHeight": swap.LastValidBlockHeight,
		"signaturesRequired":   tx.Message.Header.NumRequiredSignatures,
	}).Info("swap transaction built")
}
