package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.jup.ag/swap/v1"

// Client talks to the Jupiter swap API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	Logger  *logrus.Logger
	// Limiter, when set, gates every request.
	Limiter *rate.Limiter
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("jupiter http %d", e.StatusCode)
	}
	return fmt.Sprintf("jupiter http %d: %s", e.StatusCode, b)
}

// Quote fetches a quote for the requested swap. The request is projected
// onto its internal shape for the flat query string; quote args ride as
// sibling parameters.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	if req.InputMint.IsZero() {
		return nil, fmt.Errorf("inputMint is required")
	}
	if req.OutputMint.IsZero() {
		return nil, fmt.Errorf("outputMint is required")
	}
	if req.Amount == 0 {
		return nil, fmt.Errorf("amount is required")
	}

	internal := req.Internal()

	q := url.Values{}
	q.Set("inputMint", internal.InputMint.String())
	q.Set("outputMint", internal.OutputMint.String())
	q.Set("amount", strconv.FormatUint(internal.Amount, 10))
	q.Set("slippageBps", strconv.FormatUint(uint64(internal.SlippageBps), 10))

	if internal.SwapMode != nil {
		q.Set("swapMode", internal.SwapMode.String())
	}
	if internal.AutoSlippage != nil {
		q.Set("autoSlippage", strconv.FormatBool(*internal.AutoSlippage))
	}
	if internal.MaxAutoSlippageBps != nil {
		q.Set("maxAutoSlippageBps", strconv.FormatUint(uint64(*internal.MaxAutoSlippageBps), 10))
	}
	if internal.ComputeAutoSlippage {
		q.Set("computeAutoSlippage", "true")
	}
	if internal.AutoSlippageCollisionUsdValue != nil {
		q.Set("autoSlippageCollisionUsdValue", strconv.FormatUint(uint64(*internal.AutoSlippageCollisionUsdValue), 10))
	}
	if internal.MinimizeSlippage != nil {
		q.Set("minimizeSlippage", strconv.FormatBool(*internal.MinimizeSlippage))
	}
	if internal.PlatformFeeBps != nil {
		q.Set("platformFeeBps", strconv.FormatUint(uint64(*internal.PlatformFeeBps), 10))
	}
	if internal.Dexes != nil {
		q.Set("dexes", *internal.Dexes)
	}
	if internal.ExcludedDexes != nil {
		q.Set("excludedDexes", *internal.ExcludedDexes)
	}
	if internal.OnlyDirectRoutes != nil {
		q.Set("onlyDirectRoutes", strconv.FormatBool(*internal.OnlyDirectRoutes))
	}
	if internal.AsLegacyTransaction != nil {
		q.Set("asLegacyTransaction", strconv.FormatBool(*internal.AsLegacyTransaction))
	}
	if internal.RestrictIntermediateTokens != nil {
		q.Set("restrictIntermediateTokens", strconv.FormatBool(*internal.RestrictIntermediateTokens))
	}
	if internal.MaxAccounts != nil {
		q.Set("maxAccounts", strconv.FormatUint(*internal.MaxAccounts, 10))
	}
	if internal.QuoteType != nil {
		q.Set("quoteType", *internal.QuoteType)
	}
	if internal.PreferLiquidDexes != nil {
		q.Set("preferLiquidDexes", strconv.FormatBool(*internal.PreferLiquidDexes))
	}
	// Quote-type specific extras travel next to the internal request, not
	// inside it. Projected fields win over colliding arg keys.
	for k, v := range req.QuoteArgs {
		if q.Has(k) {
			continue
		}
		q.Set(k, v)
	}

	body, err := c.do(ctx, http.MethodGet, "/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var out QuoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode jupiter quote response: %w", err)
	}
	return &out, nil
}

// Swap asks the API to build the swap transaction for a quote.
func (c *Client) Swap(ctx context.Context, req SwapRequest) (*SwapResponse, error) {
	if req.UserPublicKey.IsZero() {
		return nil, fmt.Errorf("userPublicKey is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/swap", payload)
	if err != nil {
		return nil, err
	}

	var out SwapResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode jupiter swap response: %w", err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("content-type", "application/json")
	}
	if c.APIKey != "" {
		httpReq.Header.Set("x-api-key", c.APIKey)
	}

	if c.Logger != nil {
		c.Logger.WithFields(logrus.Fields{
			"method": method,
			"url":    httpReq.URL.String(),
		}).Debug("jupiter request")
	}

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}
	return body, nil
}
