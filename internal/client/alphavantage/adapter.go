package alphavantageclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samasastudio/sq-gendash/internal/cache"
	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/pkg/logger"
)

const (
	DefaultBaseURL     = "https://www.alphavantage.co/query"
	DefaultDailyTTL    = 6 * time.Hour
	DefaultIntradayTTL = 15 * time.Minute

	serviceName = "alphavantage"
	userAgent   = "sq-gendash/1"
)

type Adapter struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	cache       *cache.TTL[map[string]any]
	dailyTTL    time.Duration
	intradayTTL time.Duration
}

type Options struct {
	BaseURL     string
	APIKey      string
	DailyTTL    time.Duration
	IntradayTTL time.Duration
	HTTPClient  *http.Client
	// ClockNow drives cache expiry.
	ClockNow func() time.Time
}

func NewAdapter(opts Options) *Adapter {
	a := &Adapter{
		http:        opts.HTTPClient,
		baseURL:     opts.BaseURL,
		apiKey:      opts.APIKey,
		cache:       cache.NewTTL[map[string]any](opts.ClockNow),
		dailyTTL:    opts.DailyTTL,
		intradayTTL: opts.IntradayTTL,
	}
	if a.http == nil {
		a.http = &http.Client{Timeout: 15 * time.Second}
	}
	if a.baseURL == "" {
		a.baseURL = DefaultBaseURL
	}
	if a.dailyTTL <= 0 {
		a.dailyTTL = DefaultDailyTTL
	}
	if a.intradayTTL <= 0 {
		a.intradayTTL = DefaultIntradayTTL
	}
	return a
}

// Configured reports whether an API key is available.
func (a *Adapter) Configured() bool {
	return a != nil && a.apiKey != ""
}

// Query fetches one time series. Successful payloads are cached under the
// request URL with the key redacted. Rate limits and API errors reported
// in a 200 body come back as a failed response, not an error.
func (a *Adapter) Query(ctx context.Context, q dto.AlphaQuery) (dto.AlphaResponse, error) {
	log := logger.FromContext(ctx)

	if !a.Configured() {
		return dto.AlphaResponse{}, errs.NewExternalServiceError(serviceName, "alpha vantage api key is not configured", false, nil)
	}

	reqURL, err := a.buildURL(q)
	if err != nil {
		return dto.AlphaResponse{}, err
	}
	cacheKey := strings.ReplaceAll(reqURL, url.QueryEscape(a.apiKey), "{key}")

	if payload, ok := a.cache.Get(cacheKey); ok {
		log.Debug("alpha vantage cache hit", "function", q.Function, "symbol", q.Symbol)
		return dto.AlphaResponse{Payload: payload, Cached: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return dto.AlphaResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return dto.AlphaResponse{}, errs.NewExternalServiceError(serviceName, "failed to reach alpha vantage", true, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return dto.AlphaResponse{}, errs.NewExternalServiceError(serviceName, "failed to read alpha vantage response", true, err)
	}
	if resp.StatusCode != http.StatusOK {
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return dto.AlphaResponse{}, errs.NewExternalServiceError(serviceName,
			fmt.Sprintf("alpha vantage returned %s", resp.Status), transient, nil)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return dto.AlphaResponse{}, errs.NewExternalServiceError(serviceName, "alpha vantage returned invalid JSON", false, err)
	}

	if out, failed := sentinel(payload); failed {
		log.Warn("alpha vantage soft failure", "code", out.Code, "function", q.Function, "symbol", q.Symbol)
		return out, nil
	}

	a.cache.Set(cacheKey, payload, a.ttlFor(q.Function))
	return dto.AlphaResponse{Payload: payload}, nil
}

func (a *Adapter) buildURL(q dto.AlphaQuery) (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	params := url.Values{}
	params.Set("function", q.Function)
	params.Set("symbol", q.Symbol)
	if q.OutputSize != "" {
		params.Set("outputsize", q.OutputSize)
	}
	params.Set("apikey", a.apiKey)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (a *Adapter) ttlFor(function string) time.Duration {
	if strings.Contains(strings.ToUpper(function), "INTRADAY") {
		return a.intradayTTL
	}
	return a.dailyTTL
}

func sentinel(payload map[string]any) (dto.AlphaResponse, bool) {
	if note, ok := payload["Note"].(string); ok && note != "" {
		return dto.AlphaResponse{Code: dto.AlphaRateLimited, Message: note}, true
	}
	if msg, ok := payload["Error Message"].(string); ok && msg != "" {
		return dto.AlphaResponse{Code: dto.AlphaError, Message: msg}, true
	}
	if info, ok := payload["Information"].(string); ok && info != "" {
		return dto.AlphaResponse{Code: dto.AlphaInformation, Message: info}, true
	}
	return dto.AlphaResponse{}, false
}
