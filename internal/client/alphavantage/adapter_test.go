package alphavantageclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samasastudio/sq-gendash/internal/dto"
	"github.com/samasastudio/sq-gendash/internal/errs"
	"github.com/samasastudio/sq-gendash/pkg/helpers"
)

const dailyBody = `{
  "Meta Data": {"2. Symbol": "IBM", "3. Last Refreshed": "2024-01-03"},
  "Time Series (Daily)": {"2024-01-03": {"1. open": "1", "2. high": "2", "3. low": "0.5", "4. close": "1.5", "5. volume": "10"}}
}`

func newTestAdapter(t *testing.T, handler http.HandlerFunc, now *time.Time) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(Options{
		BaseURL:  srv.URL + "/query",
		APIKey:   "secret",
		DailyTTL: time.Hour,
		ClockNow: func() time.Time { return *now },
	})
}

func TestQueryCachesPayload(t *testing.T) {
	var calls atomic.Int32
	now := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		q := r.URL.Query()
		if q.Get("function") != "TIME_SERIES_DAILY" || q.Get("symbol") != "IBM" || q.Get("apikey") != "secret" {
			t.Errorf("unexpected query %v", q)
		}
		_, _ = w.Write([]byte(dailyBody))
	}, &now)

	query := dto.AlphaQuery{Function: "TIME_SERIES_DAILY", Symbol: "IBM"}
	first, err := a.Query(helpers.TestCtx(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached || first.Failed() || first.Payload["Time Series (Daily)"] == nil {
		t.Fatalf("unexpected first response %+v", first)
	}

	second, err := a.Query(helpers.TestCtx(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached || calls.Load() != 1 {
		t.Fatalf("expected cache hit, cached=%v calls=%d", second.Cached, calls.Load())
	}

	now = now.Add(2 * time.Hour)
	if _, err := a.Query(helpers.TestCtx(), query); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected refetch after ttl, calls=%d", calls.Load())
	}
}

func TestQuerySentinelsAreSoftAndUncached(t *testing.T) {
	tests := []struct {
		body string
		code string
	}{
		{body: `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, code: dto.AlphaRateLimited},
		{body: `{"Error Message": "Invalid API call."}`, code: dto.AlphaError},
		{body: `{"Information": "premium endpoint"}`, code: dto.AlphaInformation},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			var calls atomic.Int32
			now := time.Now()
			a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tt.body))
			}, &now)

			query := dto.AlphaQuery{Function: "TIME_SERIES_DAILY", Symbol: "NOPE"}
			resp, err := a.Query(helpers.TestCtx(), query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Code != tt.code || resp.Message == "" {
				t.Fatalf("unexpected response %+v", resp)
			}
			_, _ = a.Query(helpers.TestCtx(), query)
			if calls.Load() != 2 {
				t.Fatalf("soft failures must not be cached")
			}
		})
	}
}

func TestQueryHTTPErrors(t *testing.T) {
	now := time.Now()
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, &now)

	_, err := a.Query(helpers.TestCtx(), dto.AlphaQuery{Function: "TIME_SERIES_DAILY", Symbol: "IBM"})
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if !extErr.Transient || extErr.Service != "alphavantage" {
		t.Fatalf("unexpected error %+v", extErr)
	}
}

func TestQueryWithoutKey(t *testing.T) {
	a := NewAdapter(Options{})
	if a.Configured() {
		t.Fatalf("expected unconfigured adapter")
	}
	_, err := a.Query(helpers.TestCtx(), dto.AlphaQuery{Function: "TIME_SERIES_DAILY", Symbol: "IBM"})
	var extErr *errs.ExternalServiceError
	if !errors.As(err, &extErr) || extErr.Transient {
		t.Fatalf("expected permanent ExternalServiceError, got %v", err)
	}
}

func TestTTLForFunction(t *testing.T) {
	a := NewAdapter(Options{APIKey: "k"})
	if a.ttlFor("TIME_SERIES_INTRADAY") != DefaultIntradayTTL {
		t.Fatalf("expected intraday ttl")
	}
	if a.ttlFor("TIME_SERIES_WEEKLY") != DefaultDailyTTL {
		t.Fatalf("expected daily ttl")
	}
}
