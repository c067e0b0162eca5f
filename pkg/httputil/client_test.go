package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wonny/graham/pkg/logger"
)

func TestNew(t *testing.T) {
	client := New(logger.NewNop())
	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.httpClient == nil {
		t.Error("Expected http.Client to be initialized")
	}

	if client.logger == nil {
		t.Error("Expected logger to be set")
	}

	if len(client.limiters) != 0 {
		t.Errorf("Expected no limiters, got %d", len(client.limiters))
	}
}

func TestNewWithTimeout(t *testing.T) {
	timeout := 5 * time.Second
	client := NewWithTimeout(logger.NewNop(), timeout)

	if client.httpClient.Timeout != timeout {
		t.Errorf("Expected timeout=%v, got %v", timeout, client.httpClient.Timeout)
	}
}

func TestWithRateLimit(t *testing.T) {
	client := New(logger.NewNop()).WithRateLimit(0)
	if len(client.limiters) != 0 {
		t.Errorf("Expected zero rate to add no limiter, got %d", len(client.limiters))
	}

	client.WithRateLimit(5)
	if len(client.limiters) != 1 {
		t.Errorf("Expected one limiter, got %d", len(client.limiters))
	}
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := New(logger.NewNop())

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"XOM","latestPrice":101.5}`))
	}))
	defer server.Close()

	var out struct {
		Symbol      string  `json:"symbol"`
		LatestPrice float64 `json:"latestPrice"`
	}

	client := New(logger.NewNop())
	if err := client.GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}

	if out.Symbol != "XOM" || out.LatestPrice != 101.5 {
		t.Errorf("Unexpected decode result: %+v", out)
	}
}

func TestGetJSON_StatusError(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("down"))
	}))
	defer server.Close()

	client := New(logger.NewNop())

	var out map[string]interface{}
	err := client.GetJSON(context.Background(), server.URL+"/stock?token=secret", &out)
	if err == nil {
		t.Fatal("Expected error for 503 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *StatusError, got %T", err)
	}

	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", statusErr.StatusCode)
	}

	if strings.Contains(statusErr.URL, "secret") {
		t.Errorf("Expected token to be redacted, got %s", statusErr.URL)
	}

	// 재시도 없음: 한 번만 요청
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("Expected exactly 1 attempt, got %d", got)
	}
}

type countingLimiter struct {
	calls int
	err   error
}

func (l *countingLimiter) Wait(ctx context.Context) error {
	l.calls++
	return l.err
}

func TestLimiterConsulted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	limiter := &countingLimiter{}
	client := New(logger.NewNop()).WithLimiter(limiter)

	var out map[string]interface{}
	if err := client.GetJSON(context.Background(), server.URL, &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}

	if limiter.calls != 1 {
		t.Errorf("Expected limiter to be consulted once, got %d", limiter.calls)
	}

	limiter.err = context.Canceled
	if err := client.GetJSON(context.Background(), server.URL, &out); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected limiter error to propagate, got %v", err)
	}
}
