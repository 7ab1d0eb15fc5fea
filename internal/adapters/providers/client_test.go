package providers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"hotel_curator/internal/adapters/providers"
)

func TestClient_GetJSON_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1:
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"q": r.URL.Query().Get("q")})
		}
	}))
	defer ts.Close()

	cl := providers.NewClient("test", ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var got map[string]any
	if err := cl.GetJSON(ctx, "/x", url.Values{"q": {"villa"}}, &got); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["q"] != "villa" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if n := atomic.LoadInt32(&hits); n != 3 {
		t.Fatalf("expected 3 calls due to retries, got %d", n)
	}
}

func TestClient_GetJSON_StatusErrors(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, providers.ErrNotFound},
		{http.StatusUnauthorized, providers.ErrUnauthorized},
		{http.StatusForbidden, providers.ErrForbidden},
	}
	for _, tc := range cases {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
		}))
		cl := providers.NewClient("test", ts.URL, 100)
		var out any
		err := cl.GetJSON(context.Background(), "/", nil, &out)
		ts.Close()
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v want %v", tc.status, err, tc.want)
		}
	}
}

func TestClient_GetJSON_ContextCanceledDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cl := providers.NewClient("test", ts.URL, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out any
	if err := cl.GetJSON(ctx, "/", nil, &out); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
