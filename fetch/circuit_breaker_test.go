package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCircuitBreakerFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte(pdfStub))
	}))
	defer server.Close()

	fetcher := NewFetcher()
	defer fetcher.Close()
	cbFetcher := NewCircuitBreakerFetcher(fetcher)

	artifact, err := cbFetcher.Fetch(context.Background(), server.URL+"/ts_103224v010701p.pdf")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = artifact.Body.Close() }()

	body, _ := io.ReadAll(artifact.Body)
	if string(body) != pdfStub {
		t.Errorf("unexpected body %q", string(body))
	}
}

func TestCircuitBreakerHead_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD request, got %s", r.Method)
		}
		w.Header().Set("Content-Length", "1234")
		w.Header().Set("Content-Type", "application/pdf")
	}))
	defer server.Close()

	fetcher := NewFetcher()
	defer fetcher.Close()
	cbFetcher := NewCircuitBreakerFetcher(fetcher)

	size, contentType, err := cbFetcher.Head(context.Background(), server.URL+"/ts_103224v010701p.pdf")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if size != 1234 {
		t.Errorf("expected size 1234, got %d", size)
	}
	if contentType != "application/pdf" {
		t.Errorf("expected content type application/pdf, got %s", contentType)
	}
}

func TestCircuitBreakerNotFoundDoesNotTrip(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher()
	defer fetcher.Close()
	cbFetcher := NewCircuitBreakerFetcher(fetcher)

	for range 12 {
		_, _, err := cbFetcher.Head(context.Background(), server.URL+"/missing.pdf")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Head = %v, want ErrNotFound", err)
		}
	}

	if requests != 12 {
		t.Errorf("requests = %d, want 12", requests)
	}
	for host, state := range cbFetcher.GetBreakerState() {
		if state != "closed" {
			t.Errorf("breaker for %s is %s, want closed", host, state)
		}
	}
}

func TestCircuitBreakerOpensOnFailures(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(WithMaxRetries(0))
	defer fetcher.Close()
	cbFetcher := NewCircuitBreakerFetcher(fetcher)

	var lastErr error
	for range 10 {
		_, lastErr = cbFetcher.Fetch(context.Background(), server.URL+"/x.pdf")
	}

	if requests != 5 {
		t.Errorf("requests = %d, want 5 before the breaker opened", requests)
	}
	if !errors.Is(lastErr, ErrCircuitOpen) {
		t.Errorf("last error = %v, want ErrCircuitOpen", lastErr)
	}
	if !errors.Is(lastErr, ErrUpstreamDown) {
		t.Errorf("last error = %v, want it to wrap ErrUpstreamDown", lastErr)
	}
	if IsStatus(lastErr) {
		t.Error("an open breaker must not look like a status answer")
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "delivery tree",
			url:      "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224/01.07.01_60/ts_103224v010701p.pdf",
			expected: "www.etsi.org",
		},
		{
			name:     "invalid URL",
			url:      "not-a-valid-url",
			expected: "not-a-valid-url",
		},
		{
			name:     "with port",
			url:      "http://localhost:8080/deliver/",
			expected: "localhost:8080",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractHost(tt.url); got != tt.expected {
				t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestCircuitBreakerMultipleHosts(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	server1 := httptest.NewServer(handler)
	defer server1.Close()
	server2 := httptest.NewServer(handler)
	defer server2.Close()

	fetcher := NewFetcher()
	defer fetcher.Close()
	cbFetcher := NewCircuitBreakerFetcher(fetcher)

	if states := cbFetcher.GetBreakerState(); len(states) != 0 {
		t.Errorf("expected empty states, got %d entries", len(states))
	}

	for _, u := range []string{server1.URL, server2.URL} {
		art, err := cbFetcher.Fetch(context.Background(), u+"/x.pdf")
		if err != nil {
			t.Fatalf("fetch %s failed: %v", u, err)
		}
		_ = art.Body.Close()
	}

	if states := cbFetcher.GetBreakerState(); len(states) != 2 {
		t.Errorf("expected 2 breaker states, got %d", len(states))
	}
}
