package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/git-pkgs/etsi/client"
	"github.com/git-pkgs/etsi/internal/core"
)

var (
	ts103224 = core.SpecIdentifier{DocType: core.TS, Prefix: "103", Number: "224"}
	v010701  = core.VersionEntry{Directory: "01.07.01_60", Number: "01.07.01", ReleaseCode: "60"}
)

// stubProber answers Head from a fixed table and records call order.
type stubProber struct {
	answers map[string]error
	calls   []string
}

func (s *stubProber) Head(ctx context.Context, url string) (int64, string, error) {
	s.calls = append(s.calls, url)
	if err, ok := s.answers[url]; ok {
		if err != nil {
			return 0, "", err
		}
		return 100, "application/pdf", nil
	}
	return 0, "", ErrNotFound
}

func TestTemplateExpand(t *testing.T) {
	tests := []struct {
		template Template
		want     string
	}{
		{DefaultTemplates[0], "ts_103224v010701p.pdf"},
		{DefaultTemplates[1], "ts_103224v010701.pdf"},
		{DefaultTemplates[2], "103224v010701.pdf"},
		{DefaultTemplates[3], "103224v010701p.pdf"},
	}
	for _, tt := range tests {
		if got := tt.template.Expand("ts", "103224", "010701"); got != tt.want {
			t.Errorf("%s.Expand() = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestLocatorFilenames_MultiPart(t *testing.T) {
	id := core.SpecIdentifier{DocType: core.EG, Prefix: "202", Number: "396", Part: "3"}
	v := core.VersionEntry{Directory: "01.02.01_60", Number: "01.02.01", ReleaseCode: "60"}

	names := NewLocator(&stubProber{}).Filenames(v, id)
	want := []string{
		"eg_202396-3v010201p.pdf",
		"eg_202396-3v010201.pdf",
		"202396-3v010201.pdf",
		"202396-3v010201p.pdf",
	}
	if len(names) != len(want) {
		t.Fatalf("Filenames() = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLocate_StopsAtFirstSuccess(t *testing.T) {
	dir := "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224/"
	hit := dir + "01.07.01_60/ts_103224v010701.pdf"

	prober := &stubProber{answers: map[string]error{hit: nil}}
	got, err := NewLocator(prober).Locate(context.Background(), dir, v010701, ts103224)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != hit {
		t.Errorf("Locate = %q, want %q", got, hit)
	}

	wantCalls := []string{
		dir + "01.07.01_60/ts_103224v010701p.pdf",
		hit,
	}
	if len(prober.calls) != len(wantCalls) {
		t.Fatalf("probed %v, want %v", prober.calls, wantCalls)
	}
	for i := range wantCalls {
		if prober.calls[i] != wantCalls[i] {
			t.Errorf("call %d = %q, want %q", i, prober.calls[i], wantCalls[i])
		}
	}
}

func TestLocate_StatusAnswersMoveOn(t *testing.T) {
	dir := "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224"
	base := dir + "/01.07.01_60/"
	prober := &stubProber{answers: map[string]error{
		base + "ts_103224v010701p.pdf": ErrUpstreamDown,
		base + "ts_103224v010701.pdf":  fmt.Errorf("%w 403", ErrUnexpectedStatus),
		base + "103224v010701.pdf":     nil,
	}}

	got, err := NewLocator(prober).Locate(context.Background(), dir, v010701, ts103224)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != base+"103224v010701.pdf" {
		t.Errorf("Locate = %q", got)
	}
}

func TestLocate_NotFound(t *testing.T) {
	dir := "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224/"
	prober := &stubProber{}

	_, err := NewLocator(prober).Locate(context.Background(), dir, v010701, ts103224)
	if !errors.Is(err, core.ErrArtifactNotFound) {
		t.Fatalf("Locate error = %v, want ErrArtifactNotFound", err)
	}

	var notFound *core.ArtifactNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *core.ArtifactNotFoundError, got %T", err)
	}
	if notFound.VersionURL != dir+"01.07.01_60/" {
		t.Errorf("VersionURL = %q", notFound.VersionURL)
	}
	if len(notFound.Tried) != 4 || len(prober.calls) != 4 {
		t.Errorf("tried %d candidates with %d probes, want 4 and 4", len(notFound.Tried), len(prober.calls))
	}
}

func TestLocate_TransportErrorAborts(t *testing.T) {
	dir := "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224/"
	first := dir + "01.07.01_60/ts_103224v010701p.pdf"
	dialErr := errors.New("dial tcp: connection refused")
	prober := &stubProber{answers: map[string]error{first: dialErr}}

	_, err := NewLocator(prober).Locate(context.Background(), dir, v010701, ts103224)
	if !core.IsTransport(err) {
		t.Fatalf("Locate error = %v, want a transport error", err)
	}
	if !errors.Is(err, dialErr) {
		t.Errorf("error does not wrap the dial failure: %v", err)
	}
	if len(prober.calls) != 1 {
		t.Errorf("probes = %d, want 1", len(prober.calls))
	}
}

func TestLocate_CustomTemplates(t *testing.T) {
	dir := "https://www.etsi.org/deliver/etsi_ts/103200_103299/103224/"
	hit := dir + "01.07.01_60/TS_103224V010701.PDF"
	prober := &stubProber{answers: map[string]error{hit: nil}}

	l := NewLocator(prober, WithTemplates([]Template{"TS_{spec}V{version}.PDF"}))
	got, err := l.Locate(context.Background(), dir, v010701, ts103224)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != hit {
		t.Errorf("Locate = %q, want %q", got, hit)
	}
}

func TestLocate_AgainstServer(t *testing.T) {
	var methods []string
	mux := http.NewServeMux()
	mux.HandleFunc("/deliver/etsi_ts/103200_103299/103224/01.07.01_60/", func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.URL.Path == "/deliver/etsi_ts/103200_103299/103224/01.07.01_60/ts_103224v010701p.pdf" {
			w.Header().Set("Content-Type", "application/pdf")
			return
		}
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewFetcher()
	defer fetcher.Close()

	urls := client.NewDeliveryURLs(server.URL + "/deliver")
	l := NewLocator(NewCircuitBreakerFetcher(fetcher), WithURLBuilder(urls))

	dir := server.URL + "/deliver/etsi_ts/103200_103299/103224/"
	got, err := l.Locate(context.Background(), dir, v010701, ts103224)
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if got != dir+"01.07.01_60/ts_103224v010701p.pdf" {
		t.Errorf("Locate = %q", got)
	}
	if len(methods) != 1 || methods[0] != http.MethodHead {
		t.Errorf("requests = %v, want a single HEAD", methods)
	}
}
