package etsi

import (
	"context"
	"log/slog"
	"time"

	"github.com/git-pkgs/etsi/client"
	"github.com/git-pkgs/etsi/fetch"
	"github.com/git-pkgs/etsi/internal/core"
	"github.com/git-pkgs/etsi/internal/directory"
	"github.com/git-pkgs/etsi/internal/pdfmeta"
	"github.com/git-pkgs/etsi/internal/versions"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// DefaultTimeout bounds listing page and artifact downloads.
	DefaultTimeout = 30 * time.Second
	// DefaultProbeTimeout bounds each artifact existence probe.
	DefaultProbeTimeout = 10 * time.Second
	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "etsi/1.0"
)

// Range is one bucket of the directory fallback table.
type Range = directory.Range

// Template is a candidate artifact filename with {type}, {spec} and
// {version} placeholders.
type Template = fetch.Template

// DefaultRanges returns a copy of the built-in fallback range table.
func DefaultRanges() []Range {
	return append([]Range(nil), directory.DefaultRanges...)
}

// DefaultTemplates returns a copy of the built-in artifact filename table.
func DefaultTemplates() []Template {
	return append([]Template(nil), fetch.DefaultTemplates...)
}

type options struct {
	baseURL      string
	userAgent    string
	timeout      time.Duration
	probeTimeout time.Duration
	ranges       []Range
	templates    []Template
	logger       *slog.Logger
	client       *Client
	fetcher      fetch.FetcherInterface
	registerer   prometheus.Registerer
	skipMetadata bool
}

// Option configures a Resolver.
type Option func(*options)

// WithBaseURL sets the root of the delivery tree.
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithTimeout sets the timeout for listing pages and artifact downloads.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithProbeTimeout sets the timeout for each artifact existence probe.
func WithProbeTimeout(d time.Duration) Option {
	return func(o *options) {
		o.probeTimeout = d
	}
}

// WithRanges replaces the directory fallback range table.
func WithRanges(ranges []Range) Option {
	return func(o *options) {
		o.ranges = ranges
	}
}

// WithTemplates replaces the candidate artifact filename table.
func WithTemplates(templates []Template) Option {
	return func(o *options) {
		o.templates = templates
	}
}

// WithLogger sets the logger. Each query logs with its own query_id.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithClient sets the client used for listing pages.
func WithClient(c *Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithFetcher sets the fetcher used for existence probes and artifact
// downloads. The Resolver does not close it.
func WithFetcher(f fetch.FetcherInterface) Option {
	return func(o *options) {
		o.fetcher = f
	}
}

// WithMetrics registers request counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithoutMetadata skips downloading the artifact.
func WithoutMetadata() Option {
	return func(o *options) {
		o.skipMetadata = true
	}
}

// Resolver runs the resolution pipeline and may be reused, also from
// several goroutines. Query results share nothing.
//
// The one state that outlives a query is the per-host circuit breaker of
// the fetcher New builds: after five failed artifact requests to a host
// within its window, later queries to that host fail fast with
// fetch.ErrCircuitOpen until the breaker's backoff elapses. Pass
// WithFetcher to use a fetcher without a breaker.
type Resolver struct {
	urls         client.URLBuilder
	directories  *directory.Resolver
	versions     *versions.Enumerator
	locator      *fetch.Locator
	extractor    *pdfmeta.Extractor
	logger       *slog.Logger
	skipMetadata bool

	owned *fetch.Fetcher
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	o := &options{
		userAgent:    DefaultUserAgent,
		timeout:      DefaultTimeout,
		probeTimeout: DefaultProbeTimeout,
		ranges:       directory.DefaultRanges,
		templates:    fetch.DefaultTemplates,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}

	r := &Resolver{
		urls:         client.NewDeliveryURLs(o.baseURL),
		logger:       o.logger,
		skipMetadata: o.skipMetadata,
	}

	lister := o.client
	if lister == nil {
		lister = client.NewClient(client.WithTimeout(o.timeout))
	}
	lister = lister.WithUserAgent(o.userAgent)

	f := o.fetcher
	if f == nil {
		var m *fetch.Metrics
		if o.registerer != nil {
			m = fetch.NewMetrics(o.registerer)
		}
		r.owned = fetch.NewFetcher(fetch.WithUserAgent(o.userAgent), fetch.WithMetrics(m))
		f = fetch.NewCircuitBreakerFetcher(r.owned)
	}

	r.directories = directory.New(lister,
		directory.WithURLBuilder(r.urls),
		directory.WithRanges(o.ranges),
		directory.WithTimeout(o.timeout),
		directory.WithLogger(o.logger),
	)
	r.versions = versions.New(lister, o.timeout)
	r.locator = fetch.NewLocator(f,
		fetch.WithURLBuilder(r.urls),
		fetch.WithTemplates(o.templates),
		fetch.WithProbeTimeout(o.probeTimeout),
	)
	r.extractor = pdfmeta.New(f,
		pdfmeta.WithTimeout(o.timeout),
		pdfmeta.WithLogger(o.logger),
	)
	return r
}

// Close releases the resources of the Resolver's own fetcher.
func (r *Resolver) Close() {
	if r.owned != nil {
		r.owned.Close()
	}
}

// Resolve parses raw and resolves it. See ResolveIdentifier.
func (r *Resolver) Resolve(ctx context.Context, raw string) (*ResolvedSpec, error) {
	id, err := core.ParseIdentifier(raw)
	if err != nil {
		return nil, err
	}
	return r.ResolveIdentifier(ctx, id)
}

// ResolveIdentifier runs each stage in turn: directory, versions, artifact
// and metadata. The returned ResolvedSpec is never nil and holds whatever
// was resolved before a failure.
//
// A directory without versions returns a *SpecNotFoundError. A version
// without a matching artifact returns an *ArtifactNotFoundError. Failed
// remote calls, including the artifact download, return a *TransportError.
// An artifact that downloads but cannot be read leaves Metadata empty and
// is not an error.
func (r *Resolver) ResolveIdentifier(ctx context.Context, id SpecIdentifier) (*ResolvedSpec, error) {
	log := r.logger.With("query_id", uuid.NewString(), "spec", id.String())
	result := &ResolvedSpec{Identifier: id}

	result.DirectoryURL = r.directories.Resolve(ctx, id)
	log.Debug("directory resolved", "url", result.DirectoryURL)

	vs, err := r.versions.Enumerate(ctx, result.DirectoryURL)
	if err != nil {
		log.Error("listing versions failed", "error", err)
		return result, err
	}
	result.Versions = vs
	if len(vs) == 0 {
		log.Info("no versions found", "url", result.DirectoryURL)
		return result, &core.SpecNotFoundError{Identifier: id, DirectoryURL: result.DirectoryURL}
	}

	latest := vs[0]
	result.Latest = &latest
	log.Debug("latest version selected", "version", latest.Directory, "count", len(vs))

	artifactURL, err := r.locator.Locate(ctx, result.DirectoryURL, latest, id)
	if err != nil {
		log.Error("locating artifact failed", "version", latest.Directory, "error", err)
		return result, err
	}
	result.ArtifactURL = artifactURL

	if r.skipMetadata {
		return result, nil
	}

	md, err := r.extractor.Extract(ctx, artifactURL)
	if err != nil {
		log.Error("downloading artifact failed", "url", artifactURL, "error", err)
		return result, err
	}
	result.Metadata = md
	log.Info("resolved", "version", latest.Display(), "artifact", artifactURL)
	return result, nil
}
