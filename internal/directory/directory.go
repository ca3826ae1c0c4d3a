// Package directory maps a specification identifier to the delivery
// directory holding all of its versions.
package directory

import (
	"context"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/git-pkgs/etsi/client"
	"github.com/git-pkgs/etsi/internal/core"
	"github.com/git-pkgs/etsi/internal/listing"
)

// Range is one bucket of the numeric fallback table. Min and Max are
// inclusive and apply to the last three digits of the spec code.
type Range struct {
	Min   int    `yaml:"min"`
	Max   int    `yaml:"max"`
	Label string `yaml:"label"`
}

// DefaultRanges buckets spec numbers into ten 100-wide ranges.
var DefaultRanges = []Range{
	{0, 99, "00_099"},
	{100, 199, "100_199"},
	{200, 299, "200_299"},
	{300, 399, "300_399"},
	{400, 499, "400_499"},
	{500, 599, "500_599"},
	{600, 699, "600_699"},
	{700, 799, "700_799"},
	{800, 899, "800_899"},
	{900, 999, "900_999"},
}

// Lister fetches listing pages.
type Lister interface {
	GetBody(ctx context.Context, url string) ([]byte, error)
}

// Resolver finds delivery directories.
type Resolver struct {
	lister  Lister
	urls    client.URLBuilder
	ranges  []Range
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRanges replaces the fallback range table.
func WithRanges(ranges []Range) Option {
	return func(r *Resolver) {
		r.ranges = ranges
	}
}

// WithURLBuilder sets the delivery tree layout.
func WithURLBuilder(u client.URLBuilder) Option {
	return func(r *Resolver) {
		r.urls = u
	}
}

// WithTimeout sets the timeout for fetching the type listing page.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver reading listings through lister.
func New(lister Lister, opts ...Option) *Resolver {
	r := &Resolver{
		lister:  lister,
		urls:    client.NewDeliveryURLs(""),
		ranges:  DefaultRanges,
		timeout: 30 * time.Second,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// strategy returns a directory URL, or "" when it has no answer.
type strategy func(ctx context.Context, id core.SpecIdentifier) string

// Resolve returns the directory URL for id. It never fails: when the listing
// page cannot be used the URL is derived from the range table, and whether
// it exists is left to the caller.
func (r *Resolver) Resolve(ctx context.Context, id core.SpecIdentifier) string {
	for _, s := range []strategy{r.fromListing, r.fromRanges} {
		if u := s(ctx, id); u != "" {
			return u
		}
	}
	return r.urls.Listing(string(id.DocType)) + id.FullCode() + "/"
}

// fromListing scans the document type's listing page for a sub-directory
// link naming the spec.
func (r *Resolver) fromListing(ctx context.Context, id core.SpecIdentifier) string {
	listingURL := r.urls.Listing(string(id.DocType))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := r.lister.GetBody(ctx, listingURL)
	if err != nil {
		r.logger.Debug("listing unavailable, using range fallback", "url", listingURL, "error", err)
		return ""
	}

	links := listing.Links(body)
	// A link whose last path element is the segment beats one that merely
	// contains it, so "103224" does not pick up "10322401/".
	for _, match := range []func(href, segment string) bool{lastElementIs, strings.Contains} {
		for _, segment := range segments(id) {
			for _, href := range links {
				if !listing.IsDirectory(href) || !match(href, segment) {
					continue
				}
				u, err := listing.Resolve(listingURL, href)
				if err != nil {
					continue
				}
				r.logger.Debug("directory found in listing", "url", u, "segment", segment)
				return u
			}
		}
	}

	r.logger.Debug("no directory link in listing, using range fallback", "url", listingURL, "spec", id.FullCode())
	return ""
}

func lastElementIs(href, segment string) bool {
	return path.Base(strings.TrimSuffix(href, "/")) == segment
}

// fromRanges builds the URL from the numeric range table. The bucket is
// chosen from the code without its part; the path keeps the part.
func (r *Resolver) fromRanges(_ context.Context, id core.SpecIdentifier) string {
	label, ok := r.RangeLabel(id)
	if !ok {
		return ""
	}
	return r.urls.Listing(string(id.DocType)) + id.Prefix + label + "/" + id.FullCode() + "/"
}

// RangeLabel returns the fallback range label for id, e.g. "200_299" for 103 224.
func (r *Resolver) RangeLabel(id core.SpecIdentifier) (string, bool) {
	return Bucket(r.ranges, id)
}

// Bucket finds the range containing the last three digits of id's code.
func Bucket(ranges []Range, id core.SpecIdentifier) (string, bool) {
	value, err := strconv.Atoi(id.Code())
	if err != nil {
		return "", false
	}
	n := value % 1000
	for _, rg := range ranges {
		if n >= rg.Min && n <= rg.Max {
			return rg.Label, true
		}
	}
	return "", false
}

// segments lists the directory names that identify id, most specific first.
func segments(id core.SpecIdentifier) []string {
	if id.Part == "" {
		return []string{id.Code()}
	}
	return []string{id.FullCode(), id.PaddedCode()}
}
