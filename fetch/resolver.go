package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/git-pkgs/etsi/client"
	"github.com/git-pkgs/etsi/internal/core"
)

// Template is a candidate artifact filename. The placeholders {type},
// {spec} and {version} expand to the lowercase document type, the full
// spec code and the dotless version number.
type Template string

// DefaultTemplates lists the filename conventions ETSI has used, in probe order.
var DefaultTemplates = []Template{
	"{type}_{spec}v{version}p.pdf",
	"{type}_{spec}v{version}.pdf",
	"{spec}v{version}.pdf",
	"{spec}v{version}p.pdf",
}

// Expand fills in the placeholders.
func (t Template) Expand(docType, spec, version string) string {
	return strings.NewReplacer(
		"{type}", docType,
		"{spec}", spec,
		"{version}", version,
	).Replace(string(t))
}

// Prober reports whether a URL exists.
type Prober interface {
	Head(ctx context.Context, url string) (size int64, contentType string, err error)
}

// Locator finds the downloadable artifact for a version by probing
// candidate filenames one at a time.
type Locator struct {
	prober       Prober
	urls         client.URLBuilder
	templates    []Template
	probeTimeout time.Duration
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithTemplates replaces the candidate filename table.
func WithTemplates(templates []Template) LocatorOption {
	return func(l *Locator) {
		l.templates = templates
	}
}

// WithProbeTimeout sets the timeout applied to each existence probe.
func WithProbeTimeout(d time.Duration) LocatorOption {
	return func(l *Locator) {
		l.probeTimeout = d
	}
}

// WithURLBuilder sets how version and artifact URLs are joined.
func WithURLBuilder(u client.URLBuilder) LocatorOption {
	return func(l *Locator) {
		l.urls = u
	}
}

// NewLocator creates a Locator probing through p.
func NewLocator(p Prober, opts ...LocatorOption) *Locator {
	l := &Locator{
		prober:       p,
		urls:         client.NewDeliveryURLs(""),
		templates:    DefaultTemplates,
		probeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Filenames returns the candidate filenames for a version in probe order.
func (l *Locator) Filenames(v core.VersionEntry, id core.SpecIdentifier) []string {
	names := make([]string, 0, len(l.templates))
	for _, t := range l.templates {
		names = append(names, t.Expand(id.DocType.Lower(), id.FullCode(), v.Dotless()))
	}
	return names
}

// Locate returns the URL of the first candidate whose probe succeeds.
// Status answers (404, 5xx, ...) move on to the next candidate; failing to
// get any answer aborts with a *core.TransportError. When every candidate
// is rejected the error is a *core.ArtifactNotFoundError.
func (l *Locator) Locate(ctx context.Context, directoryURL string, v core.VersionEntry, id core.SpecIdentifier) (string, error) {
	tried := make([]string, 0, len(l.templates))

	for _, name := range l.Filenames(v, id) {
		candidate := l.urls.Artifact(directoryURL, v.Directory, name)
		tried = append(tried, candidate)

		ok, err := l.probe(ctx, candidate)
		if err != nil {
			return "", &core.TransportError{Op: "probe", URL: candidate, Err: err}
		}
		if ok {
			return candidate, nil
		}
	}

	return "", &core.ArtifactNotFoundError{
		VersionURL: l.urls.Version(directoryURL, v.Directory),
		Tried:      tried,
	}
}

func (l *Locator) probe(ctx context.Context, url string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.probeTimeout)
	defer cancel()

	_, _, err := l.prober.Head(ctx, url)
	switch {
	case err == nil:
		return true, nil
	case IsStatus(err):
		return false, nil
	default:
		return false, err
	}
}
