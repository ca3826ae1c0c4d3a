// Package versions enumerates the published versions inside a spec directory.
package versions

import (
	"context"
	"errors"
	"time"

	"github.com/git-pkgs/etsi/client"
	"github.com/git-pkgs/etsi/internal/core"
	"github.com/git-pkgs/etsi/internal/listing"
)

// Lister fetches listing pages.
type Lister interface {
	GetBody(ctx context.Context, url string) ([]byte, error)
}

// Enumerator lists version directories.
type Enumerator struct {
	lister  Lister
	timeout time.Duration
}

// New creates an Enumerator. A zero timeout means 30 seconds.
func New(lister Lister, timeout time.Duration) *Enumerator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Enumerator{lister: lister, timeout: timeout}
}

// Enumerate returns the versions found at directoryURL, newest first.
// A missing directory yields an empty list and no error. Any other failure
// to read the page is returned as a *core.TransportError.
func (e *Enumerator) Enumerate(ctx context.Context, directoryURL string) ([]core.VersionEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := e.lister.GetBody(ctx, directoryURL)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, nil
		}
		return nil, &core.TransportError{Op: "list", URL: directoryURL, Err: err}
	}

	return FromLinks(listing.Links(body)), nil
}

// FromLinks extracts one entry per distinct version name found in links,
// ordered newest first.
func FromLinks(links []string) []core.VersionEntry {
	seen := make(map[string]bool)
	var out []core.VersionEntry
	for _, href := range links {
		v, ok := core.ParseVersionDir(href)
		if !ok || seen[v.Directory] {
			continue
		}
		seen[v.Directory] = true
		out = append(out, v)
	}
	core.SortVersions(out)
	return out
}
