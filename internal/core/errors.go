package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentifier is returned when input matches no identifier pattern.
	ErrInvalidIdentifier = errors.New("invalid ETSI specification number")

	// ErrSpecNotFound is returned when a directory yields no versions.
	ErrSpecNotFound = errors.New("specification not found")

	// ErrArtifactNotFound is returned when no candidate artifact exists.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// InvalidIdentifierError wraps ErrInvalidIdentifier with the rejected input.
type InvalidIdentifierError struct {
	Input string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidIdentifier, e.Input)
}

func (e *InvalidIdentifierError) Unwrap() error {
	return ErrInvalidIdentifier
}

// SpecNotFoundError wraps ErrSpecNotFound with where the lookup went.
type SpecNotFoundError struct {
	Identifier   SpecIdentifier
	DirectoryURL string
}

func (e *SpecNotFoundError) Error() string {
	return fmt.Sprintf("no versions found for %s at %s", e.Identifier, e.DirectoryURL)
}

func (e *SpecNotFoundError) Unwrap() error {
	return ErrSpecNotFound
}

// ArtifactNotFoundError wraps ErrArtifactNotFound with the probed URLs.
type ArtifactNotFoundError struct {
	VersionURL string
	Tried      []string
}

func (e *ArtifactNotFoundError) Error() string {
	if len(e.Tried) == 0 {
		return fmt.Sprintf("could not find PDF file in %s", e.VersionURL)
	}
	return fmt.Sprintf("could not find PDF file in %s (tried %s)", e.VersionURL, strings.Join(e.Tried, ", "))
}

func (e *ArtifactNotFoundError) Unwrap() error {
	return ErrArtifactNotFound
}

// TransportError reports a failed remote call.
type TransportError struct {
	Op  string // "list", "probe", "fetch"
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
