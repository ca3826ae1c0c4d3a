// Package etsi resolves ETSI specification identifiers to their published
// deliverables.
//
// Given an identifier such as "103224", "ETSI TS 103 224" or "EG 202 396-3",
// a Resolver finds the specification's delivery directory, lists every
// published version, picks the latest, locates its PDF and reads the title
// and publication date from it.
//
// Basic usage:
//
//	r := etsi.New()
//	defer r.Close()
//
//	spec, err := r.Resolve(context.Background(), "TS 103 224")
//	if errors.Is(err, etsi.ErrSpecNotFound) {
//		fmt.Println("no versions under", spec.DirectoryURL)
//		return
//	}
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(spec.Latest.Display(), spec.ArtifactURL, spec.Metadata.Title)
package etsi

import (
	"github.com/git-pkgs/etsi/client"
	"github.com/git-pkgs/etsi/internal/core"
	"github.com/git-pkgs/purl"
)

// Re-export types from internal/core
type (
	// SpecIdentifier names one specification family and optional part.
	SpecIdentifier = core.SpecIdentifier

	// DocumentType is a deliverable type code such as TS or EN.
	DocumentType = core.DocumentType

	// VersionEntry is one published version directory.
	VersionEntry = core.VersionEntry

	// SpecMetadata holds the title and publication date read from an artifact.
	SpecMetadata = core.SpecMetadata

	// ResolvedSpec is the result of resolving one identifier.
	ResolvedSpec = core.ResolvedSpec
)

// Re-export types from client
type (
	// Client reads delivery listing pages.
	Client = client.Client

	// URLBuilder constructs URLs within a delivery tree.
	URLBuilder = client.URLBuilder
)

// Re-export constants
const (
	EN  = core.EN
	ES  = core.ES
	EG  = core.EG
	TS  = core.TS
	TR  = core.TR
	SR  = core.SR
	GS  = core.GS
	GR  = core.GR
	PAS = core.PAS

	DefaultBaseURL = client.DefaultBaseURL
)

// Re-export errors
var (
	ErrInvalidIdentifier = core.ErrInvalidIdentifier
	ErrSpecNotFound      = core.ErrSpecNotFound
	ErrArtifactNotFound  = core.ErrArtifactNotFound
)

// Error types
type (
	InvalidIdentifierError = core.InvalidIdentifierError
	SpecNotFoundError      = core.SpecNotFoundError
	ArtifactNotFoundError  = core.ArtifactNotFoundError
	TransportError         = core.TransportError
	HTTPError              = client.HTTPError
)

// IsTransport reports whether err came from a failed remote call.
func IsTransport(err error) bool {
	return core.IsTransport(err)
}

// ParseIdentifier parses a free-form identifier such as "103 224",
// "ETSI TS 103 224", "EG 202 396-3" or "pkg:generic/etsi/ts-103224".
func ParseIdentifier(raw string) (SpecIdentifier, error) {
	return core.ParseIdentifier(raw)
}

// DocumentTypes returns all known document types.
func DocumentTypes() []DocumentType {
	return core.DocumentTypes()
}

// FormatVersion converts "01.07.01" to "V1.7.1".
func FormatVersion(number string) string {
	return core.FormatVersion(number)
}

// BuildURLs returns a map of all non-empty URLs for a resolved version.
// Keys are "directory", "version", and "artifact".
func BuildURLs(urls URLBuilder, directoryURL, versionDir, filename string) map[string]string {
	return client.BuildURLs(urls, directoryURL, versionDir, filename)
}

// PackageURL returns the Package URL for id at a dotted version, or without
// a version when version is empty.
func PackageURL(id SpecIdentifier, version string) string {
	return core.PURL(id, version)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}
