// Package core provides the shared types, identifier parsing and version
// ordering used by every stage of spec resolution.
package core

import (
	"fmt"
	"strings"
)

// SpecIdentifier names one ETSI specification family and optional part.
type SpecIdentifier struct {
	DocType DocumentType
	Prefix  string // 2-3 digits, e.g. "103"
	Number  string // 3 digits, e.g. "224"
	Part    string // optional, e.g. "3"
}

// Code returns prefix+number, e.g. "103224".
func (id SpecIdentifier) Code() string {
	return id.Prefix + id.Number
}

// FullCode returns the code with the part suffix when present, e.g. "202396-3".
func (id SpecIdentifier) FullCode() string {
	if id.Part == "" {
		return id.Code()
	}
	return id.Code() + "-" + id.Part
}

// PaddedCode returns the code with the part zero-padded to two digits and no
// separator, the form ETSI uses for multi-part directory names ("20239603").
func (id SpecIdentifier) PaddedCode() string {
	if id.Part == "" {
		return id.Code()
	}
	part := id.Part
	if len(part) < 2 {
		part = strings.Repeat("0", 2-len(part)) + part
	}
	return id.Code() + part
}

// String returns the display form, e.g. "ETSI EG 202 396-3".
func (id SpecIdentifier) String() string {
	s := fmt.Sprintf("ETSI %s %s %s", id.DocType, id.Prefix, id.Number)
	if id.Part != "" {
		s += "-" + id.Part
	}
	return s
}

// VersionEntry is one published version directory.
type VersionEntry struct {
	Directory   string `json:"directory" yaml:"directory"`       // "01.07.01_60"
	Number      string `json:"number" yaml:"number"`             // "01.07.01"
	ReleaseCode string `json:"release_code" yaml:"release_code"` // "60"
}

// Dotless returns the version number without dots, e.g. "010701".
func (v VersionEntry) Dotless() string {
	return strings.ReplaceAll(v.Number, ".", "")
}

// Display returns the human-readable version, e.g. "V1.7.1".
func (v VersionEntry) Display() string {
	return FormatVersion(v.Number)
}

// SpecMetadata holds bibliographic data extracted from an artifact.
// Either field may be empty.
type SpecMetadata struct {
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	PublicationDate string `json:"publication_date,omitempty" yaml:"publication_date,omitempty"` // YYYY-MM-DD
}

// ResolvedSpec is the result of resolving one identifier.
type ResolvedSpec struct {
	Identifier   SpecIdentifier
	DirectoryURL string
	Versions     []VersionEntry
	Latest       *VersionEntry
	ArtifactURL  string
	Metadata     SpecMetadata
}

// Found reports whether any published version was discovered.
func (r *ResolvedSpec) Found() bool {
	return r != nil && r.Latest != nil
}
