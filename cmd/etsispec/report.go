package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/git-pkgs/etsi"
	"gopkg.in/yaml.v3"
)

const rule = "======================================================================"

// report is the json and yaml form of one lookup.
type report struct {
	Input           string              `json:"input" yaml:"input"`
	Spec            string              `json:"spec,omitempty" yaml:"spec,omitempty"`
	DocumentType    string              `json:"document_type,omitempty" yaml:"document_type,omitempty"`
	DirectoryURL    string              `json:"directory_url,omitempty" yaml:"directory_url,omitempty"`
	Latest          *etsi.VersionEntry  `json:"latest,omitempty" yaml:"latest,omitempty"`
	Version         string              `json:"version,omitempty" yaml:"version,omitempty"`
	ArtifactURL     string              `json:"artifact_url,omitempty" yaml:"artifact_url,omitempty"`
	PURL            string              `json:"purl,omitempty" yaml:"purl,omitempty"`
	Title           string              `json:"title,omitempty" yaml:"title,omitempty"`
	PublicationDate string              `json:"publication_date,omitempty" yaml:"publication_date,omitempty"`
	Versions        []etsi.VersionEntry `json:"versions,omitempty" yaml:"versions,omitempty"`
	Error           string              `json:"error,omitempty" yaml:"error,omitempty"`
}

func newReport(input string, spec *etsi.ResolvedSpec, err error) report {
	r := report{Input: input}
	if err != nil {
		r.Error = err.Error()
	}
	if spec == nil {
		return r
	}

	r.Spec = spec.Identifier.String()
	r.DocumentType = string(spec.Identifier.DocType)
	r.DirectoryURL = spec.DirectoryURL
	r.Versions = spec.Versions
	if spec.Found() {
		r.Latest = spec.Latest
		r.Version = spec.Latest.Display()
		r.PURL = spec.PURL()
	}
	r.ArtifactURL = spec.ArtifactURL
	r.Title = spec.Metadata.Title
	r.PublicationDate = spec.Metadata.PublicationDate
	return r
}

func writeJSON(w io.Writer, r report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeYAML(w io.Writer, r report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

func writeText(w io.Writer, input string, spec *etsi.ResolvedSpec, err error) {
	if spec == nil {
		writeFailure(w, input, err)
		return
	}

	id := spec.Identifier
	name := fmt.Sprintf("ETSI %s %s", id.DocType, id.FullCode())
	_, _ = fmt.Fprintf(w, "Directory: %s\n", spec.DirectoryURL)

	if errors.Is(err, etsi.ErrSpecNotFound) {
		_, _ = fmt.Fprintf(w, "Error: No versions found for %s\n\n", name)
		_, _ = fmt.Fprintln(w, "Possible reasons:")
		_, _ = fmt.Fprintln(w, "  - Specification number does not exist")
		_, _ = fmt.Fprintln(w, "  - Different URL structure for this document type")
		_, _ = fmt.Fprintf(w, "  - Try checking: %s\n", typeListing(spec))
		return
	}

	if spec.Found() {
		_, _ = fmt.Fprintf(w, "Latest version: %s (release %s)\n", spec.Latest.Display(), spec.Latest.ReleaseCode)
	}
	if err != nil {
		writeFailure(w, input, err)
		return
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintf(w, "SPECIFICATION: %s\n", name)
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintf(w, "Latest Version:   %s\n", spec.Latest.Display())
	_, _ = fmt.Fprintf(w, "Release Code:     %s\n", spec.Latest.ReleaseCode)
	_, _ = fmt.Fprintf(w, "Directory:        %s\n", spec.Latest.Directory)
	if spec.Metadata.Title != "" {
		_, _ = fmt.Fprintf(w, "Title:            %s\n", spec.Metadata.Title)
	}
	if spec.Metadata.PublicationDate != "" {
		_, _ = fmt.Fprintf(w, "Publication Date: %s\n", monthYear(spec.Metadata.PublicationDate))
	}
	_, _ = fmt.Fprintf(w, "Download URL:     %s\n", spec.ArtifactURL)
	_, _ = fmt.Fprintf(w, "Package URL:      %s\n", spec.PURL())
	_, _ = fmt.Fprintln(w, rule)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "Full versions available: %d\n", len(spec.Versions))
	if len(spec.Versions) > 1 {
		_, _ = fmt.Fprintln(w, "Version history:")
		for _, v := range spec.Versions {
			_, _ = fmt.Fprintf(w, "  - %s (release %s)\n", v.Display(), v.ReleaseCode)
		}
	}
}

func writeFailure(w io.Writer, input string, err error) {
	switch {
	case err == nil:
	case interrupted(err):
		_, _ = fmt.Fprintf(w, "Interrupted while looking up %q\n", input)
	case etsi.IsTransport(err):
		_, _ = fmt.Fprintf(w, "Network error: %v\n", err)
	default:
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// monthYear renders "2024-03-15" as "mar 2024". Other input is returned as is.
func monthYear(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return strings.ToLower(t.Format("Jan 2006"))
}

// typeListing returns the listing page for the spec's document type,
// derived from its directory URL.
func typeListing(spec *etsi.ResolvedSpec) string {
	segment := "/etsi_" + spec.Identifier.DocType.Lower() + "/"
	if i := strings.Index(spec.DirectoryURL, segment); i >= 0 {
		return spec.DirectoryURL[:i+len(segment)]
	}
	return etsi.DefaultBaseURL + segment
}
