package core

import (
	"fmt"
	"regexp"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

const (
	purlType      = "generic"
	purlNamespace = "etsi"
)

// purlNamePattern matches "ts-103224", "eg-202396-3" and "ts-01001".
var purlNamePattern = regexp.MustCompile(`^([a-z]{2,3})-(\d{2,3})(\d{3})(?:-(\d+))?$`)

// PURL returns the Package URL for a specification, e.g.
// "pkg:generic/etsi/ts-103224@1.7.1". version is a dotted ETSI number
// ("01.07.01") and may be empty.
func PURL(id SpecIdentifier, version string) string {
	name := id.DocType.Lower() + "-" + id.FullCode()
	if version != "" {
		version = SemVer(version)
	}
	return packageurl.NewPackageURL(purlType, purlNamespace, name, version, nil, "").ToString()
}

// PURL returns the Package URL of the latest resolved version.
func (r *ResolvedSpec) PURL() string {
	if r == nil {
		return ""
	}
	if r.Latest == nil {
		return PURL(r.Identifier, "")
	}
	return PURL(r.Identifier, r.Latest.Number)
}

// IdentifierFromPURL parses "pkg:generic/etsi/<type>-<code>[-part]".
// Any version component is ignored.
func IdentifierFromPURL(purl string) (SpecIdentifier, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return SpecIdentifier{}, fmt.Errorf("%w: %v", &InvalidIdentifierError{Input: purl}, err)
	}

	if p.Type != purlType || p.Namespace != purlNamespace {
		return SpecIdentifier{}, &InvalidIdentifierError{Input: purl}
	}

	m := purlNamePattern.FindStringSubmatch(strings.ToLower(p.Name))
	if m == nil {
		return SpecIdentifier{}, &InvalidIdentifierError{Input: purl}
	}

	docType, ok := ParseDocumentType(m[1])
	if !ok {
		return SpecIdentifier{}, &InvalidIdentifierError{Input: purl}
	}

	return SpecIdentifier{
		DocType: docType,
		Prefix:  m[2],
		Number:  m[3],
		Part:    m[4],
	}, nil
}
