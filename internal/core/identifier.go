package core

import (
	"regexp"
	"sort"
	"strings"
)

var (
	partPattern = regexp.MustCompile(`\s*-\s*(\d+)$`)

	// Tried in order, first match wins.
	digitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(\d{3})\s+(\d{3})`), // "103 224"
		regexp.MustCompile(`^(\d{3})(\d{3})`),    // "103224"
		regexp.MustCompile(`^(\d{2})\s+(\d{3})`), // "01 001"
	}

	typeTokens = buildTypeTokens()
)

type typeToken struct {
	text    string
	docType DocumentType
}

// buildTypeTokens returns "ETSI XX" forms before bare codes, longest first
// within each group, so "ETSI PAS" wins over "PAS" and "PAS" is tried
// before any two-letter code.
func buildTypeTokens() []typeToken {
	types := DocumentTypes()
	sort.SliceStable(types, func(i, j int) bool {
		return len(types[i]) > len(types[j])
	})

	tokens := make([]typeToken, 0, 2*len(types))
	for _, dt := range types {
		tokens = append(tokens, typeToken{text: "ETSI " + string(dt), docType: dt})
	}
	for _, dt := range types {
		tokens = append(tokens, typeToken{text: string(dt), docType: dt})
	}
	return tokens
}

// ParseIdentifier parses a free-form specification identifier.
//
// Accepted forms include "103224", "103 224", "ETSI TS 103 224",
// "EG 202 396-3", "TR 103 907", "ES 200 381-1" and "01 001". Input starting
// with "pkg:" is parsed as a Package URL. The document type defaults to TS.
func ParseIdentifier(raw string) (SpecIdentifier, error) {
	input := strings.ToUpper(strings.TrimSpace(raw))
	if strings.HasPrefix(input, "PKG:") {
		return IdentifierFromPURL(strings.TrimSpace(raw))
	}

	docType, rest := splitDocType(input)

	var part string
	if m := partPattern.FindStringSubmatch(rest); m != nil {
		part = m[1]
		rest = strings.TrimSpace(rest[:len(rest)-len(m[0])])
	}

	for _, p := range digitPatterns {
		if m := p.FindStringSubmatch(rest); m != nil {
			return SpecIdentifier{
				DocType: docType,
				Prefix:  m[1],
				Number:  m[2],
				Part:    part,
			}, nil
		}
	}

	return SpecIdentifier{}, &InvalidIdentifierError{Input: raw}
}

// splitDocType detects a leading document-type token and returns the type
// and the remaining text.
func splitDocType(input string) (DocumentType, string) {
	for _, tok := range typeTokens {
		if !strings.HasPrefix(input, tok.text) {
			continue
		}
		rest := input[len(tok.text):]
		// A bare code must not run into further letters ("TSX 103").
		if rest != "" && isLetter(rest[0]) {
			continue
		}
		return tok.docType, strings.TrimSpace(rest)
	}

	rest := input
	if strings.HasPrefix(rest, "ETSI ") {
		rest = strings.TrimSpace(rest[len("ETSI "):])
	}
	return DefaultDocumentType, rest
}

func isLetter(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
