package core

import "strings"

// DocumentType is an ETSI deliverable type code.
type DocumentType string

const (
	EN  DocumentType = "EN"  // European Standard
	ES  DocumentType = "ES"  // ETSI Standard
	EG  DocumentType = "EG"  // ETSI Guide
	TS  DocumentType = "TS"  // Technical Specification
	TR  DocumentType = "TR"  // Technical Report
	SR  DocumentType = "SR"  // Special Report
	GS  DocumentType = "GS"  // Group Specification
	GR  DocumentType = "GR"  // Group Report
	PAS DocumentType = "PAS" // Publicly Available Specification
)

// DefaultDocumentType is assumed when an identifier names no type.
const DefaultDocumentType = TS

var documentTypes = []DocumentType{EN, ES, EG, TS, TR, SR, GS, GR, PAS}

var documentTypeNames = map[DocumentType]string{
	EN:  "European Standard",
	ES:  "ETSI Standard",
	EG:  "ETSI Guide",
	TS:  "Technical Specification",
	TR:  "Technical Report",
	SR:  "Special Report",
	GS:  "Group Specification",
	GR:  "Group Report",
	PAS: "Publicly Available Specification",
}

// DocumentTypes returns all known document types.
func DocumentTypes() []DocumentType {
	out := make([]DocumentType, len(documentTypes))
	copy(out, documentTypes)
	return out
}

// Lower returns the lowercase form used in delivery paths and filenames.
func (d DocumentType) Lower() string {
	return strings.ToLower(string(d))
}

// Name returns the long name, or "" for unknown types.
func (d DocumentType) Name() string {
	return documentTypeNames[d]
}

// Valid reports whether d is one of the known types.
func (d DocumentType) Valid() bool {
	_, ok := documentTypeNames[d]
	return ok
}

// ParseDocumentType looks up a type code case-insensitively.
func ParseDocumentType(s string) (DocumentType, bool) {
	d := DocumentType(strings.ToUpper(strings.TrimSpace(s)))
	return d, d.Valid()
}
