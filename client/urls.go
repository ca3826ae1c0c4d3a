package client

import "strings"

// DefaultBaseURL is the root of the ETSI delivery tree.
const DefaultBaseURL = "https://www.etsi.org/deliver"

// URLBuilder constructs URLs within a delivery tree.
type URLBuilder interface {
	// Listing returns the listing page for a lowercase document type ("ts", "eg").
	Listing(docType string) string
	// Version returns the directory URL of one published version.
	Version(directoryURL, versionDir string) string
	// Artifact returns the URL of a file inside a version directory.
	Artifact(directoryURL, versionDir, filename string) string
}

// DeliveryURLs is the default URLBuilder for the ETSI delivery layout.
type DeliveryURLs struct {
	BaseURL string
}

// NewDeliveryURLs returns a builder rooted at baseURL, or DefaultBaseURL when empty.
func NewDeliveryURLs(baseURL string) *DeliveryURLs {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &DeliveryURLs{BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (d *DeliveryURLs) Listing(docType string) string {
	return d.BaseURL + "/etsi_" + strings.ToLower(docType) + "/"
}

func (d *DeliveryURLs) Version(directoryURL, versionDir string) string {
	return strings.TrimSuffix(directoryURL, "/") + "/" + versionDir + "/"
}

func (d *DeliveryURLs) Artifact(directoryURL, versionDir, filename string) string {
	return d.Version(directoryURL, versionDir) + filename
}

// BuildURLs returns a map of all non-empty URLs for a resolved version.
// Keys are "directory", "version", and "artifact".
func BuildURLs(urls URLBuilder, directoryURL, versionDir, filename string) map[string]string {
	result := make(map[string]string)
	if directoryURL == "" {
		return result
	}
	result["directory"] = directoryURL
	if versionDir == "" {
		return result
	}
	result["version"] = urls.Version(directoryURL, versionDir)
	if filename != "" {
		result["artifact"] = urls.Artifact(directoryURL, versionDir, filename)
	}
	return result
}
