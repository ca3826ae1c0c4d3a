// Package listing extracts hyperlink targets from delivery directory pages.
package listing

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Links returns the href of every <a> element in document order.
// Malformed markup is tolerated; scanning stops at the first tokenizer error.
func Links(body []byte) []string {
	var links []string
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return links
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					if href := strings.TrimSpace(string(val)); href != "" {
						links = append(links, href)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

// IsDirectory reports whether href references a sub-directory.
func IsDirectory(href string) bool {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	return strings.HasSuffix(href, "/")
}

// Resolve joins href against the page it was found on. The result always
// ends with "/" when href is a directory reference.
func Resolve(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
