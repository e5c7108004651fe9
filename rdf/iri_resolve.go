package rdf

import (
	"net/url"
	"strings"
)

// ResolveIRI resolves a relative reference against a base IRI according to
// RFC 3986. An absolute reference is returned unchanged.
func ResolveIRI(base, relative string) string {
	relURL, err := url.Parse(relative)
	if err == nil && relURL.Scheme != "" {
		return relative
	}
	baseURL, baseErr := url.Parse(base)
	if err != nil || baseErr != nil {
		// Fallback to simple concatenation if either side is invalid.
		if strings.HasSuffix(base, "/") || strings.HasSuffix(base, "#") {
			return base + relative
		}
		if lastSlash := strings.LastIndex(base, "/"); lastSlash >= 0 {
			return base[:lastSlash+1] + relative
		}
		return base + "/" + relative
	}
	return baseURL.ResolveReference(relURL).String()
}
