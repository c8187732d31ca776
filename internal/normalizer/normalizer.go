// Package normalizer rewrites a URL string into the canonical form used as
// an index key, so that visually different spellings of the same page
// compare equal.
package normalizer

import (
	"regexp"
	"strings"
)

const (
	httpPrefix  = "http://"
	httpsPrefix = "https://"
)

// indexSuffixes are tried in order; only the first that matches is removed.
var indexSuffixes = []string{
	"/",
	"/index.html",
	"/index.htm",
	"/default.html",
	"/default.htm",
}

var (
	dotSegment  = regexp.MustCompile(`/\.{1,2}/`)
	defaultPort = regexp.MustCompile(`^([^/]+//[^/:]+):80(/|$)`)
)

// Normalize returns the canonical form of rawURL:
//
//   - surrounding spaces and control characters (U+0000 to U+0020)
//     trimmed and everything lower-cased
//   - http:// added unless the URL already starts with http:// or https://
//   - one trailing "/", "/index.html", "/index.htm", "/default.html" or
//     "/default.htm" removed
//   - a leading "www." host label removed
//   - "/./" and "/../" collapsed to "/" in a single pass
//   - an explicit :80 port removed
//
// The dot-segment step is one non-overlapping substitution, so three or
// more consecutive dot segments need a second call to disappear and
// Normalize is not idempotent for such input.
func Normalize(rawURL string) string {
	u := strings.ToLower(strings.TrimFunc(rawURL, isControlOrSpace))

	if !strings.HasPrefix(u, httpPrefix) && !strings.HasPrefix(u, httpsPrefix) {
		u = httpPrefix + u
	}

	for _, suffix := range indexSuffixes {
		if strings.HasSuffix(u, suffix) {
			u = strings.TrimSuffix(u, suffix)
			break
		}
	}

	switch {
	case strings.HasPrefix(u, httpsPrefix+"www."):
		u = httpsPrefix + u[len(httpsPrefix+"www."):]
	case strings.HasPrefix(u, httpPrefix+"www."):
		u = httpPrefix + u[len(httpPrefix+"www."):]
	}

	u = dotSegment.ReplaceAllString(u, "/")
	u = defaultPort.ReplaceAllString(u, "${1}${2}")

	return u
}

// isControlOrSpace matches the characters trimmed from both ends. Other
// Unicode spaces such as U+00A0 are kept.
func isControlOrSpace(r rune) bool {
	return r <= ' '
}

// NormalizePtr is Normalize for optional values: nil stays nil.
func NormalizePtr(rawURL *string) *string {
	if rawURL == nil {
		return nil
	}

	n := Normalize(*rawURL)

	return &n
}
