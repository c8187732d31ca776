package extractor

import (
	"net/url"
	"strings"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
)

// URLExtractor finds web URLs in free text.
//
// The zero value is not usable; create one with New. A URLExtractor holds
// no per-scan state and is safe for concurrent use.
type URLExtractor struct {
	logger *zap.Logger
}

// Option configures a URLExtractor.
type Option func(*URLExtractor)

// WithLogger sets the logger that receives malformed-candidate warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(e *URLExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates a URLExtractor. Without options it logs nowhere.
func New(opts ...Option) *URLExtractor {
	e := &URLExtractor{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

var defaultExtractor = New()

// IsURL reports whether s contains at least one URL that Extract would
// keep. It is answered by running the full extraction with a limit of 1.
func IsURL(s string) bool {
	return defaultExtractor.IsURL(s)
}

// IsURL reports whether s contains at least one URL that Extract would
// keep.
func (e *URLExtractor) IsURL(s string) bool {
	urls, err := e.ExtractLimit(s, 1)
	if err != nil {
		return false
	}

	return len(urls) > 0
}

// Extract returns the distinct http and https URLs found in text, in the
// order they first appear. A lone % is kept as a literal percent sign, so
// String shows it as %25; Collector.Texts has the text as found.
func (e *URLExtractor) Extract(text string) []*url.URL {
	c := NewCollector(e.logger)
	e.Scan(text, c)

	return c.URLs()
}

// ExtractLimit is Extract bounded to limit distinct URLs. Scanning stops as
// soon as the limit is reached. A limit that is not positive fails with
// ErrInvalidLimit before text is looked at.
func (e *URLExtractor) ExtractLimit(text string, limit int) ([]*url.URL, error) {
	c, err := NewLimitedCollector(limit, e.logger)
	if err != nil {
		return nil, err
	}

	e.Scan(text, c)

	return c.URLs(), nil
}

// FindAll returns every match Scan reports for text, duplicates included.
func (e *URLExtractor) FindAll(text string) []Match {
	var matches []Match

	e.Scan(text, SinkFunc(func(u string, start, end int) bool {
		matches = append(matches, Match{URL: u, Start: start, End: end})
		return true
	}))

	return matches
}

// Scan walks text left to right and reports each accepted URL to sink.
// Matches made only of digits and dots are skipped, as are matches whose
// protocol is not ftp, http or https.
func (e *URLExtractor) Scan(text string, sink Sink) {
	// The grammar engine indexes runes; sink offsets are bytes.
	offsets := runeOffsets(text)

	m, err := urlPattern.FindStringMatch(text)
	for ; m != nil && err == nil; m, err = urlPattern.FindNextMatch(m) {
		start := offsets[m.Index]
		end := offsets[m.Index+m.Length]
		matched := text[start:end]

		if digitsAndDots.MatchString(matched) {
			continue
		}

		candidate, ok := canonicalCandidate(m, matched)
		if !ok {
			continue
		}

		if !sink.OnMatch(candidate, start, end) {
			return
		}
	}

	if err != nil {
		e.logger.Error("url scan aborted", zap.Error(err))
	}
}

// canonicalCandidate builds the string reported for a match: protocol
// lower-cased or http:// added, and one trailing slash removed. It returns
// false when the match carries a protocol other than ftp, http or https.
func canonicalCandidate(m *regexp2.Match, matched string) (string, bool) {
	proto := capturedProtocol(m)

	var b strings.Builder

	b.Grow(len(matched) + len("http://"))

	if proto == "" {
		b.WriteString("http://")
		b.WriteString(matched)
	} else {
		if !allowedProtocol.MatchString(proto) {
			return "", false
		}

		b.WriteString(strings.ToLower(proto))
		b.WriteString(matched[len(proto):])
	}

	return strings.TrimSuffix(b.String(), "/"), true
}

// capturedProtocol returns the protocol captured by whichever hostname
// shape matched, or "" when the match has none.
func capturedProtocol(m *regexp2.Match) string {
	for i := 1; i <= protocolGroups; i++ {
		g := m.GroupByNumber(i)
		if g != nil && len(g.Captures) > 0 {
			return g.String()
		}
	}

	return ""
}

// runeOffsets maps rune index to byte offset, with one extra entry for the
// end of text.
func runeOffsets(text string) []int {
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}

	return append(offsets, len(text))
}
