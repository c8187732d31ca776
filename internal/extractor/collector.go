package extractor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Collector is a Sink that deduplicates matches and keeps the http and
// https URLs among them. A Collector belongs to one scan.
type Collector struct {
	logger    *zap.Logger
	seen      map[string]struct{}
	urls      []*url.URL
	texts     []string
	malformed []string
	limit     int
	count     int
}

// NewCollector creates a Collector without a limit.
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Collector{
		logger: logger,
		seen:   make(map[string]struct{}),
		limit:  Unlimited,
	}
}

// NewLimitedCollector creates a Collector that asks the scan to stop once
// limit distinct URLs have been counted.
func NewLimitedCollector(limit int, logger *zap.Logger) (*Collector, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	c := NewCollector(logger)
	c.limit = limit

	return c, nil
}

// OnMatch implements Sink.
//
// A string seen before is skipped without being counted. A new string is
// parsed; if that fails the candidate is logged and skipped. Every parsed
// URL is counted, but only http and https URLs are kept, so an ftp URL
// uses up part of the limit without showing in URLs.
func (c *Collector) OnMatch(rawURL string, start, end int) bool {
	if _, dup := c.seen[rawURL]; dup {
		return c.takeNext()
	}

	c.seen[rawURL] = struct{}{}

	u, err := ParseURL(rawURL)
	if err != nil {
		c.logger.Warn("unable to construct URL from extracted url",
			zap.String("url", rawURL),
			zap.Int("start", start),
			zap.Int("end", end),
			zap.Error(err))
		c.malformed = append(c.malformed, rawURL)

		return c.takeNext()
	}

	if isKept(u) {
		c.urls = append(c.urls, u)
		c.texts = append(c.texts, rawURL)
	}

	c.count++

	return c.takeNext()
}

func isKept(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

func (c *Collector) takeNext() bool {
	return c.limit == Unlimited || c.count < c.limit
}

// URLs returns a copy of the kept URLs in the order they were found.
func (c *Collector) URLs() []*url.URL {
	out := make([]*url.URL, len(c.urls))
	copy(out, c.urls)

	return out
}

// Texts returns the kept URLs exactly as the scan reported them. It differs
// from the String form of URLs only where a lone % had to be escaped.
func (c *Collector) Texts() []string {
	out := make([]string, len(c.texts))
	copy(out, c.texts)

	return out
}

// Malformed returns the candidates that could not be parsed.
func (c *Collector) Malformed() []string {
	out := make([]string, len(c.malformed))
	copy(out, c.malformed)

	return out
}

// Count is the number of distinct parsed URLs seen so far, kept or not.
func (c *Collector) Count() int {
	return c.count
}

// Limit returns the collector's limit, or Unlimited.
func (c *Collector) Limit() int {
	return c.limit
}

// ParseURL is url.Parse that tolerates a % not followed by two hex digits,
// as in "example.com/50%off". Such a % is read as a literal percent sign,
// so the parsed path holds "%" and String renders it as "%25".
func ParseURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err == nil {
		return u, nil
	}

	var escapeErr url.EscapeError
	if !errors.As(err, &escapeErr) {
		return nil, err
	}

	return url.Parse(escapeLonePercents(rawURL))
}

func escapeLonePercents(s string) string {
	var b strings.Builder

	b.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
