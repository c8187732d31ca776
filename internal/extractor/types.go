package extractor

import (
	"errors"
)

// ErrInvalidLimit is returned when a collecting extraction is given a
// limit that is not greater than zero.
var ErrInvalidLimit = errors.New("limit must be greater than 0")

// Sink receives every accepted URL found by a scan.
//
// url is the matched text with its protocol lower-cased (or http://
// prepended) and one trailing slash removed. start and end are byte
// offsets of the original match in the scanned text. Returning false stops
// the scan.
type Sink interface {
	OnMatch(url string, start, end int) bool
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(url string, start, end int) bool

// OnMatch calls f(url, start, end).
func (f SinkFunc) OnMatch(url string, start, end int) bool {
	return f(url, start, end)
}

// Match is a single sink notification.
type Match struct {
	URL   string `json:"url" yaml:"url"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// Unlimited means no limit on the number of distinct URLs a Collector
// accepts. It is never a valid argument to ExtractLimit.
const Unlimited = 0
