// Package report turns extraction results into output records and writes
// them as human-readable text, JSON, YAML or CSV.
package report

import (
	"net"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/btraven00/linkdex/internal/extractor"
	"github.com/btraven00/linkdex/internal/normalizer"
)

// Span is the byte range of a match in its source text.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Record is one URL found in a source.
type Record struct {
	URL        string `json:"url" yaml:"url"`
	Normalized string `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Domain     string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Span       *Span  `json:"span,omitempty" yaml:"span,omitempty"`
}

// SourceReport groups the records of one input.
type SourceReport struct {
	Source    string   `json:"source" yaml:"source"`
	Records   []Record `json:"records" yaml:"records"`
	Malformed []string `json:"malformed,omitempty" yaml:"malformed,omitempty"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is everything one command run found.
type Report struct {
	Sources []SourceReport `json:"sources" yaml:"sources"`
	Summary Summary        `json:"summary" yaml:"summary"`
}

// Summary holds totals over all sources.
type Summary struct {
	TotalSources   int `json:"total_sources" yaml:"total_sources"`
	TotalRecords   int `json:"total_records" yaml:"total_records"`
	UniqueURLs     int `json:"unique_urls" yaml:"unique_urls"`
	MalformedCount int `json:"malformed_count" yaml:"malformed_count"`
	FailedSources  int `json:"failed_sources" yaml:"failed_sources"`
}

// Options controls which derived columns are filled in.
type Options struct {
	Normalize bool
	Domains   bool
}

// FromTexts builds records for kept URLs given as the text the scan
// reported for them.
func FromTexts(texts []string, opts Options) []Record {
	records := make([]Record, 0, len(texts))
	for _, text := range texts {
		records = append(records, newRecord(text, hostname(text), opts))
	}

	return records
}

// FromMatches builds records for raw scan matches, offsets included.
func FromMatches(matches []extractor.Match, opts Options) []Record {
	records := make([]Record, 0, len(matches))

	for _, m := range matches {
		r := newRecord(m.URL, hostname(m.URL), opts)
		r.Span = &Span{Start: m.Start, End: m.End}
		records = append(records, r)
	}

	return records
}

func hostname(rawURL string) string {
	u, err := extractor.ParseURL(rawURL)
	if err != nil {
		return ""
	}

	return u.Hostname()
}

func newRecord(rawURL, host string, opts Options) Record {
	r := Record{URL: rawURL}

	if opts.Normalize {
		r.Normalized = normalizer.Normalize(rawURL)
	}

	if opts.Domains {
		r.Domain = RegistrableDomain(host)
	}

	return r
}

// RegistrableDomain returns the public suffix plus one label of host
// (example.co.uk for www.example.co.uk), or "" when host has none, as for
// IP addresses.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || net.ParseIP(host) != nil {
		return ""
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}

	return domain
}

// Add appends a source and updates the summary.
func (r *Report) Add(source SourceReport) {
	r.Sources = append(r.Sources, source)
	r.recompute()
}

func (r *Report) recompute() {
	unique := make(map[string]bool)
	s := Summary{TotalSources: len(r.Sources)}

	for _, src := range r.Sources {
		if src.Error != "" {
			s.FailedSources++
		}

		s.TotalRecords += len(src.Records)
		s.MalformedCount += len(src.Malformed)

		for _, rec := range src.Records {
			key := rec.URL
			if rec.Normalized != "" {
				key = rec.Normalized
			}

			unique[key] = true
		}
	}

	s.UniqueURLs = len(unique)
	r.Summary = s
}
