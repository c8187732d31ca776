// Package checker answers "is this text a URL" for a single target and
// explains the answer.
package checker

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/btraven00/linkdex/internal/extractor"
	"github.com/btraven00/linkdex/internal/normalizer"
	"github.com/btraven00/linkdex/internal/report"
)

// Config holds configuration for the checker.
type Config struct {
	OutputFormat string
	Verbose      bool
}

// Result describes the check of one target.
type Result struct {
	Target     string            `json:"target" yaml:"target"`
	URL        string            `json:"url,omitempty" yaml:"url,omitempty"`
	Normalized string            `json:"normalized,omitempty" yaml:"normalized,omitempty"`
	Scheme     string            `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Host       string            `json:"host,omitempty" yaml:"host,omitempty"`
	Domain     string            `json:"domain,omitempty" yaml:"domain,omitempty"`
	Matches    []extractor.Match `json:"matches,omitempty" yaml:"matches,omitempty"`
	Valid      bool              `json:"valid" yaml:"valid"`
}

// Checker checks targets with an extractor.
type Checker struct {
	extractor *extractor.URLExtractor
	config    Config
}

// New creates a Checker. A nil extractor means extractor.New().
func New(config Config, e *extractor.URLExtractor) *Checker {
	if e == nil {
		e = extractor.New()
	}

	return &Checker{
		config:    config,
		extractor: e,
	}
}

// Check reports whether target is a URL. Validity is exactly
// extractor.IsURL; the remaining fields describe the first kept URL.
func (c *Checker) Check(target string) *Result {
	result := &Result{
		Target: target,
		Valid:  c.extractor.IsURL(target),
	}

	if c.config.Verbose {
		result.Matches = c.extractor.FindAll(target)
	}

	if !result.Valid {
		return result
	}

	collector, err := extractor.NewLimitedCollector(1, nil)
	if err != nil {
		return result
	}

	c.extractor.Scan(target, collector)

	urls, texts := collector.URLs(), collector.Texts()
	if len(urls) == 0 {
		return result
	}

	u := urls[0]
	result.URL = texts[0]
	result.Normalized = normalizer.Normalize(result.URL)
	result.Scheme = u.Scheme
	result.Host = u.Host
	result.Domain = report.RegistrableDomain(u.Hostname())

	return result
}

// OutputResult writes result in the configured format.
func (c *Checker) OutputResult(w io.Writer, result *Result) error {
	switch strings.ToLower(c.config.OutputFormat) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(result)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		if err := encoder.Encode(result); err != nil {
			return err
		}

		return encoder.Close()
	case "human", "":
		return c.outputHuman(w, result)
	default:
		return fmt.Errorf("%w: %s", report.ErrUnsupportedFormat, c.config.OutputFormat)
	}
}

func (c *Checker) outputHuman(w io.Writer, result *Result) error {
	if !result.Valid {
		fmt.Fprintf(w, "❌ Not a URL: %s\n", result.Target)
	} else {
		fmt.Fprintf(w, "✅ URL: %s\n", result.URL)
		fmt.Fprintf(w, "   key:    %s\n", result.Normalized)
		fmt.Fprintf(w, "   scheme: %s\n", result.Scheme)
		fmt.Fprintf(w, "   host:   %s\n", result.Host)

		if result.Domain != "" {
			fmt.Fprintf(w, "   domain: %s\n", result.Domain)
		}
	}

	for _, m := range result.Matches {
		fmt.Fprintf(w, "   match [%d:%d] %s\n", m.Start, m.End, m.URL)
	}

	return nil
}
