package checker

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/btraven00/linkdex/internal/report"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		valid      bool
		url        string
		normalized string
		domain     string
	}{
		{
			name:       "bare domain",
			target:     "www.example.co.uk",
			valid:      true,
			url:        "http://www.example.co.uk",
			normalized: "http://example.co.uk",
			domain:     "example.co.uk",
		},
		{
			name:       "https with path",
			target:     "https://Docs.Example.com/guide/",
			valid:      true,
			url:        "https://Docs.Example.com/guide",
			normalized: "https://docs.example.com/guide",
			domain:     "example.com",
		},
		{
			name:       "lone percent kept as found",
			target:     "example.com/50%off",
			valid:      true,
			url:        "http://example.com/50%off",
			normalized: "http://example.com/50%off",
			domain:     "example.com",
		},
		{
			name:   "digits and dots",
			target: "123.456.789.000",
			valid:  false,
		},
		{
			name:   "prose",
			target: "not a url at all",
			valid:  false,
		},
		{
			name:   "ftp is not kept",
			target: "ftp://files.example.com",
			valid:  false,
		},
	}

	c := New(Config{}, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Check(tt.target)

			if result.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v", result.Valid, tt.valid)
			}

			if result.URL != tt.url {
				t.Errorf("URL = %q, want %q", result.URL, tt.url)
			}

			if result.Normalized != tt.normalized {
				t.Errorf("Normalized = %q, want %q", result.Normalized, tt.normalized)
			}

			if result.Domain != tt.domain {
				t.Errorf("Domain = %q, want %q", result.Domain, tt.domain)
			}
		})
	}
}

func TestCheckVerboseIncludesMatches(t *testing.T) {
	c := New(Config{Verbose: true}, nil)

	result := c.Check("ftp://files.example.com")
	if len(result.Matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(result.Matches))
	}

	if result.Matches[0].URL != "ftp://files.example.com" {
		t.Errorf("Unexpected match %q", result.Matches[0].URL)
	}
}

func TestOutputResultJSON(t *testing.T) {
	c := New(Config{OutputFormat: "json"}, nil)

	var buf bytes.Buffer
	if err := c.OutputResult(&buf, c.Check("example.com")); err != nil {
		t.Fatalf("OutputResult failed: %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if !decoded.Valid || decoded.URL != "http://example.com" {
		t.Errorf("Unexpected result: %+v", decoded)
	}
}

func TestOutputResultHuman(t *testing.T) {
	c := New(Config{}, nil)

	var buf bytes.Buffer
	if err := c.OutputResult(&buf, c.Check("nothing here")); err != nil {
		t.Fatalf("OutputResult failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Not a URL: nothing here") {
		t.Errorf("Unexpected output: %q", buf.String())
	}
}

func TestOutputResultUnsupported(t *testing.T) {
	c := New(Config{OutputFormat: "xml"}, nil)

	err := c.OutputResult(&bytes.Buffer{}, &Result{})
	if !errors.Is(err, report.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
