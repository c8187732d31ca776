package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned by Write for an unknown format name.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats lists the names accepted by Write.
var Formats = []string{"human", "json", "yaml", "csv"}

// Write renders rep to w in the named format.
func Write(w io.Writer, format string, rep *Report) error {
	switch strings.ToLower(format) {
	case "human", "":
		return writeHuman(w, rep)
	case "json":
		return writeJSON(w, rep)
	case "yaml", "yml":
		return writeYAML(w, rep)
	case "csv":
		return writeCSV(w, rep)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func writeJSON(w io.Writer, rep *Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(rep)
}

func writeYAML(w io.Writer, rep *Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(rep); err != nil {
		return err
	}

	return encoder.Close()
}

func writeCSV(w io.Writer, rep *Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"source", "url", "normalized", "domain", "start", "end"}); err != nil {
		return err
	}

	for _, src := range rep.Sources {
		for _, rec := range src.Records {
			start, end := "", ""
			if rec.Span != nil {
				start = strconv.Itoa(rec.Span.Start)
				end = strconv.Itoa(rec.Span.End)
			}

			row := []string{src.Source, rec.URL, rec.Normalized, rec.Domain, start, end}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	writer.Flush()

	return writer.Error()
}

func writeHuman(w io.Writer, rep *Report) error {
	for _, src := range rep.Sources {
		fmt.Fprintf(w, "📄 Source: %s\n", src.Source)

		if src.Error != "" {
			fmt.Fprintf(w, "   ❌ %s\n\n", src.Error)
			continue
		}

		fmt.Fprintf(w, "🔗 Found %d links\n", len(src.Records))

		for i, rec := range src.Records {
			fmt.Fprintf(w, "  %d. %s", i+1, rec.URL)

			if rec.Span != nil {
				fmt.Fprintf(w, " [%d:%d]", rec.Span.Start, rec.Span.End)
			}

			fmt.Fprintln(w)

			if rec.Normalized != "" && rec.Normalized != rec.URL {
				fmt.Fprintf(w, "     key: %s\n", rec.Normalized)
			}

			if rec.Domain != "" {
				fmt.Fprintf(w, "     domain: %s\n", rec.Domain)
			}
		}

		if len(src.Malformed) > 0 {
			fmt.Fprintf(w, "\n⚠️  Malformed candidates:\n")

			for _, m := range src.Malformed {
				fmt.Fprintf(w, "   • %s\n", m)
			}
		}

		fmt.Fprintln(w)
	}

	s := rep.Summary
	_, err := fmt.Fprintf(w, "📊 %d sources, %d links (%d unique), %d malformed\n",
		s.TotalSources, s.TotalRecords, s.UniqueURLs, s.MalformedCount)

	return err
}
