// Package input loads the text that gets scanned for URLs.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"code.sajari.com/docconv/v2"
	"golang.org/x/sync/errgroup"
)

// StdinName is the source name used for text read from standard input.
const StdinName = "-"

// ErrNoText is returned when a document converts to nothing but whitespace.
var ErrNoText = errors.New("no readable text found")

// convertedExtensions are file types whose text is pulled out by docconv
// rather than read verbatim.
var convertedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".odt":  true,
	".rtf":  true,
	".pptx": true,
}

// Source is a named block of text.
type Source struct {
	Name string
	Text string
}

// Converter turns a rich document into plain text.
type Converter func(path string) (string, error)

// Loader reads sources from files or a reader.
type Loader struct {
	stdin       io.Reader
	convert     Converter
	parallelism int
}

// NewLoader creates a Loader reading "-" from stdin and converting rich
// documents with docconv.
func NewLoader(stdin io.Reader) *Loader {
	return &Loader{
		stdin:       stdin,
		convert:     convertWithDocconv,
		parallelism: runtime.NumCPU(),
	}
}

// WithConverter replaces the document converter.
func (l *Loader) WithConverter(c Converter) *Loader {
	l.convert = c
	return l
}

// Load returns one Source per name, in the order given. No names means
// stdin. Files are read concurrently; the first failure aborts the load.
func (l *Loader) Load(names []string) ([]Source, error) {
	if len(names) == 0 {
		names = []string{StdinName}
	}

	sources := make([]Source, len(names))

	var (
		g         errgroup.Group
		stdinText *string
	)

	g.SetLimit(l.parallelism)

	for i, name := range names {
		sources[i].Name = name

		// stdin can only be drained once: it is read on this goroutine and
		// every further "-" gets the same text.
		if name == StdinName {
			if stdinText == nil {
				data, err := io.ReadAll(l.stdin)
				if err != nil {
					_ = g.Wait()
					return nil, fmt.Errorf("failed to read %s: %w", name, err)
				}

				text := string(data)
				stdinText = &text
			}

			sources[i].Text = *stdinText

			continue
		}

		i, name := i, name
		g.Go(func() error {
			text, err := l.loadFile(name)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}

			sources[i].Text = text

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return sources, nil
}

func (l *Loader) loadFile(name string) (string, error) {
	if NeedsConversion(name) {
		text, err := l.convert(name)
		if err != nil {
			return "", err
		}

		if strings.TrimSpace(text) == "" {
			return "", ErrNoText
		}

		return text, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// NeedsConversion reports whether the file at path is converted with
// docconv instead of being read as text.
func NeedsConversion(path string) bool {
	return convertedExtensions[strings.ToLower(filepath.Ext(path))]
}

func convertWithDocconv(path string) (string, error) {
	response, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert '%s': %w", path, err)
	}

	return response.Body, nil
}
