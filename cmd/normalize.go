package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btraven00/linkdex/internal/normalizer"
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize [url...]",
	Short: "Print the canonical index key of URLs",
	Long: `Normalize rewrites each URL into its canonical form: lower-cased,
http:// added when no scheme is given, a trailing slash or index page
removed, a leading www. dropped, /./ and /../ collapsed and the default
port :80 removed.

URLs are taken from the arguments, or one per line from stdin.

Examples:
  linkdex normalize HTTPS://WWW.Example.com/index.html
  linkdex extract notes.txt --output csv | cut -d, -f2 | linkdex normalize`,
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		for _, arg := range args {
			fmt.Fprintln(cmd.OutOrStdout(), normalizer.Normalize(arg))
		}

		return nil
	}

	return normalizeLines(cmd.InOrStdin(), cmd.OutOrStdout())
}

// normalizeLines normalizes every non-blank line of r.
func normalizeLines(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		fmt.Fprintln(w, normalizer.Normalize(line))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}
