package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btraven00/linkdex/internal/checker"
	"github.com/btraven00/linkdex/internal/extractor"
)

// ErrNotURL is returned by check --strict when the target is not a URL.
var ErrNotURL = errors.New("not a URL")

var strictFlag bool

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Check whether a piece of text is a URL",
	Long: `Check runs the same extraction as the extract command on the given
text and reports whether it finds at least one http or https URL. When it
does, the URL, its canonical key, scheme, host and registrable domain are
shown.

Examples:
  linkdex check example.com
  linkdex check --strict "123.456.789.000"
  linkdex check -v --output json "ftp://files.example.com"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&strictFlag, "strict", false, "exit with an error when the text is not a URL")
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := strings.Join(args, " ")

	c := checker.New(checker.Config{
		OutputFormat: outputFormat(),
		Verbose:      verbose,
	}, extractor.New(extractor.WithLogger(logger)))

	result := c.Check(target)

	if err := c.OutputResult(cmd.OutOrStdout(), result); err != nil {
		return fmt.Errorf("failed to output result: %w", err)
	}

	if strictFlag && !result.Valid {
		return fmt.Errorf("%w: %s", ErrNotURL, target)
	}

	return nil
}
