package cmd

import (
	"fmt"
	"io"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/btraven00/linkdex/internal/batch"
	"github.com/btraven00/linkdex/internal/extractor"
	"github.com/btraven00/linkdex/internal/input"
	"github.com/btraven00/linkdex/internal/report"
)

var (
	showOffsets  bool
	showProgress bool
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract URLs from text files, documents or stdin",
	Long: `Extract finds web URLs in free text.

Each input is scanned independently. Duplicates within an input are
reported once, URLs without a protocol get http://, and only http and
https URLs are listed. PDF, DOC, DOCX, ODT, RTF and PPTX files are
converted to text first; everything else is read as is. With no file
arguments, or with "-", text is read from stdin.

Examples:
  linkdex extract notes.txt
  linkdex extract --limit 10 --normalize --output json paper.pdf
  cat mail.txt | linkdex extract --offsets
  linkdex extract --workers 8 --output csv docs/*.md`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Int("limit", 0, "maximum number of distinct URLs per input (0 for no limit)")
	extractCmd.Flags().Int("workers", runtime.NumCPU(), "number of parallel workers")
	extractCmd.Flags().Bool("normalize", false, "add the canonical index key of each URL")
	extractCmd.Flags().Bool("domains", false, "add the registrable domain of each URL")
	extractCmd.Flags().BoolVar(&showOffsets, "offsets", false, "report every raw match with its byte offsets, duplicates and ftp included")
	extractCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress on stderr while processing")

	for _, name := range []string{"limit", "workers", "normalize", "domains"} {
		cobra.CheckErr(viper.BindPFlag(name, extractCmd.Flags().Lookup(name)))
	}
}

// extractSettings are the resolved flag and config values of one run.
type extractSettings struct {
	limit    int
	workers  int
	offsets  bool
	progress bool
	options  report.Options
}

func runExtract(cmd *cobra.Command, args []string) error {
	settings := extractSettings{
		limit:    viper.GetInt("limit"),
		workers:  viper.GetInt("workers"),
		offsets:  showOffsets,
		progress: showProgress && !quiet,
		options: report.Options{
			Normalize: viper.GetBool("normalize"),
			Domains:   viper.GetBool("domains"),
		},
	}

	if settings.limit < 0 {
		return fmt.Errorf("%w: %d", extractor.ErrInvalidLimit, settings.limit)
	}

	sources, err := input.NewLoader(cmd.InOrStdin()).Load(args)
	if err != nil {
		return err
	}

	e := extractor.New(extractor.WithLogger(logger))
	rep := buildReport(sources, e, settings, cmd.ErrOrStderr())

	return report.Write(cmd.OutOrStdout(), outputFormat(), rep)
}

// buildReport scans every source and collects the records.
func buildReport(sources []input.Source, e *extractor.URLExtractor, settings extractSettings, status io.Writer) *report.Report {
	rep := &report.Report{}

	if settings.offsets {
		for _, src := range sources {
			rep.Add(report.SourceReport{
				Source:  src.Name,
				Records: report.FromMatches(e.FindAll(src.Text), settings.options),
			})
		}

		return rep
	}

	tasks := make([]batch.Task, len(sources))
	for i, src := range sources {
		tasks[i] = batch.Task{
			ID:    strconv.Itoa(i),
			Name:  src.Name,
			Text:  src.Text,
			Limit: settings.limit,
		}
	}

	var (
		tracker    *batch.ProgressTracker
		onProgress func(batch.ProgressUpdate)
	)

	if settings.progress {
		tracker = batch.NewProgressTracker()
		onProgress = func(update batch.ProgressUpdate) {
			tracker.Update(update)
			tracker.PrintProgress(status)
		}
	}

	results := batch.Run(tasks, settings.workers, e, logger, onProgress)

	if tracker != nil {
		for _, result := range results {
			tracker.RecordResult(result)
		}

		tracker.PrintProgress(status)
		fmt.Fprintln(status)
	}

	for _, result := range results {
		src := report.SourceReport{Source: result.Task.Name}

		if result.Error != nil {
			src.Error = result.Error.Error()
		} else {
			src.Records = report.FromTexts(result.Texts, settings.options)
			src.Malformed = result.Malformed
		}

		logger.Debug("source scanned",
			zap.String("source", result.Task.Name),
			zap.Int("urls", len(result.URLs)),
			zap.Duration("elapsed", result.Elapsed))

		rep.Add(src)
	}

	return rep
}
