package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/stockseo/internal/generator"
	"github.com/ziadkadry99/stockseo/internal/history"
	"github.com/ziadkadry99/stockseo/internal/progress"
	"github.com/ziadkadry99/stockseo/internal/walker"
)

var generateCmd = &cobra.Command{
	Use:   "generate [titles...]",
	Short: "Generate SEO keywords for microstock titles",
	Long: `Generates one keyword group per title. Titles come from the arguments,
from stdin when the only argument is "-", or from files matched by --file
(plain text with one title per line, or CSV exports with a Title column).`,
	Example: `  stockseo generate "Sunset over a tropical beach" "Fresh vegetables on a table"
  stockseo generate --count 30 --file "batches/**/*.txt"
  stockseo history use 0190a3c4-... | stockseo generate -`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSlice("file", nil, "title files or doublestar globs (repeatable)")
	generateCmd.Flags().StringSlice("exclude", nil, "globs of title files to skip")
	generateCmd.Flags().Int("count", 0, "keywords per title, 5-50 (default from config)")
	generateCmd.Flags().Bool("json", false, "print the result as JSON")
	rootCmd.AddCommand(generateCmd)
}

// trackedSource reports every finished title to a progress counter.
type trackedSource struct {
	generator.KeywordSource
	counter *progress.Counter
}

func (t trackedSource) Generate(ctx context.Context, title string, count int, credential string) ([]string, error) {
	kws, err := t.KeywordSource.Generate(ctx, title, count, credential)
	if err != nil {
		t.counter.Done(title + " (failed)")
	} else {
		t.counter.Done(title)
	}
	return kws, err
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	titles, err := collectTitles(cmd, args)
	if err != nil {
		return err
	}

	count, _ := cmd.Flags().GetInt("count")
	if count == 0 {
		count = a.cfg.DefaultCount
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	input := strings.Join(titles, "\n")
	orch := a.orch
	if n := len(generator.ParseTitles(input)); n > 0 && a.keys.Active(ctx) != "" {
		counter := progress.NewCounter(progress.NewReporter(os.Stderr), n)
		defer counter.Finish()
		orch = a.newOrchestrator(trackedSource{KeywordSource: a.client, counter: counter})
	}

	groups, err := orch.Generate(ctx, input, count)
	if err != nil {
		a.log.Debug("generation failed", zap.Error(err))
		return a.userError(err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Groups  []history.KeywordGroup `json:"groups"`
			CopyAll string                 `json:"copy_all"`
		}{groups, history.Join(history.UniqueKeywords(groups))})
	}

	printGroups(groups)
	if verbose {
		fmt.Fprintf(os.Stderr, "Generated %d groups in %s\n", len(groups), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// collectTitles gathers titles from the arguments, stdin and --file globs.
func collectTitles(cmd *cobra.Command, args []string) ([]string, error) {
	var titles []string
	if len(args) == 1 && args[0] == "-" {
		lines, err := walker.ReadLines(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading titles from stdin: %w", err)
		}
		titles = append(titles, lines...)
	} else {
		titles = append(titles, args...)
	}

	patterns, _ := cmd.Flags().GetStringSlice("file")
	if len(patterns) > 0 {
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		files, err := walker.Load(walker.Config{Patterns: patterns, Exclude: exclude})
		if err != nil {
			return nil, err
		}
		if verbose {
			for _, f := range files {
				fmt.Fprintf(os.Stderr, "Read %d titles from %s\n", len(f.Titles), f.Path)
			}
		}
		titles = append(titles, walker.Titles(files)...)
	}
	return titles, nil
}

// printGroups prints each keyword group followed by the de-duplicated list of
// every keyword.
func printGroups(groups []history.KeywordGroup) {
	for _, g := range groups {
		fmt.Printf("%s\n  %s\n\n", g.Title, history.Join(g.Keywords))
	}
	fmt.Println("All unique keywords:")
	fmt.Println(history.Join(history.UniqueKeywords(groups)))
}
