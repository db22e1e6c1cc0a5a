package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/words"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		flags  renderFlags
		top    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "stats <words-file>",
		Short: "Print the word statistics of a text file",
		Long: `Stats counts the words of a text file with the same filters render uses
and prints the most frequent ones. Use "-" to read from standard input.`,
		Example: `  tagcloud stats speech.txt
  tagcloud stats speech.txt --stopwords -n 50
  tagcloud stats speech.txt --json > words.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.renderOptions(cmd, &flags, args[0])
			if err != nil {
				return err
			}
			opts.Logger = pipelineLogger(loggerFromContext(ctx))

			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			stats, err := runner.Parse(ctx, opts)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			printWordTable(stats, top)
			if args[0] != "-" {
				printNewline()
				printNextStep("Render it", "tagcloud render "+args[0])
			}
			return nil
		},
	}

	flags.registerWords(cmd.Flags())
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the statistics cache")
	cmd.Flags().IntVarP(&top, "top", "n", 20, "number of words to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print all statistics as JSON")
	return cmd
}

// printWordTable prints up to top words with their counts and share of all
// counted words.
func printWordTable(stats []words.Stat, top int) {
	if len(stats) == 0 {
		printWarning("No words left after filtering")
		return
	}
	total := words.Total(stats)
	shown := stats
	if top > 0 && len(shown) > top {
		shown = shown[:top]
	}

	rows := make([][]string, 0, len(shown))
	for i, s := range shown {
		share := float64(s.Count) / float64(total)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Word,
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.1f%%", share*100),
			bar(float64(s.Count)/float64(stats[0].Count), 20),
		})
	}
	printTable([]string{"#", "Word", "Count", "Share", ""}, rows, 0, 2, 3)
	printDetail("%d distinct words, %d occurrences", len(stats), total)
}
