package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skylaunch/internal/controller"
	"skylaunch/internal/eventbus"
)

var (
	flagQueryLimit  int
	flagQueryScores bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Print the ranked results for a query and exit",
	Long: `Runs one discovery pass and prints what the launcher would show for the
given text. With no text the default listing (recent launches first) is shown.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&flagQueryLimit, "limit", "n", 0, "Number of results to show (default search.limit)")
	queryCmd.Flags().BoolVar(&flagQueryScores, "scores", false, "Show score and matching rule")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	opts := controllerOptions(cfg)
	opts.AsyncThreshold = 0
	if flagQueryLimit > 0 {
		opts.Limit = flagQueryLimit
	}

	ctrl := controller.New(eventbus.NullBus{}, cfg.Weights(), opts)
	defer ctrl.Close()

	result := scanCatalog(cmd.Context(), cfg)
	ctrl.Rebuild(result.Entries)

	query := strings.Join(args, " ")
	if query == "" {
		// The TUI may hold the history database; recents are best effort here
		if store := openHistory(cfg); store != nil {
			if ids, err := store.RecentIDs(cfg.History.Recent); err == nil {
				ctrl.SetRecent(ids)
			}
			_ = store.Close()
		}
	}
	ctrl.OnTextChanged(query)

	return writeResults(cmd.OutOrStdout(), ctrl.CurrentResults(), flagQueryScores)
}

func writeResults(out io.Writer, results []controller.ResultView, scores bool) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(out, "No matches.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, r := range results {
		if scores {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\t%s\n", i+1, r.Title, r.Source, r.Score, r.Rule)
		} else {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, r.Title, r.Source, r.Subtitle)
		}
	}
	return tw.Flush()
}
