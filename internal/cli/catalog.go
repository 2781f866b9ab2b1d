package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"skylaunch/internal/domain"
	"skylaunch/internal/pager"
)

var flagCatalogPlain bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every discovered entry",
	Long: `Runs one discovery pass and lists the catalog. On a terminal the list is
opened in a pager; use --plain (or redirect stdout) to print it.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&flagCatalogPlain, "plain", false, "Print instead of opening the pager")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	result := scanCatalog(cmd.Context(), cfg)

	var buf bytes.Buffer
	if err := writeCatalog(&buf, result.Entries); err != nil {
		return err
	}
	if result.Failed > 0 {
		fmt.Fprintf(&buf, "\n%d source directories could not be read\n", result.Failed)
	}

	out := cmd.OutOrStdout()
	if flagCatalogPlain || !isTerminal(out) {
		_, err := out.Write(buf.Bytes())
		return err
	}
	return pager.ShowReader(&buf)
}

func writeCatalog(out io.Writer, entries []domain.CatalogEntry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tWEIGHT\tACTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s %s\n", e.ID, e.Title, e.BaseWeight, e.Action.Kind, e.Action.Target)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\n%d entries\n", len(entries))
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
