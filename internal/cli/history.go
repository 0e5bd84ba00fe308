package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/history"
)

// historyCommand creates the search history command.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear recorded searches",
	}
	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyClearCommand())
	return cmd
}

func (c *CLI) historyListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the most recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			records, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No searches recorded yet")
				return nil
			}
			printHistory(cmd.OutOrStdout(), records, time.Now())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of searches to show")
	return cmd
}

func (c *CLI) historyClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Clear(ctx); err != nil {
				return err
			}
			printSuccess("History cleared")
			return nil
		},
	}
}

func printHistory(w io.Writer, records []history.Record, now time.Time) {
	t := newTable("When", "Query", "Kind", "Offers", "Failed")
	for _, r := range records {
		t.Row(formatAge(now.Sub(r.CreatedAt), r.CreatedAt), r.Query, dash(r.Kind), formatCounts(r), dash(strings.Join(r.Failed, ", ")))
	}
	fmt.Fprintln(w, t.Render())
}

// formatCounts renders "12 (autodoc 3, exist 9)".
func formatCounts(r history.Record) string {
	names := make([]string, 0, len(r.Counts))
	for name := range r.Counts {
		names = append(names, name)
	}
	slices.Sort(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if n := r.Counts[name]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", name, n))
		}
	}
	if len(parts) == 0 {
		return fmt.Sprint(r.Total)
	}
	return fmt.Sprintf("%d (%s)", r.Total, strings.Join(parts, ", "))
}

func formatAge(diff time.Duration, at time.Time) string {
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return at.Local().Format("Jan 2, 2006")
	}
}
