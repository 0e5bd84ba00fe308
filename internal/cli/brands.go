package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// brandsCommand lists the catalog brand directory.
func (c *CLI) brandsCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "brands",
		Short: "List the brands of the original-parts catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.newServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			brands, err := svc.catalog.Brands(ctx)
			if err != nil {
				return err
			}
			slices.SortFunc(brands, func(a, b autodoc.Brand) int {
				return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
			})

			needle := strings.ToLower(strings.TrimSpace(filter))
			t := newTable("Brand", "Code")
			n := 0
			for _, b := range brands {
				if needle != "" && !strings.Contains(strings.ToLower(b.Name), needle) {
					continue
				}
				t.Row(b.Name, b.Code)
				n++
			}
			if n == 0 {
				printInfo("No brands match %q", filter)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			printDetail("%d brands", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only brands whose name contains this text")
	return cmd
}
