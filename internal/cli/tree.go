package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/core/catalog"
	"github.com/matzehuels/partscout/pkg/render/treedot"
)

var treeFormats = []string{"dot", "svg", "pdf", "png"}

// treeCommand creates the category tree export command.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		opts    vehicleOptions
		format  string
		output  string
		depth   int
		showIDs bool
	)
	cmd := &cobra.Command{
		Use:   "tree [BRAND [MODEL] [YEAR]]",
		Short: "Export the parts category tree of a vehicle",
		Long: `Tree resolves a vehicle like resolve does and exports its parts category
tree as a Graphviz diagram. Searchable groups are highlighted and empty
groups are drawn dashed. PDF and PNG output require rsvg-convert.`,
		Example: `  partscout tree HONDA CIVIC 1996 -f svg -o civic.svg
  partscout tree --vin JHMEJ6674VS001234 --depth 2`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format == "" {
				format = formatFromPath(output)
			}
			if !slices.Contains(treeFormats, format) {
				return fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(treeFormats, ", "))
			}

			svc, err := c.newServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			v, err := c.resolve(ctx, svc, &opts, args)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			nav, err := catalog.Open(ctx, svc.catalog, v.BrandCode, v.Modification, v.Brand)
			if err != nil {
				return err
			}
			if nav.Empty() {
				printWarning("The catalog has no parts categories for this vehicle")
				return nil
			}
			dot := treedot.ToDOT(nav.Tree(), treedot.Options{
				Title:    catalog.Summary(v.Modification),
				MaxDepth: depth,
				ShowIDs:  showIDs,
			})
			data, err := treedot.Render(ctx, dot, format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Exported %d categories", nav.Tree().Len()))
			printFile(output)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg, pdf, png (default from -o, else dot)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&depth, "depth", 0, "levels to export (0 for all)")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "include quick-group IDs in labels")
	return cmd
}

func formatFromPath(path string) string {
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); slices.Contains(treeFormats, ext) {
		return ext
	}
	return "dot"
}
