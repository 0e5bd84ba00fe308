package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/core/query"
	perrors "github.com/matzehuels/partscout/pkg/errors"
)

// classifyCommand shows how search would route a query.
func (c *CLI) classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify QUERY",
		Short: "Show whether a query is read as a VIN, a car or an article number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q := strings.Join(args, " ")

			svc, err := c.newServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			classifier := query.NewClassifier(svc.catalog, c.Logger)
			kind, err := classifier.Classify(ctx, q)
			if err != nil {
				return err
			}
			printKeyValue("Query", q)
			printKeyValue("Kind", string(kind))

			if kind != query.KindCar {
				return nil
			}
			car, err := classifier.ExtractCar(ctx, q)
			if err != nil {
				printDetail("%s", perrors.UserMessage(err))
				return nil
			}
			printKeyValue("Brand", car.Brand+" ("+car.BrandCode+")")
			printKeyValue("Model", car.Model)
			if car.Year != "" {
				printKeyValue("Year", car.Year)
			}
			return nil
		},
	}
}
