package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/core/aggregate"
	"github.com/matzehuels/partscout/pkg/core/query"
	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/history"
	"github.com/matzehuels/partscout/pkg/integrations"
)

// searchOptions controls how a search is filtered and printed.
type searchOptions struct {
	minPrice *float64
	maxPrice *float64
	byPrice  bool
	jsonOut  bool
	kind     query.Kind
}

// searcher is the part of the aggregator the search command uses.
type searcher interface {
	Search(ctx context.Context, query string) *aggregate.Report
}

// searchCommand creates the multi-source price comparison command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		minPrice, maxPrice float64
		sortBy             string
		jsonOut            bool
		noHistory          bool
	)
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Compare offers for a part number, VIN or car across all sources",
		Long: `Search sends the query to every enabled source at once and lists their
offers. A source that fails is reported and skipped; the others are still
shown. VINs and car descriptions produce a pointer to the catalog flow
rather than offers.`,
		Example: `  partscout search 04465-42160
  partscout search 15400-PLM-A02 --sort price --max-price 2000
  partscout search "HONDA CIVIC 1996"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q := strings.Join(args, " ")
			if err := perrors.ValidateQuery(q); err != nil {
				return err
			}
			switch sortBy {
			case "source", "price":
			default:
				return perrors.New(perrors.ErrCodeInvalidInput, "--sort must be source or price, not %q", sortBy)
			}

			svc, err := c.newServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			opts := searchOptions{byPrice: sortBy == "price", jsonOut: jsonOut}
			if cmd.Flags().Changed("min-price") {
				opts.minPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				opts.maxPrice = &maxPrice
			}
			opts.kind, err = query.NewClassifier(svc.catalog, c.Logger).Classify(ctx, q)
			if err != nil {
				return err
			}

			var store history.Store
			if !noHistory && !c.config().History.Disabled {
				if store, err = c.newHistory(ctx); err != nil {
					c.Logger.Warn("history disabled", "err", err)
					store = nil
				} else {
					defer store.Close(context.WithoutCancel(ctx))
				}
			}

			agg := c.newAggregator(svc)
			spin := newSpinner(ctx, fmt.Sprintf("Searching %s...", strings.Join(agg.Sources(), ", ")))
			spin.Start()
			report, err := runSearch(ctx, agg, store, q, opts)
			spin.Stop()
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report, opts)
		},
	}
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "hide offers below this price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "hide offers above this price")
	cmd.Flags().StringVar(&sortBy, "sort", "source", "order: source or price")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print offers as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record this search")
	return cmd
}

// runSearch queries every source, applies the price filter and records the
// search. A history failure is logged, never returned.
func runSearch(ctx context.Context, s searcher, store history.Store, q string, opts searchOptions) (*aggregate.Report, error) {
	report := s.Search(ctx, q)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.minPrice != nil || opts.maxPrice != nil {
		report.Results = aggregate.FilterByPrice(report.Results, opts.minPrice, opts.maxPrice)
	}

	if store != nil {
		counts := make(map[string]int, len(report.Results))
		for name, offers := range report.Results {
			counts[name] = len(offers)
		}
		failed := make([]string, 0, len(report.Errors))
		for name := range report.Errors {
			failed = append(failed, name)
		}
		slices.Sort(failed)
		if err := store.Add(ctx, history.New(q, string(opts.kind), counts, failed)); err != nil {
			loggerFromContext(ctx).Warn("record search", "err", err)
		}
	}
	return report, nil
}

// orderedOffers flattens the results either by price or grouped by source
// in name order.
func orderedOffers(r aggregate.Results, byPrice bool) []integrations.Offer {
	if byPrice {
		return aggregate.SortByPrice(r)
	}
	var all []integrations.Offer
	for _, name := range r.Names() {
		all = append(all, r[name]...)
	}
	return all
}

func printReport(w io.Writer, report *aggregate.Report, opts searchOptions) error {
	offers := orderedOffers(report.Results, opts.byPrice)
	if opts.jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if offers == nil {
			offers = []integrations.Offer{}
		}
		return enc.Encode(offers)
	}

	for _, name := range report.Results.Names() {
		if err, failed := report.Errors[name]; failed {
			printWarning("%s failed: %s", name, perrors.UserMessage(err))
		}
	}
	if len(offers) == 0 {
		printInfo("No offers for %s", report.Query)
		return nil
	}

	fmt.Fprintln(w, renderOffers(offers))
	if hint := resolveHint(offers); hint != "" {
		printDetail("Browse the catalog for this vehicle: %s", hint)
	}
	printSuccess("%d offers from %d sources (%s)", report.Results.Total(), len(report.Results), report.Duration.Round(time.Millisecond))
	return nil
}

// resolveHint returns the resolve command for the first vehicle
// placeholder, or "".
func resolveHint(offers []integrations.Offer) string {
	for _, o := range offers {
		if o.Kind != integrations.KindCarModel {
			continue
		}
		if o.Number != "" {
			return appName + " resolve --vin " + o.Number
		}
		return appName + " resolve " + o.Name
	}
	return ""
}
