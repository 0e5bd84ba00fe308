// Package aggregate runs a query against several price sources at once and
// merges their offers.
//
// Sources are isolated from each other: a source that fails, times out or
// panics contributes an empty list and a log entry, and never cancels or
// fails the others. [Aggregator.SearchAll] therefore has no error return.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/partscout/pkg/integrations"
	"github.com/matzehuels/partscout/pkg/observability"
)

// Source is one independent price source.
type Source interface {
	// Name is the key of the source in [Results].
	Name() string

	// Search returns the offers for query. It must be safe for concurrent
	// use and should return promptly once ctx is done.
	Search(ctx context.Context, query string) ([]integrations.Offer, error)
}

// Results maps a source name to its offers.
type Results map[string][]integrations.Offer

// Total returns the number of offers across every source.
func (r Results) Total() int {
	n := 0
	for _, offers := range r {
		n += len(offers)
	}
	return n
}

// Names returns the source names in sorted order.
func (r Results) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report is the full outcome of a search, including per-source failures.
type Report struct {
	Query    string
	Results  Results
	Errors   map[string]error
	Duration time.Duration
}

// Aggregator fans a query out to its sources.
type Aggregator struct {
	sources []Source
	logger  *log.Logger
}

// New creates an Aggregator. logger may be nil.
func New(logger *log.Logger, sources ...Source) *Aggregator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Aggregator{sources: sources, logger: logger}
}

// Sources returns the configured source names in configuration order.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.sources))
	for i, s := range a.sources {
		names[i] = s.Name()
	}
	return names
}

// SearchAll queries every source concurrently. Every configured source has
// an entry in the result, empty if it failed.
func (a *Aggregator) SearchAll(ctx context.Context, query string) Results {
	return a.Search(ctx, query).Results
}

// Search is SearchAll with the per-source errors kept.
func (a *Aggregator) Search(ctx context.Context, query string) *Report {
	start := time.Now()
	report := &Report{
		Query:   query,
		Results: make(Results, len(a.sources)),
		Errors:  map[string]error{},
	}
	for _, s := range a.sources {
		report.Results[s.Name()] = []integrations.Offer{}
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, src := range a.sources {
		g.Go(func() error {
			offers, err := a.run(ctx, src, query)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Errors[src.Name()] = err
				return nil
			}
			if offers != nil {
				report.Results[src.Name()] = offers
			}
			return nil
		})
	}
	// Tasks never return an error; failures are recorded in the report.
	_ = g.Wait()

	report.Duration = time.Since(start)
	return report
}

func (a *Aggregator) run(ctx context.Context, src Source, query string) (offers []integrations.Offer, err error) {
	name := src.Name()
	start := time.Now()
	observability.Search().OnSourceStart(ctx, name, query)
	defer func() {
		if r := recover(); r != nil {
			offers, err = nil, fmt.Errorf("source %s panicked: %v", name, r)
		}
		if err != nil {
			a.logger.Error("source search failed", "source", name, "query", query, "err", err)
		} else {
			a.logger.Debug("source search done", "source", name, "query", query, "offers", len(offers))
		}
		observability.Search().OnSourceComplete(ctx, name, query, len(offers), time.Since(start), err)
	}()
	return src.Search(ctx, query)
}

// SortByPrice flattens results and sorts the priceable offers by ascending
// price. Offers without a price sort last; ties keep source order, with
// sources taken alphabetically.
func SortByPrice(r Results) []integrations.Offer {
	var all []integrations.Offer
	for _, name := range r.Names() {
		for _, o := range r[name] {
			if o.Priceable() {
				all = append(all, o)
			}
		}
	}
	slices.SortStableFunc(all, func(a, b integrations.Offer) int {
		pa, pb := a.PriceOrInf(), b.PriceOrInf()
		switch {
		case pa < pb:
			return -1
		case pa > pb:
			return 1
		default:
			return 0
		}
	})
	return all
}

// FilterByPrice keeps, per source, the priceable offers within [lo, hi].
// A nil bound is open. When any bound is set, offers without a price are
// dropped; a zero price counts as missing, as in [SortByPrice].
func FilterByPrice(r Results, lo, hi *float64) Results {
	out := make(Results, len(r))
	for name, offers := range r {
		kept := []integrations.Offer{}
		for _, o := range offers {
			if !o.Priceable() {
				continue
			}
			if lo != nil || hi != nil {
				p := o.PriceOrInf()
				if math.IsInf(p, 1) {
					continue
				}
				if lo != nil && p < *lo {
					continue
				}
				if hi != nil && p > *hi {
					continue
				}
			}
			kept = append(kept, o)
		}
		out[name] = kept
	}
	return out
}
