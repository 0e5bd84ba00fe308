package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/partscout/pkg/core/catalog"
	"github.com/matzehuels/partscout/pkg/core/query"
	"github.com/matzehuels/partscout/pkg/core/wizard"
	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// vehicleOptions holds the flags shared by resolve and tree.
type vehicleOptions struct {
	model string
	year  string
	vin   string
	set   []string
}

func (o *vehicleOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.model, "model", "", "model name, as shown by the catalog")
	cmd.Flags().StringVar(&o.year, "year", "", "model year")
	cmd.Flags().StringVar(&o.vin, "vin", "", "look the vehicle up by VIN instead of the wizard")
	cmd.Flags().StringArrayVar(&o.set, "set", nil, "known field value as label=value (repeatable)")
}

// query builds the wizard query from BRAND [MODEL] [YEAR] arguments and
// flags. Flags win over positional arguments.
func (o *vehicleOptions) query(args []string) (wizard.Query, error) {
	q := wizard.Query{Known: map[string]string{}}
	if len(args) > 0 {
		q.Brand = args[0]
	}
	if len(args) > 1 {
		rest := strings.Join(args[1:], " ")
		if year, ok := query.Year(rest); ok {
			q.Year = year
			rest = strings.Join(strings.Fields(strings.ReplaceAll(rest, year, "")), " ")
		}
		q.Model = rest
	}
	if o.model != "" {
		q.Model = o.model
	}
	if o.year != "" {
		q.Year = o.year
	}
	for _, kv := range o.set {
		label, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(label) == "" {
			return q, perrors.New(perrors.ErrCodeInvalidInput, "--set %q: want label=value", kv)
		}
		q.Known[strings.TrimSpace(label)] = strings.TrimSpace(value)
	}
	return q, nil
}

// vehicle is a resolved modification ready for the parts catalog.
type vehicle struct {
	Brand        string // as the user named it; may be empty for VIN lookups
	BrandCode    string
	Common       []autodoc.Attribute
	Modification autodoc.Modification
}

// resolve runs the wizard or the VIN lookup and lets the user pick a
// modification.
func (c *CLI) resolve(ctx context.Context, svc *services, opts *vehicleOptions, args []string) (*vehicle, error) {
	if opts.vin != "" {
		return resolveVIN(ctx, svc.catalog, opts.vin, c.choose)
	}
	if len(args) == 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "a brand or --vin is required")
	}
	q, err := opts.query(args)
	if err != nil {
		return nil, err
	}
	s, err := resolveSession(ctx, c.newResolver(svc), q, c.choose)
	if err != nil {
		return nil, err
	}
	v, err := chooseModification(s.BrandCode, s.Common, s.Modifications, c.choose)
	if err != nil {
		return nil, err
	}
	v.Brand = s.Brand
	return v, nil
}

// resolveSession drives a session to completion, asking for every choice
// the known values could not make. A failed step may be retried.
func resolveSession(ctx context.Context, r *wizard.Resolver, q wizard.Query, choose chooser) (*wizard.Session, error) {
	s, err := r.Start(ctx, q)
	for {
		if err != nil {
			if s == nil || s.Phase == wizard.PhaseDead || !perrors.Is(err, perrors.ErrCodeStepFailed) {
				return s, err
			}
			printWarning("%s: %v", perrors.UserMessage(err), errors.Unwrap(err))
			i, chooseErr := choose("Catalog step failed", []string{"Retry", "Abort"})
			if chooseErr != nil || i != 0 {
				return s, err
			}
			s, err = r.Retry(ctx, s)
			continue
		}

		switch s.Phase {
		case wizard.PhaseComplete:
			return s, nil
		case wizard.PhaseDead:
			return s, s.Failure
		}

		choices := s.Choices()
		if len(choices) == 0 {
			s, err = r.Retry(ctx, s)
			continue
		}
		field := choices[0]
		values := make([]string, len(field.Options))
		for i, o := range field.Options {
			values[i] = o.Value
		}
		i, chooseErr := choose(field.Name, values)
		if chooseErr != nil {
			return s, chooseErr
		}
		s, err = r.Resume(ctx, s, field.Options[i].Key)
	}
}

func resolveVIN(ctx context.Context, cat query.Catalog, vin string, choose chooser) (*vehicle, error) {
	vin = strings.ToUpper(strings.TrimSpace(vin))
	if !query.IsVIN(vin) {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "not a VIN: %s", vin)
	}
	mods, err := cat.VehicleByVIN(ctx, vin)
	if err != nil {
		return nil, err
	}
	var brand string
	for _, a := range mods.Common {
		if a.Key == "brand" {
			brand = a.Value
			break
		}
	}
	code := mods.CatalogCode()
	if code == "" && brand != "" {
		if code, err = cat.ResolveBrandCode(ctx, brand); err != nil {
			return nil, err
		}
	}
	if code == "" {
		return nil, perrors.New(perrors.ErrCodeResolutionFailed, "VIN %s: catalog did not name the brand", vin)
	}
	v, err := chooseModification(code, mods.Common, mods.Specific, choose)
	if err != nil {
		return nil, err
	}
	v.Brand = brand
	return v, nil
}

func chooseModification(brandCode string, common []autodoc.Attribute, mods []autodoc.Modification, choose chooser) (*vehicle, error) {
	if len(mods) == 0 {
		return nil, perrors.New(perrors.ErrCodeEmptyCatalog, "no modifications for this configuration")
	}
	i := 0
	if len(mods) > 1 {
		items := make([]string, len(mods))
		for j, m := range mods {
			items[j] = catalog.Summary(m)
		}
		var err error
		if i, err = choose("Modification", items); err != nil {
			return nil, err
		}
	}
	return &vehicle{BrandCode: brandCode, Common: common, Modification: mods[i]}, nil
}

func printVehicle(v *vehicle) {
	fmt.Println(StyleTitle.Render(catalog.Summary(v.Modification)))
	for _, line := range catalog.Describe(append(append([]autodoc.Attribute(nil), v.Common...), v.Modification.Attributes...)) {
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			label, value = "", line
		}
		printKeyValue(label, value)
	}
	printKeyValue("Car ID", v.Modification.CarID)
}

// resolveCommand creates the interactive resolve-and-browse command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		opts     vehicleOptions
		noBrowse bool
	)
	cmd := &cobra.Command{
		Use:   "resolve [BRAND [MODEL] [YEAR]]",
		Short: "Resolve a vehicle configuration and browse its parts",
		Long: `Resolve walks the catalog configuration wizard for a vehicle. Values given
on the command line fill the matching wizard fields automatically; every
other field is asked for interactively. Once the vehicle is resolved, its
parts categories can be browsed down to the spare parts of each group.`,
		Example: `  partscout resolve HONDA CIVIC 1996
  partscout resolve TOYOTA --model Camry --set "Регион=Европа"
  partscout resolve --vin JHMEJ6674VS001234`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.newServices()
			if err != nil {
				return err
			}
			defer svc.Close()

			v, err := c.resolve(ctx, svc, &opts, args)
			if err != nil {
				return err
			}
			printVehicle(v)
			if noBrowse {
				return nil
			}

			spin := newSpinner(ctx, "Loading categories...")
			spin.Start()
			nav, err := catalog.Open(ctx, svc.catalog, v.BrandCode, v.Modification, v.Brand)
			spin.Stop()
			if err != nil {
				return err
			}
			if nav.Empty() {
				printWarning("The catalog has no parts categories for this vehicle")
				return nil
			}
			return browse(ctx, nav, c.choose, cmd.OutOrStdout())
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&noBrowse, "no-browse", false, "stop after resolving the vehicle")
	return cmd
}

const upEntry = ".."

// browse lets the user walk the category tree and prints the parts of each
// chosen leaf. It returns nil when the user leaves the picker.
func browse(ctx context.Context, nav *catalog.Navigator, choose chooser, w io.Writer) error {
	for {
		var items []string
		atRoot := len(nav.Path()) == 0
		if !atRoot {
			items = append(items, upEntry)
		}
		for _, n := range nav.Level() {
			switch {
			case n.HasChildren():
				items = append(items, n.Name+" ›")
			case n.DeadEnd():
				items = append(items, n.Name+" (empty)")
			default:
				items = append(items, n.Name)
			}
		}

		title := "Categories"
		if crumbs := nav.Breadcrumb(); len(crumbs) > 0 {
			title = strings.Join(crumbs, " / ")
		}
		i, err := choose(title, items)
		if errors.Is(err, errCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		if !atRoot {
			if i == 0 {
				nav.Up()
				continue
			}
			i--
		}

		sel, err := nav.Select(i)
		if err != nil {
			return err
		}
		switch sel.Kind {
		case catalog.KindDeadEnd:
			printWarning("%s has no parts", sel.Node.Name)
		case catalog.KindLeaf:
			listing, err := nav.Parts(ctx, sel.Node)
			if err != nil {
				if !perrors.Transient(err) {
					return err
				}
				printWarning("%s: %s", sel.Node.Name, perrors.UserMessage(err))
				continue
			}
			if listing.Empty() {
				printWarning("%s lists no parts", sel.Node.Name)
				continue
			}
			fmt.Fprintln(w, StyleTitle.Render(sel.Node.Name))
			fmt.Fprintln(w, renderPositions(listing))
		}
	}
}
