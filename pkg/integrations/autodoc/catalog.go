// Package autodoc provides clients for the autodoc.ru original-parts catalog
// and its article search.
//
// The catalog is driven by an opaque continuation token (the "ssd"): each
// wizard response carries options whose keys are tokens for the next step.
// Tokens are never built or parsed locally; the client forwards them
// verbatim.
package autodoc

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/integrations"
)

// DefaultCatalogURL is the original-parts catalog API root.
const DefaultCatalogURL = "https://catalogoriginal.autodoc.ru/api/catalogs/original"

// Headers are the browser-like defaults the autodoc hosts expect.
func Headers() map[string]string {
	return map[string]string{
		"Accept":          "application/json",
		"Accept-Language": "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
		"Origin":          "https://autodoc.ru",
		"Referer":         "https://autodoc.ru/",
	}
}

// Catalog is a typed client for the original-parts catalog.
// Every method is a single request through the shared access layer; none
// add retries of their own. Empty results are normal outcomes.
type Catalog struct {
	http    *integrations.Client
	baseURL string
	brands  *BrandCache
}

// NewCatalog creates a catalog client. baseURL may be empty for the public
// endpoint. brands is shared by reference and may be used by other clients.
func NewCatalog(http *integrations.Client, baseURL string, brands *BrandCache) *Catalog {
	if brands == nil {
		brands = NewBrandCache(nil, baseURL, 0)
	}
	return &Catalog{http: http, baseURL: catalogRoot(baseURL), brands: brands}
}

func catalogRoot(baseURL string) string {
	if baseURL == "" {
		baseURL = DefaultCatalogURL
	}
	return strings.TrimRight(baseURL, "/")
}

// Brands returns the brand directory.
func (c *Catalog) Brands(ctx context.Context) ([]Brand, error) {
	return c.brands.Brands(ctx, c.fetchBrands)
}

// BrandNames returns the display names of the brand directory.
func (c *Catalog) BrandNames(ctx context.Context) ([]string, error) {
	brands, err := c.Brands(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(brands))
	for _, b := range brands {
		if b.Name != "" {
			names = append(names, b.Name)
		}
	}
	return names, nil
}

// ResolveBrandCode maps a brand name onto its catalog code.
//
// Matching is case-insensitive and exact; there is no fuzzy fallback, so
// "Mersedes" does not resolve to MERCEDES. The result is stable for the
// life of the process. An unknown brand fails with ErrCodeBrandNotFound.
func (c *Catalog) ResolveBrandCode(ctx context.Context, name string) (string, error) {
	code, ok, err := c.brands.Lookup(ctx, name, c.fetchBrands)
	if err != nil {
		return "", integrations.Classify(err, "fetch brand directory")
	}
	if !ok {
		return "", perrors.New(perrors.ErrCodeBrandNotFound, "brand not recognized: %s", strings.TrimSpace(name))
	}
	return code, nil
}

// WizardState fetches the wizard for brandCode. An empty token asks for the
// initial state.
func (c *Catalog) WizardState(ctx context.Context, brandCode, token string) (*WizardState, error) {
	var params url.Values
	if token != "" {
		params = url.Values{"ssd": {token}}
	}
	var state WizardState
	if err := c.http.GetJSON(ctx, c.brandURL(brandCode, "wizzard"), params, &state); err != nil {
		return nil, integrations.Classify(err, "fetch wizard state for %s", brandCode)
	}
	return &state, nil
}

// Modifications fetches the concrete vehicle variants for a fully narrowed
// wizard token.
func (c *Catalog) Modifications(ctx context.Context, brandCode, token string) (*Modifications, error) {
	var mods Modifications
	params := url.Values{"ssd": {token}}
	if err := c.http.GetJSON(ctx, c.brandURL(brandCode, "wizzard", "0", "modifications"), params, &mods); err != nil {
		return nil, integrations.Classify(err, "fetch modifications for %s", brandCode)
	}
	return &mods, nil
}

// CategoryTree fetches the full quick-group tree of one modification.
func (c *Catalog) CategoryTree(ctx context.Context, brandCode, carID, token string) ([]CategoryNode, error) {
	var tree categoryTree
	params := url.Values{"ssd": {token}}
	if err := c.http.GetJSON(ctx, c.brandURL(brandCode, "cars", carID, "quickgroups"), params, &tree); err != nil {
		return nil, integrations.Classify(err, "fetch category tree for %s/%s", brandCode, carID)
	}
	return tree.Data, nil
}

// GroupParts fetches the spare parts of one leaf quick group.
// The token travels in the request body.
func (c *Catalog) GroupParts(ctx context.Context, brandCode, carID, groupID, token string) ([]SparePart, error) {
	var parts groupParts
	u := c.brandURL(brandCode, "cars", carID, "quickgroups", groupID, "units")
	if err := c.http.PostJSON(ctx, u, map[string]string{"ssd": token}, &parts); err != nil {
		return nil, integrations.Classify(err, "fetch parts of group %s", groupID)
	}
	return parts.Items, nil
}

// VehicleByVIN looks a VIN up directly, skipping the wizard.
func (c *Catalog) VehicleByVIN(ctx context.Context, vin string) (*Modifications, error) {
	var mods Modifications
	u := fmt.Sprintf("%s/cars/%s/modifications", c.baseURL, integrations.PathEscape(vin))
	if err := c.http.GetJSON(ctx, u, nil, &mods); err != nil {
		return nil, integrations.Classify(err, "look up VIN %s", vin)
	}
	return &mods, nil
}

func (c *Catalog) fetchBrands(ctx context.Context) ([]Brand, error) {
	var list brandList
	if err := c.http.GetJSON(ctx, c.baseURL+"/brands", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Catalog) brandURL(brandCode string, segments ...string) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/brands/")
	b.WriteString(integrations.PathEscape(brandCode))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(integrations.PathEscape(s))
	}
	return b.String()
}
