package query

import (
	"context"
	"strings"

	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/integrations"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// Catalog is what the combined autodoc source needs from the catalog client.
type Catalog interface {
	BrandSource
	VehicleByVIN(ctx context.Context, vin string) (*autodoc.Modifications, error)
}

// ArticleSearcher searches offers by article number.
type ArticleSearcher interface {
	Search(ctx context.Context, number string) ([]integrations.Offer, error)
}

// Source is the autodoc entry of the aggregator. Article numbers go to the
// storefront; VINs and car descriptions produce a single car_model
// placeholder pointing the caller at the catalog flow.
type Source struct {
	classifier *Classifier
	catalog    Catalog
	articles   ArticleSearcher
}

// NewSource creates the combined source.
func NewSource(classifier *Classifier, catalog Catalog, articles ArticleSearcher) *Source {
	return &Source{classifier: classifier, catalog: catalog, articles: articles}
}

// Name implements the aggregator source contract.
func (s *Source) Name() string { return autodoc.SourceName }

// Search routes q by its classification.
func (s *Source) Search(ctx context.Context, q string) ([]integrations.Offer, error) {
	kind, err := s.classifier.Classify(ctx, q)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	switch kind {
	case KindVIN:
		return s.vin(ctx, strings.ToUpper(q))
	case KindCar:
		return s.car(ctx, q)
	default:
		return s.articles.Search(ctx, q)
	}
}

func (s *Source) vin(ctx context.Context, vin string) ([]integrations.Offer, error) {
	mods, err := s.catalog.VehicleByVIN(ctx, vin)
	if err != nil {
		return nil, err
	}
	if len(mods.Common) == 0 && len(mods.Specific) == 0 {
		return nil, nil
	}
	attr := func(key string) string {
		for _, a := range mods.Common {
			if strings.EqualFold(a.Key, key) {
				return a.Value
			}
		}
		return ""
	}
	car := Car{Brand: attr("brand"), Model: attr("model"), Year: attr("year")}
	name := car.String()
	if name == "" {
		name = vin
	}
	return []integrations.Offer{placeholder(name, car.Brand, vin)}, nil
}

func (s *Source) car(ctx context.Context, q string) ([]integrations.Offer, error) {
	car, err := s.classifier.ExtractCar(ctx, q)
	switch {
	case err == nil:
		return []integrations.Offer{placeholder(car.String(), car.Brand, "")}, nil
	case !perrors.Is(err, perrors.ErrCodeInvalidQuery) && !perrors.Is(err, perrors.ErrCodeBrandNotFound):
		return nil, err
	}
	// A lone brand name is still a car search.
	if len(strings.Fields(q)) == 1 {
		if _, err := s.catalog.ResolveBrandCode(ctx, q); err == nil {
			return []integrations.Offer{placeholder(q, q, "")}, nil
		}
	}
	return nil, nil
}

func placeholder(name, brand, number string) integrations.Offer {
	return integrations.Offer{
		Source: autodoc.SourceName,
		Kind:   integrations.KindCarModel,
		Name:   name,
		Brand:  brand,
		Number: number,
	}
}
