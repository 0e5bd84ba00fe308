package cli

import (
	"context"
	"fmt"
	"testing"

	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/integrations"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// scripted returns a chooser that answers from answers in order and then
// cancels. The titles it was asked are appended to titles.
func scripted(t *testing.T, titles *[]string, answers ...int) chooser {
	t.Helper()
	return func(title string, items []string) (int, error) {
		*titles = append(*titles, title)
		if len(answers) == 0 {
			return -1, errCancelled
		}
		i := answers[0]
		answers = answers[1:]
		if i >= len(items) {
			t.Fatalf("answer %d out of range for %q (%d items)", i, title, len(items))
		}
		return i, nil
	}
}

var errUpstream = integrations.Classify(&integrations.UpstreamError{Status: 502, URL: "http://catalog"}, "fetch")

// wizardCatalog is a small HONDA wizard: model, then year, then two
// modifications.
type wizardCatalog struct {
	failOnce map[string]bool
}

func (w *wizardCatalog) ResolveBrandCode(_ context.Context, name string) (string, error) {
	if name != "HONDA" {
		return "", perrors.New(perrors.ErrCodeBrandNotFound, "brand not recognized: %s", name)
	}
	return "HONDA", nil
}

func (w *wizardCatalog) WizardState(_ context.Context, brandCode, token string) (*autodoc.WizardState, error) {
	if w.failOnce[token] {
		delete(w.failOnce, token)
		return nil, errUpstream
	}
	model := autodoc.AttributeField{Name: "Модель", Options: []autodoc.Option{
		{Key: "m-civic", Value: "CIVIC"},
		{Key: "m-accord", Value: "ACCORD"},
	}}
	year := autodoc.AttributeField{Name: "Модельный год", Options: []autodoc.Option{
		{Key: "y96", Value: "1996"},
		{Key: "y97", Value: "1997"},
	}}
	switch token {
	case "":
		return &autodoc.WizardState{Items: []autodoc.AttributeField{model}}, nil
	case "m-civic", "m-accord":
		model.Determined = true
		return &autodoc.WizardState{Items: []autodoc.AttributeField{model, year}}, nil
	default:
		model.Determined = true
		year.Determined = true
		return &autodoc.WizardState{Items: []autodoc.AttributeField{model, year}}, nil
	}
}

func (w *wizardCatalog) Modifications(_ context.Context, brandCode, token string) (*autodoc.Modifications, error) {
	return &autodoc.Modifications{
		Common: []autodoc.Attribute{{Key: "brand", Value: "HONDA"}},
		Specific: []autodoc.Modification{
			{CarID: "101", Token: token + "/101", Attributes: []autodoc.Attribute{{Key: "grade", Value: "EX"}}},
			{CarID: "102", Token: token + "/102", Attributes: []autodoc.Attribute{{Key: "grade", Value: "LX"}}},
		},
	}, nil
}

// vinCatalog answers VIN lookups.
type vinCatalog struct {
	wizardCatalog
	mods *autodoc.Modifications
}

func (v *vinCatalog) BrandNames(context.Context) ([]string, error) { return []string{"HONDA"}, nil }

func (v *vinCatalog) VehicleByVIN(_ context.Context, vin string) (*autodoc.Modifications, error) {
	if v.mods == nil {
		return nil, fmt.Errorf("unexpected VIN lookup %s", vin)
	}
	return v.mods, nil
}

// partsCatalog serves one category tree.
type partsCatalog struct {
	parts    map[string][]autodoc.SparePart
	partsErr error
}

func (p *partsCatalog) CategoryTree(context.Context, string, string, string) ([]autodoc.CategoryNode, error) {
	return []autodoc.CategoryNode{
		{ID: "1", Name: "Двигатель", Children: []autodoc.CategoryNode{
			{ID: "10", Name: "Масляный фильтр", CanBeSearched: true},
			{ID: "11", Name: "Прокладки"},
		}},
		{ID: "2", Name: "Кузов", CanBeSearched: true},
	}, nil
}

func (p *partsCatalog) GroupParts(_ context.Context, _, _, groupID, _ string) ([]autodoc.SparePart, error) {
	if p.partsErr != nil {
		return nil, p.partsErr
	}
	return p.parts[groupID], nil
}
