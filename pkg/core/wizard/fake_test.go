package wizard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// fakeCatalog is an in-memory wizard graph. Errors in fail are returned once
// and then cleared, so a retry of the same call succeeds.
type fakeCatalog struct {
	mu     sync.Mutex
	brands map[string]string
	states map[string]*autodoc.WizardState
	mods   map[string]*autodoc.Modifications
	fail   map[string]error
	calls  []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		brands: map[string]string{},
		states: map[string]*autodoc.WizardState{},
		mods:   map[string]*autodoc.Modifications{},
		fail:   map[string]error{},
	}
}

func (f *fakeCatalog) failOnce(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[call] = err
}

func (f *fakeCatalog) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if err, ok := f.fail[call]; ok {
		delete(f.fail, call)
		return err
	}
	return nil
}

func (f *fakeCatalog) ResolveBrandCode(_ context.Context, name string) (string, error) {
	if err := f.record("brand"); err != nil {
		return "", err
	}
	code, ok := f.brands[strings.ToLower(name)]
	if !ok {
		return "", perrors.New(perrors.ErrCodeBrandNotFound, "brand not recognized: %s", name)
	}
	return code, nil
}

func (f *fakeCatalog) WizardState(_ context.Context, _ string, token string) (*autodoc.WizardState, error) {
	if err := f.record("state:" + token); err != nil {
		return nil, err
	}
	s, ok := f.states[token]
	if !ok {
		return nil, fmt.Errorf("no state for token %q", token)
	}
	return s, nil
}

func (f *fakeCatalog) Modifications(_ context.Context, _ string, token string) (*autodoc.Modifications, error) {
	if err := f.record("mods:" + token); err != nil {
		return nil, err
	}
	m, ok := f.mods[token]
	if !ok {
		return &autodoc.Modifications{}, nil
	}
	return m, nil
}

func (f *fakeCatalog) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func field(name string, determined bool, opts ...autodoc.Option) autodoc.AttributeField {
	return autodoc.AttributeField{Name: name, Determined: determined, Options: opts}
}

func opt(key, value string) autodoc.Option {
	return autodoc.Option{Key: key, Value: value}
}

// hondaCatalog models HONDA: region and model open at first, then year,
// then region alone, then a complete configuration after "r-jp".
func hondaCatalog() *fakeCatalog {
	f := newFakeCatalog()
	f.brands["honda"] = "HONDA"
	region := field("Регион", false, opt("r-eu", "Европа"), opt("r-jp", "Япония"))
	f.states[""] = &autodoc.WizardState{Items: []autodoc.AttributeField{
		field("Марка", true, opt("", "HONDA")),
		region,
		field("Модель", false, opt("m-civic", "CIVIC 5D"), opt("m-accord", "ACCORD")),
	}}
	f.states["m-civic"] = &autodoc.WizardState{Items: []autodoc.AttributeField{
		region,
		field("Модель", true, opt("", "CIVIC 5D")),
		field("Год", false, opt("y95", "1995"), opt("y96", "1996"), opt("y97", "1997")),
	}}
	f.states["y96"] = &autodoc.WizardState{Items: []autodoc.AttributeField{region}}
	f.states["r-jp"] = &autodoc.WizardState{Items: []autodoc.AttributeField{
		field("Регион", true, opt("", "Япония")),
	}}
	f.mods["r-jp"] = &autodoc.Modifications{
		Common: []autodoc.Attribute{{Key: "model", Value: "CIVIC"}},
		Specific: []autodoc.Modification{
			{CarID: "101", Token: "car-101", Attributes: []autodoc.Attribute{{Key: "grade", Value: "EX"}}},
			{CarID: "102", Token: "car-102", Attributes: []autodoc.Attribute{{Key: "grade", Value: "LX"}}},
		},
	}
	return f
}
