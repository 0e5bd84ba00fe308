package wizard

import (
	"strings"

	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// Fill is one field the resolver selected on the caller's behalf.
type Fill struct {
	Field string // Wizard label of the field
	Value string // Displayed value of the chosen option
	Token string // Continuation token the option selected
}

// MatchOption returns the first option of field that matches known.
//
// Year-like fields require exact equality so that 1996 never selects 1995.
// Every other field accepts a case-insensitive substring match in either
// direction, since upstream labels range from "CIVIC" to "CIVIC 5D HATCHBACK".
// When several options match, the first in server order wins.
func MatchOption(field autodoc.AttributeField, known string) (autodoc.Option, bool) {
	known = strings.TrimSpace(known)
	if known == "" {
		return autodoc.Option{}, false
	}
	year := IsYear(field.Name)
	lowKnown := strings.ToLower(known)
	for _, opt := range field.Options {
		value := strings.TrimSpace(opt.Value)
		if value == "" || opt.Key == "" {
			continue
		}
		if year {
			if value == known {
				return opt, true
			}
			continue
		}
		lowValue := strings.ToLower(value)
		if strings.Contains(lowValue, lowKnown) || strings.Contains(lowKnown, lowValue) {
			return opt, true
		}
	}
	return autodoc.Option{}, false
}

// AutoFill scans the open fields of state in order and returns the first
// field/option pair that matches a known value. Options whose token is in
// skip are ignored; the resolver passes the tokens it has already visited.
func AutoFill(state *autodoc.WizardState, known KnownValues, skip map[string]bool) (Fill, bool) {
	if state == nil {
		return Fill{}, false
	}
	for _, field := range state.Open() {
		value, ok := known.Lookup(field.Name)
		if !ok {
			continue
		}
		if skip != nil {
			field = withoutTokens(field, skip)
		}
		if opt, ok := MatchOption(field, value); ok {
			return Fill{Field: field.Name, Value: opt.Value, Token: opt.Key}, true
		}
	}
	return Fill{}, false
}

func withoutTokens(field autodoc.AttributeField, skip map[string]bool) autodoc.AttributeField {
	opts := make([]autodoc.Option, 0, len(field.Options))
	for _, o := range field.Options {
		if !skip[o.Key] {
			opts = append(opts, o)
		}
	}
	field.Options = opts
	return field
}
