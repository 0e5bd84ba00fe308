package wizard

import "strings"

// KnownValues holds attribute values the caller already knows, keyed by
// canonical attribute key. It only feeds auto-fill; it never changes a
// wizard state.
type KnownValues map[string]string

// NewKnownValues normalizes raw labels onto canonical keys. A value given
// under any year label is stored under every year key, because brands
// differ in which year field they offer. Empty values are dropped.
func NewKnownValues(raw map[string]string) KnownValues {
	known := make(KnownValues, len(raw))
	for label, value := range raw {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if IsYear(label) {
			for _, y := range yearKeys {
				known[y] = value
			}
			continue
		}
		known[Canonical(label)] = value
	}
	return known
}

// Lookup returns the known value for a wizard field label.
func (k KnownValues) Lookup(label string) (string, bool) {
	v, ok := k[Canonical(label)]
	return v, ok && v != ""
}
