package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

// Position is one callout on the exploded-view diagram and every part
// listed under it.
type Position struct {
	Code  string
	Parts []autodoc.SparePart
}

// Listing is the grouped result of a leaf category.
// Additional holds parts with no diagram code.
type Listing struct {
	Positions  []Position
	Additional []autodoc.SparePart
}

// Len returns the number of parts in the listing.
func (l Listing) Len() int {
	n := len(l.Additional)
	for _, p := range l.Positions {
		n += len(p.Parts)
	}
	return n
}

// Empty reports whether the listing has no parts.
func (l Listing) Empty() bool { return l.Len() == 0 }

// Group buckets parts by diagram code and orders them deterministically.
//
// Positions are ordered by code, numeric codes first in numeric order, the
// rest lexically. Within a position, parts made by one of originals (matched
// case-insensitively, typically the vehicle brand) come first; the rest
// follow by manufacturer, then name, then part number.
func Group(parts []autodoc.SparePart, originals ...string) Listing {
	orig := make(map[string]bool, len(originals))
	for _, o := range originals {
		if o = strings.ToLower(strings.TrimSpace(o)); o != "" {
			orig[o] = true
		}
	}

	byCode := map[string][]autodoc.SparePart{}
	var codes []string
	var listing Listing
	for _, p := range parts {
		code := strings.TrimSpace(p.CodeOnImage)
		if code == "" {
			listing.Additional = append(listing.Additional, p)
			continue
		}
		if _, seen := byCode[code]; !seen {
			codes = append(codes, code)
		}
		byCode[code] = append(byCode[code], p)
	}

	slices.SortFunc(codes, compareCodes)
	for _, code := range codes {
		group := byCode[code]
		sortParts(group, orig)
		listing.Positions = append(listing.Positions, Position{Code: code, Parts: group})
	}
	sortParts(listing.Additional, orig)
	return listing
}

func sortParts(parts []autodoc.SparePart, orig map[string]bool) {
	rank := func(p autodoc.SparePart) int {
		if orig[strings.ToLower(strings.TrimSpace(p.Manufacturer))] {
			return 0
		}
		return 1
	}
	slices.SortStableFunc(parts, func(a, b autodoc.SparePart) int {
		return cmp.Or(
			cmp.Compare(rank(a), rank(b)),
			cmp.Compare(strings.ToLower(a.Manufacturer), strings.ToLower(b.Manufacturer)),
			cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			cmp.Compare(a.PartNumber, b.PartNumber),
		)
	})
}

func compareCodes(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return cmp.Or(cmp.Compare(na, nb), cmp.Compare(a, b))
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

// Paginate splits items into pages of at most size elements.
// A non-positive size yields a single page.
func Paginate[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	pages := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		pages = append(pages, items[start:min(start+size, len(items))])
	}
	return pages
}
