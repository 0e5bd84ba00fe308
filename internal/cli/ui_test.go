package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/partscout/pkg/core/catalog"
	"github.com/matzehuels/partscout/pkg/history"
	"github.com/matzehuels/partscout/pkg/integrations"
	"github.com/matzehuels/partscout/pkg/integrations/autodoc"
)

func intPtr(v int) *int { return &v }

func TestOfferRows(t *testing.T) {
	offers := []integrations.Offer{
		{Source: "exist", Kind: integrations.KindPart, Name: "Колодки", Number: "04465-42160", Brand: "TOYOTA", Price: price(3500.5), Quantity: 4, DeliveryDays: intPtr(2)},
		{Source: "avtoto", Kind: integrations.KindPart, Number: "04465-42160", InStock: true, DeliveryDays: intPtr(0)},
		{Source: "autodoc", Kind: integrations.KindCarModel, Name: "HONDA CIVIC"},
	}
	want := [][]string{
		{"exist", "TOYOTA", "04465-42160", "Колодки", "3500.50 ₽", "4 pcs", "2 days"},
		{"avtoto", "-", "04465-42160", "-", "-", "yes", "today"},
		{"autodoc", "-", "-", "HONDA CIVIC", "-", "-", "-"},
	}
	if diff := cmp.Diff(want, offerRows(offers)); diff != "" {
		t.Errorf("offerRows mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOffers(t *testing.T) {
	out := renderOffers([]integrations.Offer{{Source: "exist", Number: "04465-42160", Price: price(1800)}})
	for _, s := range []string{"Source", "Price", "exist", "04465-42160", "1800 ₽"} {
		if !strings.Contains(out, s) {
			t.Errorf("table missing %q:\n%s", s, out)
		}
	}
}

func TestRenderPositions(t *testing.T) {
	listing := catalog.Group([]autodoc.SparePart{
		{CodeOnImage: "3", PartNumber: "B-3", Name: "Шайба"},
		{CodeOnImage: "", PartNumber: "X-1", Name: "Комплект"},
		{CodeOnImage: "1", PartNumber: "A-1", Name: "Фильтр", Manufacturer: "HONDA"},
	}, "HONDA")
	out := renderPositions(listing)
	a, b, x := strings.Index(out, "A-1"), strings.Index(out, "B-3"), strings.Index(out, "X-1")
	if a < 0 || b < 0 || x < 0 || !(a < b && b < x) {
		t.Errorf("want A-1, B-3, then the uncoded X-1:\n%s", out)
	}
}

func TestFormatDelivery(t *testing.T) {
	tests := []struct {
		days *int
		want string
	}{
		{nil, "-"},
		{intPtr(0), "today"},
		{intPtr(1), "1 day"},
		{intPtr(14), "14 days"},
	}
	for _, tt := range tests {
		if got := formatDelivery(tt.days); got != tt.want {
			t.Errorf("formatDelivery(%v) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestFormatCounts(t *testing.T) {
	r := history.Record{Total: 12, Counts: map[string]int{"exist": 9, "autodoc": 3, "avtoto": 0}}
	if got, want := formatCounts(r), "12 (autodoc 3, exist 9)"; got != want {
		t.Errorf("formatCounts() = %q, want %q", got, want)
	}
	if got := formatCounts(history.Record{Counts: map[string]int{"exist": 0}}); got != "0" {
		t.Errorf("formatCounts(empty) = %q, want 0", got)
	}
}

func TestFormatAge(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	tests := []struct {
		diff time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{30 * 24 * time.Hour, "Mar 1, 2024"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.diff, at); got != tt.want {
			t.Errorf("formatAge(%s) = %q, want %q", tt.diff, got, tt.want)
		}
	}
}
