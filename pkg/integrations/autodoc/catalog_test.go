package autodoc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/partscout/pkg/cache"
	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/httputil"
	"github.com/matzehuels/partscout/pkg/integrations"
)

func newTestHTTP() *integrations.Client {
	return integrations.NewClient(integrations.Options{
		Headers: Headers(),
		Retry:   httputil.Policy{Attempts: 3, BackoffStep: time.Millisecond, TransportWait: time.Millisecond},
	})
}

func newTestCatalog(t *testing.T, mux *http.ServeMux) (*Catalog, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return NewCatalog(newTestHTTP(), server.URL, nil), server
}

func TestResolveBrandCode(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"brand":"HONDA","code":"HONDA"},{"name":"Mercedes","code":"MB"},{"brand":"","code":"X"}]`))
	})
	c, _ := newTestCatalog(t, mux)
	ctx := context.Background()

	tests := []struct {
		name string
		want string
		code perrors.Code
	}{
		{"HONDA", "HONDA", ""},
		{"honda", "HONDA", ""},
		{"  Honda ", "HONDA", ""},
		{"MERCEDES", "MB", ""},
		{"Mersedes", "", perrors.ErrCodeBrandNotFound},
		{"HOND", "", perrors.ErrCodeBrandNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ResolveBrandCode(ctx, tt.name)
			if tt.code != "" {
				if !perrors.Is(err, tt.code) {
					t.Fatalf("ResolveBrandCode(%q) error = %v, want %s", tt.name, err, tt.code)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("ResolveBrandCode(%q) = (%q, %v), want %q", tt.name, got, err, tt.want)
			}
		})
	}

	// Resolved twice with the same result and a single directory fetch.
	a, _ := c.ResolveBrandCode(ctx, "HONDA")
	b, _ := c.ResolveBrandCode(ctx, "HONDA")
	if a != b {
		t.Errorf("resolution not idempotent: %q vs %q", a, b)
	}
	if calls.Load() != 1 {
		t.Errorf("brand directory fetched %d times, want 1", calls.Load())
	}
}

func TestBrandCacheSharedAndPersisted(t *testing.T) {
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"items":[{"brand":"TOYOTA","code":"TOYOTA00"}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	shared := NewBrandCache(store, server.URL, time.Hour)
	first := NewCatalog(newTestHTTP(), server.URL, shared)
	second := NewCatalog(newTestHTTP(), server.URL, shared)
	if code, err := first.ResolveBrandCode(ctx, "toyota"); err != nil || code != "TOYOTA00" {
		t.Fatalf("first = (%q, %v)", code, err)
	}
	if code, _ := second.ResolveBrandCode(ctx, "Toyota"); code != "TOYOTA00" {
		t.Fatalf("second = %q", code)
	}

	// A fresh process-level cache reads the persisted directory.
	fresh := NewCatalog(newTestHTTP(), server.URL, NewBrandCache(store, server.URL, time.Hour))
	if code, _ := fresh.ResolveBrandCode(ctx, "TOYOTA"); code != "TOYOTA00" {
		t.Fatalf("fresh = %q", code)
	}
	if calls.Load() != 1 {
		t.Errorf("brand directory fetched %d times, want 1", calls.Load())
	}
}

func TestBrandCacheKeyedByCatalog(t *testing.T) {
	serve := func(code string) *httptest.Server {
		mux := http.NewServeMux()
		mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"brand":"HONDA","code":"` + code + `"}]`))
		})
		return httptest.NewServer(mux)
	}
	eu, jp := serve("HONDA_EU"), serve("HONDA_JP")
	defer eu.Close()
	defer jp.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	euCat := NewCatalog(newTestHTTP(), eu.URL, NewBrandCache(store, eu.URL, time.Hour))
	jpCat := NewCatalog(newTestHTTP(), jp.URL, NewBrandCache(store, jp.URL, time.Hour))
	if code, _ := euCat.ResolveBrandCode(ctx, "honda"); code != "HONDA_EU" {
		t.Errorf("eu code = %q, want HONDA_EU", code)
	}
	if code, _ := jpCat.ResolveBrandCode(ctx, "honda"); code != "HONDA_JP" {
		t.Errorf("jp code = %q, want HONDA_JP", code)
	}

	if BrandsCacheKey(eu.URL) == BrandsCacheKey(jp.URL) {
		t.Error("distinct catalogs share a brand cache key")
	}
	if BrandsCacheKey("") != BrandsCacheKey(DefaultCatalogURL+"/") {
		t.Error("empty base URL should key like the default catalog")
	}
	if _, hit, _ := store.Get(ctx, BrandsCacheKey(eu.URL)); !hit {
		t.Error("eu directory not persisted under its key")
	}
}

func TestResolveBrandCodeUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/brands", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c, _ := newTestCatalog(t, mux)

	_, err := c.ResolveBrandCode(context.Background(), "HONDA")
	if !perrors.Is(err, perrors.ErrCodeUpstream) {
		t.Errorf("error = %v, want UPSTREAM_ERROR", err)
	}
}

func TestWizardState(t *testing.T) {
	var gotSSD []string
	mux := http.NewServeMux()
	mux.HandleFunc("/brands/HONDA/wizzard", func(w http.ResponseWriter, r *http.Request) {
		gotSSD = append(gotSSD, r.URL.Query().Get("ssd"))
		_, hasSSD := r.URL.Query()["ssd"]
		if !hasSSD {
			w.Write([]byte(`{"items":[{"name":"Модель","determined":false,"options":[{"key":"t1","value":"CIVIC"}]},{"name":"Регион","determined":true}],"ssd":"t0"}`))
			return
		}
		w.Write([]byte(`{}`))
	})
	c, _ := newTestCatalog(t, mux)
	ctx := context.Background()

	state, err := c.WizardState(ctx, "HONDA", "")
	if err != nil {
		t.Fatalf("WizardState() error: %v", err)
	}
	want := &WizardState{
		Items: []AttributeField{
			{Name: "Модель", Options: []Option{{Key: "t1", Value: "CIVIC"}}},
			{Name: "Регион", Determined: true},
		},
		Token: "t0",
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("WizardState() mismatch (-want +got):\n%s", diff)
	}
	if open := state.Open(); len(open) != 1 || open[0].Name != "Модель" {
		t.Errorf("Open() = %+v", open)
	}

	empty, err := c.WizardState(ctx, "HONDA", "t1")
	if err != nil {
		t.Fatalf("WizardState(t1) error: %v", err)
	}
	if len(empty.Items) != 0 {
		t.Errorf("missing items key should decode as empty, got %+v", empty.Items)
	}
	if gotSSD[1] != "t1" {
		t.Errorf("ssd = %q, want t1", gotSSD[1])
	}
}

func TestModifications(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/brands/HONDA/wizzard/0/modifications", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ssd") != "done" {
			w.Write([]byte(`{"commonAttributes":[]}`))
			return
		}
		w.Write([]byte(`{
			"commonAttributes":[{"key":"brand","value":"HONDA"}],
			"specificAttributes":[
				{"carId":10161,"ssd":"car-1","attributes":[{"key":"engine","value":"D15B"}]},
				{"carId":"10162","ssd":"car-2","attributes":[]}
			]}`))
	})
	c, _ := newTestCatalog(t, mux)
	ctx := context.Background()

	mods, err := c.Modifications(ctx, "HONDA", "done")
	if err != nil {
		t.Fatalf("Modifications() error: %v", err)
	}
	if len(mods.Specific) != 2 || mods.Specific[0].CarID != "10161" || mods.Specific[1].CarID != "10162" {
		t.Fatalf("Specific = %+v", mods.Specific)
	}
	if mods.Specific[0].Attr("engine") != "D15B" || mods.Specific[0].Attr("none") != "" {
		t.Error("Attr lookup wrong")
	}

	none, err := c.Modifications(ctx, "HONDA", "other")
	if err != nil {
		t.Fatalf("Modifications(other) error: %v", err)
	}
	if len(none.Specific) != 0 {
		t.Errorf("missing specificAttributes should decode as empty")
	}
}

func TestCategoryTree(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/brands/HONDA/cars/10161/quickgroups", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ssd") != "car-1" {
			t.Errorf("ssd = %q", r.URL.Query().Get("ssd"))
		}
		w.Write([]byte(`{"data":[{"quickGroupId":1,"name":"Двигатель","children":[{"quickGroupId":"2","name":"Фильтр масляный","canBeSearched":true}]}]}`))
	})
	mux.HandleFunc("/brands/HONDA/cars/0/quickgroups", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	c, _ := newTestCatalog(t, mux)

	tree, err := c.CategoryTree(context.Background(), "HONDA", "10161", "car-1")
	if err != nil {
		t.Fatalf("CategoryTree() error: %v", err)
	}
	want := []CategoryNode{{
		ID:   "1",
		Name: "Двигатель",
		Children: []CategoryNode{
			{ID: "2", Name: "Фильтр масляный", CanBeSearched: true},
		},
	}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("CategoryTree() mismatch (-want +got):\n%s", diff)
	}

	empty, err := c.CategoryTree(context.Background(), "HONDA", "0", "")
	if err != nil || len(empty) != 0 {
		t.Errorf("missing data key = (%v, %v), want empty", empty, err)
	}
}

func TestGroupParts(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []SparePart
	}{
		{
			name: "items envelope",
			body: `{"items":[{"codeOnImage":"1","partNumber":"15400-PLM-A02","name":"Фильтр","manufacturer":"HONDA"}]}`,
			want: []SparePart{{CodeOnImage: "1", PartNumber: "15400-PLM-A02", Name: "Фильтр", Manufacturer: "HONDA"}},
		},
		{
			name: "units array",
			body: `[{"name":"Oil filter","parts":[{"codeOnImage":2,"partNumber":"A","name":"a"},{"partNumber":"B","name":"b"}]}]`,
			want: []SparePart{
				{CodeOnImage: "2", PartNumber: "A", Name: "a", Unit: "Oil filter"},
				{PartNumber: "B", Name: "b", Unit: "Oil filter"},
			},
		},
		{name: "missing items", body: `{}`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/brands/HONDA/cars/10161/quickgroups/2/units", func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["ssd"] != "car-1" {
					t.Errorf("body ssd = %q", body["ssd"])
				}
				w.Write([]byte(tt.body))
			})
			c, _ := newTestCatalog(t, mux)

			got, err := c.GroupParts(context.Background(), "HONDA", "10161", "2", "car-1")
			if err != nil {
				t.Fatalf("GroupParts() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("GroupParts() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVehicleByVIN(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cars/JHMEG86400S200001/modifications", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"commonAttributes":[{"key":"brand","value":"HONDA"},{"key":"catalog","value":"HONDA2017"}],"specificAttributes":[{"carId":1,"ssd":"v"}]}`))
	})
	c, _ := newTestCatalog(t, mux)

	mods, err := c.VehicleByVIN(context.Background(), "JHMEG86400S200001")
	if err != nil {
		t.Fatalf("VehicleByVIN() error: %v", err)
	}
	if mods.CatalogCode() != "HONDA2017" {
		t.Errorf("CatalogCode() = %q", mods.CatalogCode())
	}
}

func TestCatalogRateLimited(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/brands/HONDA/wizzard", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c, _ := newTestCatalog(t, mux)

	_, err := c.WizardState(context.Background(), "HONDA", "")
	if !perrors.Is(err, perrors.ErrCodeRateLimited) {
		t.Errorf("error = %v, want RATE_LIMITED", err)
	}
}
