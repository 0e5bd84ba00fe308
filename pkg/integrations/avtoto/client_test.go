package avtoto

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	perrors "github.com/matzehuels/partscout/pkg/errors"
	"github.com/matzehuels/partscout/pkg/httputil"
	"github.com/matzehuels/partscout/pkg/integrations"
)

const searchPage = `<html><head><script>
window.initialState = {"user":null,"searchResult":{"total":2,"items":[
	{"id":5521,"name":"Колодки тормозные","article":"0446542160","brand":{"name":"TOYOTA"},"price":4890.5,"inStock":true,"deliveryDays":2},
	{"id":"7710","name":"Колодки {аналог}","article":"GDB3454","brand":{"name":"TRW"},"price":"3 120 руб.","inStock":false}
]}};
</script></head><body></body></html>`

func newServer(t *testing.T, requireCookie bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "abc", Path: "/"})
		w.Write([]byte("<html>landing</html>"))
	})
	mux.HandleFunc("/search/search", func(w http.ResponseWriter, r *http.Request) {
		if requireCookie {
			if c, err := r.Cookie("sid"); err != nil || c.Value != "abc" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
		}
		if r.URL.Query().Get("article") != "04465-42160" {
			t.Errorf("article = %q", r.URL.Query().Get("article"))
		}
		w.Write([]byte(searchPage))
	})
	return httptest.NewServer(mux)
}

func newTestClient(server *httptest.Server) *Client {
	hc := integrations.NewClient(Options(integrations.Options{Retry: httputil.Policy{Attempts: 1}}))
	return NewClient(hc, server.URL)
}

func TestSearch(t *testing.T) {
	server := newServer(t, true)
	defer server.Close()

	offers, err := newTestClient(server).Search(context.Background(), "04465-42160")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}

	price1, price2, days := 4890.5, 3120.0, 2
	want := []integrations.Offer{
		{
			Source: SourceName, Kind: integrations.KindPart,
			Name: "Колодки тормозные", Number: "0446542160", Brand: "TOYOTA",
			Price: &price1, InStock: true, DeliveryDays: &days,
			URL: server.URL + "/catalog/product/5521",
		},
		{
			Source: SourceName, Kind: integrations.KindPart,
			Name: "Колодки {аналог}", Number: "GDB3454", Brand: "TRW",
			Price: &price2,
			URL:   server.URL + "/catalog/product/7710",
		},
	}
	if diff := cmp.Diff(want, offers); diff != "" {
		t.Errorf("offers mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchWithoutCookieJar(t *testing.T) {
	server := newServer(t, true)
	defer server.Close()

	hc := integrations.NewClient(integrations.Options{Retry: httputil.Policy{Attempts: 1}})
	_, err := NewClient(hc, server.URL).Search(context.Background(), "04465-42160")
	if !perrors.Is(err, perrors.ErrCodeUpstream) {
		t.Errorf("error = %v, want UPSTREAM_ERROR", err)
	}
}

func TestSearchLandingFailure(t *testing.T) {
	var searched bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			searched = true
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	if _, err := newTestClient(server).Search(context.Background(), "04465-42160"); err == nil {
		t.Fatal("expected error")
	}
	if searched {
		t.Error("search must not run after a failed landing request")
	}
}

func TestSearchNoState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>empty</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	offers, err := newTestClient(server).Search(context.Background(), "04465-42160")
	if err != nil || len(offers) != 0 {
		t.Errorf("Search() = (%v, %v), want empty", offers, err)
	}
}
