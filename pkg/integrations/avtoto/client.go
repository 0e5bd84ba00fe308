// Package avtoto fetches part offers from the avtoto.ru storefront.
//
// The search page embeds its results in `window.initialState`. The site
// sets session cookies on the landing page and rejects searches without
// them, so every search starts with a landing-page visit.
package avtoto

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/matzehuels/partscout/pkg/integrations"
)

// DefaultURL is the storefront root.
const DefaultURL = "https://avtoto.ru"

// SourceName is the aggregator key of avtoto.ru offers.
const SourceName = "avtoto"

const stateMarker = "window.initialState ="

// Headers are the browser-like defaults the storefront expects.
func Headers() map[string]string {
	return map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
		"Sec-Fetch-Dest":  "document",
		"Sec-Fetch-Mode":  "navigate",
	}
}

// Options returns access-layer options with a cookie jar enabled on top of
// base.
func Options(base integrations.Options) integrations.Options {
	base.CookieJar = true
	if base.Headers == nil {
		base.Headers = Headers()
	}
	return base
}

// Client searches avtoto.ru by article number. The underlying access-layer
// client must keep cookies; see [Options].
type Client struct {
	http    *integrations.Client
	baseURL string
}

// NewClient creates an avtoto.ru client. baseURL may be empty.
func NewClient(http *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements the aggregator source contract.
func (c *Client) Name() string { return SourceName }

// Search visits the landing page, then runs the article search.
func (c *Client) Search(ctx context.Context, number string) ([]integrations.Offer, error) {
	number = strings.TrimSpace(number)
	if _, err := c.http.GetText(ctx, c.baseURL+"/", nil); err != nil {
		return nil, integrations.Classify(err, "open avtoto.ru session")
	}
	page, err := c.http.GetText(ctx, c.baseURL+"/search/search", url.Values{"article": {number}})
	if err != nil {
		return nil, integrations.Classify(err, "search avtoto.ru for %s", number)
	}

	raw, err := integrations.ScriptJSON(page, stateMarker)
	if errors.Is(err, integrations.ErrNoScriptData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state initialState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode avtoto.ru state: %w", err)
	}

	offers := make([]integrations.Offer, 0, len(state.SearchResult.Items))
	for _, p := range state.SearchResult.Items {
		offers = append(offers, integrations.Offer{
			Source:       SourceName,
			Kind:         integrations.KindPart,
			Name:         p.Name,
			Number:       p.Article,
			Brand:        p.Brand.Name,
			Price:        integrations.ParsePrice(string(bytes.Trim(p.Price, `"`))),
			InStock:      p.InStock,
			DeliveryDays: p.DeliveryDays,
			URL:          fmt.Sprintf("%s/catalog/product/%s", c.baseURL, integrations.PathEscape(p.ID.String())),
		})
	}
	return offers, nil
}

type initialState struct {
	SearchResult struct {
		Items []product `json:"items"`
	} `json:"searchResult"`
}

type product struct {
	ID      json.Number `json:"id"`
	Name    string      `json:"name"`
	Article string      `json:"article"`
	Brand   struct {
		Name string `json:"name"`
	} `json:"brand"`
	// Price has been seen both as a number and as a formatted string.
	Price        json.RawMessage `json:"price"`
	InStock      bool            `json:"inStock"`
	DeliveryDays *int            `json:"deliveryDays"`
}
