// Package exist fetches part offers from the exist.ru storefront.
//
// exist.ru renders its price list server-side; the offers arrive as a JSON
// array assigned to `_data` in an inline script.
package exist

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/matzehuels/partscout/pkg/integrations"
)

// DefaultURL is the storefront root.
const DefaultURL = "https://exist.ru"

// SourceName is the aggregator key of exist.ru offers.
const SourceName = "exist"

const dataMarker = "_data ="

// Headers are the browser-like defaults the storefront expects.
func Headers() map[string]string {
	return map[string]string{
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7",
		"Referer":         "https://exist.ru/",
	}
}

// Client searches exist.ru by article number.
type Client struct {
	http    *integrations.Client
	baseURL string
}

// NewClient creates an exist.ru client. baseURL may be empty.
func NewClient(http *integrations.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name implements the aggregator source contract.
func (c *Client) Name() string { return SourceName }

// Search returns the first aggregated offer of every listed part.
// A page without embedded data yields no offers and no error.
func (c *Client) Search(ctx context.Context, number string) ([]integrations.Offer, error) {
	number = strings.TrimSpace(number)
	page, err := c.http.GetText(ctx, c.baseURL+"/Price/", url.Values{"pcode": {number}})
	if err != nil {
		return nil, integrations.Classify(err, "fetch exist.ru price page for %s", number)
	}
	raw, err := integrations.ScriptJSON(page, dataMarker)
	if errors.Is(err, integrations.ErrNoScriptData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}

	offers := make([]integrations.Offer, 0, len(items))
	for _, it := range items {
		if len(it.AggregatedParts) == 0 {
			continue
		}
		p := it.AggregatedParts[0]
		brand := it.Brand.Name
		if brand == "" {
			brand = "Не указан"
		}
		offers = append(offers, integrations.Offer{
			Source:       SourceName,
			Kind:         integrations.KindPart,
			Name:         it.Description,
			Number:       it.PartNumber,
			Brand:        brand,
			Price:        integrations.ParsePrice(p.PriceString),
			InStock:      p.InStock,
			DeliveryDays: p.DeliveryPeriod.Max,
			URL:          c.baseURL + "/Price/?pcode=" + url.QueryEscape(it.PartNumber),
		})
	}
	return offers, nil
}

type item struct {
	Description string `json:"Description"`
	PartNumber  string `json:"PartNumber"`
	Brand       struct {
		Name string `json:"Name"`
	} `json:"Brand"`
	AggregatedParts []aggregatedPart `json:"AggregatedParts"`
}

type aggregatedPart struct {
	PriceString    string `json:"priceString"`
	InStock        bool   `json:"inStock"`
	DeliveryPeriod struct {
		Max *int `json:"max"`
	} `json:"deliveryPeriod"`
}
