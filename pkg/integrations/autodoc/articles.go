package autodoc

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/partscout/pkg/integrations"
)

// DefaultWebAPIURL is the storefront API root used for article search.
const DefaultWebAPIURL = "https://webapi.autodoc.ru/api"

const siteURL = "https://autodoc.ru"

// SourceName is the aggregator key of the autodoc offers.
const SourceName = "autodoc"

// Articles searches the autodoc storefront by article number.
type Articles struct {
	http    *integrations.Client
	baseURL string
	logger  *log.Logger
}

// NewArticles creates an article search client. baseURL may be empty for the
// public endpoint; logger may be nil.
func NewArticles(http *integrations.Client, baseURL string, logger *log.Logger) *Articles {
	if baseURL == "" {
		baseURL = DefaultWebAPIURL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Articles{http: http, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Search returns one offer per manufacturer that lists number.
//
// The manufacturer lookup is the only call whose failure is returned; a
// failed per-manufacturer detail call drops that manufacturer.
func (a *Articles) Search(ctx context.Context, number string) ([]integrations.Offer, error) {
	number = strings.ToUpper(strings.TrimSpace(number))

	var makers []manufacturerResponse
	u := fmt.Sprintf("%s/manufacturers/%s", a.baseURL, integrations.PathEscape(number))
	if err := a.http.GetJSON(ctx, u, url.Values{"showAll": {"true"}}, &makers); err != nil {
		return nil, integrations.Classify(err, "search manufacturers for %s", number)
	}

	var offers []integrations.Offer
	for _, m := range makers {
		if m.ID == "" {
			continue
		}
		detail, err := a.detail(ctx, string(m.ID), number)
		if err != nil {
			if ctx.Err() != nil {
				return offers, ctx.Err()
			}
			a.logger.Debug("article detail failed", "manufacturer", m.Name, "number", number, "err", err)
			continue
		}
		offers = append(offers, integrations.Offer{
			Source:       SourceName,
			Kind:         integrations.KindPart,
			Name:         firstNonEmpty(m.PartName, detail.Description),
			Number:       number,
			Brand:        m.Name,
			Price:        positive(detail.MinimalPrice),
			InStock:      detail.PriceQuantity > 0,
			Quantity:     detail.PriceQuantity,
			DeliveryDays: detail.DeliveryDays,
			URL:          fmt.Sprintf("%s/man/%s/part/%s", siteURL, m.ID, integrations.PathEscape(number)),
		})
	}
	return offers, nil
}

func (a *Articles) detail(ctx context.Context, manufacturerID, number string) (*sparePartResponse, error) {
	var d sparePartResponse
	u := fmt.Sprintf("%s/manufacturer/%s/sparepart/%s", a.baseURL, integrations.PathEscape(manufacturerID), integrations.PathEscape(number))
	if err := a.http.GetJSON(ctx, u, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type manufacturerResponse struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"manufacturerName"`
	PartName string     `json:"partName"`
}

type sparePartResponse struct {
	MinimalPrice  float64 `json:"minimalPrice"`
	PriceQuantity int     `json:"priceQuantity"`
	DeliveryDays  *int    `json:"deliveryDays"`
	Description   string  `json:"description"`
}
