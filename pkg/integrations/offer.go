package integrations

// Offer kinds.
const (
	KindPart     = "part"      // A priced listing
	KindCarModel = "car_model" // A vehicle match pointing at the catalog flow; never priced
)

// Offer is one listing returned by a price source.
// A nil Price means the source did not quote one.
type Offer struct {
	Source       string   `json:"source"`
	Kind         string   `json:"type"`
	Name         string   `json:"name"`
	Number       string   `json:"number"`
	Brand        string   `json:"brand"`
	Price        *float64 `json:"price,omitempty"`
	InStock      bool     `json:"in_stock"`
	Quantity     int      `json:"quantity,omitempty"`      // Units on hand, when the source reports it
	DeliveryDays *int     `json:"delivery_days,omitempty"` // Upper bound, in days
	URL          string   `json:"url,omitempty"`
}

// Priceable reports whether the offer takes part in price sorting and filtering.
func (o *Offer) Priceable() bool {
	return o.Kind != KindCarModel
}

// PriceOrInf returns the price, treating a missing or zero price as +Inf.
func (o *Offer) PriceOrInf() float64 {
	if o.Price == nil || *o.Price <= 0 {
		return inf
	}
	return *o.Price
}
