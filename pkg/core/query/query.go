// Package query classifies free-text searches and routes them.
//
// A query is a VIN, a car description ("HONDA CIVIC 1996") or an article
// number. Classification checks, in order: VIN, car, article; anything left
// is a car when it is a single non-numeric word and an article otherwise.
package query

import (
	"context"
	"io"
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	perrors "github.com/matzehuels/partscout/pkg/errors"
)

// Kind is the classification of a query.
type Kind string

const (
	KindVIN     Kind = "vin"
	KindCar     Kind = "car"
	KindArticle Kind = "article"
)

var (
	vinPattern     = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)
	articlePattern = regexp.MustCompile(`^[A-Za-z0-9-]{5,20}$`)
	yearPattern    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	yearPrefix     = regexp.MustCompile(`^(19|20)\d{2}`)
)

// IsVIN reports whether q is a 17-character VIN. I, O and Q never occur in
// a VIN. Lower case is accepted.
func IsVIN(q string) bool {
	return vinPattern.MatchString(strings.ToUpper(strings.TrimSpace(q)))
}

// IsArticle reports whether q looks like an article number: 5 to 20
// letters, digits or dashes, at least one of them a digit.
func IsArticle(q string) bool {
	q = strings.TrimSpace(q)
	return articlePattern.MatchString(q) && strings.ContainsAny(q, "0123456789")
}

// Year returns the first 19xx or 20xx year in q.
func Year(q string) (string, bool) {
	y := yearPattern.FindString(q)
	return y, y != ""
}

// BrandSource supplies the catalog brand directory.
type BrandSource interface {
	BrandNames(ctx context.Context) ([]string, error)
	ResolveBrandCode(ctx context.Context, name string) (string, error)
}

// Classifier classifies queries against the brand directory.
type Classifier struct {
	brands BrandSource
	logger *log.Logger
}

// NewClassifier creates a Classifier. logger may be nil.
func NewClassifier(brands BrandSource, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Classifier{brands: brands, logger: logger}
}

// Classify returns the kind of q. Only an invalid query is an error; a
// failed brand lookup is treated as an empty directory.
func (c *Classifier) Classify(ctx context.Context, q string) (Kind, error) {
	if err := perrors.ValidateQuery(q); err != nil {
		return "", err
	}
	q = strings.TrimSpace(q)
	switch {
	case IsVIN(q):
		return KindVIN, nil
	case c.isCar(ctx, q):
		return KindCar, nil
	case IsArticle(q):
		return KindArticle, nil
	case len(strings.Fields(q)) == 1 && !allDigits(q):
		return KindCar, nil
	default:
		return KindArticle, nil
	}
}

func (c *Classifier) isCar(ctx context.Context, q string) bool {
	if _, ok := Year(q); ok {
		return true
	}
	if IsArticle(q) {
		return false
	}
	names, err := c.brands.BrandNames(ctx)
	if err != nil {
		c.logger.Debug("brand directory unavailable", "err", err)
		return false
	}
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(q)) {
		words[w] = true
	}
	for _, name := range names {
		if words[strings.ToLower(name)] {
			return true
		}
	}
	return false
}

// Car is a vehicle description extracted from free text.
type Car struct {
	Brand     string
	BrandCode string
	Model     string
	Year      string // Empty when the query names no year
}

// String joins the non-empty parts with spaces.
func (c Car) String() string {
	return strings.Join(strings.Fields(c.Brand+" "+c.Model+" "+c.Year), " ")
}

// ExtractCar splits q into brand, model and year. The first word must be a
// catalog brand and at least one model word must follow; every other word
// that is not a year belongs to the model.
func (c *Classifier) ExtractCar(ctx context.Context, q string) (Car, error) {
	words := strings.Fields(q)
	if len(words) < 2 {
		return Car{}, perrors.New(perrors.ErrCodeInvalidQuery, "need at least a brand and a model: %q", q)
	}
	code, err := c.brands.ResolveBrandCode(ctx, words[0])
	if err != nil {
		return Car{}, err
	}
	var model []string
	for _, w := range words[1:] {
		if !yearPrefix.MatchString(w) {
			model = append(model, w)
		}
	}
	if len(model) == 0 {
		return Car{}, perrors.New(perrors.ErrCodeInvalidQuery, "no model in %q", q)
	}
	year, _ := Year(q)
	return Car{Brand: words[0], BrandCode: code, Model: strings.Join(model, " "), Year: year}, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
