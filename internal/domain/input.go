package domain

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// LineItemInput is untrusted line item data as it arrives from a form, an API
// body or an import file. Parse turns it into a LineItem.
type LineItemInput struct {
	ProductID string
	Name      string
	Price     string
	ImageRef  string
	Size      string
	Color     string
	Quantity  int
}

// Parse validates the input and builds a LineItem. AddedAt is left zero; the
// cart store stamps it on first insertion.
func (in LineItemInput) Parse() (LineItem, error) {
	productID := strings.TrimSpace(in.ProductID)
	if productID == "" {
		return LineItem{}, errors.Wrap(ErrInvalidLineItem, "productId required")
	}
	if in.Quantity < 1 {
		return LineItem{}, errors.Wrapf(ErrInvalidQuantity, "product %q quantity %d", productID, in.Quantity)
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return LineItem{}, errors.Wrapf(err, "product %q", productID)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = productID
	}
	return LineItem{
		ProductID: productID,
		Name:      name,
		UnitPrice: price,
		ImageRef:  strings.TrimSpace(in.ImageRef),
		Size:      Optional(in.Size),
		Color:     Optional(in.Color),
		Quantity:  in.Quantity,
	}, nil
}

// ParsePrice reads a display price such as "$1,299.50" or "19.99".
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, errors.Wrap(ErrInvalidLineItem, "price required")
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalidLineItem, "price %q is not a number", raw)
	}
	if price.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrInvalidLineItem, "price %q is negative", raw)
	}
	return price, nil
}
