package domain

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// LineItem is one cart slot: a purchasable variant and how many of it.
type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ImageRef  string          `json:"imageRef"`
	Size      *string         `json:"size"`
	Color     *string         `json:"color"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
}

// SameSlot reports whether other has the same (productId, size, color) identity.
func (li LineItem) SameSlot(other LineItem) bool {
	return li.Matches(other.ProductID, other.Size, other.Color)
}

// Matches compares the slot identity against the given selectors.
// An absent selector only equals another absent selector.
func (li LineItem) Matches(productID string, size, color *string) bool {
	return li.ProductID == productID && optionalEqual(li.Size, size) && optionalEqual(li.Color, color)
}

// Subtotal is UnitPrice * Quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Clone returns a copy that shares no pointers with li.
func (li LineItem) Clone() LineItem {
	out := li
	out.Size = cloneOptional(li.Size)
	out.Color = cloneOptional(li.Color)
	return out
}

// Validate checks the invariants every stored line item must satisfy.
func (li LineItem) Validate() error {
	if li.Quantity < 1 {
		return errors.Wrapf(ErrInvalidQuantity, "product %q quantity %d", li.ProductID, li.Quantity)
	}
	if strings.TrimSpace(li.ProductID) == "" {
		return errors.Wrap(ErrInvalidLineItem, "product id required")
	}
	if li.UnitPrice.IsNegative() {
		return errors.Wrapf(ErrInvalidLineItem, "product %q unit price %s is negative", li.ProductID, li.UnitPrice)
	}
	return nil
}

// Optional returns a pointer to the trimmed value, or nil when it is blank.
func Optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func optionalEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
