package cart

import (
	"encoding/json"

	"github.com/go-faster/errors"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
)

// Encode serializes the cart as the JSON array stored under the cart key.
// A nil or empty cart encodes as "[]".
func Encode(items []domain.LineItem) ([]byte, error) {
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "encode cart")
	}
	return data, nil
}

// Decode parses a persisted cart. Any payload that is not a JSON array of valid,
// identity-unique line items fails with domain.ErrCorruptData.
func Decode(data []byte) ([]domain.LineItem, error) {
	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrapf(domain.ErrCorruptData, "unmarshal: %v", err)
	}
	if items == nil {
		items = []domain.LineItem{}
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, errors.Wrapf(domain.ErrCorruptData, "item %d: %v", i, err)
		}
		for j := 0; j < i; j++ {
			if items[j].SameSlot(item) {
				return nil, errors.Wrapf(domain.ErrCorruptData, "items %d and %d share slot %q", j, i, item.ProductID)
			}
		}
	}
	return items, nil
}
