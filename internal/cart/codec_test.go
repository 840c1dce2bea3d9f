package cart

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
)

func newTestLogger(w io.Writer) *log.Logger {
	return log.New(w, "", 0)
}

func TestEncodeEmptyCart(t *testing.T) {
	for _, items := range [][]domain.LineItem{nil, {}} {
		data, err := Encode(items)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}
}

func TestEncodeFieldNames(t *testing.T) {
	data, err := Encode([]domain.LineItem{{
		ProductID: "silk-tee",
		Name:      "Silk Tee",
		UnitPrice: decimal.RequireFromString("24.99"),
		ImageRef:  "/images/tee.jpg",
		Size:      strPtr("M"),
		Quantity:  2,
		AddedAt:   time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"productId": "silk-tee",
		"name": "Silk Tee",
		"unitPrice": "24.99",
		"imageRef": "/images/tee.jpg",
		"size": "M",
		"color": null,
		"quantity": 2,
		"addedAt": "2024-03-01T10:00:00Z"
	}]`, string(data))
}

func TestRoundTripIsStable(t *testing.T) {
	items := []domain.LineItem{
		{
			ProductID: "silk-tee",
			Name:      "Silk Tee",
			UnitPrice: decimal.RequireFromString("24.90"),
			ImageRef:  "https://cdn.example.com/tee.jpg",
			Size:      strPtr("M"),
			Color:     strPtr("ivory"),
			Quantity:  2,
			AddedAt:   time.Date(2024, 3, 1, 10, 0, 0, 123456789, time.UTC),
		},
		{
			ProductID: "scarf",
			Name:      "Scarf",
			UnitPrice: decimal.RequireFromString("0.333"),
			Size:      strPtr(""),
			Quantity:  1,
			AddedAt:   time.Date(2024, 3, 2, 8, 30, 0, 0, time.FixedZone("IST", 19800)),
		},
	}

	first, err := Encode(items)
	require.NoError(t, err)
	decoded, err := Decode(first)
	require.NoError(t, err)
	second, err := Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	require.Len(t, decoded, 2)
	require.NotNil(t, decoded[0].Size)
	assert.Equal(t, "M", *decoded[0].Size)
	assert.NotNil(t, decoded[1].Size, "empty selector must stay distinct from absent")
	assert.Nil(t, decoded[1].Color)
	assert.True(t, decoded[0].UnitPrice.Equal(decimal.RequireFromString("24.9")))
}

func TestDecodeAcceptsNumericPrices(t *testing.T) {
	items, err := Decode([]byte(`[{"productId":"a","name":"A","unitPrice":19.99,"imageRef":"","size":null,"color":null,"quantity":1,"addedAt":"2024-03-01T10:00:00Z"}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].UnitPrice.Equal(decimal.RequireFromString("19.99")))
}

func TestDecodeNullIsEmpty(t *testing.T) {
	items, err := Decode([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestDecodeRejectsInvalidPayloads(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":       `[`,
		"wrong type":     `"cart"`,
		"negative price": `[{"productId":"a","unitPrice":"-1","quantity":1}]`,
		"missing id":     `[{"unitPrice":"1","quantity":1}]`,
		"bad price":      `[{"productId":"a","unitPrice":"abc","quantity":1}]`,
		"duplicate slot": `[{"productId":"a","size":"M","unitPrice":"1","quantity":1},{"productId":"a","size":"M","unitPrice":"1","quantity":2}]`,
	} {
		_, err := Decode([]byte(payload))
		if !errors.Is(err, domain.ErrCorruptData) {
			t.Fatalf("%s: expected corrupt data, got %v", name, err)
		}
	}
}
