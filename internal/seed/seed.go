package seed

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
)

// Cart is the part of *cart.Store the seed needs.
type Cart interface {
	Clear(ctx context.Context) error
	AddItem(ctx context.Context, item domain.LineItem) error
}

// Products is the demo SilkSpeed catalog used for manual testing.
var Products = []domain.LineItemInput{
	{
		ProductID: "silkspeed-velocity-runner",
		Name:      "Velocity Runner",
		Price:     "$129.99",
		ImageRef:  "/images/products/velocity-runner.jpg",
		Size:      "42",
		Color:     "Crimson",
		Quantity:  1,
	},
	{
		ProductID: "silkspeed-aero-tee",
		Name:      "Aero Training Tee",
		Price:     "$34.50",
		ImageRef:  "/images/products/aero-tee.jpg",
		Size:      "M",
		Color:     "Black",
		Quantity:  2,
	},
	{
		ProductID: "silkspeed-trail-socks",
		Name:      "Trail Crew Socks",
		Price:     "$12.00",
		ImageRef:  "/images/products/trail-socks.jpg",
		Quantity:  3,
	},
	{
		ProductID: "silkspeed-hydro-bottle",
		Name:      "Hydro Bottle 750ml",
		Price:     "$18.75",
		ImageRef:  "/images/products/hydro-bottle.jpg",
		Color:     "Slate",
		Quantity:  1,
	},
}

// Apply empties the cart and fills it with the demo products. Running it twice
// leaves the same cart.
func Apply(ctx context.Context, c Cart) error {
	if err := c.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear cart")
	}
	for _, in := range Products {
		item, err := in.Parse()
		if err != nil {
			return errors.Wrapf(err, "parse product %s", in.ProductID)
		}
		if err := c.AddItem(ctx, item); err != nil {
			return errors.Wrapf(err, "add product %s", in.ProductID)
		}
	}
	return nil
}
