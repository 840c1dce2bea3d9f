package httpserver

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/cart"
)

const addedNotification = "Item added to cart!"

type lineView struct {
	Index     int       `json:"index"`
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	ImageRef  string    `json:"imageRef,omitempty"`
	Size      *string   `json:"size"`
	Color     *string   `json:"color"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unitPrice"`
	Subtotal  string    `json:"subtotal"`
	AddedAt   time.Time `json:"addedAt"`
}

type cartView struct {
	Items     []lineView `json:"items"`
	Total     string     `json:"total"`
	ItemCount int        `json:"itemCount"`
	LineCount int        `json:"lineCount"`
	Empty     bool       `json:"empty"`
}

type badgeView struct {
	Count   int  `json:"count"`
	Visible bool `json:"visible"`
}

type mutationResponse struct {
	Cart         cartView     `json:"cart"`
	Events       []cart.Event `json:"events"`
	Notification string       `json:"notification,omitempty"`
}

func buildCartView(s *cart.Store) cartView {
	items := s.Snapshot()
	lines := make([]lineView, 0, len(items))
	for i, item := range items {
		lines = append(lines, lineView{
			Index:     i,
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageRef:  item.ImageRef,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: formatMoney(item.UnitPrice),
			Subtotal:  formatMoney(item.Subtotal()),
			AddedAt:   item.AddedAt,
		})
	}
	return cartView{
		Items:     lines,
		Total:     formatMoney(s.Total()),
		ItemCount: s.ItemCount(),
		LineCount: s.Len(),
		Empty:     len(lines) == 0,
	}
}

func buildBadge(s *cart.Store) badgeView {
	count := s.ItemCount()
	return badgeView{Count: count, Visible: count > 0}
}

func formatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
