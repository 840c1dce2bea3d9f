package importer

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/mastermahi08/Silkspeed-veersion01/internal/domain"
)

// ItemAdder receives parsed line items. *cart.Store satisfies it.
type ItemAdder interface {
	AddItem(ctx context.Context, item domain.LineItem) error
}

var requiredColumns = []string{"productId", "price"}

// CSVImporter reads line item rows (productId,name,price,image,size,color,quantity)
// and adds each one to a cart. Columns are located by header name.
type CSVImporter struct {
	reader *csv.Reader
	cart   ItemAdder
}

func NewCSVImporter(r io.Reader, cart ItemAdder) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader: csvr,
		cart:   cart,
	}
}

// Run adds every row and returns how many were added. It stops at the first
// invalid row; rows before it stay in the cart.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "read headers")
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return 0, errors.Errorf("missing %q column", col)
		}
	}

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, errors.Wrap(err, "read row")
		}
		line, _ := i.reader.FieldPos(0)

		if blank(record) {
			continue
		}

		input, err := parseRow(record, index)
		if err != nil {
			return imported, errors.Wrapf(err, "line %d", line)
		}
		item, err := input.Parse()
		if err != nil {
			return imported, errors.Wrapf(err, "line %d", line)
		}
		if err := i.cart.AddItem(ctx, item); err != nil {
			return imported, errors.Wrapf(err, "line %d: add %q", line, item.ProductID)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.LineItemInput, error) {
	quantity := 1
	if raw := pick(record, index, "quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return domain.LineItemInput{}, errors.Wrapf(domain.ErrInvalidQuantity, "quantity %q", raw)
		}
		quantity = q
	}
	return domain.LineItemInput{
		ProductID: pick(record, index, "productId"),
		Name:      pick(record, index, "name"),
		Price:     pick(record, index, "price"),
		ImageRef:  pick(record, index, "image"),
		Size:      pick(record, index, "size"),
		Color:     pick(record, index, "color"),
		Quantity:  quantity,
	}, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
