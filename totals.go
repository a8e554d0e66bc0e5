package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TotalLabelPrefix starts the grand total label stored in Record.TotalAmount.
const TotalLabelPrefix = "Total Amount: $"

// Totals holds the computed totals of an item grid.
type Totals struct {
	// Rows has one entry per input row: the row total with two decimals,
	// or "" when the row was skipped.
	Rows []string

	// Grand is the sum of all row totals with two decimals.
	Grand string
}

// Label renders the grand total as the collector displays and stores it.
func (t Totals) Label() string {
	return TotalLabelPrefix + t.Grand
}

// ComputeTotals derives row totals and the grand total from quantity and
// unit price. A blank quantity or price counts as zero; a row where both
// are blank, or where either is not a number, is skipped.
func ComputeTotals(rows []Item) Totals {
	grand := decimal.Zero
	totals := Totals{Rows: make([]string, len(rows))}

	for i, row := range rows {
		qtyText := strings.TrimSpace(row.Quantity)
		priceText := strings.TrimSpace(row.UnitPrice)
		if qtyText == "" && priceText == "" {
			continue
		}

		qty, err := parseAmount(qtyText)
		if err != nil {
			continue
		}
		price, err := parseAmount(priceText)
		if err != nil {
			continue
		}

		total := qty.Mul(price)
		totals.Rows[i] = total.StringFixed(2)
		grand = grand.Add(total)
	}

	totals.Grand = grand.StringFixed(2)
	return totals
}

// WithTotals returns a copy of items with every computed row total filled in.
// Skipped rows keep their existing Total.
func (t Totals) WithTotals(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		if i < len(t.Rows) && t.Rows[i] != "" {
			out[i].Total = t.Rows[i]
		}
	}
	return out
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
