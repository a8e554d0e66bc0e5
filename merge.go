package invoice

import (
	"errors"
	"strings"

	"github.com/alnah/go-invoice/internal/docx"
)

// Placeholders the default template carries. Merge replaces them
// literally, in this order, wherever they appear in a table cell.
const (
	PlaceholderNumber          = "Invoice #001"
	PlaceholderDate            = "Date:12-30-23"
	PlaceholderBillingAddress  = "Billing Address"
	PlaceholderShippingAddress = "Shipping Address"
	PlaceholderInstructions    = "Instructions"
	PlaceholderTotalAmount     = "Total Amount"
)

// ItemsHeader marks the items table: the first table whose first row
// starts with a cell containing it.
const ItemsHeader = "Quantity"

// DefaultCurrency prefixes unit prices and row totals in the items table.
const DefaultCurrency = "$"

var errNilMerge = errors.New("merge needs a document and a record")

// MergeReport summarizes what Merge changed.
type MergeReport struct {
	Replacements int  // placeholder occurrences replaced
	CellsChanged int  // cells rewritten by placeholder replacement
	ItemsTable   bool // whether an items table was found
	RowsFilled   int  // existing body rows written with item data
	RowsAppended int  // rows added for items beyond the template rows
}

// MergeOption configures Merge.
type MergeOption func(*mergeConfig)

type mergeConfig struct {
	currency string
}

// WithCurrency sets the symbol written before unit prices and row totals.
func WithCurrency(symbol string) MergeOption {
	return func(c *mergeConfig) {
		c.currency = symbol
	}
}

type replacement struct {
	placeholder string
	value       string
}

func replacements(rec *Record) []replacement {
	return []replacement{
		{PlaceholderNumber, "Invoice #" + rec.Number},
		{PlaceholderDate, "Date: " + rec.Date},
		{PlaceholderBillingAddress, rec.BillingAddress},
		{PlaceholderShippingAddress, rec.ShippingAddress},
		{PlaceholderInstructions, rec.Instructions},
		{PlaceholderTotalAmount, TotalAmountValue(rec.TotalAmount)},
	}
}

// TotalAmountValue extracts the amount from a total label such as
// "Total Amount: $12.50": the text between the first and second colon,
// trimmed. A label without a colon is returned trimmed as a whole.
func TotalAmountValue(label string) string {
	parts := strings.Split(label, ":")
	if len(parts) < 2 {
		return strings.TrimSpace(label)
	}
	return strings.TrimSpace(parts[1])
}

// Merge fills doc with rec in place.
//
// Every cell of every top-level table gets the placeholder replacements.
// The items table, when present, then receives one row per item: existing
// body rows are filled first, further rows are appended. Template rows
// beyond the item count are left as they are.
func Merge(doc *docx.Document, rec *Record, opts ...MergeOption) (*MergeReport, error) {
	if doc == nil || rec == nil {
		return nil, errNilMerge
	}

	cfg := mergeConfig{currency: DefaultCurrency}
	for _, opt := range opts {
		opt(&cfg)
	}

	report := &MergeReport{}
	tables := doc.Tables()
	subs := replacements(rec)

	for _, t := range tables {
		for _, row := range t.Rows() {
			for _, cell := range row.Cells() {
				replaceInCell(cell, subs, report)
			}
		}
	}

	items := findItemsTable(tables)
	if items == nil {
		return report, nil
	}
	report.ItemsTable = true
	fillItems(items, rec.Items, cfg.currency, report)
	return report, nil
}

func replaceInCell(cell *docx.Cell, subs []replacement, report *MergeReport) {
	original := cell.Text()
	text := original
	for _, s := range subs {
		n := strings.Count(text, s.placeholder)
		if n == 0 {
			continue
		}
		report.Replacements += n
		text = strings.ReplaceAll(text, s.placeholder, s.value)
	}
	if text != original {
		cell.SetText(text)
		report.CellsChanged++
	}
}

func findItemsTable(tables []*docx.Table) *docx.Table {
	for _, t := range tables {
		rows := t.Rows()
		if len(rows) == 0 {
			continue
		}
		cells := rows[0].Cells()
		if len(cells) > 0 && strings.Contains(cells[0].Text(), ItemsHeader) {
			return t
		}
	}
	return nil
}

func fillItems(t *docx.Table, items []Item, currency string, report *MergeReport) {
	rows := t.Rows()
	body := rows[1:]

	for i, item := range items {
		var row *docx.Row
		if i < len(body) {
			row = body[i]
			report.RowsFilled++
		} else {
			row = t.AddRow()
			report.RowsAppended++
		}

		values := []string{
			item.Quantity,
			item.Description,
			currency + item.UnitPrice,
			currency + item.Total,
		}
		cells := row.Cells()
		for j := 0; j < len(values) && j < len(cells); j++ {
			if cells[j].Text() != values[j] {
				cells[j].SetText(values[j])
			}
		}
	}
}
