package invoice

import (
	"slices"
	"testing"
)

// ---------------------------------------------------------------------------
// TestComputeTotals - Row and grand totals
// ---------------------------------------------------------------------------

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rows      []Item
		wantRows  []string
		wantGrand string
	}{
		{
			name:      "no rows",
			rows:      nil,
			wantRows:  []string{},
			wantGrand: "0.00",
		},
		{
			name:      "single row",
			rows:      []Item{{Quantity: "2", UnitPrice: "5.00"}},
			wantRows:  []string{"10.00"},
			wantGrand: "10.00",
		},
		{
			name: "several rows summed",
			rows: []Item{
				{Quantity: "2", UnitPrice: "5"},
				{Quantity: "3", UnitPrice: "1.25"},
				{Quantity: "0.5", UnitPrice: "10"},
			},
			wantRows:  []string{"10.00", "3.75", "5.00"},
			wantGrand: "18.75",
		},
		{
			name:      "decimal math has no float drift",
			rows:      []Item{{Quantity: "3", UnitPrice: "0.1"}, {Quantity: "1", UnitPrice: "0.2"}},
			wantRows:  []string{"0.30", "0.20"},
			wantGrand: "0.50",
		},
		{
			name:      "blank quantity counts as zero",
			rows:      []Item{{UnitPrice: "9.99"}},
			wantRows:  []string{"0.00"},
			wantGrand: "0.00",
		},
		{
			name:      "blank price counts as zero",
			rows:      []Item{{Quantity: "4"}},
			wantRows:  []string{"0.00"},
			wantGrand: "0.00",
		},
		{
			name:      "both blank is skipped",
			rows:      []Item{{Description: "note only"}, {Quantity: "1", UnitPrice: "2"}},
			wantRows:  []string{"", "2.00"},
			wantGrand: "2.00",
		},
		{
			name:      "non-numeric row is skipped",
			rows:      []Item{{Quantity: "two", UnitPrice: "5"}, {Quantity: "1", UnitPrice: "$3"}, {Quantity: "1", UnitPrice: "1"}},
			wantRows:  []string{"", "", "1.00"},
			wantGrand: "1.00",
		},
		{
			name:      "surrounding spaces ignored",
			rows:      []Item{{Quantity: " 2 ", UnitPrice: " 2.5"}},
			wantRows:  []string{"5.00"},
			wantGrand: "5.00",
		},
		{
			name:      "rounds to two decimals",
			rows:      []Item{{Quantity: "1", UnitPrice: "0.005"}, {Quantity: "1", UnitPrice: "0.004"}},
			wantRows:  []string{"0.01", "0.00"},
			wantGrand: "0.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ComputeTotals(tt.rows)
			if !slices.Equal(got.Rows, tt.wantRows) {
				t.Errorf("Rows = %q, want %q", got.Rows, tt.wantRows)
			}
			if got.Grand != tt.wantGrand {
				t.Errorf("Grand = %q, want %q", got.Grand, tt.wantGrand)
			}
		})
	}
}

func TestComputeTotals_Pure(t *testing.T) {
	t.Parallel()

	rows := []Item{{Quantity: "2", UnitPrice: "5", Total: "stale"}}
	first := ComputeTotals(rows)
	second := ComputeTotals(rows)

	if first.Grand != second.Grand || !slices.Equal(first.Rows, second.Rows) {
		t.Errorf("ComputeTotals() not deterministic: %+v vs %+v", first, second)
	}
	if rows[0].Total != "stale" {
		t.Errorf("input mutated: Total = %q", rows[0].Total)
	}
}

func TestTotals_Label(t *testing.T) {
	t.Parallel()

	got := ComputeTotals([]Item{{Quantity: "2", UnitPrice: "5"}}).Label()
	if got != "Total Amount: $10.00" {
		t.Errorf("Label() = %q, want %q", got, "Total Amount: $10.00")
	}
}

func TestTotals_WithTotals(t *testing.T) {
	t.Parallel()

	items := []Item{
		{Quantity: "2", UnitPrice: "5", Total: "old"},
		{Description: "note", Total: "kept"},
	}
	got := ComputeTotals(items).WithTotals(items)

	if got[0].Total != "10.00" {
		t.Errorf("got[0].Total = %q, want 10.00", got[0].Total)
	}
	if got[1].Total != "kept" {
		t.Errorf("got[1].Total = %q, want kept", got[1].Total)
	}
	if items[0].Total != "old" {
		t.Errorf("input mutated: Total = %q", items[0].Total)
	}
}
