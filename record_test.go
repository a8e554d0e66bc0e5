package invoice

// Notes:
// - ParseRecord's schema compile error path is not tested: the schema is
//   embedded and compiled once, so it cannot fail at run time.
// - LoadRecord's non-ENOENT read errors (permissions) are platform dependent
//   and not tested.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

const validRecordJSON = `{
    "Invoice Number": "007",
    "Invoice Date": "2024-05-01",
    "Billing Address": "ACME",
    "Shipping Address": "Dock",
    "Instructions": "",
    "Items": [
        {"Quantity": "2", "Description": "Widget", "Unit Price": "5.00", "Total": "10.00"}
    ],
    "Total Amount": "Total Amount: $10.00"
}`

// ---------------------------------------------------------------------------
// TestParseRecord - Schema validation and decoding
// ---------------------------------------------------------------------------

func TestParseRecord_Valid(t *testing.T) {
	t.Parallel()

	rec, err := ParseRecord([]byte(validRecordJSON))
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}

	if rec.Number != "007" {
		t.Errorf("Number = %q, want 007", rec.Number)
	}
	if rec.Date != "2024-05-01" {
		t.Errorf("Date = %q, want 2024-05-01", rec.Date)
	}
	if len(rec.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(rec.Items))
	}
	want := Item{Quantity: "2", Description: "Widget", UnitPrice: "5.00", Total: "10.00"}
	if rec.Items[0] != want {
		t.Errorf("Items[0] = %+v, want %+v", rec.Items[0], want)
	}
	if rec.TotalAmount != "Total Amount: $10.00" {
		t.Errorf("TotalAmount = %q", rec.TotalAmount)
	}
}

func TestParseRecord_EmptyItems(t *testing.T) {
	t.Parallel()

	data := strings.Replace(validRecordJSON,
		`{"Quantity": "2", "Description": "Widget", "Unit Price": "5.00", "Total": "10.00"}`, "", 1)
	rec, err := ParseRecord([]byte(data))
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if len(rec.Items) != 0 {
		t.Errorf("len(Items) = %d, want 0", len(rec.Items))
	}
}

func TestParseRecord_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		data      string
		wantErr   error
		wantField string
	}{
		{
			name:    "malformed JSON",
			data:    `{"Invoice Number": `,
			wantErr: ErrRecordParse,
		},
		{
			name:    "not an object",
			data:    `[1, 2]`,
			wantErr: ErrRecordParse,
		},
		{
			name:      "missing top-level key",
			data:      strings.Replace(validRecordJSON, `"Instructions": "",`, "", 1),
			wantErr:   ErrMissingField,
			wantField: `"Instructions"`,
		},
		{
			name:      "missing total amount",
			data:      strings.Replace(validRecordJSON, `,
    "Total Amount": "Total Amount: $10.00"`, "", 1),
			wantErr:   ErrMissingField,
			wantField: `"Total Amount"`,
		},
		{
			name:      "missing item key",
			data:      strings.Replace(validRecordJSON, `, "Total": "10.00"`, "", 1),
			wantErr:   ErrMissingField,
			wantField: `"Items.0.Total"`,
		},
		{
			name:    "number instead of string",
			data:    strings.Replace(validRecordJSON, `"Quantity": "2"`, `"Quantity": 2`, 1),
			wantErr: ErrRecordParse,
		},
		{
			name:    "items not an array",
			data:    strings.Replace(validRecordJSON, `"Items": [`, `"Items": "none", "Unused": [`, 1),
			wantErr: ErrRecordParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRecord([]byte(tt.data))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseRecord() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantField != "" && !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q should name field %s", err, tt.wantField)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadRecord - Reading from disk
// ---------------------------------------------------------------------------

func TestLoadRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "invoice_007.json", validRecordJSON)

	rec, err := LoadRecord(path)
	if err != nil {
		t.Fatalf("LoadRecord() error = %v", err)
	}
	if rec.Number != "007" {
		t.Errorf("Number = %q, want 007", rec.Number)
	}
}

func TestLoadRecord_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "invoice_404.json")
	_, err := LoadRecord(path)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("LoadRecord() error = %v, want %v", err, ErrRecordNotFound)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadRecord() error = %v, want it to wrap fs.ErrNotExist", err)
	}
	if err != nil && !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the path", err)
	}
}

func TestLoadRecord_InvalidNamesPath(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "broken.json", "{")
	_, err := LoadRecord(path)
	if !errors.Is(err, ErrRecordParse) {
		t.Fatalf("LoadRecord() error = %v, want %v", err, ErrRecordParse)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q should name the path", err)
	}
}

// ---------------------------------------------------------------------------
// TestItemIsEmpty
// ---------------------------------------------------------------------------

func TestItemIsEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		item Item
		want bool
	}{
		{"zero value", Item{}, true},
		{"whitespace only", Item{Quantity: " ", Description: "\t"}, true},
		{"description only", Item{Description: "Widget"}, false},
		{"total only", Item{Total: "0.00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.item.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
