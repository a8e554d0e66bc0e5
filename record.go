package invoice

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Record is one invoice as written by the collector and read by the merger.
// JSON keys match the on-disk format, spaces included.
type Record struct {
	Number          string `json:"Invoice Number"`
	Date            string `json:"Invoice Date"`
	BillingAddress  string `json:"Billing Address"`
	ShippingAddress string `json:"Shipping Address"`
	Instructions    string `json:"Instructions"`
	Items           []Item `json:"Items"`
	TotalAmount     string `json:"Total Amount"`
}

// Item is one line of the items table. Values are display strings; the
// merger never parses them.
type Item struct {
	Quantity    string `json:"Quantity"`
	Description string `json:"Description"`
	UnitPrice   string `json:"Unit Price"`
	Total       string `json:"Total"`
}

// IsEmpty reports whether every field of the item is blank.
func (it Item) IsEmpty() bool {
	return strings.TrimSpace(it.Quantity) == "" &&
		strings.TrimSpace(it.Description) == "" &&
		strings.TrimSpace(it.UnitPrice) == "" &&
		strings.TrimSpace(it.Total) == ""
}

//go:embed schema/record.schema.json
var recordSchemaJSON string

var recordSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(recordSchemaJSON))
})

// LoadRecord reads and validates the record at path.
func LoadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- record path is user-provided
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrRecordNotFound, path, err)
		}
		return nil, fmt.Errorf("reading record %s: %w", path, err)
	}

	rec, err := ParseRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// ParseRecord decodes a record and checks it against the record schema.
// A missing key yields ErrMissingField; anything else that does not fit
// the schema yields ErrRecordParse.
func ParseRecord(data []byte) (*Record, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrRecordParse)
	}

	schema, err := recordSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling record schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordParse, err)
	}
	if !result.Valid() {
		return nil, schemaError(result.Errors())
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordParse, err)
	}
	return &rec, nil
}

// schemaError converts validation failures to a sentinel error. Missing
// keys win over type errors so the caller sees which field to add.
func schemaError(errs []gojsonschema.ResultError) error {
	var problems []string
	for _, e := range errs {
		if e.Type() == "required" {
			return fmt.Errorf("%w: %q", ErrMissingField, fieldName(e))
		}
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%w: %s", ErrRecordParse, strings.Join(problems, "; "))
}

// fieldName returns the path of a missing property, e.g. "Items.0.Total".
func fieldName(e gojsonschema.ResultError) string {
	prop, _ := e.Details()["property"].(string)
	if f := e.Field(); f != "" && f != gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		return f + "." + prop
	}
	return prop
}
