// Package mapping is the single source of truth for the translation between
// form field names (camelCase, as the listing form posts them) and persisted
// column names (snake_case), including the type coercion applied per field.
// Nothing outside this package renames or coerces a listing field.
package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vroomauto/marketplace/internal/domain"
)

// Kind selects the coercion applied to a raw form value.
type Kind int

const (
	// String stores the trimmed value, NULL when empty.
	String Kind = iota
	// Int parses the value as an integer. Empty or unparseable optional
	// values become NULL — never zero. Required fields must parse.
	Int
	// Float parses the value as a decimal number. A comma decimal separator
	// is accepted ("5,6" parses as 5.6) because the form is French-locale.
	Float
	// Bool passes a typed boolean through unchanged.
	Bool
)

// Field binds one form field to its persisted column.
type Field struct {
	Draft    string // form field name, camelCase
	Column   string // persisted column name, snake_case
	Kind     Kind
	Required bool
}

// CarFields maps the flat parent listing row: generalInfo + priceSection +
// description. Enum-valued fields (status, seller_type, warranty) must be
// translated through the bijections in enums.go before Apply sees them.
var CarFields = []Field{
	{Draft: "title", Column: "title", Kind: String, Required: true},
	{Draft: "brand", Column: "brand", Kind: String, Required: true},
	{Draft: "model", Column: "model", Kind: String, Required: true},
	{Draft: "year", Column: "year", Kind: Int, Required: true},
	{Draft: "mileage", Column: "mileage", Kind: Int, Required: true},
	{Draft: "trim", Column: "trim", Kind: String},
	{Draft: "bodyType", Column: "body_type", Kind: String},
	{Draft: "doors", Column: "doors", Kind: Int},
	{Draft: "seats", Column: "seats", Kind: Int},
	{Draft: "exteriorColor", Column: "exterior_color", Kind: String},
	{Draft: "interiorColor", Column: "interior_color", Kind: String},
	{Draft: "status", Column: "status", Kind: String, Required: true},
	{Draft: "sellerType", Column: "seller_type", Kind: String, Required: true},
	{Draft: "city", Column: "city", Kind: String},
	{Draft: "postalCode", Column: "postal_code", Kind: String},
	{Draft: "price", Column: "price", Kind: Int, Required: true},
	{Draft: "priceNote", Column: "price_note", Kind: String},
	{Draft: "availability", Column: "availability", Kind: String},
	{Draft: "warranty", Column: "warranty", Kind: String},
	{Draft: "financing", Column: "financing", Kind: Bool},
	{Draft: "tradeIn", Column: "trade_in", Kind: Bool},
	{Draft: "firstHand", Column: "first_hand", Kind: Bool},
	{Draft: "description", Column: "description", Kind: String, Required: true},
}

// TechnicalFields maps the technical-details child row.
var TechnicalFields = []Field{
	{Draft: "fuelType", Column: "fuel_type", Kind: String, Required: true},
	{Draft: "fiscalPower", Column: "fiscal_power", Kind: Int},
	{Draft: "dinPower", Column: "din_power", Kind: Int},
	{Draft: "displacement", Column: "displacement", Kind: Int},
	{Draft: "transmission", Column: "transmission", Kind: String, Required: true},
	{Draft: "gears", Column: "gears", Kind: Int},
	{Draft: "driveType", Column: "drive_type", Kind: String},
	{Draft: "euroStandard", Column: "euro_standard", Kind: String},
	{Draft: "consumption", Column: "consumption", Kind: Float},
	{Draft: "co2", Column: "co2", Kind: Int},
}

// Apply coerces a map of raw form values (keyed by draft field name) into
// pgx.NamedArgs keyed by column name, per the table. String values are
// coerced by Kind; typed values (bool, nil) pass through. Fields absent from
// values are skipped entirely.
//
// Empty or unparseable optional numerics map to nil (SQL NULL). A required
// field that is empty or fails to parse yields a domain.ErrValidation error
// naming the field.
func Apply(table []Field, values map[string]any) (pgx.NamedArgs, error) {
	args := pgx.NamedArgs{}
	for _, f := range table {
		raw, ok := values[f.Draft]
		if !ok {
			continue
		}
		s, isString := raw.(string)
		if !isString {
			args[f.Column] = raw
			continue
		}
		v, err := coerce(f, strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		args[f.Column] = v
	}
	return args, nil
}

// Columns returns the column names of the table, in declaration order.
func Columns(table []Field) []string {
	cols := make([]string, len(table))
	for i, f := range table {
		cols[i] = f.Column
	}
	return cols
}

// Placeholders returns "@col" named-argument placeholders matching Columns.
func Placeholders(table []Field) []string {
	ph := make([]string, len(table))
	for i, f := range table {
		ph[i] = "@" + f.Column
	}
	return ph
}

func coerce(f Field, s string) (any, error) {
	if s == "" {
		if f.Required {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, f.Draft)
		}
		return nil, nil
	}

	switch f.Kind {
	case Int:
		n, err := strconv.Atoi(s)
		if err != nil {
			if f.Required {
				return nil, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, f.Draft)
			}
			return nil, nil
		}
		return n, nil
	case Float:
		fl, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			if f.Required {
				return nil, fmt.Errorf("%w: %s must be a number", domain.ErrValidation, f.Draft)
			}
			return nil, nil
		}
		return fl, nil
	default:
		return s, nil
	}
}

// OptionalInt parses a form value into *int: nil when empty or unparseable.
func OptionalInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

// OptionalFloat parses a form value into *float64: nil when empty or
// unparseable. Accepts a comma decimal separator.
func OptionalFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return nil
	}
	return &f
}
