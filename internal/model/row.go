package model

import (
	"math"
	"strconv"
	"strings"
)

// IDColumn is the header that identifies a row.
const IDColumn = "NAME"

// Row is one parsed CSV data line, keyed by header column.
// Columns missing from a short line are absent, not empty.
type Row map[string]string

// ID returns the row identifier cell.
func (r Row) ID() string { return r[IDColumn] }

// Get returns the cell for col and whether the line carried it.
func (r Row) Get(col string) (string, bool) {
	v, ok := r[col]
	return v, ok
}

// Number parses a cell as a finite float. Non-numeric, NaN, infinite or
// absent cells report false.
func (r Row) Number(col string) (float64, bool) {
	v, ok := r[col]
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Clone returns an independent copy.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CartItem is a row selected by the user together with a quantity.
type CartItem struct {
	Row      Row `json:"row"`
	Quantity int `json:"quantity"`
}

// ID returns the identifier of the underlying row.
func (c CartItem) ID() string { return c.Row.ID() }
