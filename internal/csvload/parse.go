package csvload

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/Makepad-fr/csvboard/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed CSV document: header columns in source order and
// one Row per data line.
type Table struct {
	Columns []string
	Rows    []model.Row
}

// Parse reads CSV text whose first record is the header. Empty lines are
// skipped; a line holding only spaces or a quoted "" is a record. A line shorter than the header yields a row without the missing
// keys; a line longer than the header is a diagnostic. Any diagnostic fails
// the whole parse.
func Parse(r io.Reader) (Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	return parseBytes(b)
}

func parseBytes(b []byte) (Table, error) {
	b = bytes.TrimPrefix(b, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(b))
	cr.FieldsPerRecord = -1

	var (
		header []string
		rows   []model.Row
		diags  []Diagnostic
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			diags = append(diags, diagnosticFrom(err))
			break
		}
		if header == nil {
			header = rec
			continue
		}
		if len(rec) > len(header) {
			line, col := cr.FieldPos(len(header))
			diags = append(diags, Diagnostic{
				Line:    line,
				Column:  col,
				Message: fmt.Sprintf("too many fields: expected %d, got %d", len(header), len(rec)),
			})
			continue
		}
		row := make(model.Row, len(rec))
		for i, v := range rec {
			row[header[i]] = v
		}
		rows = append(rows, row)
	}

	if len(diags) > 0 {
		return Table{}, &ParseError{Diagnostics: diags}
	}
	if rows == nil {
		rows = []model.Row{}
	}
	return Table{Columns: header, Rows: rows}, nil
}

func diagnosticFrom(err error) Diagnostic {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return Diagnostic{Line: pe.Line, Column: pe.Column, Message: pe.Err.Error()}
	}
	return Diagnostic{Message: err.Error()}
}
