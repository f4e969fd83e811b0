package sqlgen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoRows is returned when rendering a statement with no value tuples.
	ErrNoRows = errors.New("insert has no rows")
	// ErrColumnCount is returned when a row does not match the column list.
	ErrColumnCount = errors.New("value count does not match column count")
)

// Insert accumulates value tuples for one multi-row INSERT statement.
type Insert struct {
	Table   string
	Columns []string
	rows    [][]Value
}

// NewInsert creates an empty statement for table with the given ordered columns.
func NewInsert(table string, columns ...string) *Insert {
	return &Insert{Table: table, Columns: columns}
}

// AddRow appends one value tuple. Values must follow the column order.
func (i *Insert) AddRow(values ...Value) error {
	if len(values) != len(i.Columns) {
		return fmt.Errorf("%w: table %s has %d columns, got %d values",
			ErrColumnCount, i.Table, len(i.Columns), len(values))
	}
	i.rows = append(i.rows, values)
	return nil
}

// Len returns the number of tuples added so far.
func (i *Insert) Len() int {
	return len(i.rows)
}

// String renders the statement. Every tuple but the last ends in a comma;
// the last ends in a semicolon.
func (i *Insert) String() (string, error) {
	if len(i.rows) == 0 {
		return "", ErrNoRows
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES\n", i.Table, strings.Join(i.Columns, ", "))

	for n, row := range i.rows {
		literals := make([]string, len(row))
		for j, v := range row {
			literals[j] = v.Literal()
		}
		b.WriteString("  (")
		b.WriteString(strings.Join(literals, ", "))
		b.WriteString(")")
		if n == len(i.rows)-1 {
			b.WriteString(";")
		} else {
			b.WriteString(",\n")
		}
	}

	return b.String(), nil
}
