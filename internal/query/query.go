// Package query defines how generated SQL is run and how its rows are
// represented.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

type Executor interface {
	Execute(ctx context.Context, sql string) ([]Row, error)
}

// Row is one result row. Columns and Values are parallel and keep the order
// the database returned them in.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of column. When a column name repeats, the last
// occurrence wins.
func (r Row) Get(column string) (any, bool) {
	for i := len(r.Columns) - 1; i >= 0; i-- {
		if r.Columns[i] == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	seen := make(map[string]struct{}, len(r.Columns))
	for _, column := range r.Columns {
		if _, dup := seen[column]; dup {
			continue
		}
		seen[column] = struct{}{}
		value, _ := r.Get(column)

		key, err := json.Marshal(column)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode column %q: %w", column, err)
		}
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object while keeping its key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object")
	}

	columns := make([]string, 0)
	values := make([]any, 0)
	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return err
		}
		column, ok := token.(string)
		if !ok {
			return fmt.Errorf("row key must be a string")
		}
		var value any
		if err := decoder.Decode(&value); err != nil {
			return fmt.Errorf("decode column %q: %w", column, err)
		}
		columns = append(columns, column)
		values = append(values, value)
	}
	if _, err := decoder.Token(); err != nil {
		return err
	}
	r.Columns = columns
	r.Values = values
	return nil
}

// ExecutionError reports a statement the database refused or could not run.
type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("Error executing SQL query: %v. Generated SQL was: %s", e.Err, e.SQL)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
