package sqldb

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/datawhisperer/datawhisperer/internal/query"
)

func TestDuckDBExecutesGeneratedStatements(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DBConfig{DSN: "duckdb://", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE customers (customer_id INTEGER PRIMARY KEY, name VARCHAR NOT NULL, gender VARCHAR, location VARCHAR)`,
		`INSERT INTO customers VALUES (1, 'Arjun Mehta', 'male', 'Pune'), (2, 'Priya Sharma', 'female', 'Mumbai'), (3, 'Ananya Iyer', 'female', 'mumbai')`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("setup %q: %v", stmt, err)
		}
	}

	executor := NewExecutor(db)
	rows, err := executor.Execute(ctx, "SELECT * FROM customers WHERE name ILIKE '%arjun%';")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(raw) != `[{"customer_id":1,"name":"Arjun Mehta","gender":"male","location":"Pune"}]` {
		t.Fatalf("rows = %s", raw)
	}

	rows, err = executor.Execute(ctx, "SELECT name FROM customers WHERE gender ILIKE 'female' AND location ILIKE 'mumbai' ORDER BY customer_id;")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}

	_, err = executor.Execute(ctx, "SELECT * FROM customer;")
	var execErr *query.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error = %v, want ExecutionError", err)
	}
}
