package migrations

import (
	"strings"
	"testing"
)

func TestCustomersMigrationMatchesPromptSchema(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_customers.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	sql := string(body)
	for _, snippet := range []string{
		"CREATE TABLE IF NOT EXISTS customers",
		"customer_id SERIAL PRIMARY KEY",
		"name VARCHAR(255) NOT NULL",
		"gender VARCHAR(50)",
		"location VARCHAR(255)",
	} {
		if !strings.Contains(sql, snippet) {
			t.Fatalf("migration missing snippet %q", snippet)
		}
	}

	down, err := embeddedFS.ReadFile("sql/000001_customers.down.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(down), "DROP TABLE IF EXISTS customers") {
		t.Fatalf("down migration = %q", down)
	}
}

func TestEmbeddedMigrationsLoad(t *testing.T) {
	items, err := loadMigrations(embeddedFS)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) == 0 || items[0].Version != 1 {
		t.Fatalf("items = %+v", items)
	}
}
