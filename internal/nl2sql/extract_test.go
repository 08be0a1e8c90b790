package nl2sql

import (
	"errors"
	"regexp"
	"testing"
)

func TestExtractSQLReturnsSpanExactly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare statement",
			raw:  "SELECT * FROM customers WHERE gender ILIKE 'female' AND location ILIKE 'mumbai';",
			want: "SELECT * FROM customers WHERE gender ILIKE 'female' AND location ILIKE 'mumbai';",
		},
		{
			name: "surrounded by prose",
			raw:  "Sure! Here is the query:\nSELECT * FROM customers WHERE name ILIKE '%arjun%';\nLet me know if you need more.",
			want: "SELECT * FROM customers WHERE name ILIKE '%arjun%';",
		},
		{
			name: "multiline",
			raw:  "```sql\nSELECT name,\n       location\nFROM customers\nWHERE location ILIKE 'pune';\n```",
			want: "SELECT name,\n       location\nFROM customers\nWHERE location ILIKE 'pune';",
		},
		{
			name: "lowercase keyword",
			raw:  "select count(*) from customers;",
			want: "select count(*) from customers;",
		},
		{
			name: "stops at first semicolon",
			raw:  "SELECT 1; SELECT 2;",
			want: "SELECT 1;",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractSQL(tc.raw)
			if err != nil {
				t.Fatalf("ExtractSQL() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("ExtractSQL() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractSQLFailsWithoutStatement(t *testing.T) {
	for _, raw := range []string{
		"I'm sorry, I can only help with customer questions.",
		"SELECT * FROM customers",
		"",
	} {
		_, err := ExtractSQL(raw)
		var extractionErr *ExtractionError
		if !errors.As(err, &extractionErr) {
			t.Fatalf("ExtractSQL(%q) error = %v, want ExtractionError", raw, err)
		}
		if extractionErr.Raw != raw {
			t.Fatalf("Raw = %q, want %q", extractionErr.Raw, raw)
		}
	}
}

func TestPatternExtractorCustomPattern(t *testing.T) {
	extractor := PatternExtractor{Pattern: regexp.MustCompile(`(?is)WITH.*?;`)}
	got, err := extractor.Extract("WITH x AS (SELECT 1) SELECT * FROM x;")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "WITH x AS (SELECT 1) SELECT * FROM x;" {
		t.Fatalf("Extract() = %q", got)
	}
}

func TestExtractorFunc(t *testing.T) {
	var extractor Extractor = ExtractorFunc(func(raw string) (string, error) {
		return raw + ";", nil
	})
	got, err := extractor.Extract("SELECT 1")
	if err != nil || got != "SELECT 1;" {
		t.Fatalf("Extract() = %q, %v", got, err)
	}
}
