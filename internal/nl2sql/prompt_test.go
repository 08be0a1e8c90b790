package nl2sql

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestComposeMessagesOrderAndVerbatimQuestion(t *testing.T) {
	question := "  Show me all female customers from Mumbai'; DROP TABLE customers; --"
	messages := ComposeMessages(SystemPrompt, question)
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d", len(messages))
	}
	if messages[0].Role != RoleSystem || messages[0].Content != SystemPrompt {
		t.Fatalf("messages[0] = %#v", messages[0])
	}
	if messages[1].Role != RoleUser || messages[1].Content != question {
		t.Fatalf("messages[1] = %#v", messages[1])
	}
}

func TestSystemPromptDeclaresSchemaAndRules(t *testing.T) {
	for _, fragment := range []string{
		"CREATE TABLE customers (",
		"customer_id SERIAL PRIMARY KEY",
		"`ILIKE`",
		"`name ILIKE '%arjun%'`",
		"Do NOT use JOINs",
		"SELECT * FROM customers WHERE gender ILIKE 'female' AND location ILIKE 'mumbai';",
		"Your entire response must be only the raw SQL query.",
	} {
		if !strings.Contains(SystemPrompt, fragment) {
			t.Fatalf("SystemPrompt missing %q", fragment)
		}
	}
}

func TestLoadPrompt(t *testing.T) {
	got, err := LoadPrompt("")
	if err != nil || got != SystemPrompt {
		t.Fatalf("LoadPrompt(\"\") = %q, %v", got, err)
	}

	dir := t.TempDir()
	custom := filepath.Join(dir, "prompt.txt")
	if err := os.WriteFile(custom, []byte("Only answer with SQL."), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err = LoadPrompt(custom)
	if err != nil || got != "Only answer with SQL." {
		t.Fatalf("LoadPrompt(custom) = %q, %v", got, err)
	}

	blank := filepath.Join(dir, "blank.txt")
	if err := os.WriteFile(blank, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadPrompt(blank); err == nil {
		t.Fatal("expected error for blank prompt file")
	}
	if _, err := LoadPrompt(filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("expected error for missing prompt file")
	}
}
