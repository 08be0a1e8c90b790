// Package nl2sql turns a natural language question into the chat messages
// sent to a model and pulls the SQL statement back out of its reply.
package nl2sql

import (
	"fmt"
	"os"
	"strings"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// SystemPrompt instructs the model to answer with a single PostgreSQL
// statement over the customers table.
const SystemPrompt = `You are a specialized SQL Code Bot. Your single purpose is to convert a user's question into a single, clean, valid PostgreSQL query for the table provided below.

### PRIMARY DIRECTIVE
You will output ONLY the SQL query required. Nothing else. No comments, no explanations.

### DATABASE SCHEMA
CREATE TABLE customers (
    customer_id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    gender VARCHAR(50),
    location VARCHAR(255)
);

### RULES
1.  For all text comparisons (gender, location, name), you MUST use the ` + "`ILIKE`" + ` operator for case-insensitivity.
2.  For names, use wildcards for partial matches. Example: ` + "`name ILIKE '%arjun%'`" + `.
3.  Do NOT use JOINs. All data is in the ` + "`customers`" + ` table.

### EXAMPLES
* **User:** "Show me all female customers from Mumbai"
* **Your SQL:** SELECT * FROM customers WHERE gender ILIKE 'female' AND location ILIKE 'mumbai';

* **User:** "who is arjun"
* **Your SQL:** SELECT * FROM customers WHERE name ILIKE '%arjun%';

### FINAL OUTPUT
Your entire response must be only the raw SQL query.
`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ComposeMessages returns the system instruction followed by the user's
// question. The question is passed through untouched.
func ComposeMessages(systemPrompt, question string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: question},
	}
}

// LoadPrompt reads a replacement system prompt from path. An empty path
// yields SystemPrompt.
func LoadPrompt(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return SystemPrompt, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return string(raw), nil
}
