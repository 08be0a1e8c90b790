package nl2sql

import (
	"fmt"
	"regexp"
)

// selectPattern matches the earliest SELECT through the first semicolon that
// follows it, across newlines and in any letter case.
var selectPattern = regexp.MustCompile(`(?is)SELECT.*?;`)

type Extractor interface {
	Extract(raw string) (string, error)
}

type ExtractorFunc func(raw string) (string, error)

func (f ExtractorFunc) Extract(raw string) (string, error) {
	return f(raw)
}

// PatternExtractor pulls the first span matching Pattern out of a reply.
// A nil Pattern uses the default SELECT ... ; pattern.
type PatternExtractor struct {
	Pattern *regexp.Regexp
}

func (e PatternExtractor) Extract(raw string) (string, error) {
	pattern := e.Pattern
	if pattern == nil {
		pattern = selectPattern
	}
	match := pattern.FindString(raw)
	if match == "" {
		return "", &ExtractionError{Raw: raw}
	}
	return match, nil
}

// ExtractSQL returns the first SELECT statement in raw, terminator included.
func ExtractSQL(raw string) (string, error) {
	return PatternExtractor{}.Extract(raw)
}

// ExtractionError reports a model reply that held no recognizable statement.
type ExtractionError struct {
	Raw string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("the model did not return a valid SQL query. Response was: %s", e.Raw)
}
