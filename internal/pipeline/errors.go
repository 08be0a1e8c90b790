package pipeline

import (
	"errors"
	"fmt"

	"github.com/datawhisperer/datawhisperer/internal/query"
)

var (
	ErrEmptyQuestion = errors.New("query is required")
	ErrUnavailable   = errors.New("database connection not available")
)

// GenerationError covers both a failed model call and a reply holding no SQL.
// Raw is empty when the call itself failed.
type GenerationError struct {
	Err error
	Raw string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Error calling LLM API or parsing response: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type ExecutionError struct {
	SQL string
	Err error
}

func (e *ExecutionError) Error() string {
	var execErr *query.ExecutionError
	if errors.As(e.Err, &execErr) {
		return execErr.Error()
	}
	return (&query.ExecutionError{SQL: e.SQL, Err: e.Err}).Error()
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

type Kind int

const (
	KindOK Kind = iota
	KindInvalid
	KindUnavailable
	KindGeneration
	KindExecution
	// KindInternal covers errors that Ask itself never produces.
	KindInternal
)

// KindOf classifies an error returned by Service.Ask.
func KindOf(err error) Kind {
	var (
		genErr  *GenerationError
		execErr *ExecutionError
	)
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrEmptyQuestion):
		return KindInvalid
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.As(err, &genErr):
		return KindGeneration
	case errors.As(err, &execErr):
		return KindExecution
	default:
		return KindInternal
	}
}

// String returns the metric label for k.
func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalid:
		return "invalid"
	case KindUnavailable:
		return "unavailable"
	case KindGeneration:
		return "generation_failed"
	case KindExecution:
		return "execution_failed"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}
