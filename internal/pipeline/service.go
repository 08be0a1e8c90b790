// Package pipeline answers a question by asking a model for SQL and running
// the statement it returns.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/datawhisperer/datawhisperer/internal/llm"
	"github.com/datawhisperer/datawhisperer/internal/nl2sql"
	"github.com/datawhisperer/datawhisperer/internal/observability"
	"github.com/datawhisperer/datawhisperer/internal/query"
)

// Service is safe for concurrent use when its collaborators are.
// Executor must be left nil, not a typed nil, when no database is reachable.
type Service struct {
	Translator   llm.ChatCompleter
	Executor     query.Executor
	Extractor    nl2sql.Extractor
	SystemPrompt string
	Model        string
	Logger       *slog.Logger
}

type Answer struct {
	SQL     string      `json:"sql_query"`
	Results []query.Row `json:"results"`
}

func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	answer, err := s.ask(ctx, question)
	observability.ObserveAsk(KindOf(err).String())
	return answer, err
}

func (s *Service) ask(ctx context.Context, question string) (Answer, error) {
	logger := s.logger().With(slog.String("trace_id", observability.TraceIDFromContext(ctx)))

	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if s.Executor == nil {
		logger.WarnContext(ctx, "ask rejected: database unavailable")
		return Answer{}, ErrUnavailable
	}
	if s.Translator == nil {
		return Answer{}, &GenerationError{Err: errors.New("no language model configured")}
	}

	systemPrompt := s.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = nl2sql.SystemPrompt
	}
	messages := nl2sql.ComposeMessages(systemPrompt, question)

	start := time.Now()
	raw, err := s.Translator.Complete(ctx, s.Model, messages)
	observability.ObserveLLMLatency(time.Since(start))
	if err != nil {
		logger.WarnContext(ctx, "chat completion failed", slog.String("model", s.Model), slog.Any("error", err))
		return Answer{}, &GenerationError{Err: err}
	}
	logger.DebugContext(ctx, "chat completion received",
		slog.String("model", s.Model),
		slog.Int("reply_len", len(raw)),
		slog.Duration("duration", time.Since(start)),
	)

	extractor := s.Extractor
	if extractor == nil {
		extractor = nl2sql.PatternExtractor{}
	}
	statement, err := extractor.Extract(raw)
	if err != nil {
		logger.WarnContext(ctx, "no sql in model reply", slog.String("raw_response", raw))
		return Answer{}, &GenerationError{Err: err, Raw: raw}
	}
	logger.DebugContext(ctx, "sql extracted", slog.String("sql", statement))

	start = time.Now()
	rows, err := s.Executor.Execute(ctx, statement)
	elapsed := time.Since(start)
	if err != nil {
		observability.ObserveQuery(-1, elapsed)
		logger.WarnContext(ctx, "sql execution failed", slog.String("sql", statement), slog.Any("error", err))
		return Answer{}, &ExecutionError{SQL: statement, Err: err}
	}
	observability.ObserveQuery(len(rows), elapsed)
	if rows == nil {
		rows = []query.Row{}
	}
	logger.DebugContext(ctx, "sql executed",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", elapsed),
	)

	return Answer{SQL: statement, Results: rows}, nil
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return observability.DiscardLogger()
	}
	return s.Logger
}
