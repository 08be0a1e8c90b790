// Package sqldb runs generated statements against a database/sql pool.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/datawhisperer/datawhisperer/internal/query"
)

var errNoDatabase = errors.New("database connection not available")

type Executor struct {
	db *sql.DB
}

func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// Execute runs statement verbatim on a connection that is held only for the
// duration of the call. Any failure discards rows read so far.
func (e *Executor) Execute(ctx context.Context, statement string) ([]query.Row, error) {
	if e == nil || e.db == nil {
		return nil, &query.ExecutionError{SQL: statement, Err: errNoDatabase}
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, &query.ExecutionError{SQL: statement, Err: fmt.Errorf("acquire connection: %w", err)}
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, &query.ExecutionError{SQL: statement, Err: err}
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &query.ExecutionError{SQL: statement, Err: fmt.Errorf("query columns: %w", err)}
	}

	result := make([]query.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, &query.ExecutionError{SQL: statement, Err: fmt.Errorf("scan row: %w", err)}
		}
		result = append(result, query.Row{Columns: columns, Values: normalizeValues(values)})
	}
	if err := rows.Err(); err != nil {
		return nil, &query.ExecutionError{SQL: statement, Err: fmt.Errorf("iterate rows: %w", err)}
	}
	return result, nil
}

func normalizeValues(values []any) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		switch typed := value.(type) {
		case []byte:
			normalized[i] = string(typed)
		default:
			normalized[i] = typed
		}
	}
	return normalized
}
