package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/datawhisperer/datawhisperer/internal/pipeline"
	"github.com/datawhisperer/datawhisperer/internal/query"
)

const maxQueryBodyBytes = 1 << 20

type queryRequest struct {
	Query string `json:"query"`
}

func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	var request queryRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBodyBytes))
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Query) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_REQUIRED", "query is required", false, nil)
		return
	}
	if deps.Asker == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database connection not available", true, nil)
		return
	}

	answer, err := deps.Asker.Ask(r.Context(), request.Query)
	if err != nil {
		writeAskError(w, r, err)
		return
	}
	if answer.Results == nil {
		answer.Results = []query.Row{}
	}
	writeJSON(w, http.StatusOK, answer)
}

func writeAskError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch pipeline.KindOf(err) {
	case pipeline.KindInvalid:
		writeError(ctx, w, http.StatusBadRequest, "QUERY_REQUIRED", "query is required", false, nil)
	case pipeline.KindUnavailable:
		writeError(ctx, w, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database connection not available", true, nil)
	case pipeline.KindExecution:
		var execErr *pipeline.ExecutionError
		extra := map[string]any{}
		if errors.As(err, &execErr) {
			extra["sql_query"] = execErr.SQL
		}
		writeError(ctx, w, http.StatusBadRequest, "EXECUTION_FAILED", err.Error(), false, extra)
	case pipeline.KindInternal:
		writeError(ctx, w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", false, nil)
	default:
		var genErr *pipeline.GenerationError
		extra := map[string]any{}
		if errors.As(err, &genErr) && genErr.Raw != "" {
			extra["raw_response"] = genErr.Raw
		}
		writeError(ctx, w, http.StatusBadGateway, "GENERATION_FAILED", err.Error(), true, extra)
	}
}
